package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/chris/split-ledger/pkg/audit"
	"github.com/chris/split-ledger/pkg/balances"
	"github.com/stretchr/testify/assert"
)

func TestOnlyDrift(t *testing.T) {
	drift := &audit.ConsistencyError{GroupID: "g1"}

	assert.True(t, onlyDrift(drift))
	assert.True(t, onlyDrift(errors.Join(drift, fmt.Errorf("g2: %w", audit.ErrAuditInProgress))))
	assert.False(t, onlyDrift(errors.Join(drift, errors.New("dynamodb throttled"))))
	assert.False(t, onlyDrift(errors.New("boom")))
}

func TestSummarize(t *testing.T) {
	reports := []*audit.Report{
		{GroupID: "g1"},
		{GroupID: "g2", Drifts: make([]balances.Drift, 2)},
	}

	got := summarize(reports)

	assert.Equal(t, AuditResult{Groups: 2, DriftedGroups: 1, DriftedPairs: 2}, got)
}
