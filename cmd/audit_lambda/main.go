package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/split-ledger/pkg/audit"
	"github.com/chris/split-ledger/pkg/bootstrap"
	"github.com/chris/split-ledger/pkg/config"
)

var auditor *audit.Auditor

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Connections live for the lifetime of the execution environment.
	store, _, err := bootstrap.OpenStore(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	locker, _ := bootstrap.NewLocker(cfg)

	auditor = audit.New(store, locker, slog.Default())
}

// AuditEvent optionally narrows a run to one group.
type AuditEvent struct {
	GroupID string `json:"group_id,omitempty"`
}

// AuditResult summarizes one run.
type AuditResult struct {
	Groups        int `json:"groups"`
	DriftedGroups int `json:"drifted_groups"`
	DriftedPairs  int `json:"drifted_pairs"`
}

// HandleRequest is triggered by an EventBridge Schedule. It rebuilds every
// group's balances from the ledger. Drift is repaired and reported; only
// infrastructure failures fail the invocation.
func HandleRequest(ctx context.Context, event AuditEvent) (AuditResult, error) {
	slog.Info("starting balance audit", "group_id", event.GroupID)

	var (
		reports []*audit.Report
		err     error
	)
	if event.GroupID != "" {
		var report *audit.Report
		report, err = auditor.Recompute(ctx, event.GroupID)
		if report != nil {
			reports = append(reports, report)
		}
	} else {
		reports, err = auditor.RecomputeAll(ctx)
	}

	result := summarize(reports)
	slog.Info("balance audit finished", "groups", result.Groups, "drifted_groups", result.DriftedGroups, "drifted_pairs", result.DriftedPairs)

	if err != nil && !onlyDrift(err) {
		return result, err
	}
	return result, nil
}

func summarize(reports []*audit.Report) AuditResult {
	result := AuditResult{Groups: len(reports)}
	for _, r := range reports {
		if len(r.Drifts) > 0 {
			result.DriftedGroups++
			result.DriftedPairs += len(r.Drifts)
		}
	}
	return result
}

// onlyDrift reports whether every error joined into err is a repaired
// consistency error or a lock held by a concurrent run.
func onlyDrift(err error) bool {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			if !onlyDrift(e) {
				return false
			}
		}
		return true
	}
	return errors.Is(err, audit.ErrConsistency) || errors.Is(err, audit.ErrAuditInProgress)
}

func main() {
	lambda.Start(HandleRequest)
}
