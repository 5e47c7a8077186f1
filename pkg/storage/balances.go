package storage

import (
	"context"

	"github.com/chris/split-ledger/pkg/models"
)

// BalanceReader defines the interface for reading the cached balance pairs.
// Zero pairs may be omitted.
type BalanceReader interface {
	ListPairsForUser(ctx context.Context, userID string) ([]models.BalancePair, error)
	ListPairsForGroup(ctx context.Context, groupID string) ([]models.BalancePair, error)
}

// BalanceRepairer rebuilds a group's cached pairs from its ledger.
type BalanceRepairer interface {
	// RebuildGroupBalances replays the group's ledger and replaces its cached
	// pairs with the result, atomically with respect to commits on the group.
	// It returns the pairs as they were cached before the rebuild and the
	// rebuilt pairs.
	RebuildGroupBalances(ctx context.Context, groupID string) (cached, rebuilt []models.BalancePair, err error)
}
