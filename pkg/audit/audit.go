// Package audit checks the cached balance pairs against the ledger and
// repairs them.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chris/split-ledger/pkg/balances"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/storage"
)

// ErrConsistency is matched by every ConsistencyError.
var ErrConsistency = errors.New("balance cache diverged from ledger")

// ErrAuditInProgress is returned when another instance holds the group's audit lock.
var ErrAuditInProgress = errors.New("audit already in progress")

// ErrGroupBusy is returned by Verify when commits keep landing on the group
// while it is read.
var ErrGroupBusy = errors.New("group changed while it was being verified")

const verifyAttempts = 3

// ConsistencyError reports the pairs whose cached amount disagreed with a
// replay of the ledger.
type ConsistencyError struct {
	GroupID string
	Drifts  []balances.Drift
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("group %s: %d balance pairs diverged from ledger", e.GroupID, len(e.Drifts))
}

func (e *ConsistencyError) Is(target error) bool {
	return target == ErrConsistency
}

// Report is the outcome of auditing one group.
type Report struct {
	GroupID  string               `json:"group_id"`
	Pairs    []models.BalancePair `json:"pairs"`
	Drifts   []balances.Drift     `json:"-"`
	Repaired bool                 `json:"repaired"`
}

// Auditor runs the recompute-from-ledger path.
type Auditor struct {
	Store  storage.AuditStore
	Locker Locker
	Logger *slog.Logger
}

// New creates an Auditor. locker may be nil when only one instance runs audits.
func New(store storage.AuditStore, locker Locker, logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{Store: store, Locker: locker, Logger: logger}
}

// Recompute replays the group's ledger, replaces its cached pairs with the
// result, and reports any drift. The rebuild always happens; when drift was
// found the returned error is a *ConsistencyError alongside the report.
func (a *Auditor) Recompute(ctx context.Context, groupID string) (*Report, error) {
	unlock, err := a.lock(ctx, groupID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	cached, rebuilt, err := a.Store.RebuildGroupBalances(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild balances for group %s: %w", groupID, err)
	}

	report := &Report{GroupID: groupID, Pairs: rebuilt, Drifts: balances.Compare(cached, rebuilt), Repaired: true}
	if len(report.Drifts) == 0 {
		a.Logger.Info("balance audit clean", "group_id", groupID, "pairs", len(rebuilt))
		return report, nil
	}

	a.logDrifts(groupID, report.Drifts)
	return report, &ConsistencyError{GroupID: groupID, Drifts: report.Drifts}
}

// Verify compares the cached pairs with a replay of the ledger without
// writing anything. It takes no lock, so a read that races a commit is
// retried rather than reported as drift.
func (a *Auditor) Verify(ctx context.Context, groupID string) (*Report, error) {
	for attempt := 0; attempt < verifyAttempts; attempt++ {
		entries, cached, stable, err := a.snapshot(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if !stable {
			a.Logger.Debug("group changed during verify", "group_id", groupID, "attempt", attempt+1)
			continue
		}

		rebuilt := balances.Replay(entries)
		report := &Report{GroupID: groupID, Pairs: rebuilt, Drifts: balances.Compare(cached, rebuilt)}
		if len(report.Drifts) == 0 {
			return report, nil
		}

		a.logDrifts(groupID, report.Drifts)
		return report, &ConsistencyError{GroupID: groupID, Drifts: report.Drifts}
	}
	return nil, fmt.Errorf("group %s: %w", groupID, ErrGroupBusy)
}

// snapshot reads the ledger on both sides of the pair read. Entries are
// append-only and a commit writes its entries and pair deltas together, so an
// unchanged ledger means the pairs were read at the state the entries describe.
func (a *Auditor) snapshot(ctx context.Context, groupID string) ([]models.LedgerEntry, []models.BalancePair, bool, error) {
	before, err := a.Store.ListEntriesByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to list ledger entries for group %s: %w", groupID, err)
	}
	cached, err := a.Store.ListPairsForGroup(ctx, groupID)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to list balance pairs for group %s: %w", groupID, err)
	}
	after, err := a.Store.ListEntriesByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to list ledger entries for group %s: %w", groupID, err)
	}
	return before, cached, sameLedger(before, after), nil
}

func sameLedger(a, b []models.LedgerEntry) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || a[len(a)-1].EntryID == b[len(b)-1].EntryID
}

// RecomputeAll recomputes every group. A group that fails does not stop the
// others; the errors are joined.
func (a *Auditor) RecomputeAll(ctx context.Context) ([]*Report, error) {
	groups, err := a.Store.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var reports []*Report
	var errs []error
	for _, g := range groups {
		report, err := a.Recompute(ctx, g)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return reports, errors.Join(errs...)
}

func (a *Auditor) logDrifts(groupID string, drifts []balances.Drift) {
	for _, d := range drifts {
		a.Logger.Error("balance pair drift detected",
			"group_id", groupID,
			"user_a", d.Key.UserA,
			"user_b", d.Key.UserB,
			"cached", d.Cached,
			"expected", d.Expected,
		)
	}
}

func (a *Auditor) lock(ctx context.Context, groupID string) (func(), error) {
	if a.Locker == nil {
		return func() {}, nil
	}
	release, err := a.Locker.Lock(ctx, "audit:"+groupID)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := release(context.Background()); err != nil {
			a.Logger.Warn("failed to release audit lock", "group_id", groupID, "error", err)
		}
	}, nil
}
