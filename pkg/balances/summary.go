package balances

import (
	"sort"

	"github.com/chris/split-ledger/pkg/models"
)

// Summarize builds a user's balance view from the pairs involving them. The
// same counterparty in several groups collapses into one net line.
func Summarize(userID string, pairs []models.BalancePair) models.UserBalance {
	net := make(map[string]int64)
	for _, p := range pairs {
		switch userID {
		case p.UserA:
			net[p.UserB] += p.NetAmount
		case p.UserB:
			net[p.UserA] -= p.NetAmount
		}
	}

	result := models.UserBalance{UserID: userID, Owes: []models.Counterparty{}, Owed: []models.Counterparty{}}
	for other, amount := range net {
		switch {
		case amount > 0:
			result.Owes = append(result.Owes, models.Counterparty{UserID: other, Amount: amount})
		case amount < 0:
			result.Owed = append(result.Owed, models.Counterparty{UserID: other, Amount: -amount})
		}
	}
	sortCounterparties(result.Owes)
	sortCounterparties(result.Owed)
	return result
}

func sortCounterparties(c []models.Counterparty) {
	sort.Slice(c, func(i, j int) bool {
		if c[i].Amount != c[j].Amount {
			return c[i].Amount > c[j].Amount
		}
		return c[i].UserID < c[j].UserID
	})
}

// Drift is one pair whose cached amount differs from the ledger replay.
type Drift struct {
	Key      PairKey
	Cached   int64
	Expected int64
}

// Compare lists the pairs where cached and rebuilt disagree. A pair missing
// on one side counts as zero.
func Compare(cached, rebuilt []models.BalancePair) []Drift {
	seen := make(map[PairKey]int64, len(cached))
	for _, p := range cached {
		seen[KeyOf(p)] += p.NetAmount
	}
	expected := make(map[PairKey]int64, len(rebuilt))
	for _, p := range rebuilt {
		expected[KeyOf(p)] += p.NetAmount
	}

	var drifts []Drift
	for key, want := range expected {
		if got := seen[key]; got != want {
			drifts = append(drifts, Drift{Key: key, Cached: got, Expected: want})
		}
	}
	for key, got := range seen {
		if _, ok := expected[key]; !ok && got != 0 {
			drifts = append(drifts, Drift{Key: key, Cached: got, Expected: 0})
		}
	}

	sort.Slice(drifts, func(i, j int) bool {
		a, b := drifts[i].Key, drifts[j].Key
		if a.GroupID != b.GroupID {
			return a.GroupID < b.GroupID
		}
		if a.UserA != b.UserA {
			return a.UserA < b.UserA
		}
		return a.UserB < b.UserB
	})
	return drifts
}
