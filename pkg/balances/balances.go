// Package balances maintains the net-balance view derived from ledger entries.
//
// Every entry (debtor D, creditor C, amount A) touches exactly one pair, keyed
// by the group and the two users in byte-wise order. The pair's net amount is
// positive when the first user owes the second. Applying an entry is O(1) and
// locks only that pair, so entries for unrelated pairs never contend.
//
// The cache is never the source of truth: Replay rebuilds it from the ledger,
// and Compare reports any divergence between the two.
package balances

import (
	"sort"
	"sync"

	"github.com/chris/split-ledger/pkg/models"
)

// PairKey identifies a balance pair. UserA sorts before UserB.
type PairKey struct {
	GroupID string
	UserA   string
	UserB   string
}

// NormalizeKey returns the pair touched by a debt from debtor to creditor,
// along with the signed delta to add to that pair's net amount.
func NormalizeKey(groupID, debtor, creditor string, amount int64) (PairKey, int64) {
	if debtor < creditor {
		return PairKey{GroupID: groupID, UserA: debtor, UserB: creditor}, amount
	}
	return PairKey{GroupID: groupID, UserA: creditor, UserB: debtor}, -amount
}

// KeyOf returns the key of an existing pair.
func KeyOf(p models.BalancePair) PairKey {
	return PairKey{GroupID: p.GroupID, UserA: p.UserA, UserB: p.UserB}
}

// Delta is the signed change one entry makes to its pair.
type Delta struct {
	Key    PairKey
	Amount int64
}

// Deltas folds entries into one delta per pair, in first-touch order.
func Deltas(entries []models.LedgerEntry) []Delta {
	index := make(map[PairKey]int)
	var out []Delta
	for _, e := range entries {
		key, amount := NormalizeKey(e.GroupID, e.DebtorUserID, e.CreditorUserID, e.Amount)
		if i, ok := index[key]; ok {
			out[i].Amount += amount
			continue
		}
		index[key] = len(out)
		out = append(out, Delta{Key: key, Amount: amount})
	}
	return out
}

type cell struct {
	mu  sync.Mutex
	net int64
}

// Book is a process-wide cache of balance pairs. It is safe for concurrent use.
type Book struct {
	mu    sync.RWMutex
	pairs map[PairKey]*cell
}

// NewBook returns an empty Book.
func NewBook() *Book {
	return &Book{pairs: make(map[PairKey]*cell)}
}

func (b *Book) cellFor(key PairKey) *cell {
	b.mu.RLock()
	c, ok := b.pairs[key]
	b.mu.RUnlock()
	if ok {
		return c
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok = b.pairs[key]; !ok {
		c = &cell{}
		b.pairs[key] = c
	}
	return c
}

// Apply adds one entry's effect to its pair.
func (b *Book) Apply(e models.LedgerEntry) {
	key, delta := NormalizeKey(e.GroupID, e.DebtorUserID, e.CreditorUserID, e.Amount)
	b.Add(key, delta)
}

// Add adds delta to the pair's net amount under the pair's own lock.
func (b *Book) Add(key PairKey, delta int64) {
	c := b.cellFor(key)
	c.mu.Lock()
	c.net += delta
	c.mu.Unlock()
}

// Net returns the current net amount of a pair.
func (b *Book) Net(key PairKey) int64 {
	b.mu.RLock()
	c, ok := b.pairs[key]
	b.mu.RUnlock()
	if !ok {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.net
}

// GroupPairs returns the non-zero pairs of a group in key order.
func (b *Book) GroupPairs(groupID string) []models.BalancePair {
	return b.collect(func(k PairKey) bool { return k.GroupID == groupID })
}

// UserPairs returns the non-zero pairs, across all groups, that involve userID.
func (b *Book) UserPairs(userID string) []models.BalancePair {
	return b.collect(func(k PairKey) bool { return k.UserA == userID || k.UserB == userID })
}

// All returns every non-zero pair in key order.
func (b *Book) All() []models.BalancePair {
	return b.collect(func(PairKey) bool { return true })
}

func (b *Book) collect(match func(PairKey) bool) []models.BalancePair {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []models.BalancePair
	for key, c := range b.pairs {
		if !match(key) {
			continue
		}
		c.mu.Lock()
		net := c.net
		c.mu.Unlock()
		if net == 0 {
			continue
		}
		out = append(out, models.BalancePair{GroupID: key.GroupID, UserA: key.UserA, UserB: key.UserB, NetAmount: net})
	}
	SortPairs(out)
	return out
}

// ReplaceGroup drops every pair of the group and installs the given ones.
// Callers must keep Apply for the same group out while it runs.
func (b *Book) ReplaceGroup(groupID string, pairs []models.BalancePair) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key := range b.pairs {
		if key.GroupID == groupID {
			delete(b.pairs, key)
		}
	}
	for _, p := range pairs {
		b.pairs[KeyOf(p)] = &cell{net: p.NetAmount}
	}
}

// Replay rebuilds pairs from scratch by applying entries in insertion order.
func Replay(entries []models.LedgerEntry) []models.BalancePair {
	book := NewBook()
	for _, e := range entries {
		book.Apply(e)
	}
	return book.All()
}

// SortPairs orders pairs by group, then UserA, then UserB.
func SortPairs(pairs []models.BalancePair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].GroupID != pairs[j].GroupID {
			return pairs[i].GroupID < pairs[j].GroupID
		}
		if pairs[i].UserA != pairs[j].UserA {
			return pairs[i].UserA < pairs[j].UserA
		}
		return pairs[i].UserB < pairs[j].UserB
	})
}
