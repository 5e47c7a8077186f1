// Package settlement reduces a group's balances to a short list of payments.
package settlement

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"

	"github.com/chris/split-ledger/pkg/models"
)

// ErrUnbalanced is returned when net positions do not sum to zero.
var ErrUnbalanced = errors.New("net positions do not sum to zero")

// NetPositions sums each user's involvement across the group's pairs.
// Positive means the user owes overall, negative means they are owed.
func NetPositions(pairs []models.BalancePair) map[string]int64 {
	positions := make(map[string]int64)
	for _, p := range pairs {
		if p.NetAmount == 0 {
			continue
		}
		positions[p.UserA] += p.NetAmount
		positions[p.UserB] -= p.NetAmount
	}
	for user, amount := range positions {
		if amount == 0 {
			delete(positions, user)
		}
	}
	return positions
}

type party struct {
	userID    string
	remaining int64
}

// parties is a max-heap on remaining, ties broken by user ID ascending.
type parties []*party

func (p parties) Len() int { return len(p) }
func (p parties) Less(i, j int) bool {
	if p[i].remaining != p[j].remaining {
		return p[i].remaining > p[j].remaining
	}
	return p[i].userID < p[j].userID
}
func (p parties) Swap(i, j int)       { p[i], p[j] = p[j], p[i] }
func (p *parties) Push(x interface{}) { *p = append(*p, x.(*party)) }
func (p *parties) Pop() interface{} {
	old := *p
	n := len(old)
	x := old[n-1]
	*p = old[:n-1]
	return x
}

// Simplify matches the largest remaining debtor with the largest remaining
// creditor until everyone is settled. It yields at most n-1 transfers for n
// users with a non-zero position.
func Simplify(positions map[string]int64) ([]models.Transfer, error) {
	var sum int64
	debtors := &parties{}
	creditors := &parties{}

	users := make([]string, 0, len(positions))
	for user := range positions {
		users = append(users, user)
	}
	sort.Strings(users)

	for _, user := range users {
		amount := positions[user]
		sum += amount
		switch {
		case amount > 0:
			*debtors = append(*debtors, &party{userID: user, remaining: amount})
		case amount < 0:
			*creditors = append(*creditors, &party{userID: user, remaining: -amount})
		}
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: off by %d", ErrUnbalanced, sum)
	}

	heap.Init(debtors)
	heap.Init(creditors)

	transfers := []models.Transfer{}
	for debtors.Len() > 0 && creditors.Len() > 0 {
		d := heap.Pop(debtors).(*party)
		c := heap.Pop(creditors).(*party)

		amount := min(d.remaining, c.remaining)
		transfers = append(transfers, models.Transfer{FromUserID: d.userID, ToUserID: c.userID, Amount: amount})

		d.remaining -= amount
		c.remaining -= amount
		if d.remaining > 0 {
			heap.Push(debtors, d)
		}
		if c.remaining > 0 {
			heap.Push(creditors, c)
		}
	}
	return transfers, nil
}

// Plan computes the settlement for a group's pairs.
func Plan(pairs []models.BalancePair) ([]models.Transfer, error) {
	return Simplify(NetPositions(pairs))
}

// Apply returns the positions left after executing the transfers. A correct
// plan leaves every position at zero.
func Apply(positions map[string]int64, transfers []models.Transfer) map[string]int64 {
	out := make(map[string]int64, len(positions))
	for user, amount := range positions {
		out[user] = amount
	}
	for _, t := range transfers {
		out[t.FromUserID] -= t.Amount
		out[t.ToUserID] += t.Amount
	}
	return out
}
