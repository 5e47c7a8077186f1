package storage

import "context"

// ApiStore defines the non-privileged operations needed by the API: expense
// drafts and every read path. It cannot move money between users.
type ApiStore interface {
	ExpenseStore
	LedgerReader
	BalanceReader
}

// AuditStore is what the ledger audit needs: the entry log, the cached pairs
// and the right to replace them.
type AuditStore interface {
	ListGroups(ctx context.Context) ([]string, error)
	LedgerReader
	BalanceReader
	BalanceRepairer
}
