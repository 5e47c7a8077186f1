package mapping

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/chris/split-ledger/pkg/api"
	"github.com/chris/split-ledger/pkg/audit"
	"github.com/chris/split-ledger/pkg/expenses"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/money"
	"github.com/chris/split-ledger/pkg/storage"
)

// ToApiExpense converts a domain Expense model to an API Expense model.
func ToApiExpense(exp *models.Expense) *api.Expense {
	return &api.Expense{
		Id:           exp.ID,
		GroupId:      exp.GroupID,
		PayerUserId:  exp.PayerUserID,
		TotalAmount:  exp.TotalAmount,
		TotalDisplay: money.Format(exp.TotalAmount, exp.Currency),
		Currency:     exp.Currency,
		Category:     exp.Category,
		Description:  exp.Description,
		Status:       api.ExpenseStatus(exp.Status),
		Splits:       ToApiSplits(exp.Splits),
		Version:      exp.Version,
		CreatedAt:    exp.CreatedAt,
		ConfirmedAt:  exp.ConfirmedAt,
		ReversedAt:   exp.ReversedAt,
	}
}

// ToApiSplits converts domain splits to API splits.
func ToApiSplits(splits []models.Split) []api.Split {
	out := make([]api.Split, len(splits))
	for i, s := range splits {
		out[i] = api.Split{UserId: s.UserID, ShareAmount: s.ShareAmount}
	}
	return out
}

// ToDomainSplits converts API splits to domain splits.
func ToDomainSplits(splits []api.Split) []models.Split {
	out := make([]models.Split, len(splits))
	for i, s := range splits {
		out[i] = models.Split{UserID: s.UserId, ShareAmount: s.ShareAmount}
	}
	return out
}

// ToDomainNewExpense converts an API NewExpense with explicit splits.
func ToDomainNewExpense(n *api.NewExpense) expenses.NewExpense {
	return expenses.NewExpense{
		PayerUserID: n.PayerUserId,
		GroupID:     n.GroupId,
		TotalAmount: n.TotalAmount,
		Currency:    n.Currency,
		Splits:      ToDomainSplits(n.Splits),
		Category:    n.Category,
		Description: n.Description,
	}
}

// ToDomainEqualExpense converts an API NewExpense that lists participants.
func ToDomainEqualExpense(n *api.NewExpense) expenses.EqualExpense {
	return expenses.EqualExpense{
		PayerUserID:  n.PayerUserId,
		GroupID:      n.GroupId,
		TotalAmount:  n.TotalAmount,
		Currency:     n.Currency,
		Participants: n.Participants,
		Category:     n.Category,
		Description:  n.Description,
	}
}

// ToDomainUpdate converts an API UpdateExpense. The group is kept from the stored draft.
func ToDomainUpdate(u *api.UpdateExpense) expenses.NewExpense {
	return expenses.NewExpense{
		PayerUserID: u.PayerUserId,
		TotalAmount: u.TotalAmount,
		Currency:    u.Currency,
		Splits:      ToDomainSplits(u.Splits),
		Category:    u.Category,
		Description: u.Description,
	}
}

// ToApiLedgerEntry converts a domain LedgerEntry model to an API LedgerEntry model.
func ToApiLedgerEntry(entry *models.LedgerEntry) *api.LedgerEntry {
	return &api.LedgerEntry{
		EntryId:           entry.EntryID,
		ExpenseId:         entry.ExpenseID,
		GroupId:           entry.GroupID,
		DebtorUserId:      entry.DebtorUserID,
		CreditorUserId:    entry.CreditorUserID,
		Amount:            entry.Amount,
		CreatedAt:         entry.CreatedAt,
		ReversalOfEntryId: entry.ReversalOfEntryID,
	}
}

// ToApiUserBalance converts a domain UserBalance.
func ToApiUserBalance(b *models.UserBalance) *api.UserBalance {
	out := &api.UserBalance{UserId: b.UserID, Owes: []api.Counterparty{}, Owed: []api.Counterparty{}}
	for _, c := range b.Owes {
		out.Owes = append(out.Owes, api.Counterparty{UserId: c.UserID, Amount: c.Amount})
	}
	for _, c := range b.Owed {
		out.Owed = append(out.Owed, api.Counterparty{UserId: c.UserID, Amount: c.Amount})
	}
	return out
}

// ToApiSettlementPlan converts a list of transfers.
func ToApiSettlementPlan(groupID string, transfers []models.Transfer) *api.SettlementPlan {
	out := &api.SettlementPlan{GroupId: groupID, Transfers: make([]api.Transfer, len(transfers))}
	for i, t := range transfers {
		out.Transfers[i] = api.Transfer{FromUserId: t.FromUserID, ToUserId: t.ToUserID, Amount: t.Amount}
	}
	return out
}

// ToApiRecomputeResult converts an audit report.
func ToApiRecomputeResult(r *audit.Report) *api.RecomputeResult {
	out := &api.RecomputeResult{
		GroupId:    r.GroupID,
		Consistent: len(r.Drifts) == 0,
		Drifted:    len(r.Drifts),
		Pairs:      make([]api.BalancePair, len(r.Pairs)),
	}
	for i, p := range r.Pairs {
		out.Pairs[i] = api.BalancePair{UserA: p.UserA, UserB: p.UserB, NetAmount: p.NetAmount}
	}
	return out
}

// Error codes returned in api.Error.Code.
const (
	CodeValidation      = "validation_error"
	CodeNotFound        = "not_found"
	CodeStateError      = "state_error"
	CodeVersionConflict = "version_conflict"
	CodeAlreadyExists   = "already_exists"
	CodeAuditBusy       = "audit_in_progress"
	CodeConsistency     = "consistency_error"
	CodeInternal        = "internal_error"
)

// ToApiError maps a core error onto an HTTP status and error body.
func ToApiError(err error) (int, api.Error) {
	switch {
	case errors.Is(err, expenses.ErrValidation):
		return http.StatusBadRequest, api.Error{Code: CodeValidation, Message: err.Error()}
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, api.Error{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, expenses.ErrInvalidState):
		return http.StatusConflict, api.Error{Code: CodeStateError, Message: err.Error()}
	case errors.Is(err, storage.ErrVersionConflict):
		return http.StatusConflict, api.Error{Code: CodeVersionConflict, Message: err.Error()}
	case errors.Is(err, storage.ErrAlreadyExists):
		return http.StatusConflict, api.Error{Code: CodeAlreadyExists, Message: err.Error()}
	case errors.Is(err, audit.ErrAuditInProgress):
		return http.StatusConflict, api.Error{Code: CodeAuditBusy, Message: err.Error()}
	case errors.Is(err, audit.ErrConsistency):
		return http.StatusInternalServerError, api.Error{Code: CodeConsistency, Message: err.Error()}
	default:
		return http.StatusInternalServerError, api.Error{Code: CodeInternal, Message: "internal error"}
	}
}

// WriteError maps err and writes it as the response. Internal errors are logged
// since their detail is withheld from the client.
func WriteError(w http.ResponseWriter, err error) {
	status, body := ToApiError(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	api.WriteJSON(w, status, body)
}
