package expenses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chris/split-ledger/pkg/api"
	core "github.com/chris/split-ledger/pkg/expenses"
	"github.com/chris/split-ledger/pkg/mapping"
	"github.com/chris/split-ledger/pkg/models"
)

// ExpensesHandler holds the dependencies for expense-related handlers.
type ExpensesHandler struct {
	Service core.LedgerService
}

// NewExpensesHandler creates a new ExpensesHandler.
func NewExpensesHandler(service core.LedgerService) *ExpensesHandler {
	return &ExpensesHandler{Service: service}
}

// CreateExpense drafts an expense from explicit splits or an even split over participants.
func (h *ExpensesHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var body api.NewExpense
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.WriteError(w, http.StatusBadRequest, mapping.CodeValidation, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := body.Validate(); err != nil {
		api.WriteError(w, http.StatusBadRequest, mapping.CodeValidation, err.Error())
		return
	}

	var (
		exp *models.Expense
		err error
	)
	if len(body.Participants) > 0 {
		exp, err = h.Service.CreateEqualExpense(r.Context(), mapping.ToDomainEqualExpense(&body))
	} else {
		exp, err = h.Service.CreateExpense(r.Context(), mapping.ToDomainNewExpense(&body))
	}
	if err != nil {
		mapping.WriteError(w, err)
		return
	}

	w.Header().Set("Location", "/expenses/"+exp.ID)
	api.WriteJSON(w, http.StatusCreated, mapping.ToApiExpense(exp))
}

func (h *ExpensesHandler) GetExpense(w http.ResponseWriter, r *http.Request, expenseId string) {
	exp, err := h.Service.GetExpense(r.Context(), expenseId)
	if err != nil {
		mapping.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, mapping.ToApiExpense(exp))
}

// UpdateExpense replaces the contents of a draft.
func (h *ExpensesHandler) UpdateExpense(w http.ResponseWriter, r *http.Request, expenseId string) {
	var body api.UpdateExpense
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.WriteError(w, http.StatusBadRequest, mapping.CodeValidation, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := body.Validate(); err != nil {
		api.WriteError(w, http.StatusBadRequest, mapping.CodeValidation, err.Error())
		return
	}

	exp, err := h.Service.UpdateDraft(r.Context(), expenseId, *body.ExpectedVersion, mapping.ToDomainUpdate(&body))
	if err != nil {
		mapping.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, mapping.ToApiExpense(exp))
}

func (h *ExpensesHandler) ConfirmExpense(w http.ResponseWriter, r *http.Request, expenseId string) {
	h.transition(w, r, expenseId, h.Service.ConfirmExpense)
}

func (h *ExpensesHandler) ReverseExpense(w http.ResponseWriter, r *http.Request, expenseId string) {
	h.transition(w, r, expenseId, h.Service.ReverseExpense)
}

type transitionFunc func(ctx context.Context, expenseID string, expectedVersion int64) (*models.Expense, error)

// transition applies a confirm or reverse. Replays of a committed transition
// return the stored expense with 200.
func (h *ExpensesHandler) transition(w http.ResponseWriter, r *http.Request, expenseId string, apply transitionFunc) {
	var body api.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.WriteError(w, http.StatusBadRequest, mapping.CodeValidation, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := body.Validate(); err != nil {
		api.WriteError(w, http.StatusBadRequest, mapping.CodeValidation, err.Error())
		return
	}

	exp, err := apply(r.Context(), expenseId, *body.ExpectedVersion)
	if err != nil {
		mapping.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, mapping.ToApiExpense(exp))
}

// ListExpenseEntries returns the ledger entries posted for an expense, in posting order.
func (h *ExpensesHandler) ListExpenseEntries(w http.ResponseWriter, r *http.Request, expenseId string) {
	entries, err := h.Service.ListExpenseEntries(r.Context(), expenseId)
	if err != nil {
		mapping.WriteError(w, err)
		return
	}

	apiEntries := make([]*api.LedgerEntry, len(entries))
	for i, entry := range entries {
		apiEntries[i] = mapping.ToApiLedgerEntry(&entry)
	}
	api.WriteJSON(w, http.StatusOK, apiEntries)
}
