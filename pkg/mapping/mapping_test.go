package mapping

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/chris/split-ledger/pkg/audit"
	"github.com/chris/split-ledger/pkg/expenses"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
)

func TestToApiError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"Validation", &expenses.ValidationError{Field: "splits", Reason: "bad"}, http.StatusBadRequest, CodeValidation},
		{"Not Found", fmt.Errorf("failed to get expense: %w", storage.ErrNotFound), http.StatusNotFound, CodeNotFound},
		{"State", &expenses.StateError{ExpenseID: "x", From: models.DRAFT, To: models.REVERSED}, http.StatusConflict, CodeStateError},
		{"Conflict", &expenses.ConflictError{ExpenseID: "x", Expected: 1, Actual: 2}, http.StatusConflict, CodeVersionConflict},
		{"Consistency", &audit.ConsistencyError{GroupID: "g"}, http.StatusInternalServerError, CodeConsistency},
		{"Audit Busy", audit.ErrAuditInProgress, http.StatusConflict, CodeAuditBusy},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ToApiError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestToApiExpense(t *testing.T) {
	now := time.Now()
	exp := &models.Expense{
		ID: "x1", GroupID: "g1", PayerUserID: "U1", TotalAmount: 1050, Currency: "USD",
		Status: models.CONFIRMED, Version: 1, CreatedAt: now, ConfirmedAt: &now,
		Splits: []models.Split{{UserID: "U1", ShareAmount: 525}, {UserID: "U2", ShareAmount: 525}},
	}

	got := ToApiExpense(exp)

	assert.Equal(t, "$10.50", got.TotalDisplay)
	assert.Equal(t, "confirmed", string(got.Status))
	assert.Len(t, got.Splits, 2)
	assert.Equal(t, exp.Splits, ToDomainSplits(got.Splits))
}

func TestToApiUserBalanceNeverNull(t *testing.T) {
	got := ToApiUserBalance(&models.UserBalance{UserID: "U1"})

	assert.NotNil(t, got.Owes)
	assert.NotNil(t, got.Owed)
}
