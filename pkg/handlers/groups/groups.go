package groups

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/chris/split-ledger/pkg/api"
	"github.com/chris/split-ledger/pkg/audit"
	core "github.com/chris/split-ledger/pkg/expenses"
	"github.com/chris/split-ledger/pkg/mapping"
)

// GroupsHandler serves group-scoped reads and the balance audit.
type GroupsHandler struct {
	Service core.LedgerService
	Logger  *slog.Logger
}

// NewGroupsHandler creates a new GroupsHandler.
func NewGroupsHandler(service core.LedgerService, logger *slog.Logger) *GroupsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupsHandler{Service: service, Logger: logger}
}

func (h *GroupsHandler) ListGroupExpenses(w http.ResponseWriter, r *http.Request, groupId string) {
	list, err := h.Service.ListGroupExpenses(r.Context(), groupId)
	if err != nil {
		mapping.WriteError(w, err)
		return
	}

	apiExpenses := make([]*api.Expense, len(list))
	for i := range list {
		apiExpenses[i] = mapping.ToApiExpense(&list[i])
	}
	api.WriteJSON(w, http.StatusOK, apiExpenses)
}

// GetSettlementPlan returns the transfers that settle every balance in the group.
func (h *GroupsHandler) GetSettlementPlan(w http.ResponseWriter, r *http.Request, groupId string) {
	transfers, err := h.Service.GetSettlementPlan(r.Context(), groupId)
	if err != nil {
		mapping.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, mapping.ToApiSettlementPlan(groupId, transfers))
}

// RecomputeGroupBalances rebuilds the group's cached balances from its ledger.
// Repaired drift is reported in the body with consistent=false.
func (h *GroupsHandler) RecomputeGroupBalances(w http.ResponseWriter, r *http.Request, groupId string) {
	report, err := h.Service.RecomputeFromLedger(r.Context(), groupId)
	if err != nil && !(errors.Is(err, audit.ErrConsistency) && report != nil) {
		mapping.WriteError(w, err)
		return
	}
	if err != nil {
		h.Logger.Warn("recompute repaired drift", "group_id", groupId, "drifted_pairs", len(report.Drifts))
	}
	api.WriteJSON(w, http.StatusOK, mapping.ToApiRecomputeResult(report))
}
