package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chris/split-ledger/pkg/api"
	core "github.com/chris/split-ledger/pkg/expenses"
	"github.com/chris/split-ledger/pkg/handlers/expenses"
	"github.com/chris/split-ledger/pkg/handlers/groups"
	"github.com/chris/split-ledger/pkg/handlers/users"
)

// ApiHandler implements the generated server interface.
// It composes the resource handlers, which share one LedgerService.
type ApiHandler struct {
	*expenses.ExpensesHandler
	*users.UsersHandler
	*groups.GroupsHandler
}

// NewApiHandler creates a new ApiHandler around a ledger service.
func NewApiHandler(service core.LedgerService, logger *slog.Logger) *ApiHandler {
	return &ApiHandler{
		ExpensesHandler: expenses.NewExpensesHandler(service),
		UsersHandler:    users.NewUsersHandler(service),
		GroupsHandler:   groups.NewGroupsHandler(service, logger),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// GetHealth reports liveness.
func (h *ApiHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
