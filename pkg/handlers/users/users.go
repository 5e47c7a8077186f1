package users

import (
	"net/http"

	"github.com/chris/split-ledger/pkg/api"
	core "github.com/chris/split-ledger/pkg/expenses"
	"github.com/chris/split-ledger/pkg/mapping"
	"github.com/chris/split-ledger/pkg/middleware"
)

// UsersHandler serves balance views.
type UsersHandler struct {
	Service core.LedgerService
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(service core.LedgerService) *UsersHandler {
	return &UsersHandler{Service: service}
}

// GetMyBalance returns the balance of the caller identified by the Identity middleware.
func (h *UsersHandler) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "unauthenticated", "missing "+middleware.UserIDHeader+" header")
		return
	}
	h.GetUserBalance(w, r, userID)
}

func (h *UsersHandler) GetUserBalance(w http.ResponseWriter, r *http.Request, userId string) {
	balance, err := h.Service.GetBalanceForUser(r.Context(), userId)
	if err != nil {
		mapping.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, mapping.ToApiUserBalance(balance))
}
