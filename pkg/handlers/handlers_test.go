package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chris/split-ledger/pkg/api"
	"github.com/chris/split-ledger/pkg/expenses/mocks"
	"github.com/chris/split-ledger/pkg/middleware"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newRouter(service *mocks.LedgerService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Identity)
	return api.HandlerFromMux(NewApiHandler(service, nil), r)
}

func TestRouting(t *testing.T) {
	t.Run("Health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newRouter(new(mocks.LedgerService)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("Confirm Binds Path", func(t *testing.T) {
		mockService := new(mocks.LedgerService)
		mockService.On("ConfirmExpense", mock.Anything, "x-42", int64(0)).
			Return(&models.Expense{ID: "x-42", Currency: "USD", Status: models.CONFIRMED, Version: 1}, nil)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/expenses/x-42/confirm", strings.NewReader(`{"expected_version":0}`))
		newRouter(mockService).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Me Is Not A User Id", func(t *testing.T) {
		mockService := new(mocks.LedgerService)
		mockService.On("GetBalanceForUser", mock.Anything, "U7").Return(&models.UserBalance{UserID: "U7"}, nil)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/me/balance", nil)
		req.Header.Set(middleware.UserIDHeader, "U7")
		newRouter(mockService).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Unknown Route", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newRouter(new(mocks.LedgerService)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/wallets", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
