package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Draft a new expense
	// (POST /expenses)
	CreateExpense(w http.ResponseWriter, r *http.Request)
	// Get an expense
	// (GET /expenses/{expenseId})
	GetExpense(w http.ResponseWriter, r *http.Request, expenseId string)
	// Re-submit a draft expense
	// (PUT /expenses/{expenseId})
	UpdateExpense(w http.ResponseWriter, r *http.Request, expenseId string)
	// Confirm a draft expense
	// (POST /expenses/{expenseId}/confirm)
	ConfirmExpense(w http.ResponseWriter, r *http.Request, expenseId string)
	// Reverse a confirmed expense
	// (POST /expenses/{expenseId}/reverse)
	ReverseExpense(w http.ResponseWriter, r *http.Request, expenseId string)
	// List the ledger entries of an expense
	// (GET /expenses/{expenseId}/entries)
	ListExpenseEntries(w http.ResponseWriter, r *http.Request, expenseId string)
	// Get the caller's balance
	// (GET /users/me/balance)
	GetMyBalance(w http.ResponseWriter, r *http.Request)
	// Get a user's balance
	// (GET /users/{userId}/balance)
	GetUserBalance(w http.ResponseWriter, r *http.Request, userId string)
	// List a group's expenses
	// (GET /groups/{groupId}/expenses)
	ListGroupExpenses(w http.ResponseWriter, r *http.Request, groupId string)
	// Get a group's settlement plan
	// (GET /groups/{groupId}/settlement)
	GetSettlementPlan(w http.ResponseWriter, r *http.Request, groupId string)
	// Rebuild a group's balances from its ledger
	// (POST /groups/{groupId}/recompute)
	RecomputeGroupBalances(w http.ResponseWriter, r *http.Request, groupId string)
	// Health check
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) bindPath(w http.ResponseWriter, r *http.Request, name string, dest *string) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

func (siw *ServerInterfaceWrapper) withExpenseID(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var expenseId string
		if !siw.bindPath(w, r, "expenseId", &expenseId) {
			return
		}
		fn(w, r, expenseId)
	}
}

func (siw *ServerInterfaceWrapper) withUserID(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var userId string
		if !siw.bindPath(w, r, "userId", &userId) {
			return
		}
		fn(w, r, userId)
	}
}

func (siw *ServerInterfaceWrapper) withGroupID(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var groupId string
		if !siw.bindPath(w, r, "groupId", &groupId) {
			return
		}
		fn(w, r, groupId)
	}
}

// InvalidParamFormatError is returned when a path parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []func(http.Handler) http.Handler
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux creates http.Handler with routing matching OpenAPI spec based on the provided mux.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter: r,
	})
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			WriteError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Use(options.Middlewares...)
		r.Post(options.BaseURL+"/expenses", si.CreateExpense)
		r.Get(options.BaseURL+"/expenses/{expenseId}", wrapper.withExpenseID(si.GetExpense))
		r.Put(options.BaseURL+"/expenses/{expenseId}", wrapper.withExpenseID(si.UpdateExpense))
		r.Post(options.BaseURL+"/expenses/{expenseId}/confirm", wrapper.withExpenseID(si.ConfirmExpense))
		r.Post(options.BaseURL+"/expenses/{expenseId}/reverse", wrapper.withExpenseID(si.ReverseExpense))
		r.Get(options.BaseURL+"/expenses/{expenseId}/entries", wrapper.withExpenseID(si.ListExpenseEntries))
		r.Get(options.BaseURL+"/users/me/balance", si.GetMyBalance)
		r.Get(options.BaseURL+"/users/{userId}/balance", wrapper.withUserID(si.GetUserBalance))
		r.Get(options.BaseURL+"/groups/{groupId}/expenses", wrapper.withGroupID(si.ListGroupExpenses))
		r.Get(options.BaseURL+"/groups/{groupId}/settlement", wrapper.withGroupID(si.GetSettlementPlan))
		r.Post(options.BaseURL+"/groups/{groupId}/recompute", wrapper.withGroupID(si.RecomputeGroupBalances))
		r.Get(options.BaseURL+"/health", si.GetHealth)
	})

	return r
}
