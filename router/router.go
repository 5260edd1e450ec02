package router

import (
	"net/http"

	"go-bankist/common"
	_ "go-bankist/docs"
	"go-bankist/handler"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Health      *handler.HealthHandler
	Session     *handler.SessionHandler
	Account     *handler.AccountHandler
	Transaction *handler.TransactionHandler
	Auth        func(http.Handler) http.Handler
}

func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", h.Health.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)
	mux.Handle("POST /login", handler.ErrorHandlingMiddleware(h.Session.Login))

	// Session bound
	protected := func(fn func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return h.Auth(handler.ErrorHandlingMiddleware(fn))
	}
	mux.Handle("POST /api/logout", protected(h.Session.Logout))
	mux.Handle("GET /api/session", protected(h.Session.Session))
	mux.Handle("GET /api/statement", protected(h.Account.GetStatement))
	mux.Handle("POST /api/statement/sort", protected(h.Account.ToggleSort))
	mux.Handle("DELETE /api/account", protected(h.Account.CloseAccount))
	mux.Handle("POST /api/transfers", protected(h.Transaction.CreateTransfer))
	mux.Handle("POST /api/loans", protected(h.Transaction.RequestLoan))

	return mux
}
