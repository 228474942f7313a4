package router

import (
	"granite-core/handler"
	"net/http"

	_ "granite-core/docs"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	DeepLinks    *handler.DeepLinkHandler
	Transactions *handler.TransactionHandler
	// RequireAuth guards the data endpoints; nil leaves them open.
	RequireAuth func(http.Handler) http.Handler
}

func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if h.Auth != nil {
		mux.Handle("GET /auth/status", handler.ErrorHandlingMiddleware(h.Auth.Status))
		mux.Handle("PUT /auth/token", handler.ErrorHandlingMiddleware(h.Auth.SaveToken))
		mux.Handle("DELETE /auth/token", handler.ErrorHandlingMiddleware(h.Auth.Logout))
		mux.Handle("POST /auth/otp/verify", handler.ErrorHandlingMiddleware(h.Auth.VerifyOTP))
		mux.Handle("POST /auth/password/reset-request", handler.ErrorHandlingMiddleware(h.Auth.RequestPasswordReset))
		mux.Handle("POST /auth/password/reset", handler.ErrorHandlingMiddleware(h.Auth.ResetPassword))
	}

	if h.DeepLinks != nil {
		mux.Handle("GET /deeplinks/resolve", handler.ErrorHandlingMiddleware(h.DeepLinks.Resolve))
		mux.Handle("POST /deeplinks/callback", handler.ErrorHandlingMiddleware(h.DeepLinks.Callback))
	}

	if h.Transactions != nil {
		guard := h.RequireAuth
		if guard == nil {
			guard = func(next http.Handler) http.Handler { return next }
		}
		mux.Handle("GET /transactions/recent", guard(handler.ErrorHandlingMiddleware(h.Transactions.ListRecent)))
		mux.Handle("GET /transactions/monthly", guard(handler.ErrorHandlingMiddleware(h.Transactions.ListMonthly)))
	}

	return handler.LoggingMiddleware(mux)
}
