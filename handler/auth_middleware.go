package handler

import (
	"granite-core/common"
	"granite-core/service"
	"net/http"
)

// AuthMiddleware rejects requests while no token is stored. A storage read
// failure counts as logged out, never as a server error.
func AuthMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.IsAuthenticated(r.Context()) {
				err := common.NewAppError(http.StatusUnauthorized, "Sign in required", nil)
				err.Send(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
