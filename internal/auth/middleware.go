package auth

import (
	"net/http"

	"github.com/stockfront/stockfront/internal/shared"
)

// RequireAuth redirects anonymous visitors to the login page and puts
// the session's bearer token on the request context for the backend
// client to pick up.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.Token() == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		ctx := shared.ContextWithToken(r.Context(), sess.Token())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
