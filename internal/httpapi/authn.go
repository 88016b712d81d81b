package httpapi

import (
	"net/http"
	"strings"

	"userauth.dev/internal/auth"
)

// requiresSession lists the routes guarded by the access cookie.
func requiresSession(method, path string) bool {
	switch {
	case path == "/v1/auth/me":
		return true
	case path == "/v1/users":
		return method != http.MethodPost
	case strings.HasPrefix(path, "/v1/users/"):
		return true
	}
	return false
}

// withAuth resolves the access cookie into an auth.Caller for guarded routes.
// Any failure is the same 401.
func (a *API) withAuth(next http.Handler) http.Handler {
	if a == nil || a.auth == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || !requiresSession(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		caller, err := a.auth.Authenticate(r.Context(), a.cookies.AccessToken(r))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, auth.MsgInvalidSession)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithCaller(r.Context(), caller)))
	})
}

// optionalCaller resolves the access cookie when one is present. A missing or
// invalid token yields nil.
func (a *API) optionalCaller(r *http.Request) *auth.Caller {
	token := a.cookies.AccessToken(r)
	if token == "" {
		return nil
	}
	caller, err := a.auth.Authenticate(r.Context(), token)
	if err != nil {
		return nil
	}
	return caller
}
