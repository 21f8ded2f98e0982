package middleware

import (
	"net/http"
	"strings"

	"github.com/dukerupert/tourmate/internal/auth"
)

// Verifier checks an access token and returns the caller it identifies.
type Verifier interface {
	Verify(token string) (auth.AuthContext, error)
}

// RequireAuth validates the bearer token and populates AuthContext. The
// websocket endpoint cannot set headers from a browser, so a token query
// parameter is accepted as well.
func RequireAuth(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "missing access token")
				return
			}

			ac, err := v.Verify(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid access token")
				return
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
