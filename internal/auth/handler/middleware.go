package handler

import (
	"net/http"
	"strings"

	"github.com/medisort/medisort-server/internal/auth/jwt"
	"github.com/medisort/medisort-server/pkg/errors"
	"github.com/medisort/medisort-server/pkg/httputil"
)

// RequireAuth verifies the Bearer token and puts the owner's identity on the
// request context. Requests without a valid token never reach the handler.
func RequireAuth(tokens *jwt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.Error(w, errors.Unauthorized("missing authorization header"))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.Error(w, errors.Unauthorized("malformed authorization header"))
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				httputil.Error(w, err)
				return
			}

			ctx := httputil.WithOwnerContext(r.Context(), claims.UserID, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
