package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dkolesni/timecapsule/internal/common"
	"github.com/dkolesni/timecapsule/internal/server/auth"
)

type ctxKey string

// userIDCtxKey carries the authenticated user id through the request context.
const userIDCtxKey ctxKey = "userID"

// authMiddleware validates the bearer token from the Authorization header
// and stores the user id in the request context. Expired tokens get a
// distinct message so clients know to refresh instead of re-login.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AccessTokenHeaderName)
		if header == "" {
			http.Error(w, "authorization header missing", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		userID, err := auth.GetUserIDFromToken(parts[1], h.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				http.Error(w, "token expired", http.StatusUnauthorized)
				return
			}
			h.logger.Debug(r.Context(), "rejected token", "error", err)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDCtxKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFromContext returns the id stored by authMiddleware.
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDCtxKey).(string)
	return id
}
