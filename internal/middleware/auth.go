package middleware

import (
	"net/http"

	"hoodies-be/internal/auth"
	"hoodies-be/internal/logger"

	"go.uber.org/zap"
)

// Auth attaches the verified identity to the request context. Requests
// without a token, or with an invalid one, continue anonymously; route
// guards decide whether that is acceptable.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(tokenStr, secret)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("ignoring invalid access token", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.SetUserContext(r.Context(), claims.UserID(), claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
