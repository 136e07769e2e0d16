package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// JWTValidator is the identity-verification collaborator: given a bearer
// token it confirms which authority authorized the request. Signature
// mechanics live outside the core.
type JWTValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*AuthorityClaims, error)
}

// AuthorityClaims is what the validator proves about the caller.
type AuthorityClaims struct {
	Authority string
	TokenID   string
}

type contextKeyAuthority struct{}

// ContextKeyAuthority is exported for use in handlers and tests.
var ContextKeyAuthority = contextKeyAuthority{}

// GetAuthority retrieves the authenticated authority from the context.
func GetAuthority(ctx context.Context) string {
	authority, ok := ctx.Value(ContextKeyAuthority).(string)
	if !ok {
		return ""
	}
	return authority
}

// RequireAuth rejects requests without a valid bearer token and stores the
// proven authority in the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w)
				return
			}
			claims, err := validator.ValidateToken(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err.Error(),
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w)
				return
			}
			ctx = context.WithValue(ctx, ContextKeyAuthority, claims.Authority)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Invalid or expired token"}`))
}
