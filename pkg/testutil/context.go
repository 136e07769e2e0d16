package testutil

import (
	"context"
	"net/http"

	"recrusearch/internal/platform/middleware"
)

// WithAuthority adds an authenticated authority to the request context,
// simulating what the auth middleware does for a valid bearer token.
func WithAuthority(req *http.Request, authority string) *http.Request {
	if authority == "" {
		return req
	}
	ctx := context.WithValue(req.Context(), middleware.ContextKeyAuthority, authority)
	return req.WithContext(ctx)
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, id string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyRequestID, id)
	return req.WithContext(ctx)
}
