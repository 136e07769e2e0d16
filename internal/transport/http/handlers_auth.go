package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"recrusearch/internal/platform/middleware"
	"recrusearch/internal/transport/http/shared"
	dErrors "recrusearch/pkg/domain-errors"
)

const tokenLifetime = time.Hour

// TokenService issues and revokes authority tokens.
type TokenService interface {
	GenerateAuthorityToken(authority string, expiresIn time.Duration) (string, error)
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

type authHandler struct {
	tokens    TokenService
	validator middleware.JWTValidator
	logger    *slog.Logger
}

func newAuthHandler(tokens TokenService, validator middleware.JWTValidator, logger *slog.Logger) *authHandler {
	return &authHandler{tokens: tokens, validator: validator, logger: logger}
}

func (h *authHandler) Register(r chi.Router) {
	r.Post("/auth/token", h.handleIssueToken)
	r.Post("/auth/revoke", h.handleRevokeToken)
}

type issueTokenRequest struct {
	Authority string `json:"authority"`
}

type issueTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// handleIssueToken stands in for external signature verification: the caller
// asserts an authority and receives a bearer token for it. Deployments that
// front the registry with a real signer replace this route.
func (h *authHandler) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if req.Authority == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "authority must not be empty"))
		return
	}
	token, err := h.tokens.GenerateAuthorityToken(req.Authority, tokenLifetime)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to issue token",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to issue token"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, issueTokenResponse{
		Token:     token,
		ExpiresIn: int64(tokenLifetime.Seconds()),
	})
}

// handleRevokeToken puts the presented token on the revocation list for its
// remaining lifetime.
func (h *authHandler) handleRevokeToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
		return
	}
	claims, err := h.validator.ValidateToken(ctx, tokenString)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.tokens.RevokeToken(ctx, claims.TokenID, tokenLifetime); err != nil {
		h.logger.ErrorContext(ctx, "failed to revoke token",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to revoke token"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
