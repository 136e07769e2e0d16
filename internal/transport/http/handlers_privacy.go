package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"recrusearch/internal/domain"
	"recrusearch/internal/platform/middleware"
	"recrusearch/internal/transport/http/shared"
	dErrors "recrusearch/pkg/domain-errors"
)

// PrivacyService defines the data-access grant operations.
type PrivacyService interface {
	Grant(ctx context.Context, invoker, researcher domain.Authority, scope string) error
	Revoke(ctx context.Context, invoker, researcher domain.Authority) error
}

type privacyHandler struct {
	privacy PrivacyService
	logger  *slog.Logger
}

func newPrivacyHandler(svc PrivacyService, logger *slog.Logger) *privacyHandler {
	return &privacyHandler{privacy: svc, logger: logger}
}

func (h *privacyHandler) Register(r chi.Router) {
	r.Post("/privacy/grants", h.handleGrant)
	r.Delete("/privacy/grants/{researcher}", h.handleRevoke)
}

type grantAccessRequest struct {
	Researcher string `json:"researcher"`
	Scope      string `json:"scope,omitempty"`
}

func (h *privacyHandler) handleGrant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))

	var req grantAccessRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if req.Researcher == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "researcher must not be empty"))
		return
	}
	if err := h.privacy.Grant(ctx, invoker, domain.Authority(req.Researcher), req.Scope); err != nil {
		h.logger.WarnContext(ctx, "grant data access failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *privacyHandler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))
	researcher := domain.Authority(chi.URLParam(r, "researcher"))

	if err := h.privacy.Revoke(ctx, invoker, researcher); err != nil {
		h.logger.WarnContext(ctx, "revoke data access failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
