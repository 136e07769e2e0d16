package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"recrusearch/internal/domain"
	"recrusearch/internal/platform/middleware"
	"recrusearch/internal/transport/http/shared"
)

// ConsentService defines the consent capability operations.
type ConsentService interface {
	Issue(ctx context.Context, invoker, holder domain.Authority, version, hash string) error
	Revoke(ctx context.Context, invoker domain.Authority) error
}

type consentHandler struct {
	consent ConsentService
	logger  *slog.Logger
}

func newConsentHandler(svc ConsentService, logger *slog.Logger) *consentHandler {
	return &consentHandler{consent: svc, logger: logger}
}

func (h *consentHandler) Register(r chi.Router) {
	r.Post("/consent", h.handleIssue)
	r.Post("/consent/revoke", h.handleRevoke)
}

type issueConsentRequest struct {
	Holder  string `json:"holder,omitempty"`
	Version string `json:"version"`
	Hash    string `json:"hash"`
}

func (h *consentHandler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))

	var req issueConsentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	// Holder defaults to the invoker; a mismatch is rejected by the service,
	// not silently corrected here.
	holder := invoker
	if req.Holder != "" {
		holder = domain.Authority(req.Holder)
	}
	if err := h.consent.Issue(ctx, invoker, holder, req.Version, req.Hash); err != nil {
		h.logger.WarnContext(ctx, "issue consent failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *consentHandler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))

	if err := h.consent.Revoke(ctx, invoker); err != nil {
		h.logger.WarnContext(ctx, "revoke consent failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
