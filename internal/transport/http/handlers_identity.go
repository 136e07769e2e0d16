package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"recrusearch/internal/domain"
	"recrusearch/internal/identity"
	"recrusearch/internal/platform/middleware"
	"recrusearch/internal/transport/http/shared"
	dErrors "recrusearch/pkg/domain-errors"
)

// IdentityService defines the registration and standing operations.
type IdentityService interface {
	RegisterResearcher(ctx context.Context, invoker domain.Authority, institution, credentialsHash string) (*domain.Researcher, error)
	RegisterParticipant(ctx context.Context, invoker domain.Authority, eligibilityProof string) (*domain.Participant, error)
	VerifyResearcher(ctx context.Context, invoker, researcher domain.Authority) error
	RejectResearcher(ctx context.Context, invoker, researcher domain.Authority) error
	ManageParticipant(ctx context.Context, invoker, participant domain.Authority, action identity.ParticipantAction) error
	UpdateInterests(ctx context.Context, invoker domain.Authority, interests []string) error
}

type identityHandler struct {
	identity IdentityService
	logger   *slog.Logger
}

func newIdentityHandler(svc IdentityService, logger *slog.Logger) *identityHandler {
	return &identityHandler{identity: svc, logger: logger}
}

func (h *identityHandler) Register(r chi.Router) {
	r.Post("/researchers", h.handleRegisterResearcher)
	r.Post("/researchers/{authority}/verify", h.handleVerifyResearcher)
	r.Post("/researchers/{authority}/reject", h.handleRejectResearcher)
	r.Post("/participants", h.handleRegisterParticipant)
	r.Post("/participants/{authority}/manage", h.handleManageParticipant)
	r.Put("/participants/interests", h.handleUpdateInterests)
}

type registerResearcherRequest struct {
	Institution     string `json:"institution"`
	CredentialsHash string `json:"credentials_hash"`
}

func (h *identityHandler) handleRegisterResearcher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))

	var req registerResearcherRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	researcher, err := h.identity.RegisterResearcher(ctx, invoker, req.Institution, req.CredentialsHash)
	if err != nil {
		h.logWarn(ctx, "register researcher failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, researcher)
}

type registerParticipantRequest struct {
	EligibilityProof string `json:"eligibility_proof"`
}

func (h *identityHandler) handleRegisterParticipant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))

	var req registerParticipantRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	participant, err := h.identity.RegisterParticipant(ctx, invoker, req.EligibilityProof)
	if err != nil {
		h.logWarn(ctx, "register participant failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, participant)
}

func (h *identityHandler) handleVerifyResearcher(w http.ResponseWriter, r *http.Request) {
	h.reviewResearcher(w, r, h.identity.VerifyResearcher)
}

func (h *identityHandler) handleRejectResearcher(w http.ResponseWriter, r *http.Request) {
	h.reviewResearcher(w, r, h.identity.RejectResearcher)
}

func (h *identityHandler) reviewResearcher(w http.ResponseWriter, r *http.Request, review func(context.Context, domain.Authority, domain.Authority) error) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))
	researcher := domain.Authority(chi.URLParam(r, "authority"))
	if researcher.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "researcher authority must not be empty"))
		return
	}
	if err := review(ctx, invoker, researcher); err != nil {
		h.logWarn(ctx, "researcher review failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type manageParticipantRequest struct {
	Action string `json:"action"`
}

func (h *identityHandler) handleManageParticipant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))
	participant := domain.Authority(chi.URLParam(r, "authority"))

	var req manageParticipantRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	action, err := identity.ParseParticipantAction(req.Action)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.identity.ManageParticipant(ctx, invoker, participant, action); err != nil {
		h.logWarn(ctx, "manage participant failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateInterestsRequest struct {
	Interests []string `json:"interests"`
}

func (h *identityHandler) handleUpdateInterests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))

	var req updateInterestsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.identity.UpdateInterests(ctx, invoker, req.Interests); err != nil {
		h.logWarn(ctx, "update interests failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *identityHandler) logWarn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}
