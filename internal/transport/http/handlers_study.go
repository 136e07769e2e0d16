package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"recrusearch/internal/domain"
	"recrusearch/internal/platform/middleware"
	"recrusearch/internal/study"
	"recrusearch/internal/transport/http/shared"
	dErrors "recrusearch/pkg/domain-errors"
)

// StudyService defines the study lifecycle operations.
type StudyService interface {
	Create(ctx context.Context, invoker domain.Authority, params study.CreateParams) (*domain.Study, error)
	Join(ctx context.Context, invoker, studyOwner domain.Authority) error
	TrackProgress(ctx context.Context, invoker, studyOwner domain.Authority, percent int) error
	SubmitFeedback(ctx context.Context, invoker, studyOwner domain.Authority, rating int, text string) error
	Complete(ctx context.Context, invoker, participant domain.Authority) error
	UpdateStatus(ctx context.Context, invoker, studyOwner domain.Authority, status domain.StudyStatus) error
}

type studyHandler struct {
	study  StudyService
	logger *slog.Logger
}

func newStudyHandler(svc StudyService, logger *slog.Logger) *studyHandler {
	return &studyHandler{study: svc, logger: logger}
}

func (h *studyHandler) Register(r chi.Router) {
	r.Post("/studies", h.handleCreate)
	r.Post("/studies/{owner}/join", h.handleJoin)
	r.Post("/studies/{owner}/progress", h.handleTrackProgress)
	r.Post("/studies/{owner}/feedback", h.handleSubmitFeedback)
	r.Post("/studies/complete", h.handleComplete)
	r.Put("/studies/{owner}/status", h.handleUpdateStatus)
}

type createStudyRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	CriteriaHash    string `json:"criteria_hash"`
	RewardAmount    uint64 `json:"reward_amount"`
	MaxParticipants uint32 `json:"max_participants"`
}

func (h *studyHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))

	var req createStudyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	created, err := h.study.Create(ctx, invoker, study.CreateParams{
		Title:           req.Title,
		Description:     req.Description,
		CriteriaHash:    req.CriteriaHash,
		RewardAmount:    req.RewardAmount,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		h.logWarn(ctx, "create study failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *studyHandler) handleJoin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))
	owner := domain.Authority(chi.URLParam(r, "owner"))

	if err := h.study.Join(ctx, invoker, owner); err != nil {
		h.logWarn(ctx, "join study failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type trackProgressRequest struct {
	Progress int `json:"progress"`
}

func (h *studyHandler) handleTrackProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))
	owner := domain.Authority(chi.URLParam(r, "owner"))

	var req trackProgressRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.study.TrackProgress(ctx, invoker, owner, req.Progress); err != nil {
		h.logWarn(ctx, "track progress failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type submitFeedbackRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

func (h *studyHandler) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))
	owner := domain.Authority(chi.URLParam(r, "owner"))

	var req submitFeedbackRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.study.SubmitFeedback(ctx, invoker, owner, req.Rating, req.Feedback); err != nil {
		h.logWarn(ctx, "submit feedback failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type completeStudyRequest struct {
	Participant string `json:"participant"`
}

func (h *studyHandler) handleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))

	var req completeStudyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if req.Participant == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "participant must not be empty"))
		return
	}
	if err := h.study.Complete(ctx, invoker, domain.Authority(req.Participant)); err != nil {
		h.logWarn(ctx, "complete study failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *studyHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))
	owner := domain.Authority(chi.URLParam(r, "owner"))

	var req updateStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	status, err := domain.ParseStudyStatus(req.Status)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.study.UpdateStatus(ctx, invoker, owner, status); err != nil {
		h.logWarn(ctx, "update study status failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *studyHandler) logWarn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}
