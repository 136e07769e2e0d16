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

// WalletService defines the reward wallet operations.
type WalletService interface {
	Link(ctx context.Context, invoker domain.Authority, externalAddress string) (*domain.ParticipantWallet, error)
	UpdateMetadata(ctx context.Context, invoker domain.Authority, metadataURI string) error
}

type walletHandler struct {
	wallet WalletService
	logger *slog.Logger
}

func newWalletHandler(svc WalletService, logger *slog.Logger) *walletHandler {
	return &walletHandler{wallet: svc, logger: logger}
}

func (h *walletHandler) Register(r chi.Router) {
	r.Post("/wallet", h.handleLink)
	r.Put("/wallet/metadata", h.handleUpdateMetadata)
}

type linkWalletRequest struct {
	Address string `json:"address"`
}

func (h *walletHandler) handleLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))

	var req linkWalletRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	wallet, err := h.wallet.Link(ctx, invoker, req.Address)
	if err != nil {
		h.logger.WarnContext(ctx, "link wallet failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, wallet)
}

type updateMetadataRequest struct {
	MetadataURI string `json:"metadata_uri"`
}

func (h *walletHandler) handleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoker := domain.Authority(middleware.GetAuthority(ctx))

	var req updateMetadataRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.wallet.UpdateMetadata(ctx, invoker, req.MetadataURI); err != nil {
		h.logger.WarnContext(ctx, "update wallet metadata failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
