// Package wallet links participants to external reward wallets. A wallet is
// immutable once linked; only its metadata URI can change afterwards.
package wallet

import (
	"context"
	"log/slog"
	"time"

	"recrusearch/internal/authz"
	"recrusearch/internal/domain"
	"recrusearch/internal/platform/metrics"
	"recrusearch/internal/registry"
	dErrors "recrusearch/pkg/domain-errors"
	audit "recrusearch/pkg/platform/audit"
)

// Auditor is the append-only sink for committed transitions.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store   registry.Store
	auditor Auditor
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(store registry.Store, auditor Auditor, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{store: store, auditor: auditor, metrics: m, logger: logger}
}

// Link creates the wallet record and marks the participant as wallet-linked
// in the same commit. Self-only, and rejected once a wallet exists.
func (s *Service) Link(ctx context.Context, invoker domain.Authority, externalAddress string) (w *domain.ParticipantWallet, err error) {
	defer func() { s.metrics.ObserveTransition("link_wallet", err) }()

	if err = domain.ValidateWalletAddress(externalAddress); err != nil {
		return nil, err
	}
	participant, err := registry.LoadParticipant(ctx, s.store, invoker)
	if err != nil {
		return nil, err
	}
	if err = authz.Require(authz.Self, invoker, participant.Authority); err != nil {
		return nil, err
	}
	if participant.Locked() {
		return nil, dErrors.Newf(dErrors.CodeUnauthorized, "participant %s is suspended or banned", invoker)
	}
	if participant.WalletKey != "" {
		return nil, dErrors.Newf(dErrors.CodeAlreadyExists,
			"participant %s already linked a wallet", invoker)
	}

	wallet := domain.NewParticipantWallet(invoker, externalAddress, time.Now().UTC())
	participant.WalletKey = wallet.Key().String()
	if err = registry.CommitRecords(ctx, s.store, wallet, participant); err != nil {
		return nil, err
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionWalletLinked,
		Actor:   string(invoker),
		Subject: wallet.Key().String(),
	})
	return wallet, nil
}

// UpdateMetadata replaces the wallet's metadata URI. Owner-only; the address
// and token accounts stay fixed.
func (s *Service) UpdateMetadata(ctx context.Context, invoker domain.Authority, metadataURI string) (err error) {
	defer func() { s.metrics.ObserveTransition("update_wallet_metadata", err) }()

	wallet, err := registry.LoadWallet(ctx, s.store, invoker)
	if err != nil {
		return err
	}
	if err = authz.Require(authz.Self, invoker, wallet.Participant); err != nil {
		return err
	}
	wallet.MetadataURI = metadataURI
	return registry.CommitRecords(ctx, s.store, wallet)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err.Error(),
		)
	}
}
