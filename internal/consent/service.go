// Package consent manages informed-consent capabilities. A participant holds
// at most one active consent; issuing while one is active replaces it, and
// revocation burns the capability without deleting the participant's history.
package consent

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

// CapabilityMint issues and burns the non-transferable consent capability.
// The hosting environment provides the authoritative implementation;
// MemoryMint backs tests and single-node deployments.
type CapabilityMint interface {
	// Mint issues a capability bound to the holder and returns an opaque
	// reference to it.
	Mint(ctx context.Context, holder domain.Authority) (string, error)
	// Burn invalidates a previously minted capability. Burning an unknown
	// reference is not an error; revocation must not fail on a lost mint.
	Burn(ctx context.Context, tokenRef string) error
}

// Auditor is the append-only sink for committed transitions.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store   registry.Store
	mint    CapabilityMint
	auditor Auditor
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(store registry.Store, mint CapabilityMint, auditor Auditor, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{store: store, mint: mint, auditor: auditor, metrics: m, logger: logger}
}

// Issue mints a consent capability for the invoking participant and records
// the consent version and document hash. Self-only: nobody consents on
// another's behalf. An already-active consent is replaced, not stacked.
func (s *Service) Issue(ctx context.Context, invoker, holder domain.Authority, version, hash string) (err error) {
	defer func() { s.metrics.ObserveTransition("issue_consent", err) }()

	if invoker != holder {
		return dErrors.Newf(dErrors.CodeUnauthorizedConsent,
			"consent for %s cannot be issued by %s", holder, invoker)
	}
	if version == "" || hash == "" {
		return dErrors.New(dErrors.CodeBadRequest, "consent version and document hash must not be empty")
	}
	participant, err := registry.LoadParticipant(ctx, s.store, holder)
	if err != nil {
		return err
	}
	if err = authz.Require(authz.Self, invoker, participant.Authority); err != nil {
		return err
	}
	if participant.Locked() {
		return dErrors.Newf(dErrors.CodeUnauthorized, "participant %s is suspended or banned", holder)
	}
	reg, err := registry.LoadConsentRegistry(ctx, s.store)
	if err != nil {
		return err
	}

	replaced := ""
	if participant.HasActiveConsent && participant.Consent != nil {
		replaced = participant.Consent.TokenRef
	}
	tokenRef, err := s.mint.Mint(ctx, holder)
	if err != nil {
		return dErrors.Newf(dErrors.CodeInternal, "mint consent capability: %v", err)
	}

	participant.Consent = &domain.ConsentRecord{
		Version:  version,
		Hash:     hash,
		TokenRef: tokenRef,
		IssuedAt: time.Now().UTC(),
	}
	participant.HasActiveConsent = true
	participant.ConsentRevokedAt = nil
	reg.TotalIssued++
	if err = registry.CommitRecords(ctx, s.store, participant, reg); err != nil {
		// The capability was minted but never recorded; burn it so the mint
		// holds no orphans.
		if berr := s.mint.Burn(ctx, tokenRef); berr != nil {
			s.logger.WarnContext(ctx, "failed to burn orphaned consent capability",
				"token_ref", tokenRef,
				"error", berr.Error(),
			)
		}
		return err
	}
	if replaced != "" {
		if berr := s.mint.Burn(ctx, replaced); berr != nil {
			s.logger.WarnContext(ctx, "failed to burn replaced consent capability",
				"token_ref", replaced,
				"error", berr.Error(),
			)
		}
	}

	s.emit(ctx, audit.Event{
		Action:  audit.ActionConsentIssued,
		Actor:   string(invoker),
		Subject: participant.Key().String(),
		Detail:  "version=" + version,
	})
	return nil
}

// Revoke burns the invoking participant's active consent capability. The
// consent record stays on the participant with a revocation timestamp so the
// fact of prior consent survives.
func (s *Service) Revoke(ctx context.Context, invoker domain.Authority) (err error) {
	defer func() { s.metrics.ObserveTransition("revoke_consent", err) }()

	participant, err := registry.LoadParticipant(ctx, s.store, invoker)
	if err != nil {
		return err
	}
	if err = authz.Require(authz.Self, invoker, participant.Authority); err != nil {
		return err
	}
	if !participant.HasActiveConsent || participant.Consent == nil {
		return dErrors.Newf(dErrors.CodeNoActiveConsent,
			"participant %s has no active consent to revoke", invoker)
	}
	reg, err := registry.LoadConsentRegistry(ctx, s.store)
	if err != nil {
		return err
	}

	tokenRef := participant.Consent.TokenRef
	now := time.Now().UTC()
	participant.HasActiveConsent = false
	participant.ConsentRevokedAt = &now
	reg.TotalRevoked++
	if err = registry.CommitRecords(ctx, s.store, participant, reg); err != nil {
		return err
	}
	if berr := s.mint.Burn(ctx, tokenRef); berr != nil {
		s.logger.WarnContext(ctx, "failed to burn revoked consent capability",
			"token_ref", tokenRef,
			"error", berr.Error(),
		)
	}

	s.emit(ctx, audit.Event{
		Action:  audit.ActionConsentRevoked,
		Actor:   string(invoker),
		Subject: participant.Key().String(),
	})
	return nil
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
