// Package privacy manages data-access grants from participants to
// researchers. Grants gate profile reads only; they never influence study
// transitions.
package privacy

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"recrusearch/internal/authz"
	"recrusearch/internal/domain"
	"recrusearch/internal/platform/metrics"
	"recrusearch/internal/registry"
	dErrors "recrusearch/pkg/domain-errors"
	audit "recrusearch/pkg/platform/audit"
	"recrusearch/pkg/platform/sentinel"
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

// Grant lets the invoking participant open their profile data to a
// registered researcher. Re-granting after a revocation reactivates the
// existing grant.
func (s *Service) Grant(ctx context.Context, invoker, researcherAuthority domain.Authority, scope string) (err error) {
	defer func() { s.metrics.ObserveTransition("grant_data_access", err) }()

	participant, err := registry.LoadParticipant(ctx, s.store, invoker)
	if err != nil {
		return err
	}
	if err = authz.Require(authz.Self, invoker, participant.Authority); err != nil {
		return err
	}
	if participant.Locked() {
		return dErrors.Newf(dErrors.CodeUnauthorized, "participant %s is suspended or banned", invoker)
	}
	if _, err = registry.LoadResearcher(ctx, s.store, researcherAuthority); err != nil {
		return err
	}

	now := time.Now().UTC()
	grant, err := s.loadGrant(ctx, invoker, researcherAuthority)
	switch {
	case err == nil:
		if grant.Active() {
			return dErrors.Newf(dErrors.CodeAlreadyExists,
				"access for %s is already granted", researcherAuthority)
		}
		grant.Scope = scope
		grant.GrantedAt = now
		grant.RevokedAt = nil
	case dErrors.Is(err, dErrors.CodeNotFound):
		grant = domain.NewDataGrant(invoker, researcherAuthority, scope, now)
	default:
		return err
	}

	if err = registry.CommitRecords(ctx, s.store, grant); err != nil {
		return err
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionDataAccessGranted,
		Actor:   string(invoker),
		Subject: grant.Key().String(),
		Detail:  scope,
	})
	return nil
}

// Revoke withdraws a previously issued grant. Revoking a grant that was
// never issued, or one already revoked, fails not_found.
func (s *Service) Revoke(ctx context.Context, invoker, researcherAuthority domain.Authority) (err error) {
	defer func() { s.metrics.ObserveTransition("revoke_data_access", err) }()

	participant, err := registry.LoadParticipant(ctx, s.store, invoker)
	if err != nil {
		return err
	}
	if err = authz.Require(authz.Self, invoker, participant.Authority); err != nil {
		return err
	}
	grant, err := s.loadGrant(ctx, invoker, researcherAuthority)
	if err != nil {
		return err
	}
	if !grant.Active() {
		return dErrors.Newf(dErrors.CodeNotFound,
			"no active grant for %s to revoke", researcherAuthority)
	}

	now := time.Now().UTC()
	grant.RevokedAt = &now
	if err = registry.CommitRecords(ctx, s.store, grant); err != nil {
		return err
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionDataAccessRevoked,
		Actor:   string(invoker),
		Subject: grant.Key().String(),
	})
	return nil
}

// HasAccess reports whether researcherAuthority currently holds an active
// grant from the participant.
func (s *Service) HasAccess(ctx context.Context, participant, researcherAuthority domain.Authority) (bool, error) {
	grant, err := s.loadGrant(ctx, participant, researcherAuthority)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return grant.Active(), nil
}

func (s *Service) loadGrant(ctx context.Context, participant, researcher domain.Authority) (*domain.DataGrant, error) {
	rec, err := s.store.Load(ctx, domain.GrantKey(participant, researcher))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound,
				"no data grant from %s to %s", participant, researcher)
		}
		return nil, dErrors.Newf(dErrors.CodeInternal, "load grant: %v", err)
	}
	return rec.(*domain.DataGrant), nil
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
