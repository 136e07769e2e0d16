// Package identity owns registration of researchers and participants and the
// admin actions that change their standing. Duplicate registration is
// impossible by key construction, which is also what makes resubmitting a
// registration safe.
package identity

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
	pstrings "recrusearch/pkg/platform/strings"
)

// ParticipantAction is an admin decision about a participant's standing.
type ParticipantAction string

const (
	ActionSuspend   ParticipantAction = "suspend"
	ActionUnsuspend ParticipantAction = "unsuspend"
	ActionBan       ParticipantAction = "ban"
)

func ParseParticipantAction(s string) (ParticipantAction, error) {
	switch ParticipantAction(s) {
	case ActionSuspend, ActionUnsuspend, ActionBan:
		return ParticipantAction(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeBadRequest, "unknown participant action %q", s)
}

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

// RegisterResearcher creates an unverified researcher record owned by the
// invoking authority.
func (s *Service) RegisterResearcher(ctx context.Context, invoker domain.Authority, institution, credentialsHash string) (res *domain.Researcher, err error) {
	defer func() { s.metrics.ObserveTransition("register_researcher", err) }()

	researcher := domain.NewResearcher(invoker, institution, credentialsHash, time.Now().UTC())
	if err = registry.CreateRecord(ctx, s.store, researcher, "researcher"); err != nil {
		return nil, err
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionResearcherRegistered,
		Actor:   string(invoker),
		Subject: researcher.Key().String(),
		Detail:  institution,
	})
	return researcher, nil
}

// RegisterParticipant creates a participant record owned by the invoking
// authority. The eligibility proof is opaque but must not be trivially short.
func (s *Service) RegisterParticipant(ctx context.Context, invoker domain.Authority, eligibilityProof string) (p *domain.Participant, err error) {
	defer func() { s.metrics.ObserveTransition("register_participant", err) }()

	participant := domain.NewParticipant(invoker, eligibilityProof, time.Now().UTC())
	if err = registry.CreateRecord(ctx, s.store, participant, "participant"); err != nil {
		return nil, err
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionParticipantRegistered,
		Actor:   string(invoker),
		Subject: participant.Key().String(),
	})
	return participant, nil
}

// VerifyResearcher is admin-only and the sole path from unverified to
// verified.
func (s *Service) VerifyResearcher(ctx context.Context, invoker, researcherAuthority domain.Authority) (err error) {
	defer func() { s.metrics.ObserveTransition("verify_researcher", err) }()
	return s.reviewResearcher(ctx, invoker, researcherAuthority, true)
}

// RejectResearcher is admin-only and clears the verified flag.
func (s *Service) RejectResearcher(ctx context.Context, invoker, researcherAuthority domain.Authority) (err error) {
	defer func() { s.metrics.ObserveTransition("reject_researcher", err) }()
	return s.reviewResearcher(ctx, invoker, researcherAuthority, false)
}

func (s *Service) reviewResearcher(ctx context.Context, invoker, researcherAuthority domain.Authority, verified bool) error {
	admin, err := registry.LoadAdmin(ctx, s.store)
	if err != nil {
		return err
	}
	if err := authz.RequireAdmin(invoker, admin); err != nil {
		return err
	}
	researcher, err := registry.LoadResearcher(ctx, s.store, researcherAuthority)
	if err != nil {
		return err
	}
	researcher.IsVerified = verified
	if err := registry.CommitRecords(ctx, s.store, researcher); err != nil {
		return err
	}
	action := audit.ActionResearcherVerified
	if !verified {
		action = audit.ActionResearcherRejected
	}
	s.emit(ctx, audit.Event{
		Action:  action,
		Actor:   string(invoker),
		Subject: researcher.Key().String(),
	})
	return nil
}

// ManageParticipant applies an admin standing decision.
func (s *Service) ManageParticipant(ctx context.Context, invoker, participantAuthority domain.Authority, action ParticipantAction) (err error) {
	defer func() { s.metrics.ObserveTransition("manage_participant", err) }()

	admin, err := registry.LoadAdmin(ctx, s.store)
	if err != nil {
		return err
	}
	if err = authz.RequireAdmin(invoker, admin); err != nil {
		return err
	}
	participant, err := registry.LoadParticipant(ctx, s.store, participantAuthority)
	if err != nil {
		return err
	}
	switch action {
	case ActionSuspend:
		participant.Suspended = true
	case ActionUnsuspend:
		participant.Suspended = false
	case ActionBan:
		participant.Banned = true
	default:
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown participant action %q", action)
	}
	if err = registry.CommitRecords(ctx, s.store, participant); err != nil {
		return err
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionParticipantManaged,
		Actor:   string(invoker),
		Subject: participant.Key().String(),
		Detail:  string(action),
	})
	return nil
}

// UpdateInterests replaces the participant's interest tags. Self-only, and
// locked out for suspended or banned participants.
func (s *Service) UpdateInterests(ctx context.Context, invoker domain.Authority, interests []string) (err error) {
	defer func() { s.metrics.ObserveTransition("update_interests", err) }()

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
	participant.Interests = pstrings.DedupeAndTrim(interests)
	return registry.CommitRecords(ctx, s.store, participant)
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
