// Package study implements the study lifecycle: creation by verified
// researchers, capacity-gated joining, progress tracking, feedback, and the
// completion transition that pays the reward. Every operation re-validates
// its preconditions against the freshest committed state and commits its
// record set as one unit.
package study

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"recrusearch/internal/authz"
	"recrusearch/internal/domain"
	"recrusearch/internal/platform/metrics"
	"recrusearch/internal/registry"
	dErrors "recrusearch/pkg/domain-errors"
	audit "recrusearch/pkg/platform/audit"
	"recrusearch/pkg/platform/sentinel"
)

var tracer = otel.Tracer("recrusearch/study")

// Escrow is the reward-transfer collaborator invoked on completion.
type Escrow interface {
	PayReward(ctx context.Context, fromAccount, toAccount string, amount uint64) error
}

// Auditor is the append-only sink for committed transitions and feedback.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Ledger is needed directly for the compensating transfer on a lost commit
// race; see CompleteStudy.
type Ledger interface {
	Transfer(ctx context.Context, from, to string, amount uint64) error
}

type Service struct {
	store   registry.Store
	escrow  Escrow
	ledger  Ledger
	auditor Auditor
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(store registry.Store, escrow Escrow, ledger Ledger, auditor Auditor, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{store: store, escrow: escrow, ledger: ledger, auditor: auditor, metrics: m, logger: logger}
}

// CreateParams are the caller-supplied study fields.
type CreateParams struct {
	Title           string
	Description     string
	CriteriaHash    string
	RewardAmount    uint64
	MaxParticipants uint32
}

// Create registers a new study owned by the invoking researcher. The key
// scheme admits one live study per researcher; a second create fails
// already_exists.
func (s *Service) Create(ctx context.Context, invoker domain.Authority, params CreateParams) (st *domain.Study, err error) {
	ctx, span := tracer.Start(ctx, "study.create")
	defer func() { endSpan(span, err); s.metrics.ObserveTransition("create_study", err) }()

	researcher, err := registry.LoadResearcher(ctx, s.store, invoker)
	if err != nil {
		return nil, err
	}
	if !researcher.IsVerified {
		return nil, dErrors.Newf(dErrors.CodeResearcherNotVerified,
			"researcher %s is not verified", invoker)
	}

	study := domain.NewStudy(invoker, params.Title, params.Description,
		params.CriteriaHash, params.RewardAmount, params.MaxParticipants, time.Now().UTC())
	if err = study.Validate(); err != nil {
		return nil, err
	}
	if _, loadErr := s.store.Load(ctx, study.Key()); loadErr == nil {
		return nil, dErrors.Newf(dErrors.CodeAlreadyExists,
			"researcher %s already owns a study", invoker)
	} else if !errors.Is(loadErr, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeInternal, "load study: %v", loadErr)
	}

	researcher.StudiesCreated++
	researcher.ActiveStudies++
	if err = registry.CommitRecords(ctx, s.store, study, researcher); err != nil {
		// A concurrent create can slip past the pre-check and lose the race at
		// the insert; callers see the same already_exists either way.
		if dErrors.Is(err, dErrors.CodeConflict) {
			if _, loadErr := s.store.Load(ctx, study.Key()); loadErr == nil {
				return nil, dErrors.Newf(dErrors.CodeAlreadyExists,
					"researcher %s already owns a study", invoker)
			}
		}
		return nil, err
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionStudyCreated,
		Actor:   string(invoker),
		Subject: study.Key().String(),
		Detail:  params.Title,
	})
	return study, nil
}

// Join enrolls the invoking participant in the study owned by studyOwner.
func (s *Service) Join(ctx context.Context, invoker, studyOwner domain.Authority) (err error) {
	ctx, span := tracer.Start(ctx, "study.join")
	defer func() { endSpan(span, err); s.metrics.ObserveTransition("join_study", err) }()

	study, err := registry.LoadStudy(ctx, s.store, studyOwner)
	if err != nil {
		return err
	}
	participant, err := registry.LoadParticipant(ctx, s.store, invoker)
	if err != nil {
		return err
	}
	if participant.Locked() {
		return dErrors.Newf(dErrors.CodeUnauthorized, "participant %s is suspended or banned", invoker)
	}
	if err = study.CanAcceptParticipants(); err != nil {
		return err
	}
	if _, loadErr := s.store.Load(ctx, domain.EnrollmentKey(studyOwner, invoker)); loadErr == nil {
		return dErrors.Newf(dErrors.CodeAlreadyExists,
			"participant %s already joined the study of %s", invoker, studyOwner)
	} else if !errors.Is(loadErr, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeInternal, "load enrollment: %v", loadErr)
	}

	enrollment := domain.NewEnrollment(studyOwner, invoker, time.Now().UTC())
	study.CurrentParticipants++
	participant.ActiveStudies++
	if err = registry.CommitRecords(ctx, s.store, enrollment, study, participant); err != nil {
		return err
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionStudyJoined,
		Actor:   string(invoker),
		Subject: study.Key().String(),
	})
	return nil
}

// TrackProgress sets the study's shared progress scalar (last-writer-wins)
// and mirrors it on the caller's enrollment. Only enrolled participants may
// report progress.
func (s *Service) TrackProgress(ctx context.Context, invoker, studyOwner domain.Authority, percent int) (err error) {
	ctx, span := tracer.Start(ctx, "study.track_progress")
	defer func() { endSpan(span, err); s.metrics.ObserveTransition("track_progress", err) }()

	if percent < 0 || percent > 100 {
		return dErrors.Newf(dErrors.CodeInvalidProgress, "progress %d out of range 0..100", percent)
	}
	study, err := registry.LoadStudy(ctx, s.store, studyOwner)
	if err != nil {
		return err
	}
	enrollment, err := registry.LoadEnrollment(ctx, s.store, studyOwner, invoker)
	if err != nil {
		return err
	}
	if err = authz.RequireEnrolled(invoker, enrollment); err != nil {
		return err
	}
	participant, err := registry.LoadParticipant(ctx, s.store, invoker)
	if err != nil {
		return err
	}
	if participant.Locked() {
		return dErrors.Newf(dErrors.CodeUnauthorized, "participant %s is suspended or banned", invoker)
	}

	study.Progress = uint8(percent)
	enrollment.Progress = uint8(percent)
	if err = registry.CommitRecords(ctx, s.store, study, enrollment); err != nil {
		return err
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionStudyProgress,
		Actor:   string(invoker),
		Subject: study.Key().String(),
		Detail:  "progress=" + strconv.Itoa(percent),
	})
	return nil
}

// SubmitFeedback appends a rated feedback event to the audit sink. No study
// or participant fields change.
func (s *Service) SubmitFeedback(ctx context.Context, invoker, studyOwner domain.Authority, rating int, text string) (err error) {
	ctx, span := tracer.Start(ctx, "study.submit_feedback")
	defer func() { endSpan(span, err); s.metrics.ObserveTransition("submit_feedback", err) }()

	if rating < domain.MinRating || rating > domain.MaxRating {
		return dErrors.Newf(dErrors.CodeInvalidRating,
			"rating %d out of range %d..%d", rating, domain.MinRating, domain.MaxRating)
	}
	if len(text) > domain.MaxFeedbackLen {
		return dErrors.Newf(dErrors.CodeFeedbackTooLong,
			"feedback must be at most %d characters", domain.MaxFeedbackLen)
	}
	study, err := registry.LoadStudy(ctx, s.store, studyOwner)
	if err != nil {
		return err
	}
	enrollment, err := registry.LoadEnrollment(ctx, s.store, studyOwner, invoker)
	if err != nil {
		return err
	}
	if err = authz.RequireEnrolled(invoker, enrollment); err != nil {
		return err
	}
	s.emit(ctx, audit.Event{
		Action:   audit.ActionStudyFeedback,
		Actor:    string(invoker),
		Subject:  study.Key().String(),
		Rating:   uint8(rating),
		Feedback: text,
	})
	return nil
}

// Complete pays the reward for one participant's finished participation and
// settles the counters. Owner-only, requires full progress, and is
// exactly-once per enrollment.
func (s *Service) Complete(ctx context.Context, invoker, participantAuthority domain.Authority) (err error) {
	ctx, span := tracer.Start(ctx, "study.complete")
	defer func() { endSpan(span, err); s.metrics.ObserveTransition("complete_study", err) }()

	study, err := registry.LoadStudy(ctx, s.store, invoker)
	if err != nil {
		return err
	}
	if err = authz.Require(authz.StudyOwner, invoker, study.Owner); err != nil {
		return err
	}
	enrollment, err := registry.LoadEnrollment(ctx, s.store, invoker, participantAuthority)
	if err != nil {
		return err
	}
	if enrollment.Completed() {
		return dErrors.Newf(dErrors.CodeConflict,
			"participation of %s already completed and paid", participantAuthority)
	}
	if study.Progress != 100 {
		return dErrors.Newf(dErrors.CodeStudyNotCompleted,
			"study progress is %d%%, completion requires 100%%", study.Progress)
	}
	participant, err := registry.LoadParticipant(ctx, s.store, participantAuthority)
	if err != nil {
		return err
	}
	if participant.ActiveStudies == 0 {
		return dErrors.Newf(dErrors.CodeInternal,
			"participant %s has no active participation to settle", participantAuthority)
	}
	researcher, err := registry.LoadResearcher(ctx, s.store, invoker)
	if err != nil {
		return err
	}

	fromAccount := domain.MainTokenAccount(invoker)
	toAccount := domain.MainTokenAccount(participantAuthority)
	recs := []domain.Record{study, enrollment, participant, researcher}
	if participant.WalletKey != "" {
		wallet, werr := registry.LoadWallet(ctx, s.store, participantAuthority)
		if werr != nil {
			return werr
		}
		toAccount = wallet.MainTokenAccount
		wallet.AddReward(study.RewardAmount, time.Now().UTC())
		recs = append(recs, wallet)
	}

	// The transfer happens before the record commit; if the commit loses an
	// optimistic race the transfer is compensated so supply stays conserved
	// and no partial completion is visible.
	if err = s.escrow.PayReward(ctx, fromAccount, toAccount, study.RewardAmount); err != nil {
		return err
	}

	now := time.Now().UTC()
	enrollment.CompletedAt = &now
	enrollment.Progress = 100
	study.CompletedParticipants++
	participant.ActiveStudies--
	participant.CompletedStudies++
	researcher.TotalParticipants++

	if err = registry.CommitRecords(ctx, s.store, recs...); err != nil {
		if rerr := s.ledger.Transfer(ctx, toAccount, fromAccount, study.RewardAmount); rerr != nil {
			s.logger.ErrorContext(ctx, "failed to compensate reward after lost commit race",
				"study", study.Key().String(),
				"participant", string(participantAuthority),
				"amount", study.RewardAmount,
				"error", rerr.Error(),
			)
		}
		return err
	}

	s.metrics.ObserveReward(study.RewardAmount)
	s.emit(ctx, audit.Event{
		Action:  audit.ActionStudyCompleted,
		Actor:   string(invoker),
		Subject: study.Key().String(),
		Detail:  "participant=" + string(participantAuthority),
	})
	return nil
}

// UpdateStatus is the admin override of a study's lifecycle status.
func (s *Service) UpdateStatus(ctx context.Context, invoker, studyOwner domain.Authority, status domain.StudyStatus) (err error) {
	ctx, span := tracer.Start(ctx, "study.update_status")
	defer func() { endSpan(span, err); s.metrics.ObserveTransition("update_study_status", err) }()

	admin, err := registry.LoadAdmin(ctx, s.store)
	if err != nil {
		return err
	}
	if err = authz.RequireAdmin(invoker, admin); err != nil {
		return err
	}
	study, err := registry.LoadStudy(ctx, s.store, studyOwner)
	if err != nil {
		return err
	}
	study.Status = status
	study.IsActive = status == domain.StudyStatusActive
	if err = registry.CommitRecords(ctx, s.store, study); err != nil {
		return err
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionStudyStatusChanged,
		Actor:   string(invoker),
		Subject: study.Key().String(),
		Detail:  string(status),
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

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
