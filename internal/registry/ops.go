package registry

import (
	"context"
	"errors"

	"recrusearch/internal/domain"
	dErrors "recrusearch/pkg/domain-errors"
	"recrusearch/pkg/platform/sentinel"
)

// Typed loaders translating store facts into domain errors so services report
// the specific record a caller got wrong.

func LoadAdmin(ctx context.Context, s Store) (*domain.Admin, error) {
	rec, err := s.Load(ctx, domain.AdminKey())
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInternal, "admin record missing; registry not bootstrapped")
	}
	return rec.(*domain.Admin), nil
}

func LoadResearcher(ctx context.Context, s Store, authority domain.Authority) (*domain.Researcher, error) {
	rec, err := s.Load(ctx, domain.DeriveKey(domain.NamespaceResearcher, authority))
	if err != nil {
		return nil, translateLoad(err, "researcher", string(authority))
	}
	return rec.(*domain.Researcher), nil
}

func LoadParticipant(ctx context.Context, s Store, authority domain.Authority) (*domain.Participant, error) {
	rec, err := s.Load(ctx, domain.DeriveKey(domain.NamespaceParticipant, authority))
	if err != nil {
		return nil, translateLoad(err, "participant", string(authority))
	}
	return rec.(*domain.Participant), nil
}

func LoadStudy(ctx context.Context, s Store, owner domain.Authority) (*domain.Study, error) {
	rec, err := s.Load(ctx, domain.DeriveKey(domain.NamespaceStudy, owner))
	if err != nil {
		return nil, translateLoad(err, "study", string(owner))
	}
	return rec.(*domain.Study), nil
}

// LoadEnrollment fails with not_a_participant when the relation is absent:
// an enrollment that never happened is an authorization fact, not a 404.
func LoadEnrollment(ctx context.Context, s Store, studyOwner, participant domain.Authority) (*domain.Enrollment, error) {
	rec, err := s.Load(ctx, domain.EnrollmentKey(studyOwner, participant))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotAParticipant,
				"participant %s has not joined the study of %s", participant, studyOwner)
		}
		return nil, dErrors.Newf(dErrors.CodeInternal, "load enrollment: %v", err)
	}
	return rec.(*domain.Enrollment), nil
}

func LoadWallet(ctx context.Context, s Store, participant domain.Authority) (*domain.ParticipantWallet, error) {
	rec, err := s.Load(ctx, domain.DeriveKey(domain.NamespaceWallet, participant))
	if err != nil {
		return nil, translateLoad(err, "wallet", string(participant))
	}
	return rec.(*domain.ParticipantWallet), nil
}

func LoadConsentRegistry(ctx context.Context, s Store) (*domain.ConsentRegistry, error) {
	rec, err := s.Load(ctx, domain.ConsentRegistryKey())
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInternal, "consent registry missing; registry not bootstrapped")
	}
	return rec.(*domain.ConsentRegistry), nil
}

// CreateRecord translates the duplicate-key fact into already_exists, which
// is what makes registration retries safe: a resubmission is rejected, never
// duplicated.
func CreateRecord(ctx context.Context, s Store, rec domain.Record, what string) error {
	err := s.Create(ctx, rec)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Newf(dErrors.CodeAlreadyExists, "%s already registered at %s", what, rec.Key())
	default:
		return passthrough(err, "create "+what)
	}
}

// CommitRecords translates an optimistic-concurrency loss into conflict; the
// caller resubmits and re-validates against fresh state.
func CommitRecords(ctx context.Context, s Store, recs ...domain.Record) error {
	err := s.Commit(ctx, recs...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "record changed concurrently, resubmit against fresh state")
	default:
		return passthrough(err, "commit")
	}
}

func translateLoad(err error, kind, owner string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "%s %s is not registered", kind, owner)
	}
	return dErrors.Newf(dErrors.CodeInternal, "load %s: %v", kind, err)
}

func passthrough(err error, op string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Newf(dErrors.CodeInternal, "%s: %v", op, err)
}
