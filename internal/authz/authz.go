// Package authz centralizes the "who may invoke this transition" rules as
// declarative predicates, evaluated uniformly instead of inlined per
// operation. Every failure is reported before any mutation is attempted.
package authz

import (
	"recrusearch/internal/domain"
	dErrors "recrusearch/pkg/domain-errors"
)

// Predicate is the authorization requirement a transition declares.
type Predicate int

const (
	// AdminOnly: invoker must be the Admin record's authority.
	AdminOnly Predicate = iota
	// Self: invoker must be the target record's owning authority.
	Self
	// StudyOwner: invoker must be the researcher owning the study.
	StudyOwner
	// EnrolledParticipant: invoker must be a participant enrolled in the
	// study (the enrollment record proves membership).
	EnrolledParticipant
)

func (p Predicate) String() string {
	switch p {
	case AdminOnly:
		return "admin-only"
	case Self:
		return "self-only"
	case StudyOwner:
		return "study-owner"
	case EnrolledParticipant:
		return "enrolled-participant"
	}
	return "unknown"
}

// Require evaluates pred for the invoking authority against the recorded
// authority of the addressed entity.
func Require(pred Predicate, invoker, recorded domain.Authority) error {
	if invoker.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "invoker authority missing")
	}
	if invoker != recorded {
		return dErrors.Newf(dErrors.CodeUnauthorized,
			"%s check failed for authority %s", pred, invoker)
	}
	return nil
}

// RequireAdmin checks the invoker against the Admin singleton.
func RequireAdmin(invoker domain.Authority, admin *domain.Admin) error {
	return Require(AdminOnly, invoker, admin.Authority)
}

// RequireEnrolled checks that the invoker is the participant recorded on an
// enrollment in the given study. A nil enrollment means the caller never
// joined.
func RequireEnrolled(invoker domain.Authority, enrollment *domain.Enrollment) error {
	if enrollment == nil {
		return dErrors.Newf(dErrors.CodeNotAParticipant,
			"authority %s has not joined the study", invoker)
	}
	return Require(EnrolledParticipant, invoker, enrollment.Participant)
}
