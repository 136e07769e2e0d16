package domain

import (
	"time"

	dErrors "recrusearch/pkg/domain-errors"
)

// Policy ceilings carried over from the original program.
const (
	MaxParticipantsLimit = 1000
	MaxTitleLen          = 100
	MaxDescriptionLen    = 500
	MaxFeedbackLen       = 500
	MinRating            = 1
	MaxRating            = 5
)

// StudyStatus is the admin-visible lifecycle of a study. Participant-level
// completion does not change it; only an admin override does.
type StudyStatus string

const (
	StudyStatusActive    StudyStatus = "active"
	StudyStatusInactive  StudyStatus = "inactive"
	StudyStatusCompleted StudyStatus = "completed"
	StudyStatusSuspended StudyStatus = "suspended"
)

func ParseStudyStatus(s string) (StudyStatus, error) {
	switch StudyStatus(s) {
	case StudyStatusActive, StudyStatusInactive, StudyStatusCompleted, StudyStatusSuspended:
		return StudyStatus(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeBadRequest, "unknown study status %q", s)
}

// Study is owned by exactly one researcher; the key scheme carries no
// discriminator, so a researcher owns at most one live study.
type Study struct {
	Meta
	Owner                 Authority   `json:"owner"`
	Status                StudyStatus `json:"status"`
	Title                 string      `json:"title"`
	Description           string      `json:"description"`
	CriteriaHash          string      `json:"criteria_hash"`
	RewardAmount          uint64      `json:"reward_amount"`
	MaxParticipants       uint32      `json:"max_participants"`
	CurrentParticipants   uint32      `json:"current_participants"`
	CompletedParticipants uint32      `json:"completed_participants"`
	Progress              uint8       `json:"progress"`
	IsActive              bool        `json:"is_active"`
	CreatedAt             time.Time   `json:"created_at"`
}

func NewStudy(owner Authority, title, description, criteriaHash string, rewardAmount uint64, maxParticipants uint32, now time.Time) *Study {
	return &Study{
		Owner:           owner,
		Status:          StudyStatusActive,
		Title:           title,
		Description:     description,
		CriteriaHash:    criteriaHash,
		RewardAmount:    rewardAmount,
		MaxParticipants: maxParticipants,
		IsActive:        true,
		CreatedAt:       now,
	}
}

func (s *Study) Key() RecordKey {
	return DeriveKey(NamespaceStudy, s.Owner)
}

func (s *Study) Validate() error {
	if s.Owner.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "study owner must not be empty")
	}
	if s.Title == "" || len(s.Title) > MaxTitleLen {
		return dErrors.Newf(dErrors.CodeInvalidStudyParameters,
			"study title must be 1..%d characters", MaxTitleLen)
	}
	if len(s.Description) > MaxDescriptionLen {
		return dErrors.Newf(dErrors.CodeInvalidStudyParameters,
			"study description must be at most %d characters", MaxDescriptionLen)
	}
	if s.RewardAmount == 0 {
		return dErrors.New(dErrors.CodeInvalidStudyParameters, "study reward amount must be positive")
	}
	if s.MaxParticipants == 0 || s.MaxParticipants > MaxParticipantsLimit {
		return dErrors.Newf(dErrors.CodeInvalidStudyParameters,
			"study max participants must be 1..%d", MaxParticipantsLimit)
	}
	if s.CurrentParticipants > s.MaxParticipants {
		return dErrors.New(dErrors.CodeInternal, "study current participants exceeds capacity")
	}
	if s.CompletedParticipants > s.CurrentParticipants {
		return dErrors.New(dErrors.CodeInternal, "study completed participants exceeds current participants")
	}
	if s.Progress > 100 {
		return dErrors.New(dErrors.CodeInvalidProgress, "study progress must be 0..100")
	}
	return nil
}

// CanAcceptParticipants checks joinability against the freshest committed
// state; the caller re-validates on every attempt rather than trusting a
// snapshot taken at submission time.
func (s *Study) CanAcceptParticipants() error {
	if !s.IsActive || s.Status != StudyStatusActive {
		return dErrors.Newf(dErrors.CodeStudyInactive, "study %s is not active", s.Key())
	}
	if s.CurrentParticipants >= s.MaxParticipants {
		return dErrors.Newf(dErrors.CodeStudyAtCapacity,
			"study %s is at capacity (%d participants)", s.Key(), s.MaxParticipants)
	}
	return nil
}

// Enrollment is the explicit (study, participant) relation. It is what makes
// participant-of-study authorization checkable and study completion
// exactly-once.
type Enrollment struct {
	Meta
	StudyOwner  Authority  `json:"study_owner"`
	Participant Authority  `json:"participant"`
	Progress    uint8      `json:"progress"`
	JoinedAt    time.Time  `json:"joined_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func NewEnrollment(studyOwner, participant Authority, now time.Time) *Enrollment {
	return &Enrollment{StudyOwner: studyOwner, Participant: participant, JoinedAt: now}
}

func (e *Enrollment) Key() RecordKey {
	return EnrollmentKey(e.StudyOwner, e.Participant)
}

func (e *Enrollment) Validate() error {
	if e.StudyOwner.IsZero() || e.Participant.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "enrollment must reference a study owner and a participant")
	}
	if e.Progress > 100 {
		return dErrors.New(dErrors.CodeInvalidProgress, "enrollment progress must be 0..100")
	}
	return nil
}

// Completed reports whether the participation has already been paid out.
func (e *Enrollment) Completed() bool {
	return e.CompletedAt != nil
}
