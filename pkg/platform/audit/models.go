// Package audit is the append-only sink for committed transitions and
// participant feedback. Core invariants never depend on it; it exists so the
// registry has a trail of who did what, and so feedback has somewhere to go
// without living on the Study record.
package audit

import (
	"context"
	"time"
)

// Action names mirror the transition vocabulary.
const (
	ActionResearcherRegistered  = "researcher.registered"
	ActionResearcherVerified    = "researcher.verified"
	ActionResearcherRejected    = "researcher.rejected"
	ActionParticipantRegistered = "participant.registered"
	ActionParticipantManaged    = "participant.managed"
	ActionStudyCreated          = "study.created"
	ActionStudyJoined           = "study.joined"
	ActionStudyProgress         = "study.progress"
	ActionStudyFeedback         = "study.feedback"
	ActionStudyCompleted        = "study.completed"
	ActionStudyStatusChanged    = "study.status_changed"
	ActionConsentIssued         = "consent.issued"
	ActionConsentRevoked        = "consent.revoked"
	ActionWalletLinked          = "wallet.linked"
	ActionDataAccessGranted     = "privacy.access_granted"
	ActionDataAccessRevoked     = "privacy.access_revoked"
)

// Event is one appended fact. Actor is the invoking authority, Subject the
// affected record key. Rating/Feedback are only set for study.feedback.
type Event struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Subject   string    `json:"subject"`
	Detail    string    `json:"detail,omitempty"`
	Rating    uint8     `json:"rating,omitempty"`
	Feedback  string    `json:"feedback,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is the persistence contract for appended events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actor string) ([]Event, error)
}
