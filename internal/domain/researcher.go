package domain

import (
	"time"

	dErrors "recrusearch/pkg/domain-errors"
)

// Researcher is registered by its own authority and stays unverified until an
// admin review. Only verified researchers may create studies.
type Researcher struct {
	Meta
	Authority         Authority `json:"authority"`
	Institution       string    `json:"institution"`
	CredentialsHash   string    `json:"credentials_hash"`
	IsVerified        bool      `json:"is_verified"`
	RegisteredAt      time.Time `json:"registered_at"`
	StudiesCreated    uint32    `json:"studies_created"`
	ActiveStudies     uint32    `json:"active_studies"`
	TotalParticipants uint32    `json:"total_participants"`
	ReputationScore   uint32    `json:"reputation_score"`
}

func NewResearcher(authority Authority, institution, credentialsHash string, now time.Time) *Researcher {
	return &Researcher{
		Authority:       authority,
		Institution:     institution,
		CredentialsHash: credentialsHash,
		RegisteredAt:    now,
	}
}

func (r *Researcher) Key() RecordKey {
	return DeriveKey(NamespaceResearcher, r.Authority)
}

func (r *Researcher) Validate() error {
	if r.Authority.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "researcher authority must not be empty")
	}
	if err := requireNonEmpty("researcher institution", r.Institution); err != nil {
		return err
	}
	return requireNonEmpty("researcher credentials hash", r.CredentialsHash)
}
