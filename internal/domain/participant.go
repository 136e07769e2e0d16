package domain

import (
	"time"

	dErrors "recrusearch/pkg/domain-errors"
)

// MinEligibilityProofLen guards against placeholder proofs; the proof content
// itself is opaque to the registry.
const MinEligibilityProofLen = 8

// ConsentRecord is the single active informed-consent capability of a
// participant. Issuing while one is active replaces these fields; no history
// is retained here (the audit sink keeps the trail).
type ConsentRecord struct {
	Version  string    `json:"version"`
	Hash     string    `json:"hash"`
	TokenRef string    `json:"token_ref"`
	IssuedAt time.Time `json:"issued_at"`
}

// Participant is registered by its own authority. Study membership lives in
// Enrollment records; the counters here are the aggregate view the original
// ledger exposed.
type Participant struct {
	Meta
	Authority        Authority      `json:"authority"`
	EligibilityProof string         `json:"eligibility_proof"`
	Interests        []string       `json:"interests,omitempty"`
	Suspended        bool           `json:"suspended"`
	Banned           bool           `json:"banned"`
	ActiveStudies    uint32         `json:"active_studies"`
	CompletedStudies uint32         `json:"completed_studies"`
	WalletKey        string         `json:"wallet_key,omitempty"`
	HasActiveConsent bool           `json:"has_active_consent"`
	Consent          *ConsentRecord `json:"consent,omitempty"`
	ConsentRevokedAt *time.Time     `json:"consent_revoked_at,omitempty"`
	RegisteredAt     time.Time      `json:"registered_at"`
}

func NewParticipant(authority Authority, eligibilityProof string, now time.Time) *Participant {
	return &Participant{
		Authority:        authority,
		EligibilityProof: eligibilityProof,
		RegisteredAt:     now,
	}
}

func (p *Participant) Key() RecordKey {
	return DeriveKey(NamespaceParticipant, p.Authority)
}

func (p *Participant) Validate() error {
	if p.Authority.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "participant authority must not be empty")
	}
	if len(p.EligibilityProof) < MinEligibilityProofLen {
		return dErrors.Newf(dErrors.CodeInvalidEligibilityProof,
			"eligibility proof must be at least %d characters", MinEligibilityProofLen)
	}
	if p.HasActiveConsent && p.Consent == nil {
		return dErrors.New(dErrors.CodeInternal, "participant marked consented without a consent record")
	}
	return nil
}

// Locked reports whether the participant is barred from participant-authored
// transitions by an admin action.
func (p *Participant) Locked() bool {
	return p.Suspended || p.Banned
}
