package domain

import (
	"time"

	dErrors "recrusearch/pkg/domain-errors"
)

// DataGrant records a participant's decision to let a researcher read their
// profile data. Revoking deletes nothing; the grant is marked revoked so the
// decision history survives.
type DataGrant struct {
	Meta
	Participant Authority  `json:"participant"`
	Researcher  Authority  `json:"researcher"`
	Scope       string     `json:"scope,omitempty"`
	GrantedAt   time.Time  `json:"granted_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

func NewDataGrant(participant, researcher Authority, scope string, now time.Time) *DataGrant {
	return &DataGrant{
		Participant: participant,
		Researcher:  researcher,
		Scope:       scope,
		GrantedAt:   now,
	}
}

func (g *DataGrant) Key() RecordKey {
	return GrantKey(g.Participant, g.Researcher)
}

func (g *DataGrant) Validate() error {
	if g.Participant.IsZero() || g.Researcher.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "data grant must reference a participant and a researcher")
	}
	return nil
}

// Active reports whether the grant still authorizes access.
func (g *DataGrant) Active() bool {
	return g.RevokedAt == nil
}
