package domain

import (
	"time"

	dErrors "recrusearch/pkg/domain-errors"
)

// Admin is the platform singleton created once at bootstrap. Its authority is
// the only identity allowed to verify researchers, override study status, and
// suspend or ban participants. Immutable after creation.
type Admin struct {
	Meta
	Authority Authority `json:"authority"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAdmin(authority Authority, now time.Time) *Admin {
	return &Admin{Authority: authority, CreatedAt: now}
}

func (a *Admin) Key() RecordKey { return AdminKey() }

func (a *Admin) Validate() error {
	if a.Authority.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "admin authority must not be empty")
	}
	return nil
}
