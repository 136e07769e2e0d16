// Package registry is the entity store: typed records addressed by derived
// keys, with create/load/commit semantics. Commit applies a batch of records
// as a single all-or-nothing unit and rejects stale revisions, which is what
// keeps every transition atomic against concurrent submissions.
package registry

import (
	"context"

	"recrusearch/internal/domain"
)

// Store is interface-driven so services stay testable and the memory and
// postgres implementations are interchangeable.
type Store interface {
	// Create persists a brand-new record. Fails with sentinel.ErrConflict
	// when a record already exists at the same key.
	Create(ctx context.Context, rec domain.Record) error

	// Load returns the current committed state of the record at key. Fails
	// with sentinel.ErrNotFound when absent.
	Load(ctx context.Context, key domain.RecordKey) (domain.Record, error)

	// Commit writes the batch atomically: every record is validated, records
	// with revision zero are inserted, the rest must carry the revision they
	// were loaded at or the whole batch fails with sentinel.ErrConflict. No
	// partial application is ever visible.
	Commit(ctx context.Context, recs ...domain.Record) error
}
