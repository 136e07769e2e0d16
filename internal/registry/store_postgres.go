package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"recrusearch/internal/domain"
	"recrusearch/pkg/platform/sentinel"
	txcontext "recrusearch/pkg/platform/tx"
)

// Schema for the single records table. Records are stored as jsonb payloads
// keyed by (namespace, owner); the rev column backs optimistic concurrency.
const Schema = `
CREATE TABLE IF NOT EXISTS records (
    namespace  TEXT        NOT NULL,
    owner      TEXT        NOT NULL,
    rev        BIGINT      NOT NULL,
    payload    JSONB       NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (namespace, owner)
);
`

// PostgresStore persists records in a single table. Commit runs one SQL
// transaction per batch so the all-or-nothing contract holds across records.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the records table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

func (s *PostgresStore) Create(ctx context.Context, rec domain.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	rec.SetRevision(1)
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", rec.Key(), err)
	}
	key := rec.Key()
	_, err = s.execer(ctx).ExecContext(ctx,
		`INSERT INTO records (namespace, owner, rev, payload) VALUES ($1, $2, 1, $3)`,
		string(key.Namespace), key.Owner, payload)
	if isUniqueViolation(err) {
		return fmt.Errorf("create %s: %w", key, sentinel.ErrConflict)
	}
	return err
}

func (s *PostgresStore) Load(ctx context.Context, key domain.RecordKey) (domain.Record, error) {
	var (
		rev     uint64
		payload []byte
	)
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT rev, payload FROM records WHERE namespace = $1 AND owner = $2`,
		string(key.Namespace), key.Owner).Scan(&rev, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %s: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	rec, err := domain.NewRecord(key.Namespace)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, rec); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	rec.SetRevision(rev)
	return rec, nil
}

func (s *PostgresStore) Commit(ctx context.Context, recs ...domain.Record) error {
	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			return err
		}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, rec := range recs {
		key := rec.Key()
		next := rec.Revision() + 1
		payload, err := marshalWithRevision(rec, next)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		if rec.Revision() == 0 {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO records (namespace, owner, rev, payload) VALUES ($1, $2, $3, $4)`,
				string(key.Namespace), key.Owner, next, payload)
			if isUniqueViolation(err) {
				return fmt.Errorf("commit insert %s: %w", key, sentinel.ErrConflict)
			}
			if err != nil {
				return fmt.Errorf("commit insert %s: %w", key, err)
			}
			continue
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE records SET rev = $1, payload = $2, updated_at = $3
			 WHERE namespace = $4 AND owner = $5 AND rev = $6`,
			next, payload, now, string(key.Namespace), key.Owner, rec.Revision())
		if err != nil {
			return fmt.Errorf("commit update %s: %w", key, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("commit update %s: %w", key, err)
		}
		if affected == 0 {
			return fmt.Errorf("commit update %s: stale revision %d: %w",
				key, rec.Revision(), sentinel.ErrConflict)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	for _, rec := range recs {
		rec.SetRevision(rec.Revision() + 1)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// marshalWithRevision serializes the record as it will look after the commit
// without leaving the caller's copy mutated if the transaction later fails.
func marshalWithRevision(rec domain.Record, rev uint64) ([]byte, error) {
	prev := rec.Revision()
	rec.SetRevision(rev)
	payload, err := json.Marshal(rec)
	rec.SetRevision(prev)
	return payload, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}
