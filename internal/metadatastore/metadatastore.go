// Package metadatastore is the Metadata Store (spec §4.C): the durable
// relational table of derivatives, one row per (identifier, format).
package metadatastore

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"

	"imageforge/internal/database"
	"imageforge/internal/identifier"
	"imageforge/internal/imageformat"
	"imageforge/internal/imgerr"
)

// uniqueViolation is the Postgres SQLSTATE for a primary-key/unique
// constraint violation.
const uniqueViolation = "23505"

// Row mirrors the derivative row (spec §3).
type Row struct {
	Identifier identifier.ID      `db:"identifier"`
	Format     imageformat.Format `db:"format"`
	Computed   bool               `db:"computed"`
	ExpiresAt  time.Time          `db:"expires_at"`
}

// Store is the sqlx-backed repository over the images table, following the
// teacher's internal/repositories raw-SQL-via-sqlx style.
type Store struct {
	db *database.DB
}

// New builds a Store.
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// Insert creates a row with computed=false. Fails with a Conflict-kind
// imgerr.Error on primary-key violation; callers recover locally (identifier
// mint retry in Ingest, lazy-derivative race-loser discard in Transcode).
func (s *Store) Insert(ctx context.Context, id identifier.ID, format imageformat.Format, expiresAt time.Time) error {
	query := `INSERT INTO images (identifier, format, computed, expires_at) VALUES ($1, $2, false, $3)`
	_, err := s.db.ExecContext(ctx, query, id, format, expiresAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return imgerr.Conflict("identifier/format already exists")
		}
		return imgerr.Internal("insert derivative row", err)
	}
	return nil
}

// IdentifierExists reports whether any row exists for id.
func (s *Store) IdentifierExists(ctx context.Context, id identifier.ID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM images WHERE identifier = $1)`
	if err := s.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, imgerr.Internal("check identifier existence", err)
	}
	return exists, nil
}

// Lookup returns every row for id. An empty slice is a valid, non-error
// result.
func (s *Store) Lookup(ctx context.Context, id identifier.ID) ([]Row, error) {
	var rows []Row
	query := `SELECT identifier, format, computed, expires_at FROM images WHERE identifier = $1`
	if err := s.db.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, imgerr.Internal("lookup derivative rows", err)
	}
	return rows, nil
}

// MarkComputed flips computed to true. Idempotent.
func (s *Store) MarkComputed(ctx context.Context, id identifier.ID, format imageformat.Format) error {
	query := `UPDATE images SET computed = true WHERE identifier = $1 AND format = $2`
	if _, err := s.db.ExecContext(ctx, query, id, format); err != nil {
		return imgerr.Internal("mark derivative computed", err)
	}
	return nil
}

// DeletedRow identifies a row removed by DeleteExpired.
type DeletedRow struct {
	Identifier identifier.ID      `db:"identifier"`
	Format     imageformat.Format `db:"format"`
}

// DeleteExpired atomically deletes and returns every row where
// expires_at < now AND computed = true.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) ([]DeletedRow, error) {
	query := `DELETE FROM images WHERE expires_at < $1 AND computed = true RETURNING identifier, format`
	var deleted []DeletedRow
	if err := s.db.SelectContext(ctx, &deleted, query, now); err != nil {
		return nil, imgerr.Internal("delete expired derivative rows", err)
	}
	return deleted, nil
}
