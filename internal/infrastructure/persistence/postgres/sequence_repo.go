// Package postgres implements the PostgreSQL persistence layer for the
// BIT College records hub.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bit-college/records-hub/internal/domain/sequence"
	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEQUENCE REPOSITORY IMPLEMENTATION
// One counter row per kind. Reservation hands out the stored value and
// advances the counter by one; the conditional increment is keyed on
// the observed value, so a lost race surfaces as ErrReservationConflict
// instead of a duplicate number.
// ══════════════════════════════════════════════════════════════════════════════

// SequenceRepository implements sequence.Repository for PostgreSQL.
type SequenceRepository struct {
	conn *Connection
}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository(conn *Connection) *SequenceRepository {
	return &SequenceRepository{conn: conn}
}

// Reserve atomically reserves the next number for a kind.
//
// First use: the bootstrap insert creates the row with
// next_available = bootstrap + 1 and hands out bootstrap - one atomic
// statement, never create-then-read. After that: optimistic read
// followed by a conditional increment.
func (r *SequenceRepository) Reserve(ctx context.Context, kind sequence.Kind, bootstrap int64) (int64, error) {
	now := time.Now().UTC()

	insert := `
		INSERT INTO next_unique_numbers (kind, next_available, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (kind) DO NOTHING
	`
	tag, err := r.conn.Exec(ctx, insert, kind.String(), bootstrap+1, now)
	if err != nil {
		return 0, fmt.Errorf("failed to bootstrap counter %s: %w", kind, err)
	}
	if tag.RowsAffected() == 1 {
		return bootstrap, nil
	}

	// Row exists: read the current value, then advance it only if
	// nobody moved it under us.
	var current int64
	err = r.conn.QueryRow(ctx,
		`SELECT next_available FROM next_unique_numbers WHERE kind = $1`,
		kind.String(),
	).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("failed to read counter %s: %w", kind, err)
	}

	update := `
		UPDATE next_unique_numbers
		SET next_available = $1, updated_at = $2
		WHERE kind = $3 AND next_available = $4
	`
	tag, err = r.conn.Exec(ctx, update, current+1, now, kind.String(), current)
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, shared.ErrReservationConflict
	}

	return current, nil
}

// Peek returns the current counter state without reserving.
func (r *SequenceRepository) Peek(ctx context.Context, kind sequence.Kind) (*sequence.Counter, error) {
	var c sequence.Counter
	var kindStr string

	err := r.conn.QueryRow(ctx,
		`SELECT kind, next_available, created_at, updated_at FROM next_unique_numbers WHERE kind = $1`,
		kind.String(),
	).Scan(&kindStr, &c.NextAvailable, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to peek counter %s: %w", kind, err)
	}

	c.Kind = sequence.Kind(kindStr)
	return &c, nil
}
