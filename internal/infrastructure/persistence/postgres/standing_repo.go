// Package postgres implements the PostgreSQL persistence layer for the
// BIT College records hub.
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/standing"
)

// ══════════════════════════════════════════════════════════════════════════════
// STANDING REPOSITORY IMPLEMENTATION
// One singleton row per variant. UNIQUE(variant) carries the
// atomicity: two concurrent creators both converge on the row the
// winner inserted.
// ══════════════════════════════════════════════════════════════════════════════

// StandingRepository implements standing.Repository for PostgreSQL.
type StandingRepository struct {
	conn *Connection
}

// NewStandingRepository creates a new StandingRepository.
func NewStandingRepository(conn *Connection) *StandingRepository {
	return &StandingRepository{conn: conn}
}

const standingColumns = `id, variant, lower_limit, upper_limit, tuition_rate_factor, created_at`

// GetOrCreate returns the singleton row for a variant, inserting it on
// first use. ON CONFLICT DO NOTHING followed by a re-select inside one
// transaction means a lost race still returns the winner's identity.
func (r *StandingRepository) GetOrCreate(ctx context.Context, v standing.Variant) (*standing.State, error) {
	candidate, err := standing.NewState(shared.RecordID(uuid.New().String()), v)
	if err != nil {
		return nil, err
	}

	var state *standing.State
	err = r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		insert := `
			INSERT INTO grade_point_states (id, variant, lower_limit, upper_limit, tuition_rate_factor, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (variant) DO NOTHING
		`
		if _, err := tx.Exec(ctx, insert,
			candidate.ID.String(),
			candidate.Variant.String(),
			candidate.LowerLimit,
			candidate.UpperLimit,
			candidate.TuitionFactor,
			candidate.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert standing: %w", err)
		}

		row := tx.QueryRow(ctx,
			`SELECT `+standingColumns+` FROM grade_point_states WHERE variant = $1`,
			v.String(),
		)
		s, err := scanStanding(row)
		if err != nil {
			return err
		}

		state = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return state, nil
}

// GetByID returns a standing row by its identity.
func (r *StandingRepository) GetByID(ctx context.Context, id shared.RecordID) (*standing.State, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+standingColumns+` FROM grade_point_states WHERE id = $1`,
		id.String(),
	)
	return scanStanding(row)
}

// GetByVariant returns the singleton row for a variant if it has been
// materialized.
func (r *StandingRepository) GetByVariant(ctx context.Context, v standing.Variant) (*standing.State, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+standingColumns+` FROM grade_point_states WHERE variant = $1`,
		v.String(),
	)
	return scanStanding(row)
}

// ListAll returns all materialized standing rows ordered by lower bound.
func (r *StandingRepository) ListAll(ctx context.Context) ([]*standing.State, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+standingColumns+` FROM grade_point_states ORDER BY lower_limit`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	defer rows.Close()

	var states []*standing.State
	for rows.Next() {
		s, err := scanStanding(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}

	return states, rows.Err()
}

// scanStanding scans a standing row.
func scanStanding(row pgx.Row) (*standing.State, error) {
	var (
		s       standing.State
		id      string
		variant string
	)

	err := row.Scan(&id, &variant, &s.LowerLimit, &s.UpperLimit, &s.TuitionFactor, &s.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStandingNotFound
		}
		return nil, fmt.Errorf("failed to scan standing: %w", err)
	}

	s.ID = shared.RecordID(id)
	s.Variant = standing.Variant(variant)

	return &s, nil
}
