// Package postgres implements the PostgreSQL persistence layer for the
// BIT College records hub.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bit-college/records-hub/internal/domain/program"
	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACADEMIC PROGRAM REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProgramRepository implements program.Repository for PostgreSQL.
type ProgramRepository struct {
	conn *Connection
}

// NewProgramRepository creates a new ProgramRepository.
func NewProgramRepository(conn *Connection) *ProgramRepository {
	return &ProgramRepository{conn: conn}
}

// Create creates a new academic program.
func (r *ProgramRepository) Create(ctx context.Context, p *program.Program) error {
	query := `
		INSERT INTO academic_programs (id, acronym, description, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query, p.ID.String(), p.Acronym, p.Description, p.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError("program", "Create", shared.ErrAlreadyExists, "program acronym already exists")
		}
		return fmt.Errorf("failed to create program: %w", err)
	}

	return nil
}

// GetByID returns a program by internal ID.
func (r *ProgramRepository) GetByID(ctx context.Context, id shared.RecordID) (*program.Program, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, acronym, description, created_at FROM academic_programs WHERE id = $1`,
		id.String(),
	)
	return scanProgram(row)
}

// GetByAcronym returns a program by its acronym.
func (r *ProgramRepository) GetByAcronym(ctx context.Context, acronym string) (*program.Program, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, acronym, description, created_at FROM academic_programs WHERE acronym = $1`,
		acronym,
	)
	return scanProgram(row)
}

// GetAll returns all academic programs.
func (r *ProgramRepository) GetAll(ctx context.Context) ([]*program.Program, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT id, acronym, description, created_at FROM academic_programs ORDER BY acronym`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	var programs []*program.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}

	return programs, rows.Err()
}

// scanProgram scans a program row.
func scanProgram(row pgx.Row) (*program.Program, error) {
	var (
		p  program.Program
		id string
	)

	err := row.Scan(&id, &p.Acronym, &p.Description, &p.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to scan program: %w", err)
	}

	p.ID = shared.RecordID(id)
	return &p, nil
}
