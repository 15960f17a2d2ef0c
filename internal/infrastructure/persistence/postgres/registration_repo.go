// Package postgres implements the PostgreSQL persistence layer for the
// BIT College records hub.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bit-college/records-hub/internal/domain/registration"
	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RegistrationRepository implements registration.Repository for PostgreSQL.
type RegistrationRepository struct {
	conn *Connection
}

// NewRegistrationRepository creates a new RegistrationRepository.
func NewRegistrationRepository(conn *Connection) *RegistrationRepository {
	return &RegistrationRepository{conn: conn}
}

const registrationColumns = `
	id, student_id, course_id, registration_number, registration_date,
	grade, notes, created_at, updated_at
`

// Create creates a new registration. The UNIQUE(student_id, course_id)
// constraint turns a double enrollment into ErrDuplicateEnrollment.
func (r *RegistrationRepository) Create(ctx context.Context, reg *registration.Registration) error {
	query := `
		INSERT INTO registrations (
			id, student_id, course_id, registration_number, registration_date,
			grade, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.Exec(ctx, query,
		reg.ID.String(),
		reg.StudentID.String(),
		reg.CourseID.String(),
		reg.RegistrationNumber.Int64(),
		reg.RegistrationDate,
		gradeOrNil(reg.Grade),
		reg.Notes,
		reg.CreatedAt,
		reg.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrDuplicateEnrollment
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}

	return nil
}

// GetByID returns a registration by internal ID.
func (r *RegistrationRepository) GetByID(ctx context.Context, id shared.RecordID) (*registration.Registration, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id.String())
	return scanRegistration(row)
}

// Update updates a registration (including its grade).
func (r *RegistrationRepository) Update(ctx context.Context, reg *registration.Registration) error {
	query := `
		UPDATE registrations SET
			grade = $1,
			notes = $2,
			updated_at = $3
		WHERE id = $4
	`

	result, err := r.conn.Exec(ctx, query,
		gradeOrNil(reg.Grade),
		reg.Notes,
		time.Now().UTC(),
		reg.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrRegistrationNotFound
	}

	return nil
}

// Delete removes a registration.
func (r *RegistrationRepository) Delete(ctx context.Context, id shared.RecordID) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrRegistrationNotFound
	}

	return nil
}

// GetByStudent returns all registrations of a student.
func (r *RegistrationRepository) GetByStudent(ctx context.Context, studentID shared.RecordID) ([]*registration.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE student_id = $1 ORDER BY registration_date`
	return r.queryRegistrations(ctx, query, studentID.String())
}

// GetByCourse returns all registrations in a course.
func (r *RegistrationRepository) GetByCourse(ctx context.Context, courseID shared.RecordID) ([]*registration.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE course_id = $1 ORDER BY registration_date`
	return r.queryRegistrations(ctx, query, courseID.String())
}

// queryRegistrations runs a multi-row registration query.
func (r *RegistrationRepository) queryRegistrations(ctx context.Context, query string, args ...interface{}) ([]*registration.Registration, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var regs []*registration.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}

	return regs, rows.Err()
}

// scanRegistration scans a registration row.
func scanRegistration(row pgx.Row) (*registration.Registration, error) {
	var (
		reg       registration.Registration
		id        string
		studentID string
		courseID  string
		number    int64
		grade     *float64
	)

	err := row.Scan(
		&id,
		&studentID,
		&courseID,
		&number,
		&reg.RegistrationDate,
		&grade,
		&reg.Notes,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to scan registration: %w", err)
	}

	reg.ID = shared.RecordID(id)
	reg.StudentID = shared.RecordID(studentID)
	reg.CourseID = shared.RecordID(courseID)
	reg.RegistrationNumber = shared.RegistrationNumber(number)

	if grade != nil {
		g := shared.Grade(*grade)
		reg.Grade = &g
	}

	return &reg, nil
}

// gradeOrNil maps an optional grade to a nullable column value.
func gradeOrNil(g *shared.Grade) *float64 {
	if g == nil {
		return nil
	}
	f := g.Float64()
	return &f
}
