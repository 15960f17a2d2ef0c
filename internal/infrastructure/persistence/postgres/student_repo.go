// Package postgres implements the PostgreSQL persistence layer for the
// BIT College records hub.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentColumns = `
	id, student_number, grade_point_state_id, academic_program_id,
	first_name, last_name, address, city, province,
	grade_point_average, outstanding_fees, notes, archived,
	date_created, created_at, updated_at
`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new student.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (
			id, student_number, grade_point_state_id, academic_program_id,
			first_name, last_name, address, city, province,
			grade_point_average, outstanding_fees, notes, archived,
			date_created, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID.String(),
		s.StudentNumber.Int64(),
		s.GradePointStateID.String(),
		recordIDOrNil(s.ProgramID),
		s.FirstName,
		s.LastName,
		s.Address,
		s.City,
		s.Province.String(),
		gpaOrNil(s.GradePointAverage),
		s.OutstandingFees.Float64(),
		s.Notes,
		s.Archived,
		s.DateCreated,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID returns a student by internal ID.
func (r *StudentRepository) GetByID(ctx context.Context, id shared.RecordID) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id.String())
	return r.scanStudent(row)
}

// GetByStudentNumber returns a student by public student number.
func (r *StudentRepository) GetByStudentNumber(ctx context.Context, number shared.StudentNumber) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_number = $1`

	row := r.conn.QueryRow(ctx, query, number.Int64())
	return r.scanStudent(row)
}

// Update updates a student's mutable fields.
// The standing reference is deliberately excluded: it only moves
// through CompareAndSetStanding.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE students SET
			academic_program_id = $1,
			first_name = $2,
			last_name = $3,
			address = $4,
			city = $5,
			province = $6,
			grade_point_average = $7,
			outstanding_fees = $8,
			notes = $9,
			archived = $10,
			updated_at = $11
		WHERE id = $12
	`

	result, err := r.conn.Exec(ctx, query,
		recordIDOrNil(s.ProgramID),
		s.FirstName,
		s.LastName,
		s.Address,
		s.City,
		s.Province.String(),
		gpaOrNil(s.GradePointAverage),
		s.OutstandingFees.Float64(),
		s.Notes,
		s.Archived,
		time.Now().UTC(),
		s.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// Archive performs a soft delete on a student.
func (r *StudentRepository) Archive(ctx context.Context, id shared.RecordID) error {
	query := `
		UPDATE students
		SET archived = TRUE, updated_at = $1
		WHERE id = $2 AND archived = FALSE
	`

	result, err := r.conn.Exec(ctx, query, time.Now().UTC(), id.String())
	if err != nil {
		return fmt.Errorf("failed to archive student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Bulk Operations
// ─────────────────────────────────────────────────────────────────────────────

// GetAll returns students with pagination.
func (r *StudentRepository) GetAll(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	if !opts.IncludeArchived {
		query += ` WHERE archived = FALSE`
	}
	query += ` ORDER BY student_number LIMIT $1 OFFSET $2`

	limit := opts.Limit
	if limit <= 0 {
		limit = 1000
	}

	rows, err := r.conn.Query(ctx, query, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*student.Student
	for rows.Next() {
		s, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}

	return students, rows.Err()
}

// Count returns the number of non-archived students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE archived = FALSE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// ListGradedIDs returns the IDs of all non-archived students with a
// computed GPA. Used by the periodic standing sweep.
func (r *StudentRepository) ListGradedIDs(ctx context.Context) ([]shared.RecordID, error) {
	query := `
		SELECT id FROM students
		WHERE grade_point_average IS NOT NULL AND archived = FALSE
		ORDER BY student_number
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list graded students: %w", err)
	}
	defer rows.Close()

	var ids []shared.RecordID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan student id: %w", err)
		}
		ids = append(ids, shared.RecordID(id))
	}

	return ids, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Academic Standing
// ─────────────────────────────────────────────────────────────────────────────

// GetAcademicRecord returns a fresh read of the student's standing
// reference and GPA.
func (r *StudentRepository) GetAcademicRecord(ctx context.Context, id shared.RecordID) (*student.AcademicRecord, error) {
	query := `
		SELECT id, grade_point_state_id, grade_point_average
		FROM students
		WHERE id = $1
	`

	var (
		studentID  string
		standingID string
		gpa        *float64
	)
	err := r.conn.QueryRow(ctx, query, id.String()).Scan(&studentID, &standingID, &gpa)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to read academic record: %w", err)
	}

	record := &student.AcademicRecord{
		StudentID:         shared.RecordID(studentID),
		GradePointStateID: shared.RecordID(standingID),
	}
	if gpa != nil {
		g := shared.GPA(*gpa)
		record.GradePointAverage = &g
	}

	return record, nil
}

// CompareAndSetStanding conditionally moves the student's standing
// reference. The write lands only if the stored reference still equals
// expected; zero rows affected means a concurrent writer got there
// first, and the caller must restart from a fresh read.
func (r *StudentRepository) CompareAndSetStanding(ctx context.Context, id, next, expected shared.RecordID) (bool, error) {
	query := `
		UPDATE students
		SET grade_point_state_id = $1, updated_at = $2
		WHERE id = $3 AND grade_point_state_id = $4
	`

	result, err := r.conn.Exec(ctx, query,
		next.String(),
		time.Now().UTC(),
		id.String(),
		expected.String(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to compare-and-set standing: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Existence Checks
// ─────────────────────────────────────────────────────────────────────────────

// Exists checks if a student exists by ID.
func (r *StudentRepository) Exists(ctx context.Context, id shared.RecordID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, id.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check student existence: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// scanStudent scans a student row.
func (r *StudentRepository) scanStudent(row pgx.Row) (*student.Student, error) {
	var (
		s         student.Student
		id        string
		number    int64
		standing  string
		programID *string
		province  string
		gpa       *float64
		fees      float64
	)

	err := row.Scan(
		&id,
		&number,
		&standing,
		&programID,
		&s.FirstName,
		&s.LastName,
		&s.Address,
		&s.City,
		&province,
		&gpa,
		&fees,
		&s.Notes,
		&s.Archived,
		&s.DateCreated,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.ID = shared.RecordID(id)
	s.StudentNumber = shared.StudentNumber(number)
	s.GradePointStateID = shared.RecordID(standing)
	s.Province = shared.ProvinceCode(province)
	s.OutstandingFees = shared.Money(fees)

	if programID != nil {
		pid := shared.RecordID(*programID)
		s.ProgramID = &pid
	}
	if gpa != nil {
		g := shared.GPA(*gpa)
		s.GradePointAverage = &g
	}

	return &s, nil
}

// recordIDOrNil maps an optional RecordID to a nullable column value.
func recordIDOrNil(id *shared.RecordID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// gpaOrNil maps an optional GPA to a nullable column value.
func gpaOrNil(gpa *shared.GPA) *float64 {
	if gpa == nil {
		return nil
	}
	f := gpa.Float64()
	return &f
}
