// Package postgres implements the PostgreSQL persistence layer for the
// BIT College records hub.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bit-college/records-hub/internal/domain/course"
	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// Single table with a course_type discriminator; type-specific columns
// are nullable and validated by check constraints.
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

const courseColumns = `
	id, course_type, course_number, academic_program_id, title,
	credit_hours, tuition_amount, notes,
	assignment_weight, exam_weight, maximum_attempts,
	created_at, updated_at
`

// Create creates a new course.
func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	query := `
		INSERT INTO courses (
			id, course_type, course_number, academic_program_id, title,
			credit_hours, tuition_amount, notes,
			assignment_weight, exam_weight, maximum_attempts,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.conn.Exec(ctx, query,
		c.ID.String(),
		c.Type.String(),
		c.CourseNumber,
		recordIDOrNil(c.ProgramID),
		c.Title,
		c.CreditHours,
		c.TuitionAmount.Float64(),
		c.Notes,
		gradedFieldOrNil(c, c.AssignmentWeight),
		gradedFieldOrNil(c, c.ExamWeight),
		masteryAttemptsOrNil(c),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError("course", "Create", shared.ErrAlreadyExists, "course number already exists")
		}
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

// GetByID returns a course by internal ID.
func (r *CourseRepository) GetByID(ctx context.Context, id shared.RecordID) (*course.Course, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id.String())
	return scanCourse(row)
}

// GetByCourseNumber returns a course by public number.
func (r *CourseRepository) GetByCourseNumber(ctx context.Context, number string) (*course.Course, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE course_number = $1`, number)
	return scanCourse(row)
}

// Update updates a course's mutable fields. The type and public number
// are fixed at creation.
func (r *CourseRepository) Update(ctx context.Context, c *course.Course) error {
	query := `
		UPDATE courses SET
			academic_program_id = $1,
			title = $2,
			credit_hours = $3,
			tuition_amount = $4,
			notes = $5,
			assignment_weight = $6,
			exam_weight = $7,
			maximum_attempts = $8,
			updated_at = $9
		WHERE id = $10
	`

	result, err := r.conn.Exec(ctx, query,
		recordIDOrNil(c.ProgramID),
		c.Title,
		c.CreditHours,
		c.TuitionAmount.Float64(),
		c.Notes,
		gradedFieldOrNil(c, c.AssignmentWeight),
		gradedFieldOrNil(c, c.ExamWeight),
		masteryAttemptsOrNil(c),
		time.Now().UTC(),
		c.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id shared.RecordID) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}

	return nil
}

// GetAll returns all courses, optionally filtered by type.
func (r *CourseRepository) GetAll(ctx context.Context, courseType *course.Type) ([]*course.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses`
	args := []interface{}{}

	if courseType != nil {
		query += ` WHERE course_type = $1`
		args = append(args, courseType.String())
	}
	query += ` ORDER BY course_number`

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*course.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	return courses, rows.Err()
}

// scanCourse scans a course row.
func scanCourse(row pgx.Row) (*course.Course, error) {
	var (
		c          course.Course
		id         string
		courseType string
		programID  *string
		tuition    float64
		assignW    *float64
		examW      *float64
		attempts   *int
	)

	err := row.Scan(
		&id,
		&courseType,
		&c.CourseNumber,
		&programID,
		&c.Title,
		&c.CreditHours,
		&tuition,
		&c.Notes,
		&assignW,
		&examW,
		&attempts,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}

	c.ID = shared.RecordID(id)
	c.Type = course.Type(courseType)
	c.TuitionAmount = shared.Money(tuition)

	if programID != nil {
		pid := shared.RecordID(*programID)
		c.ProgramID = &pid
	}
	if assignW != nil {
		c.AssignmentWeight = *assignW
	}
	if examW != nil {
		c.ExamWeight = *examW
	}
	if attempts != nil {
		c.MaximumAttempts = *attempts
	}

	return &c, nil
}

// gradedFieldOrNil maps a graded-only weight to a nullable column value.
func gradedFieldOrNil(c *course.Course, value float64) *float64 {
	if c.Type != course.TypeGraded {
		return nil
	}
	return &value
}

// masteryAttemptsOrNil maps the mastery-only attempt cap to a nullable
// column value.
func masteryAttemptsOrNil(c *course.Course) *int {
	if c.Type != course.TypeMastery {
		return nil
	}
	v := c.MaximumAttempts
	return &v
}
