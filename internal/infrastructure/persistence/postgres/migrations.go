// Package postgres implements the PostgreSQL persistence layer for the
// BIT College records hub.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: STANDING CATALOG + ACADEMIC PROGRAMS + STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create standing catalog, academic programs and students
-- Version: 001

-- Standing catalog: exactly one row per variant, materialized lazily.
-- UNIQUE(variant) is what makes concurrent get-or-create converge on
-- a single identity.
CREATE TABLE IF NOT EXISTS grade_point_states (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    variant VARCHAR(20) NOT NULL UNIQUE,
    lower_limit DECIMAL(4,2) NOT NULL,
    upper_limit DECIMAL(4,2) NOT NULL,
    tuition_rate_factor DECIMAL(5,3) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_variant CHECK (variant IN ('suspended', 'probation', 'regular', 'honours')),
    CONSTRAINT valid_limits CHECK (lower_limit < upper_limit),
    CONSTRAINT valid_factor CHECK (tuition_rate_factor > 0)
);

-- Academic programs (acronym + description)
CREATE TABLE IF NOT EXISTS academic_programs (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    acronym VARCHAR(10) NOT NULL UNIQUE,
    description VARCHAR(200) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

-- Main students table
CREATE TABLE IF NOT EXISTS students (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    student_number BIGINT NOT NULL UNIQUE,
    grade_point_state_id UUID NOT NULL REFERENCES grade_point_states(id),
    academic_program_id UUID REFERENCES academic_programs(id),
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    address VARCHAR(200) NOT NULL,
    city VARCHAR(100) NOT NULL,
    province VARCHAR(2) NOT NULL,
    grade_point_average DECIMAL(4,2),
    outstanding_fees DECIMAL(10,2) NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',
    archived BOOLEAN NOT NULL DEFAULT FALSE,
    date_created TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_student_number CHECK (student_number BETWEEN 10000000 AND 99999999),
    CONSTRAINT valid_gpa CHECK (grade_point_average IS NULL OR (grade_point_average >= 0 AND grade_point_average <= 4.5)),
    CONSTRAINT valid_fees CHECK (outstanding_fees >= 0)
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_students_student_number ON students(student_number);
CREATE INDEX IF NOT EXISTS idx_students_standing ON students(grade_point_state_id);
CREATE INDEX IF NOT EXISTS idx_students_program ON students(academic_program_id);
CREATE INDEX IF NOT EXISTS idx_students_last_name ON students(last_name);

-- Partial index for the periodic standing sweep: only graded,
-- non-archived students are reconciled.
CREATE INDEX IF NOT EXISTS idx_students_graded ON students(id) WHERE grade_point_average IS NOT NULL AND archived = FALSE;
`

const migration001Down = `
DROP TABLE IF EXISTS students;
DROP TABLE IF EXISTS academic_programs;
DROP TABLE IF EXISTS grade_point_states;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: COURSES + REGISTRATIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create course calendar and registrations
-- Version: 002

-- Courses: single table with a course_type discriminator.
-- Type-specific columns are nullable and checked per type.
CREATE TABLE IF NOT EXISTS courses (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    course_type VARCHAR(10) NOT NULL,
    course_number VARCHAR(20) NOT NULL UNIQUE,
    academic_program_id UUID REFERENCES academic_programs(id),
    title VARCHAR(200) NOT NULL,
    credit_hours DECIMAL(5,2) NOT NULL,
    tuition_amount DECIMAL(10,2) NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    assignment_weight DECIMAL(4,3),
    exam_weight DECIMAL(4,3),
    maximum_attempts INTEGER,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_course_type CHECK (course_type IN ('graded', 'audit', 'mastery')),
    CONSTRAINT valid_credit_hours CHECK (credit_hours > 0),
    CONSTRAINT valid_tuition CHECK (tuition_amount >= 0),
    CONSTRAINT graded_has_weights CHECK (
        course_type != 'graded' OR (assignment_weight IS NOT NULL AND exam_weight IS NOT NULL)
    ),
    CONSTRAINT mastery_has_attempts CHECK (
        course_type != 'mastery' OR maximum_attempts > 0
    )
);

CREATE INDEX IF NOT EXISTS idx_courses_type ON courses(course_type);
CREATE INDEX IF NOT EXISTS idx_courses_number ON courses(course_number);
CREATE INDEX IF NOT EXISTS idx_courses_program ON courses(academic_program_id);

-- Registrations: student x course, one active registration per pair.
CREATE TABLE IF NOT EXISTS registrations (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    course_id UUID NOT NULL REFERENCES courses(id),
    registration_number BIGINT NOT NULL UNIQUE,
    registration_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    grade DECIMAL(4,3),
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT unique_enrollment UNIQUE (student_id, course_id),
    CONSTRAINT valid_grade CHECK (grade IS NULL OR (grade >= 0 AND grade <= 1))
);

CREATE INDEX IF NOT EXISTS idx_registrations_student ON registrations(student_id);
CREATE INDEX IF NOT EXISTS idx_registrations_course ON registrations(course_id);
CREATE INDEX IF NOT EXISTS idx_registrations_graded ON registrations(student_id) WHERE grade IS NOT NULL;
`

const migration002Down = `
DROP TABLE IF EXISTS registrations;
DROP TABLE IF EXISTS courses;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: SEQUENCE COUNTERS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create per-kind sequence counters
-- Version: 003

-- One row per counter kind. The row appears on first use (bootstrap
-- insert with ON CONFLICT DO NOTHING); reservation is an optimistic
-- conditional increment keyed on the observed value.
CREATE TABLE IF NOT EXISTS next_unique_numbers (
    kind VARCHAR(20) PRIMARY KEY,
    next_available BIGINT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_kind CHECK (kind IN ('student', 'registration', 'graded_course', 'audit_course', 'mastery_course')),
    CONSTRAINT valid_next CHECK (next_available > 0)
);
`

const migration003Down = `
DROP TABLE IF EXISTS next_unique_numbers;
`
