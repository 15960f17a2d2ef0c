// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// StudentNumber represents the public-facing student number.
// Student numbers are 8-digit values minted by the sequence generator.
type StudentNumber int64

const (
	// MinStudentNumber is the lowest valid student number (8 digits).
	MinStudentNumber StudentNumber = 10000000
	// MaxStudentNumber is the highest valid student number.
	MaxStudentNumber StudentNumber = 99999999
)

// IsValid checks that the student number is within the 8-digit range.
func (n StudentNumber) IsValid() bool {
	return n >= MinStudentNumber && n <= MaxStudentNumber
}

// Int64 returns the underlying int64 value.
func (n StudentNumber) Int64() int64 {
	return int64(n)
}

// String returns the string representation.
func (n StudentNumber) String() string {
	return fmt.Sprintf("%d", n)
}

// NewStudentNumber creates a new StudentNumber with validation.
func NewStudentNumber(n int64) (StudentNumber, error) {
	num := StudentNumber(n)
	if !num.IsValid() {
		return 0, ErrInvalidStudentNumber
	}
	return num, nil
}

// RegistrationNumber represents the public-facing registration number.
type RegistrationNumber int64

// IsValid checks that the registration number is positive.
func (n RegistrationNumber) IsValid() bool {
	return n > 0
}

// Int64 returns the underlying int64 value.
func (n RegistrationNumber) Int64() int64 {
	return int64(n)
}

// RecordID represents an internal record identifier (UUID format).
type RecordID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the record ID is a valid UUID.
func (r RecordID) IsValid() bool {
	return uuidRegex.MatchString(string(r))
}

// String returns the string representation.
func (r RecordID) String() string {
	return string(r)
}

// IsEmpty checks if the ID is empty.
func (r RecordID) IsEmpty() bool {
	return r == ""
}

// NewRecordID creates a new RecordID with validation.
func NewRecordID(id string) (RecordID, error) {
	rid := RecordID(strings.ToLower(strings.TrimSpace(id)))
	if !rid.IsValid() {
		return "", NewDomainError("shared", "NewRecordID", ErrInvalidID, "invalid record ID format")
	}
	return rid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// GPA Value Object (Grade Point Average)
// ═══════════════════════════════════════════════════════════════════════════

// GPA represents a student's grade point average on the 4.5 scale.
type GPA float64

const (
	// MinGPA is the lower bound of the grade-point scale.
	MinGPA GPA = 0.0
	// MaxGPA is the upper bound of the grade-point scale.
	MaxGPA GPA = 4.5
)

// IsValid checks if the GPA is within the valid range.
func (g GPA) IsValid() bool {
	return g >= MinGPA && g <= MaxGPA
}

// Float64 returns the underlying float64 value.
func (g GPA) Float64() float64 {
	return float64(g)
}

// String returns the GPA formatted to two decimal places.
func (g GPA) String() string {
	return fmt.Sprintf("%.2f", float64(g))
}

// NewGPA creates a new GPA with validation.
func NewGPA(value float64) (GPA, error) {
	g := GPA(value)
	if !g.IsValid() {
		return 0, ErrInvalidGPA
	}
	return g, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Grade Value Object (per-registration grade)
// ═══════════════════════════════════════════════════════════════════════════

// Grade represents a registration grade on the [0, 1] scale.
type Grade float64

// IsValid checks if the grade is within [0, 1].
func (g Grade) IsValid() bool {
	return g >= 0 && g <= 1
}

// Float64 returns the underlying float64 value.
func (g Grade) Float64() float64 {
	return float64(g)
}

// ToGradePoints converts the grade to the 4.5 grade-point scale.
func (g Grade) ToGradePoints() GPA {
	return GPA(float64(g) * float64(MaxGPA))
}

// NewGrade creates a new Grade with validation.
func NewGrade(value float64) (Grade, error) {
	g := Grade(value)
	if !g.IsValid() {
		return 0, ErrInvalidGrade
	}
	return g, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Address Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// ProvinceCode represents a Canadian province or territory code.
type ProvinceCode string

// Regular expression for valid Canadian province codes.
var provinceRegex = regexp.MustCompile(`^(N[BLSTU]|[AMN]B|[BQ]C|ON|PE|SK|YT)$`)

// IsValid checks if the province code is a recognised Canadian code.
func (p ProvinceCode) IsValid() bool {
	return provinceRegex.MatchString(string(p))
}

// String returns the string representation.
func (p ProvinceCode) String() string {
	return string(p)
}

// NewProvinceCode creates a new ProvinceCode with validation.
func NewProvinceCode(code string) (ProvinceCode, error) {
	p := ProvinceCode(strings.ToUpper(strings.TrimSpace(code)))
	if !p.IsValid() {
		return "", ErrInvalidProvince
	}
	return p, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Money Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Money represents a monetary amount in dollars.
type Money float64

// IsValid checks that the amount is non-negative.
func (m Money) IsValid() bool {
	return m >= 0
}

// Float64 returns the underlying float64 value.
func (m Money) Float64() float64 {
	return float64(m)
}

// Scale multiplies the amount by a factor, e.g. a tuition-rate factor.
func (m Money) Scale(factor float64) Money {
	return Money(float64(m) * factor)
}

// String returns the amount formatted as currency.
func (m Money) String() string {
	return fmt.Sprintf("$%.2f", float64(m))
}
