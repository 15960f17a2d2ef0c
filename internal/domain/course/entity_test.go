package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

func validGradedParams() NewCourseParams {
	return NewCourseParams{
		ID:               shared.RecordID("course-1"),
		Type:             TypeGraded,
		CourseNumber:     "G-2001",
		Title:            "Intro to Databases",
		CreditHours:      3,
		TuitionAmount:    shared.Money(450.00),
		AssignmentWeight: 0.4,
		ExamWeight:       0.6,
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType(" Mastery ")
	require.NoError(t, err)
	assert.Equal(t, TypeMastery, typ)

	_, err = ParseType("seminar")
	assert.ErrorIs(t, err, shared.ErrInvalidCourseType)
}

func TestType_CountsTowardGPA(t *testing.T) {
	assert.True(t, TypeGraded.CountsTowardGPA())
	assert.False(t, TypeAudit.CountsTowardGPA())
	assert.False(t, TypeMastery.CountsTowardGPA())
}

func TestFormatCourseNumber(t *testing.T) {
	assert.Equal(t, "G-2001", FormatCourseNumber(TypeGraded, 2001))
	assert.Equal(t, "A-100", FormatCourseNumber(TypeAudit, 100))
	assert.Equal(t, "M-105", FormatCourseNumber(TypeMastery, 105))
}

func TestNewCourse_Graded(t *testing.T) {
	c, err := NewCourse(validGradedParams())
	require.NoError(t, err)

	assert.Equal(t, TypeGraded, c.Type)
	assert.Equal(t, 0.4, c.AssignmentWeight)
	assert.Equal(t, 0.6, c.ExamWeight)
	assert.Zero(t, c.MaximumAttempts, "attempts only apply to mastery courses")
	assert.False(t, c.CreatedAt.IsZero())
}

func TestNewCourse_GradedWeightsMustSumToOne(t *testing.T) {
	params := validGradedParams()
	params.AssignmentWeight = 0.5
	params.ExamWeight = 0.6

	_, err := NewCourse(params)
	assert.ErrorIs(t, err, shared.ErrInvalidWeights)

	params.AssignmentWeight = -0.1
	params.ExamWeight = 1.1
	_, err = NewCourse(params)
	assert.ErrorIs(t, err, shared.ErrInvalidWeights)

	// Двоичное представление 0.3+0.7 не даёт ровно 1.0 - допуск обязан
	// это прощать.
	params.AssignmentWeight = 0.3
	params.ExamWeight = 0.7
	_, err = NewCourse(params)
	assert.NoError(t, err)
}

func TestNewCourse_Mastery(t *testing.T) {
	params := NewCourseParams{
		ID:              shared.RecordID("course-2"),
		Type:            TypeMastery,
		CourseNumber:    "M-100",
		Title:           "Welding Certification",
		CreditHours:     2,
		TuitionAmount:   shared.Money(300.00),
		MaximumAttempts: 3,
	}

	c, err := NewCourse(params)
	require.NoError(t, err)
	assert.Equal(t, 3, c.MaximumAttempts)
	assert.Zero(t, c.AssignmentWeight)

	params.MaximumAttempts = 0
	_, err = NewCourse(params)
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestNewCourse_Audit(t *testing.T) {
	c, err := NewCourse(NewCourseParams{
		ID:            shared.RecordID("course-3"),
		Type:          TypeAudit,
		CourseNumber:  "A-100",
		Title:         "Art History",
		CreditHours:   1,
		TuitionAmount: shared.Money(150.00),
	})
	require.NoError(t, err)

	// Для audit ни веса, ни попытки не проверяются и не заполняются.
	assert.Zero(t, c.AssignmentWeight)
	assert.Zero(t, c.ExamWeight)
	assert.Zero(t, c.MaximumAttempts)
}

func TestNewCourse_RejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewCourseParams)
	}{
		{"empty id", func(p *NewCourseParams) { p.ID = "" }},
		{"invalid type", func(p *NewCourseParams) { p.Type = Type("seminar") }},
		{"blank course number", func(p *NewCourseParams) { p.CourseNumber = "   " }},
		{"blank title", func(p *NewCourseParams) { p.Title = "   " }},
		{"zero credit hours", func(p *NewCourseParams) { p.CreditHours = 0 }},
		{"negative tuition", func(p *NewCourseParams) { p.TuitionAmount = shared.Money(-10) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validGradedParams()
			tt.mutate(&params)

			_, err := NewCourse(params)
			assert.Error(t, err)
		})
	}
}

func TestCourse_TuitionFor(t *testing.T) {
	c, err := NewCourse(validGradedParams())
	require.NoError(t, err)

	// Отстранённый студент платит надбавку, отличник получает скидку.
	assert.InDelta(t, 495.00, c.TuitionFor(1.10).Float64(), 1e-9)
	assert.InDelta(t, 405.00, c.TuitionFor(0.90).Float64(), 1e-9)
	assert.InDelta(t, 450.00, c.TuitionFor(1.00).Float64(), 1e-9)
}
