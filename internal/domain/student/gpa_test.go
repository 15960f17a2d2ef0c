package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

func TestComputeGPA_NoGradedCourses(t *testing.T) {
	gpa, err := ComputeGPA(nil)
	require.NoError(t, err)
	assert.Nil(t, gpa, "a student without graded courses has no gpa")

	gpa, err = ComputeGPA([]GradedResult{})
	require.NoError(t, err)
	assert.Nil(t, gpa)
}

func TestComputeGPA_SingleCourse(t *testing.T) {
	gpa, err := ComputeGPA([]GradedResult{
		{Grade: shared.Grade(0.8), CreditHours: 3},
	})
	require.NoError(t, err)
	require.NotNil(t, gpa)
	assert.InDelta(t, 3.6, gpa.Float64(), 1e-9)
}

func TestComputeGPA_WeightsByCreditHours(t *testing.T) {
	// Идеальная оценка на 3 часа и половинная на 1 час:
	// (4.5*3 + 2.25*1) / 4 = 3.9375.
	gpa, err := ComputeGPA([]GradedResult{
		{Grade: shared.Grade(1.0), CreditHours: 3},
		{Grade: shared.Grade(0.5), CreditHours: 1},
	})
	require.NoError(t, err)
	require.NotNil(t, gpa)
	assert.InDelta(t, 3.9375, gpa.Float64(), 1e-9)
}

func TestComputeGPA_PerfectAndZero(t *testing.T) {
	gpa, err := ComputeGPA([]GradedResult{
		{Grade: shared.Grade(1.0), CreditHours: 3},
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.5, gpa.Float64(), 1e-9, "a perfect grade maps to the top of the scale")

	gpa, err = ComputeGPA([]GradedResult{
		{Grade: shared.Grade(0.0), CreditHours: 3},
	})
	require.NoError(t, err)
	require.NotNil(t, gpa, "zero is a real grade, not an absence of one")
	assert.Zero(t, gpa.Float64())
}

func TestComputeGPA_RejectsInvalidInput(t *testing.T) {
	_, err := ComputeGPA([]GradedResult{
		{Grade: shared.Grade(1.5), CreditHours: 3},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidGrade)

	_, err = ComputeGPA([]GradedResult{
		{Grade: shared.Grade(0.5), CreditHours: 0},
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}
