package standing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("  Honours ")
	require.NoError(t, err)
	assert.Equal(t, VariantHonours, v)

	_, err = ParseVariant("expelled")
	assert.ErrorIs(t, err, shared.ErrUnknownVariant)

	_, err = ParseVariant("")
	assert.ErrorIs(t, err, shared.ErrUnknownVariant)
}

func TestBounds_TileTheWholeScale(t *testing.T) {
	variants := Variants()
	require.Len(t, variants, 4)

	// Полосы покрывают [0.00, 4.50] без зазоров и пересечений.
	prev := 0.0
	for _, v := range variants {
		b, err := BoundsFor(v)
		require.NoError(t, err)
		assert.Equal(t, prev, b.LowerLimit, "variant %s lower limit", v)
		assert.Greater(t, b.UpperLimit, b.LowerLimit, "variant %s", v)
		prev = b.UpperLimit
	}
	assert.Equal(t, 4.50, prev)
}

func TestTuitionFactorFor(t *testing.T) {
	tests := []struct {
		variant Variant
		factor  float64
	}{
		{VariantSuspended, 1.10},
		{VariantProbation, 1.075},
		{VariantRegular, 1.00},
		{VariantHonours, 0.90},
	}

	for _, tt := range tests {
		factor, err := TuitionFactorFor(tt.variant)
		require.NoError(t, err)
		assert.Equal(t, tt.factor, factor, "variant %s", tt.variant)
	}

	_, err := TuitionFactorFor(Variant("unknown"))
	assert.ErrorIs(t, err, shared.ErrUnknownVariant)
}

func TestNextVariant_AdjacentStepsOnly(t *testing.T) {
	tests := []struct {
		name    string
		current Variant
		gpa     float64
		want    Variant
	}{
		{"suspended stays at zero", VariantSuspended, 0.0, VariantSuspended},
		{"suspended stays below cutoff", VariantSuspended, 0.99, VariantSuspended},
		{"suspended steps up", VariantSuspended, 1.5, VariantProbation},
		{"suspended steps one band even for honours gpa", VariantSuspended, 4.2, VariantProbation},
		{"probation steps down", VariantProbation, 0.5, VariantSuspended},
		{"probation holds", VariantProbation, 1.5, VariantProbation},
		{"probation steps up", VariantProbation, 2.5, VariantRegular},
		{"regular steps down", VariantRegular, 1.2, VariantProbation},
		{"regular holds", VariantRegular, 3.0, VariantRegular},
		{"regular steps up", VariantRegular, 4.0, VariantHonours},
		{"honours steps down", VariantHonours, 3.0, VariantRegular},
		{"honours holds at top", VariantHonours, 4.5, VariantHonours},
		{"honours steps one band even for zero gpa", VariantHonours, 0.0, VariantRegular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextVariant(tt.current, tt.gpa)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextVariant_BoundaryValues(t *testing.T) {
	// Нижняя граница принадлежит полосе: ровно 1.00 - это probation.
	next, err := NextVariant(VariantProbation, 1.00)
	require.NoError(t, err)
	assert.Equal(t, VariantProbation, next)

	next, err = NextVariant(VariantSuspended, 1.00)
	require.NoError(t, err)
	assert.Equal(t, VariantSuspended, next, "1.00 does not exceed the suspended upper limit")

	// Ровно 3.70 остаётся regular, honours начинается выше.
	next, err = NextVariant(VariantRegular, 3.70)
	require.NoError(t, err)
	assert.Equal(t, VariantRegular, next)

	next, err = NextVariant(VariantHonours, 3.70)
	require.NoError(t, err)
	assert.Equal(t, VariantHonours, next)
}

func TestNextVariant_ConvergesWithinMaxSteps(t *testing.T) {
	// Из любого статуса при любом GPA внутри полос сходимость
	// достигается не более чем за три шага. Точные границы полос
	// не участвуют: переход требует строгого превышения границы.
	gpas := []float64{0.0, 0.5, 0.99, 1.5, 2.5, 3.0, 3.5, 4.0, 4.49, 4.5}

	for _, start := range Variants() {
		for _, gpa := range gpas {
			current := start
			steps := 0
			for {
				next, err := NextVariant(current, gpa)
				require.NoError(t, err)
				if next == current {
					break
				}
				current = next
				steps++
				require.LessOrEqual(t, steps, MaxTransitionSteps,
					"from %s at gpa %.2f", start, gpa)
			}

			// Конечный статус содержит GPA.
			state, err := NewState(shared.RecordID("test"), current)
			require.NoError(t, err)
			assert.True(t, state.Contains(gpa),
				"converged to %s which does not contain gpa %.2f", current, gpa)
		}
	}
}

func TestNextVariant_UnknownVariant(t *testing.T) {
	_, err := NextVariant(Variant("withdrawn"), 2.0)
	assert.ErrorIs(t, err, shared.ErrUnknownVariant)
}

func TestState_Contains(t *testing.T) {
	regular, err := NewState(shared.RecordID("r"), VariantRegular)
	require.NoError(t, err)

	assert.True(t, regular.Contains(2.00), "lower limit is inclusive")
	assert.True(t, regular.Contains(3.69))
	assert.False(t, regular.Contains(3.70), "upper limit belongs to the next band")
	assert.False(t, regular.Contains(1.99))

	honours, err := NewState(shared.RecordID("h"), VariantHonours)
	require.NoError(t, err)

	assert.True(t, honours.Contains(3.70))
	assert.True(t, honours.Contains(4.50), "the top band includes its upper limit")
	assert.False(t, honours.Contains(3.69))
}

func TestNewState_PopulatesPolicyBounds(t *testing.T) {
	state, err := NewState(shared.RecordID("id-1"), VariantProbation)
	require.NoError(t, err)

	assert.Equal(t, shared.RecordID("id-1"), state.ID)
	assert.Equal(t, VariantProbation, state.Variant)
	assert.Equal(t, 1.00, state.LowerLimit)
	assert.Equal(t, 2.00, state.UpperLimit)
	assert.Equal(t, 1.075, state.TuitionFactor)
	assert.False(t, state.CreatedAt.IsZero())

	_, err = NewState(shared.RecordID("id-2"), Variant("bogus"))
	assert.ErrorIs(t, err, shared.ErrUnknownVariant)
}
