package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureFlags_Defaults(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.True(t, ff.IsEnabled(FeatureCacheStudentCards, nil))
	assert.True(t, ff.IsEnabled(FeatureStandingAutoReconcile, nil))
	assert.True(t, ff.IsEnabled(FeatureStandingSweep, nil))
	assert.True(t, ff.IsEnabled(FeatureAPITranscripts, nil))

	// Redis шина и экспериментальная аналитика выключены по умолчанию.
	assert.False(t, ff.IsEnabled(FeatureEventsRedisBus, nil))
	assert.False(t, ff.IsEnabled(FeatureExperimentalProgramStats, nil))

	assert.False(t, ff.IsEnabled("does.not.exist", nil))
}

func TestFeatureFlags_EnvironmentOverride(t *testing.T) {
	t.Setenv("FEATURE_CACHE_STUDENT_CARDS", "false")
	t.Setenv("FEATURE_EVENTS_REDIS_BUS", "true")

	ff := LoadFeatureFlags()

	assert.False(t, ff.IsEnabled(FeatureCacheStudentCards, nil))
	assert.True(t, ff.IsEnabled(FeatureEventsRedisBus, nil))
}

func TestFeatureFlags_EnableDisable(t *testing.T) {
	ff := LoadFeatureFlags()

	require.NoError(t, ff.EnableFeature(FeatureEventsRedisBus))
	assert.True(t, ff.IsEnabled(FeatureEventsRedisBus, nil))

	require.NoError(t, ff.DisableFeature(FeatureEventsRedisBus))
	assert.False(t, ff.IsEnabled(FeatureEventsRedisBus, nil))

	assert.ErrorIs(t, ff.EnableFeature("does.not.exist"), ErrFeatureNotFound)
	assert.ErrorIs(t, ff.SetRolloutPercent(FeatureEventsRedisBus, 150), ErrInvalidRolloutPercent)
}

func TestFeatureFlags_StudentOverrideWinsOverRollout(t *testing.T) {
	ff := LoadFeatureFlags()
	ctx := &FeatureContext{StudentNumber: 10000042}

	require.NoError(t, ff.DisableFeature(FeatureExperimentalProgramStats))
	ff.SetStudentOverride(ctx.StudentNumber, FeatureExperimentalProgramStats, true)
	assert.True(t, ff.IsEnabled(FeatureExperimentalProgramStats, ctx))

	ff.ClearStudentOverrides(ctx.StudentNumber)
	assert.False(t, ff.IsEnabled(FeatureExperimentalProgramStats, ctx))
}

func TestFeatureFlags_RolloutIsConsistentPerStudent(t *testing.T) {
	ff := LoadFeatureFlags()
	require.NoError(t, ff.SetRolloutPercent(FeatureExperimentalProgramStats, 50))

	// Один и тот же студент всегда попадает в один и тот же бакет.
	ctx := &FeatureContext{StudentNumber: 10000042}
	first := ff.IsEnabled(FeatureExperimentalProgramStats, ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ff.IsEnabled(FeatureExperimentalProgramStats, ctx))
	}

	// Приблизительно половина студентов в раскатке.
	inRollout := 0
	for n := int64(10000000); n < 10001000; n++ {
		if ff.IsEnabled(FeatureExperimentalProgramStats, &FeatureContext{StudentNumber: n}) {
			inRollout++
		}
	}
	assert.Greater(t, inRollout, 300)
	assert.Less(t, inRollout, 700)
}

func TestFeatureFlags_RegistrarGetsAllFeatures(t *testing.T) {
	ff := LoadFeatureFlags()
	ctx := &FeatureContext{IsRegistrar: true}

	assert.True(t, ff.IsEnabled(FeatureEventsRedisBus, ctx))
	assert.True(t, ff.IsEnabled(FeatureExperimentalProgramStats, ctx))
}

func TestFeatureFlags_ConvenienceChecks(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.True(t, ff.CachingEnabled(nil))
	assert.True(t, ff.StandingAutomationEnabled(nil))

	require.NoError(t, ff.DisableFeature(FeatureCacheStudentCards))
	require.NoError(t, ff.DisableFeature(FeatureCacheStandingStates))
	assert.False(t, ff.CachingEnabled(nil))
}
