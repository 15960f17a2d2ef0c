package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles for the records hub.
// Supports gradual rollout, per-student targeting for pilots, and
// time-boxed activation windows (useful around term boundaries).
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	studentOverrides map[int64]map[string]bool // studentNumber -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Students are assigned based on hash of their number
	RolloutPercent int

	// Program targeting (e.g., "BIT", "BTM")
	// Empty means all programs
	TargetPrograms []string

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	StudentNumber int64  // Public student number
	Program       string // Academic program acronym
	IsRegistrar   bool   // Registrar staff get all features
}

// Predefined feature flag names.
const (
	// === Caching Features ===
	FeatureCacheStudentCards   = "cache.student_cards"   // Cache student cards in Redis
	FeatureCacheStandingStates = "cache.standing_states" // Read-through standing cache

	// === Standing Engine Features ===
	FeatureStandingAutoReconcile = "standing.auto_reconcile" // Reconcile after each grade entry
	FeatureStandingSweep         = "standing.sweep"          // Periodic background sweep

	// === API Features ===
	FeatureAPITranscripts       = "api.transcripts"        // Transcript endpoint
	FeatureAPIReconcileEndpoint = "api.reconcile_endpoint" // Manual reconcile endpoint

	// === Messaging Features ===
	FeatureEventsRedisBus = "events.redis_bus" // Cross-instance event fan-out

	// === Experimental Features ===
	FeatureExperimentalProgramStats = "experimental.program_stats" // Per-program GPA analytics
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:         make(map[string]*Feature),
		studentOverrides: make(map[int64]map[string]bool),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	// Caching - enabled by default, can be switched off to debug staleness
	ff.features[FeatureCacheStudentCards] = &Feature{
		Name:           FeatureCacheStudentCards,
		Description:    "Cache student cards in Redis",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureCacheStandingStates] = &Feature{
		Name:           FeatureCacheStandingStates,
		Description:    "Read-through cache for standing state rows",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Standing engine - core behavior, enabled by default
	ff.features[FeatureStandingAutoReconcile] = &Feature{
		Name:           FeatureStandingAutoReconcile,
		Description:    "Reconcile standing immediately after grade entry",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureStandingSweep] = &Feature{
		Name:           FeatureStandingSweep,
		Description:    "Periodic sweep reconciling all graded students",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// API surface
	ff.features[FeatureAPITranscripts] = &Feature{
		Name:           FeatureAPITranscripts,
		Description:    "Expose the transcript endpoint",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureAPIReconcileEndpoint] = &Feature{
		Name:           FeatureAPIReconcileEndpoint,
		Description:    "Expose the manual standing reconcile endpoint",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Messaging - single-instance deployments keep the in-memory bus
	ff.features[FeatureEventsRedisBus] = &Feature{
		Name:           FeatureEventsRedisBus,
		Description:    "Fan events out to other instances over Redis",
		Enabled:        false,
		RolloutPercent: 0,
	}

	// Experimental - disabled by default
	ff.features[FeatureExperimentalProgramStats] = &Feature{
		Name:           FeatureExperimentalProgramStats,
		Description:    "Per-program GPA distribution analytics",
		Enabled:        false,
		RolloutPercent: 0,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_CACHE_STUDENT_CARDS=false
// Example: FEATURE_EVENTS_REDIS_BUS=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "cache.student_cards" -> "FEATURE_CACHE_STUDENT_CARDS"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check per-student overrides first
	if ctx != nil && ctx.StudentNumber != 0 {
		if overrides, ok := ff.studentOverrides[ctx.StudentNumber]; ok {
			if enabled, ok := overrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Registrar staff get all enabled-in-principle features
	if ctx != nil && ctx.IsRegistrar {
		return true
	}

	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check program targeting
	if len(feature.TargetPrograms) > 0 && ctx != nil && ctx.Program != "" {
		programMatch := false
		for _, p := range feature.TargetPrograms {
			if p == ctx.Program {
				programMatch = true
				break
			}
		}
		if !programMatch {
			return false
		}
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.StudentNumber != 0 {
		return ff.isInRollout(ctx.StudentNumber, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a student is in the rollout percentage.
// Uses consistent hashing so students stay in their bucket.
func (ff *FeatureFlags) isInRollout(studentNumber int64, featureName string, percent int) bool {
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(strconv.FormatInt(studentNumber, 10)))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// SetStudentOverride sets a feature override for a specific student.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetStudentOverride(studentNumber int64, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.studentOverrides[studentNumber]; !ok {
		ff.studentOverrides[studentNumber] = make(map[string]bool)
	}
	ff.studentOverrides[studentNumber][featureName] = enabled
}

// ClearStudentOverrides removes all overrides for a student.
func (ff *FeatureFlags) ClearStudentOverrides(studentNumber int64) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.studentOverrides, studentNumber)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Convenience methods for common checks ---

// CachingEnabled checks if any caching feature is active.
func (ff *FeatureFlags) CachingEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureCacheStudentCards, ctx) ||
		ff.IsEnabled(FeatureCacheStandingStates, ctx)
}

// StandingAutomationEnabled checks if standing is maintained automatically.
func (ff *FeatureFlags) StandingAutomationEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureStandingAutoReconcile, ctx) ||
		ff.IsEnabled(FeatureStandingSweep, ctx)
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
