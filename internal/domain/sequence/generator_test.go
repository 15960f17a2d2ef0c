package sequence

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// fakeRepository резервирует номера в памяти с настраиваемым числом
// искусственных конфликтов перед успехом.
type fakeRepository struct {
	mu       sync.Mutex
	counters map[Kind]int64

	// conflictsLeft - сколько ближайших вызовов Reserve проигрывают гонку.
	conflictsLeft int

	reserveCalls int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{counters: make(map[Kind]int64)}
}

func (r *fakeRepository) Reserve(ctx context.Context, kind Kind, bootstrap int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reserveCalls++

	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return 0, shared.ErrReservationConflict
	}

	next, ok := r.counters[kind]
	if !ok {
		next = bootstrap
	}
	r.counters[kind] = next + 1
	return next, nil
}

func (r *fakeRepository) Peek(ctx context.Context, kind Kind) (*Counter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, ok := r.counters[kind]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &Counter{Kind: kind, NextAvailable: next}, nil
}

func TestGenerator_Next_BootstrapsLazily(t *testing.T) {
	repo := newFakeRepository()
	gen := NewGenerator(repo)
	ctx := context.Background()

	// Первый вызов создаёт счётчик со стартовым значением.
	n, err := gen.Next(ctx, KindRegistration)
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)

	// Последующие вызовы строго возрастают на единицу.
	n, err = gen.Next(ctx, KindRegistration)
	require.NoError(t, err)
	assert.Equal(t, int64(101), n)

	n, err = gen.Next(ctx, KindRegistration)
	require.NoError(t, err)
	assert.Equal(t, int64(102), n)
}

func TestGenerator_Next_KindsAreIndependent(t *testing.T) {
	repo := newFakeRepository()
	gen := NewGenerator(repo)
	ctx := context.Background()

	student, err := gen.Next(ctx, KindStudent)
	require.NoError(t, err)
	assert.Equal(t, int64(shared.MinStudentNumber), student)

	graded, err := gen.Next(ctx, KindGradedCourse)
	require.NoError(t, err)
	assert.Equal(t, int64(100), graded)

	audit, err := gen.Next(ctx, KindAuditCourse)
	require.NoError(t, err)
	assert.Equal(t, int64(100), audit, "each kind has its own counter")
}

func TestGenerator_Next_UnknownKind(t *testing.T) {
	repo := newFakeRepository()
	gen := NewGenerator(repo)

	_, err := gen.Next(context.Background(), Kind("invoice"))
	assert.ErrorIs(t, err, shared.ErrUnknownSequenceKind)
	assert.Zero(t, repo.reserveCalls, "no reservation is attempted for an unknown kind")
}

func TestGenerator_Next_RetriesLostRaces(t *testing.T) {
	repo := newFakeRepository()
	repo.conflictsLeft = 2

	gen := NewGenerator(repo, WithRetryBudget(5))

	n, err := gen.Next(context.Background(), KindRegistration)
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)
	assert.Equal(t, 3, repo.reserveCalls, "two conflicts then one success")
}

func TestGenerator_Next_ExhaustsRetryBudget(t *testing.T) {
	repo := newFakeRepository()
	repo.conflictsLeft = 100

	gen := NewGenerator(repo, WithRetryBudget(3))

	_, err := gen.Next(context.Background(), KindRegistration)
	require.Error(t, err)
	assert.True(t, IsExhausted(err))
	assert.ErrorIs(t, err, shared.ErrSequenceExhausted)
	assert.Equal(t, 3, repo.reserveCalls)
}

func TestGenerator_Next_ConcurrentCallsGetUniqueNumbers(t *testing.T) {
	repo := newFakeRepository()
	gen := NewGenerator(repo)
	ctx := context.Background()

	const goroutines = 50

	var wg sync.WaitGroup
	results := make(chan int64, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := gen.Next(ctx, KindRegistration)
			assert.NoError(t, err)
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	for n := range results {
		assert.False(t, seen[n], "number %d issued twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, goroutines)
}

func TestGenerator_NextStudentNumber(t *testing.T) {
	repo := newFakeRepository()
	gen := NewGenerator(repo)

	n, err := gen.NextStudentNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, shared.MinStudentNumber, n)
}

func TestBootstrapFor(t *testing.T) {
	n, err := BootstrapFor(KindStudent)
	require.NoError(t, err)
	assert.Equal(t, int64(10000000), n, "student numbers are eight digits")

	for _, k := range []Kind{KindRegistration, KindGradedCourse, KindAuditCourse, KindMasteryCourse} {
		n, err := BootstrapFor(k)
		require.NoError(t, err)
		assert.Equal(t, int64(100), n, "kind %s", k)
	}

	_, err = BootstrapFor(Kind("invoice"))
	assert.ErrorIs(t, err, shared.ErrUnknownSequenceKind)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Graded_Course ")
	require.NoError(t, err)
	assert.Equal(t, KindGradedCourse, k)

	_, err = ParseKind("invoice")
	assert.ErrorIs(t, err, shared.ErrUnknownSequenceKind)
}
