package standing

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// racingStateRepo воспроизводит семантику хранилища: каждый вызов
// готовит строку-кандидата с новой идентичностью, но вставка под
// мьютексом оставляет только первую строку варианта. Проигравший
// создатель возвращает строку победителя.
type racingStateRepo struct {
	mu      sync.Mutex
	rows    map[Variant]*State
	inserts map[Variant]int
	nextID  int
}

func newRacingStateRepo() *racingStateRepo {
	return &racingStateRepo{
		rows:    make(map[Variant]*State),
		inserts: make(map[Variant]int),
	}
}

func (r *racingStateRepo) GetOrCreate(ctx context.Context, v Variant) (*State, error) {
	r.mu.Lock()
	r.nextID++
	id := shared.RecordID(fmt.Sprintf("state-%d", r.nextID))
	r.mu.Unlock()

	candidate, err := NewState(id, v)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if winner, ok := r.rows[v]; ok {
		return winner, nil
	}
	r.rows[v] = candidate
	r.inserts[v]++
	return candidate, nil
}

func (r *racingStateRepo) GetByID(ctx context.Context, id shared.RecordID) (*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, st := range r.rows {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, shared.ErrStandingNotFound
}

func (r *racingStateRepo) GetByVariant(ctx context.Context, v Variant) (*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.rows[v]; ok {
		return st, nil
	}
	return nil, shared.ErrStandingNotFound
}

func (r *racingStateRepo) ListAll(ctx context.Context) ([]*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	states := make([]*State, 0, len(r.rows))
	for _, st := range r.rows {
		states = append(states, st)
	}
	return states, nil
}

func TestCatalog_GetOrCreate_ConcurrentCallersConvergeOnOneIdentity(t *testing.T) {
	repo := newRacingStateRepo()
	catalog := NewCatalog(repo)

	const callers = 50

	var wg sync.WaitGroup
	ids := make(chan shared.RecordID, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st, err := catalog.GetOrCreate(context.Background(), VariantProbation)
			assert.NoError(t, err)
			ids <- st.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[shared.RecordID]struct{})
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1, "all callers must observe the same row")
	assert.Equal(t, 1, repo.inserts[VariantProbation], "exactly one row may survive")

	rows, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCatalog_GetOrCreate_RejectsUnknownVariant(t *testing.T) {
	catalog := NewCatalog(newRacingStateRepo())

	_, err := catalog.GetOrCreate(context.Background(), Variant("expelled"))
	assert.ErrorIs(t, err, shared.ErrUnknownVariant)
}

func TestCatalog_EnsureAll_IsIdentityStable(t *testing.T) {
	repo := newRacingStateRepo()
	catalog := NewCatalog(repo)

	require.NoError(t, catalog.EnsureAll(context.Background()))

	first := make(map[Variant]shared.RecordID)
	for _, v := range Variants() {
		st, err := catalog.GetOrCreate(context.Background(), v)
		require.NoError(t, err)
		first[v] = st.ID
	}

	// Повторная материализация не создаёт новых строк и не меняет
	// идентичности.
	require.NoError(t, catalog.EnsureAll(context.Background()))

	for _, v := range Variants() {
		st, err := catalog.GetOrCreate(context.Background(), v)
		require.NoError(t, err)
		assert.Equal(t, first[v], st.ID, "variant %s", v)
		assert.Equal(t, 1, repo.inserts[v], "variant %s", v)
	}

	rows, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, len(Variants()))
}

func TestCatalog_Resolve(t *testing.T) {
	repo := newRacingStateRepo()
	catalog := NewCatalog(repo)

	st, err := catalog.GetOrCreate(context.Background(), VariantRegular)
	require.NoError(t, err)

	resolved, err := catalog.Resolve(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.ID, resolved.ID)
	assert.Equal(t, VariantRegular, resolved.Variant)

	_, err = catalog.Resolve(context.Background(), shared.RecordID("state-missing"))
	assert.ErrorIs(t, err, shared.ErrUnknownVariant)
}
