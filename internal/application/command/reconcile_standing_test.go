package command

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/standing"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// FAKES
// ══════════════════════════════════════════════════════════════════════════════

// fakeStandingRepo держит singleton-записи статусов в памяти.
type fakeStandingRepo struct {
	mu     sync.Mutex
	states map[standing.Variant]*standing.State
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{states: make(map[standing.Variant]*standing.State)}
}

func (r *fakeStandingRepo) GetOrCreate(ctx context.Context, v standing.Variant) (*standing.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.states[v]; ok {
		return st, nil
	}
	st, err := standing.NewState(shared.RecordID("state-"+v.String()), v)
	if err != nil {
		return nil, err
	}
	r.states[v] = st
	return st, nil
}

func (r *fakeStandingRepo) GetByID(ctx context.Context, id shared.RecordID) (*standing.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, st := range r.states {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, shared.ErrStandingNotFound
}

func (r *fakeStandingRepo) GetByVariant(ctx context.Context, v standing.Variant) (*standing.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.states[v]; ok {
		return st, nil
	}
	return nil, shared.ErrStandingNotFound
}

func (r *fakeStandingRepo) ListAll(ctx context.Context) ([]*standing.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*standing.State, 0, len(r.states))
	for _, st := range r.states {
		out = append(out, st)
	}
	return out, nil
}

// fakeStudentRepo реализует только академические операции; остальные
// методы интерфейса в выверке не участвуют.
type fakeStudentRepo struct {
	student.Repository

	mu      sync.Mutex
	stateID shared.RecordID
	gpa     *shared.GPA

	// casRejections - сколько ближайших CAS проигрывают гонку.
	casRejections int

	casCalls int
}

func (r *fakeStudentRepo) GetAcademicRecord(ctx context.Context, id shared.RecordID) (*student.AcademicRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return &student.AcademicRecord{
		StudentID:         id,
		GradePointStateID: r.stateID,
		GradePointAverage: r.gpa,
	}, nil
}

func (r *fakeStudentRepo) CompareAndSetStanding(ctx context.Context, id, next, expected shared.RecordID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.casCalls++

	if r.casRejections > 0 {
		r.casRejections--
		return false, nil
	}
	if r.stateID != expected {
		return false, nil
	}
	r.stateID = next
	return true, nil
}

// capturePublisher собирает опубликованные события.
type capturePublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *capturePublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func gpaPtr(t *testing.T, value float64) *shared.GPA {
	t.Helper()
	gpa, err := shared.NewGPA(value)
	require.NoError(t, err)
	return &gpa
}

// newReconcileFixture собирает обработчик поверх in-memory фейков,
// со студентом в заданном статусе и с заданным GPA.
func newReconcileFixture(t *testing.T, startVariant standing.Variant, gpa *shared.GPA) (*ReconcileStandingHandler, *fakeStudentRepo, *capturePublisher) {
	t.Helper()

	standingRepo := newFakeStandingRepo()
	catalog := standing.NewCatalog(standingRepo)
	require.NoError(t, catalog.EnsureAll(context.Background()))

	start, err := standingRepo.GetByVariant(context.Background(), startVariant)
	require.NoError(t, err)

	studentRepo := &fakeStudentRepo{stateID: start.ID, gpa: gpa}
	publisher := &capturePublisher{}

	handler := NewReconcileStandingHandler(studentRepo, catalog, publisher, ReconcileStandingHandlerConfig{})
	return handler, studentRepo, publisher
}

var testStudentID = shared.RecordID("student-1")

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestReconcileStanding_Validate(t *testing.T) {
	handler, _, _ := newReconcileFixture(t, standing.VariantRegular, gpaPtr(t, 3.0))

	_, err := handler.Handle(context.Background(), ReconcileStandingCommand{})
	assert.Error(t, err)
}

func TestReconcileStanding_AlreadyConsistent(t *testing.T) {
	handler, repo, publisher := newReconcileFixture(t, standing.VariantRegular, gpaPtr(t, 3.0))

	result, err := handler.Handle(context.Background(), ReconcileStandingCommand{StudentID: testStudentID})
	require.NoError(t, err)

	assert.Equal(t, standing.VariantRegular, result.FinalState.Variant)
	assert.Equal(t, []standing.Variant{standing.VariantRegular}, result.Path)
	assert.Zero(t, result.StepsPersisted)
	assert.Zero(t, repo.casCalls, "no writes when the standing already matches the gpa")
	assert.Empty(t, publisher.events)
}

func TestReconcileStanding_TwoBandDrop(t *testing.T) {
	// GPA 0.5 у студента со статусом Regular: два персистированных
	// перехода через Probation в Suspended.
	handler, repo, publisher := newReconcileFixture(t, standing.VariantRegular, gpaPtr(t, 0.5))

	result, err := handler.Handle(context.Background(), ReconcileStandingCommand{StudentID: testStudentID})
	require.NoError(t, err)

	assert.Equal(t, standing.VariantSuspended, result.FinalState.Variant)
	assert.Equal(t, []standing.Variant{
		standing.VariantRegular,
		standing.VariantProbation,
		standing.VariantSuspended,
	}, result.Path)
	assert.Equal(t, 2, result.StepsPersisted)
	assert.Equal(t, 2, repo.casCalls)
	assert.Equal(t, 1.10, result.FinalState.TuitionFactor)
	assert.Len(t, publisher.events, 2, "one event per persisted transition")
}

func TestReconcileStanding_FullClimb(t *testing.T) {
	// GPA 4.2 у отстранённого студента: три шага до Honours.
	handler, _, publisher := newReconcileFixture(t, standing.VariantSuspended, gpaPtr(t, 4.2))

	result, err := handler.Handle(context.Background(), ReconcileStandingCommand{StudentID: testStudentID})
	require.NoError(t, err)

	assert.Equal(t, standing.VariantHonours, result.FinalState.Variant)
	assert.Equal(t, 3, result.StepsPersisted)
	assert.Equal(t, 0.90, result.FinalState.TuitionFactor)
	assert.Len(t, publisher.events, 3)
}

func TestReconcileStanding_Idempotent(t *testing.T) {
	handler, repo, _ := newReconcileFixture(t, standing.VariantRegular, gpaPtr(t, 0.5))

	_, err := handler.Handle(context.Background(), ReconcileStandingCommand{StudentID: testStudentID})
	require.NoError(t, err)
	callsAfterFirst := repo.casCalls

	// Повторная выверка с тем же GPA не делает новых записей.
	result, err := handler.Handle(context.Background(), ReconcileStandingCommand{StudentID: testStudentID})
	require.NoError(t, err)

	assert.Equal(t, standing.VariantSuspended, result.FinalState.Variant)
	assert.Zero(t, result.StepsPersisted)
	assert.Equal(t, callsAfterFirst, repo.casCalls)
}

func TestReconcileStanding_NoGradesIsNoop(t *testing.T) {
	handler, repo, publisher := newReconcileFixture(t, standing.VariantRegular, nil)

	result, err := handler.Handle(context.Background(), ReconcileStandingCommand{StudentID: testStudentID})
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Equal(t, standing.VariantRegular, result.FinalState.Variant)
	assert.Zero(t, repo.casCalls)
	assert.Empty(t, publisher.events)
}

func TestReconcileStanding_RestartsAfterLostRace(t *testing.T) {
	handler, repo, _ := newReconcileFixture(t, standing.VariantRegular, gpaPtr(t, 1.5))
	repo.casRejections = 1

	result, err := handler.Handle(context.Background(), ReconcileStandingCommand{StudentID: testStudentID})
	require.NoError(t, err)

	assert.Equal(t, standing.VariantProbation, result.FinalState.Variant)
	assert.Equal(t, 1, result.Restarts, "one full restart after the lost race")
	assert.Equal(t, 1, result.StepsPersisted)
	assert.Equal(t, 2, repo.casCalls)
}

func TestReconcileStanding_GivesUpAfterRestartBudget(t *testing.T) {
	handler, repo, _ := newReconcileFixture(t, standing.VariantRegular, gpaPtr(t, 1.5))
	repo.casRejections = 1000

	_, err := handler.Handle(context.Background(), ReconcileStandingCommand{StudentID: testStudentID})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrStandingConflict)
}

func TestReconcileStanding_UnassignedStanding(t *testing.T) {
	handler, repo, _ := newReconcileFixture(t, standing.VariantRegular, gpaPtr(t, 3.0))
	repo.stateID = ""

	_, err := handler.Handle(context.Background(), ReconcileStandingCommand{StudentID: testStudentID})
	assert.ErrorIs(t, err, shared.ErrStandingUnassigned)
	assert.Zero(t, repo.casCalls)
}

func TestReconcileStanding_DanglingStateReference(t *testing.T) {
	handler, repo, _ := newReconcileFixture(t, standing.VariantRegular, gpaPtr(t, 3.0))
	repo.stateID = shared.RecordID("state-deleted")

	_, err := handler.Handle(context.Background(), ReconcileStandingCommand{StudentID: testStudentID})
	assert.ErrorIs(t, err, shared.ErrUnknownVariant)
	assert.Zero(t, repo.casCalls, "resolution failure leaves the record untouched")
}

func TestReconcileStanding_PublishesCorrelatedEvents(t *testing.T) {
	handler, _, publisher := newReconcileFixture(t, standing.VariantProbation, gpaPtr(t, 2.5))

	_, err := handler.Handle(context.Background(), ReconcileStandingCommand{
		StudentID:     testStudentID,
		CorrelationID: "sweep-42",
	})
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, shared.EventStandingChanged, event.EventType())
	assert.Equal(t, testStudentID.String(), event.AggregateID())

	payload := event.Payload()
	assert.Equal(t, standing.VariantProbation.String(), payload["from_variant"])
	assert.Equal(t, standing.VariantRegular.String(), payload["to_variant"])
}

func TestReconcileStanding_TuitionRate(t *testing.T) {
	handler, repo, _ := newReconcileFixture(t, standing.VariantHonours, gpaPtr(t, 4.0))

	rate, err := handler.TuitionRate(context.Background(), testStudentID)
	require.NoError(t, err)
	assert.Equal(t, 0.90, rate)

	repo.stateID = ""
	_, err = handler.TuitionRate(context.Background(), testStudentID)
	assert.ErrorIs(t, err, shared.ErrStandingUnassigned)
}
