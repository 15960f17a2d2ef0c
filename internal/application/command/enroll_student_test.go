package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bit-college/records-hub/internal/domain/sequence"
	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/standing"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// fakeSequenceRepo резервирует номера в памяти без конфликтов.
type fakeSequenceRepo struct {
	counters map[sequence.Kind]int64
}

func (r *fakeSequenceRepo) Reserve(ctx context.Context, kind sequence.Kind, bootstrap int64) (int64, error) {
	if r.counters == nil {
		r.counters = make(map[sequence.Kind]int64)
	}
	next, ok := r.counters[kind]
	if !ok {
		next = bootstrap
	}
	r.counters[kind] = next + 1
	return next, nil
}

func (r *fakeSequenceRepo) Peek(ctx context.Context, kind sequence.Kind) (*sequence.Counter, error) {
	return nil, shared.ErrNotFound
}

// fakeEnrollRepo хранит созданных студентов в памяти.
type fakeEnrollRepo struct {
	student.Repository

	created []*student.Student
}

func (r *fakeEnrollRepo) Create(ctx context.Context, st *student.Student) error {
	r.created = append(r.created, st)
	return nil
}

func newEnrollFixture(t *testing.T) (*EnrollStudentHandler, *fakeEnrollRepo, *capturePublisher) {
	t.Helper()

	standingRepo := newFakeStandingRepo()
	catalog := standing.NewCatalog(standingRepo)
	require.NoError(t, catalog.EnsureAll(context.Background()))

	studentRepo := &fakeEnrollRepo{}
	publisher := &capturePublisher{}
	generator := sequence.NewGenerator(&fakeSequenceRepo{})

	handler := NewEnrollStudentHandler(studentRepo, generator, catalog, publisher)
	return handler, studentRepo, publisher
}

func validEnrollCommand() EnrollStudentCommand {
	return EnrollStudentCommand{
		FirstName: "Rene",
		LastName:  "Fontaine",
		Address:   "123 Portage Ave",
		City:      "Winnipeg",
		Province:  "MB",
	}
}

func TestEnrollStudent_AssignsNumberAndRegularStanding(t *testing.T) {
	handler, repo, publisher := newEnrollFixture(t)

	result, err := handler.Handle(context.Background(), validEnrollCommand())
	require.NoError(t, err)

	assert.Equal(t, shared.MinStudentNumber, result.StudentNumber,
		"the first enrolled student gets the bootstrap number")
	require.Len(t, repo.created, 1)

	st := repo.created[0]
	assert.Equal(t, shared.RecordID("state-regular"), st.GradePointStateID,
		"new students start in regular standing")
	assert.Nil(t, st.GradePointAverage, "no grades yet means no gpa")
	assert.False(t, st.Archived)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventStudentEnrolled, publisher.events[0].EventType())
}

func TestEnrollStudent_NumbersAreSequential(t *testing.T) {
	handler, _, _ := newEnrollFixture(t)

	first, err := handler.Handle(context.Background(), validEnrollCommand())
	require.NoError(t, err)

	second, err := handler.Handle(context.Background(), validEnrollCommand())
	require.NoError(t, err)

	assert.Equal(t, first.StudentNumber+1, second.StudentNumber)
}

func TestEnrollStudent_Validation(t *testing.T) {
	handler, repo, _ := newEnrollFixture(t)

	tests := []struct {
		name   string
		mutate func(*EnrollStudentCommand)
	}{
		{"blank first name", func(c *EnrollStudentCommand) { c.FirstName = "  " }},
		{"blank last name", func(c *EnrollStudentCommand) { c.LastName = "" }},
		{"blank address", func(c *EnrollStudentCommand) { c.Address = "" }},
		{"blank city", func(c *EnrollStudentCommand) { c.City = "" }},
		{"invalid province", func(c *EnrollStudentCommand) { c.Province = "XX" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validEnrollCommand()
			tt.mutate(&cmd)

			_, err := handler.Handle(context.Background(), cmd)
			assert.Error(t, err)
		})
	}

	assert.Empty(t, repo.created, "nothing is persisted for invalid commands")
}
