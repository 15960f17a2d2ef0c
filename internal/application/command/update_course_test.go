package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bit-college/records-hub/internal/domain/course"
	"github.com/bit-college/records-hub/internal/domain/registration"
	"github.com/bit-college/records-hub/internal/domain/shared"
)

// fakeCourseRepo хранит курсы в памяти.
type fakeCourseRepo struct {
	course.Repository

	courses map[shared.RecordID]*course.Course
	deleted []shared.RecordID
}

func newFakeCourseRepo(courses ...*course.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{courses: make(map[shared.RecordID]*course.Course)}
	for _, c := range courses {
		repo.courses[c.ID] = c
	}
	return repo
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id shared.RecordID) (*course.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, shared.ErrCourseNotFound
	}
	return c, nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, c *course.Course) error {
	if _, ok := r.courses[c.ID]; !ok {
		return shared.ErrCourseNotFound
	}
	r.courses[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, id shared.RecordID) error {
	if _, ok := r.courses[id]; !ok {
		return shared.ErrCourseNotFound
	}
	delete(r.courses, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// fakeCourseRegistrations отдаёт фиксированный список регистраций курса.
type fakeCourseRegistrations struct {
	registration.Repository

	byCourse map[shared.RecordID][]*registration.Registration
}

func (r *fakeCourseRegistrations) GetByCourse(ctx context.Context, courseID shared.RecordID) ([]*registration.Registration, error) {
	return r.byCourse[courseID], nil
}

func newGradedCourse(t *testing.T, id string) *course.Course {
	t.Helper()

	c, err := course.NewCourse(course.NewCourseParams{
		ID:               shared.RecordID(id),
		Type:             course.TypeGraded,
		CourseNumber:     "G-2001",
		Title:            "Systems Programming",
		CreditHours:      3,
		TuitionAmount:    shared.Money(450),
		AssignmentWeight: 0.4,
		ExamWeight:       0.6,
	})
	require.NoError(t, err)
	return c
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestUpdateCourseHandler_UpdatesFields(t *testing.T) {
	c := newGradedCourse(t, "course-1")
	repo := newFakeCourseRepo(c)
	publisher := &capturePublisher{}
	handler := NewUpdateCourseHandler(repo, publisher)

	updated, err := handler.Handle(context.Background(), UpdateCourseCommand{
		CourseID:         c.ID,
		Title:            strPtr("Advanced Systems Programming"),
		TuitionAmount:    floatPtr(500),
		AssignmentWeight: floatPtr(0.3),
		ExamWeight:       floatPtr(0.7),
	})
	require.NoError(t, err)

	assert.Equal(t, "Advanced Systems Programming", updated.Title)
	assert.Equal(t, shared.Money(500), updated.TuitionAmount)
	assert.Equal(t, 0.3, updated.AssignmentWeight)
	assert.Equal(t, 0.7, updated.ExamWeight)
	assert.Equal(t, "G-2001", updated.CourseNumber)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventCourseUpdated, publisher.events[0].EventType())
}

func TestUpdateCourseHandler_Validation(t *testing.T) {
	c := newGradedCourse(t, "course-1")
	handler := NewUpdateCourseHandler(newFakeCourseRepo(c), &capturePublisher{})

	tests := []struct {
		name string
		cmd  UpdateCourseCommand
	}{
		{
			name: "no fields",
			cmd:  UpdateCourseCommand{CourseID: c.ID},
		},
		{
			name: "only one weight",
			cmd:  UpdateCourseCommand{CourseID: c.ID, AssignmentWeight: floatPtr(0.5)},
		},
		{
			name: "empty title",
			cmd:  UpdateCourseCommand{CourseID: c.ID, Title: strPtr("   ")},
		},
		{
			name: "negative credit hours",
			cmd:  UpdateCourseCommand{CourseID: c.ID, CreditHours: floatPtr(-1)},
		},
		{
			name: "weights do not sum to one",
			cmd: UpdateCourseCommand{
				CourseID:         c.ID,
				AssignmentWeight: floatPtr(0.5),
				ExamWeight:       floatPtr(0.6),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), tt.cmd)
			assert.Error(t, err)
		})
	}
}

func TestUpdateCourseHandler_NotFound(t *testing.T) {
	handler := NewUpdateCourseHandler(newFakeCourseRepo(), &capturePublisher{})

	_, err := handler.Handle(context.Background(), UpdateCourseCommand{
		CourseID: "missing",
		Title:    strPtr("New Title"),
	})
	assert.ErrorIs(t, err, shared.ErrCourseNotFound)
}

func TestDeleteCourseHandler_DeletesUnusedCourse(t *testing.T) {
	c := newGradedCourse(t, "course-1")
	repo := newFakeCourseRepo(c)
	publisher := &capturePublisher{}
	handler := NewDeleteCourseHandler(repo, &fakeCourseRegistrations{}, publisher)

	require.NoError(t, handler.Handle(context.Background(), c.ID))

	assert.Equal(t, []shared.RecordID{c.ID}, repo.deleted)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventCourseDeleted, publisher.events[0].EventType())
}

func TestDeleteCourseHandler_RejectsCourseWithRegistrations(t *testing.T) {
	c := newGradedCourse(t, "course-1")
	repo := newFakeCourseRepo(c)
	regs := &fakeCourseRegistrations{
		byCourse: map[shared.RecordID][]*registration.Registration{
			c.ID: {{}},
		},
	}
	handler := NewDeleteCourseHandler(repo, regs, &capturePublisher{})

	err := handler.Handle(context.Background(), c.ID)
	assert.ErrorIs(t, err, shared.ErrCourseInUse)
	assert.Empty(t, repo.deleted)
}
