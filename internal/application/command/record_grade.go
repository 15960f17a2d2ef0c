package command

import (
	"context"
	"errors"

	"github.com/bit-college/records-hub/internal/domain/course"
	"github.com/bit-college/records-hub/internal/domain/registration"
	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD GRADE COMMAND
// Выставление оценки запускает пересчёт GPA и выверку академического статуса.
// ══════════════════════════════════════════════════════════════════════════════

// RecordGradeCommand содержит данные для выставления оценки.
type RecordGradeCommand struct {
	RegistrationID shared.RecordID

	// Grade - оценка на шкале [0, 1].
	Grade float64

	// CorrelationID для трассировки между сервисами.
	CorrelationID string
}

// Validate проверяет команду.
func (c RecordGradeCommand) Validate() error {
	if c.RegistrationID.IsEmpty() {
		return errors.New("record_grade: registration_id must be provided")
	}
	if c.Grade < 0 || c.Grade > 1 {
		return shared.ErrInvalidGrade
	}
	return nil
}

// RecordGradeResult содержит результат выставления оценки.
type RecordGradeResult struct {
	// Registration - обновлённая регистрация.
	Registration *registration.Registration

	// GradePointAverage - пересчитанный GPA студента.
	// Nil, если у студента по-прежнему нет оценённых graded-курсов.
	GradePointAverage *shared.GPA

	// Standing - результат выверки статуса после пересчёта GPA.
	Standing *ReconcileStandingResult
}

// RecordGradeHandler обрабатывает RecordGradeCommand.
type RecordGradeHandler struct {
	registrationRepo registration.Repository
	studentRepo      student.Repository
	courseRepo       course.Repository
	reconciler       *ReconcileStandingHandler
	eventPublisher   shared.EventPublisher
}

// NewRecordGradeHandler создаёт новый обработчик.
func NewRecordGradeHandler(
	registrationRepo registration.Repository,
	studentRepo student.Repository,
	courseRepo course.Repository,
	reconciler *ReconcileStandingHandler,
	eventPublisher shared.EventPublisher,
) *RecordGradeHandler {
	return &RecordGradeHandler{
		registrationRepo: registrationRepo,
		studentRepo:      studentRepo,
		courseRepo:       courseRepo,
		reconciler:       reconciler,
		eventPublisher:   eventPublisher,
	}
}

// Handle выставляет оценку, пересчитывает GPA студента и вызывает
// движок выверки академического статуса.
func (h *RecordGradeHandler) Handle(ctx context.Context, cmd RecordGradeCommand) (*RecordGradeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	reg, err := h.registrationRepo.GetByID(ctx, cmd.RegistrationID)
	if err != nil {
		return nil, err
	}

	grade, err := shared.NewGrade(cmd.Grade)
	if err != nil {
		return nil, err
	}

	if err := reg.RecordGrade(grade); err != nil {
		return nil, err
	}

	if err := h.registrationRepo.Update(ctx, reg); err != nil {
		return nil, err
	}

	gpa, err := recomputeGPA(ctx, reg.StudentID, h.registrationRepo, h.courseRepo, h.studentRepo)
	if err != nil {
		return nil, err
	}

	if h.eventPublisher != nil {
		event := shared.NewGradeRecordedEvent(reg.StudentID.String(), reg.ID.String(), reg.CourseID.String(), grade.Float64())
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.eventPublisher.Publish(event)
	}

	standingResult, err := h.reconciler.Handle(ctx, ReconcileStandingCommand{
		StudentID:     reg.StudentID,
		CorrelationID: cmd.CorrelationID,
	})
	if err != nil {
		return nil, err
	}

	return &RecordGradeResult{
		Registration:      reg,
		GradePointAverage: gpa,
		Standing:          standingResult,
	}, nil
}

// recomputeGPA собирает оценённые graded-курсы студента и сохраняет
// пересчитанный GPA. Audit и mastery курсы в расчёт не попадают.
func recomputeGPA(
	ctx context.Context,
	studentID shared.RecordID,
	registrationRepo registration.Repository,
	courseRepo course.Repository,
	studentRepo student.Repository,
) (*shared.GPA, error) {
	regs, err := registrationRepo.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var results []student.GradedResult
	for _, r := range regs {
		if !r.IsGraded() {
			continue
		}

		c, err := courseRepo.GetByID(ctx, r.CourseID)
		if err != nil {
			return nil, err
		}
		if !c.Type.CountsTowardGPA() {
			continue
		}

		results = append(results, student.GradedResult{
			Grade:       *r.Grade,
			CreditHours: c.CreditHours,
		})
	}

	gpa, err := student.ComputeGPA(results)
	if err != nil {
		return nil, err
	}

	st, err := studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if gpa == nil {
		st.ClearGradePointAverage()
	} else if err := st.SetGradePointAverage(*gpa); err != nil {
		return nil, err
	}

	if err := studentRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	return gpa, nil
}
