package command

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bit-college/records-hub/internal/domain/course"
	"github.com/bit-college/records-hub/internal/domain/registration"
	"github.com/bit-college/records-hub/internal/domain/sequence"
	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER COURSE COMMAND
// Регистрация студента на курс с выдачей номера регистрации.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterCourseCommand содержит данные для регистрации на курс.
type RegisterCourseCommand struct {
	StudentID shared.RecordID
	CourseID  shared.RecordID
	Notes     string

	// CorrelationID для трассировки между сервисами.
	CorrelationID string
}

// Validate проверяет команду.
func (c RegisterCourseCommand) Validate() error {
	if c.StudentID.IsEmpty() || c.CourseID.IsEmpty() {
		return errors.New("register_course: student_id and course_id must be provided")
	}
	return nil
}

// RegisterCourseResult содержит результат регистрации.
type RegisterCourseResult struct {
	// Registration - созданная запись регистрации.
	Registration *registration.Registration

	// TuitionCharged - начисленная стоимость курса с учётом
	// тарифного коэффициента текущего статуса студента.
	TuitionCharged shared.Money
}

// RegisterCourseHandler обрабатывает RegisterCourseCommand.
type RegisterCourseHandler struct {
	registrationRepo registration.Repository
	studentRepo      student.Repository
	courseRepo       course.Repository
	generator        *sequence.Generator
	reconciler       *ReconcileStandingHandler
	eventPublisher   shared.EventPublisher
}

// NewRegisterCourseHandler создаёт новый обработчик.
func NewRegisterCourseHandler(
	registrationRepo registration.Repository,
	studentRepo student.Repository,
	courseRepo course.Repository,
	generator *sequence.Generator,
	reconciler *ReconcileStandingHandler,
	eventPublisher shared.EventPublisher,
) *RegisterCourseHandler {
	return &RegisterCourseHandler{
		registrationRepo: registrationRepo,
		studentRepo:      studentRepo,
		courseRepo:       courseRepo,
		generator:        generator,
		reconciler:       reconciler,
		eventPublisher:   eventPublisher,
	}
}

// Handle регистрирует студента на курс и начисляет плату за обучение.
func (h *RegisterCourseHandler) Handle(ctx context.Context, cmd RegisterCourseCommand) (*RegisterCourseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	st, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}
	if st.Archived {
		return nil, shared.ErrStudentArchived
	}

	c, err := h.courseRepo.GetByID(ctx, cmd.CourseID)
	if err != nil {
		return nil, err
	}

	number, err := h.generator.NextRegistrationNumber(ctx)
	if err != nil {
		return nil, err
	}

	reg, err := registration.NewRegistration(registration.NewRegistrationParams{
		ID:                 shared.RecordID(uuid.New().String()),
		StudentID:          cmd.StudentID,
		CourseID:           cmd.CourseID,
		RegistrationNumber: number,
		Notes:              cmd.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := h.registrationRepo.Create(ctx, reg); err != nil {
		return nil, err
	}

	// Стоимость = базовый тариф курса x коэффициент текущего статуса.
	factor, err := h.reconciler.TuitionRate(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}
	charged := c.TuitionFor(factor)

	if err := st.AddFees(charged); err != nil {
		return nil, err
	}
	if err := h.studentRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	if h.eventPublisher != nil {
		event := shared.NewRegistrationCreatedEvent(reg.ID.String(), cmd.StudentID.String(), cmd.CourseID.String(), number.Int64())
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.eventPublisher.Publish(event)
	}

	return &RegisterCourseResult{Registration: reg, TuitionCharged: charged}, nil
}
