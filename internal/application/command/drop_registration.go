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
// DROP REGISTRATION COMMAND
// Снятие регистрации. Если регистрация была оценена, GPA студента
// пересчитывается и запускается выверка статуса.
// ══════════════════════════════════════════════════════════════════════════════

// DropRegistrationCommand содержит данные для снятия регистрации.
type DropRegistrationCommand struct {
	RegistrationID shared.RecordID

	// CorrelationID для трассировки между сервисами.
	CorrelationID string
}

// Validate проверяет команду.
func (c DropRegistrationCommand) Validate() error {
	if c.RegistrationID.IsEmpty() {
		return errors.New("drop_registration: registration_id must be provided")
	}
	return nil
}

// DropRegistrationResult содержит результат снятия регистрации.
type DropRegistrationResult struct {
	// GradePointAverage - GPA студента после пересчёта.
	// Nil, если оценённых graded-курсов не осталось.
	GradePointAverage *shared.GPA

	// Standing - результат выверки статуса. Nil, если регистрация
	// была не оценена и пересчёт не требовался.
	Standing *ReconcileStandingResult
}

// DropRegistrationHandler обрабатывает DropRegistrationCommand.
type DropRegistrationHandler struct {
	registrationRepo registration.Repository
	studentRepo      student.Repository
	courseRepo       course.Repository
	reconciler       *ReconcileStandingHandler
	eventPublisher   shared.EventPublisher
}

// NewDropRegistrationHandler создаёт новый обработчик.
func NewDropRegistrationHandler(
	registrationRepo registration.Repository,
	studentRepo student.Repository,
	courseRepo course.Repository,
	reconciler *ReconcileStandingHandler,
	eventPublisher shared.EventPublisher,
) *DropRegistrationHandler {
	return &DropRegistrationHandler{
		registrationRepo: registrationRepo,
		studentRepo:      studentRepo,
		courseRepo:       courseRepo,
		reconciler:       reconciler,
		eventPublisher:   eventPublisher,
	}
}

// Handle снимает регистрацию студента с курса.
func (h *DropRegistrationHandler) Handle(ctx context.Context, cmd DropRegistrationCommand) (*DropRegistrationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	reg, err := h.registrationRepo.GetByID(ctx, cmd.RegistrationID)
	if err != nil {
		return nil, err
	}
	wasGraded := reg.IsGraded()

	if err := h.registrationRepo.Delete(ctx, cmd.RegistrationID); err != nil {
		return nil, err
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewGenericEvent(shared.EventRegistrationDropped, reg.ID.String()))
	}

	result := &DropRegistrationResult{}

	// Снятие неоценённой регистрации не влияет на GPA.
	if !wasGraded {
		return result, nil
	}

	gpa, err := recomputeGPA(ctx, reg.StudentID, h.registrationRepo, h.courseRepo, h.studentRepo)
	if err != nil {
		return nil, err
	}
	result.GradePointAverage = gpa

	standingResult, err := h.reconciler.Handle(ctx, ReconcileStandingCommand{
		StudentID:     reg.StudentID,
		CorrelationID: cmd.CorrelationID,
	})
	if err != nil {
		return nil, err
	}
	result.Standing = standingResult

	return result, nil
}
