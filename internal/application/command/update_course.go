package command

import (
	"context"
	"errors"
	"strings"

	"github.com/bit-college/records-hub/internal/domain/course"
	"github.com/bit-college/records-hub/internal/domain/registration"
	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE COURSE COMMAND
// Тип и номер курса неизменяемы после создания - меняются только
// описательные поля и параметры оценивания.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateCourseCommand содержит обновляемые поля курса.
// Nil-поля не изменяются.
type UpdateCourseCommand struct {
	CourseID shared.RecordID

	Title         *string
	CreditHours   *float64
	TuitionAmount *float64
	Notes         *string

	// Только для graded; оба веса задаются вместе.
	AssignmentWeight *float64
	ExamWeight       *float64

	// Только для mastery.
	MaximumAttempts *int
}

// Validate проверяет команду.
func (c UpdateCourseCommand) Validate() error {
	if c.CourseID.IsEmpty() {
		return errors.New("update_course: course_id must be provided")
	}
	if c.Title == nil && c.CreditHours == nil && c.TuitionAmount == nil &&
		c.Notes == nil && c.AssignmentWeight == nil && c.ExamWeight == nil &&
		c.MaximumAttempts == nil {
		return errors.New("update_course: at least one field must be provided")
	}
	if (c.AssignmentWeight == nil) != (c.ExamWeight == nil) {
		return errors.New("update_course: assignment and exam weights must be updated together")
	}
	return nil
}

// UpdateCourseHandler обрабатывает UpdateCourseCommand.
type UpdateCourseHandler struct {
	courseRepo     course.Repository
	eventPublisher shared.EventPublisher
}

// NewUpdateCourseHandler создаёт новый обработчик.
func NewUpdateCourseHandler(courseRepo course.Repository, eventPublisher shared.EventPublisher) *UpdateCourseHandler {
	return &UpdateCourseHandler{
		courseRepo:     courseRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle обновляет запись курса.
func (h *UpdateCourseHandler) Handle(ctx context.Context, cmd UpdateCourseCommand) (*course.Course, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	c, err := h.courseRepo.GetByID(ctx, cmd.CourseID)
	if err != nil {
		return nil, err
	}

	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		if title == "" {
			return nil, shared.NewDomainError("course", "Update", shared.ErrEmptyValue, "course title cannot be empty")
		}
		c.Title = title
	}
	if cmd.CreditHours != nil {
		if *cmd.CreditHours <= 0 {
			return nil, shared.NewDomainError("course", "Update", shared.ErrInvalidInput, "credit hours must be positive")
		}
		c.CreditHours = *cmd.CreditHours
	}
	if cmd.TuitionAmount != nil {
		amount := shared.Money(*cmd.TuitionAmount)
		if !amount.IsValid() {
			return nil, shared.NewDomainError("course", "Update", shared.ErrNegativeValue, "tuition amount cannot be negative")
		}
		c.TuitionAmount = amount
	}
	if cmd.Notes != nil {
		c.Notes = *cmd.Notes
	}
	if cmd.AssignmentWeight != nil {
		if c.Type != course.TypeGraded {
			return nil, shared.NewDomainError("course", "Update", shared.ErrInvalidInput, "weights apply to graded courses only")
		}
		if err := c.SetWeights(*cmd.AssignmentWeight, *cmd.ExamWeight); err != nil {
			return nil, err
		}
	}
	if cmd.MaximumAttempts != nil {
		if c.Type != course.TypeMastery {
			return nil, shared.NewDomainError("course", "Update", shared.ErrInvalidInput, "maximum attempts apply to mastery courses only")
		}
		if *cmd.MaximumAttempts <= 0 {
			return nil, shared.NewDomainError("course", "Update", shared.ErrInvalidInput, "maximum attempts must be positive")
		}
		c.MaximumAttempts = *cmd.MaximumAttempts
	}

	if err := h.courseRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewGenericEvent(shared.EventCourseUpdated, c.ID.String()))
	}

	return c, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE COURSE COMMAND
// Курс с активными регистрациями удалить нельзя: сначала студенты
// должны быть отчислены с курса.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteCourseHandler удаляет курс из каталога.
type DeleteCourseHandler struct {
	courseRepo       course.Repository
	registrationRepo registration.Repository
	eventPublisher   shared.EventPublisher
}

// NewDeleteCourseHandler создаёт новый обработчик.
func NewDeleteCourseHandler(
	courseRepo course.Repository,
	registrationRepo registration.Repository,
	eventPublisher shared.EventPublisher,
) *DeleteCourseHandler {
	return &DeleteCourseHandler{
		courseRepo:       courseRepo,
		registrationRepo: registrationRepo,
		eventPublisher:   eventPublisher,
	}
}

// Handle удаляет курс, если на него нет регистраций.
func (h *DeleteCourseHandler) Handle(ctx context.Context, courseID shared.RecordID) error {
	if courseID.IsEmpty() {
		return errors.New("delete_course: course_id must be provided")
	}

	c, err := h.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	regs, err := h.registrationRepo.GetByCourse(ctx, c.ID)
	if err != nil {
		return err
	}
	if len(regs) > 0 {
		return shared.ErrCourseInUse
	}

	if err := h.courseRepo.Delete(ctx, c.ID); err != nil {
		return err
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewGenericEvent(shared.EventCourseDeleted, c.ID.String()))
	}

	return nil
}
