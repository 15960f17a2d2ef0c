package command

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/bit-college/records-hub/internal/domain/course"
	"github.com/bit-college/records-hub/internal/domain/sequence"
	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE COURSE COMMAND
// Номер курса выдаётся счётчиком своего типа и получает префикс типа
// ("G-", "A-", "M-").
// ══════════════════════════════════════════════════════════════════════════════

// CreateCourseCommand содержит данные для создания курса.
type CreateCourseCommand struct {
	CourseType    string
	Title         string
	CreditHours   float64
	TuitionAmount float64
	ProgramID     *shared.RecordID
	Notes         string

	// Только для graded.
	AssignmentWeight float64
	ExamWeight       float64

	// Только для mastery.
	MaximumAttempts int

	// CorrelationID для трассировки между сервисами.
	CorrelationID string
}

// Validate проверяет команду.
func (c CreateCourseCommand) Validate() error {
	if _, err := course.ParseType(c.CourseType); err != nil {
		return err
	}
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("create_course: title must be provided")
	}
	return nil
}

// CreateCourseResult содержит результат создания курса.
type CreateCourseResult struct {
	// Course - созданная запись курса.
	Course *course.Course
}

// CreateCourseHandler обрабатывает CreateCourseCommand.
type CreateCourseHandler struct {
	courseRepo     course.Repository
	generator      *sequence.Generator
	eventPublisher shared.EventPublisher
}

// NewCreateCourseHandler создаёт новый обработчик.
func NewCreateCourseHandler(
	courseRepo course.Repository,
	generator *sequence.Generator,
	eventPublisher shared.EventPublisher,
) *CreateCourseHandler {
	return &CreateCourseHandler{
		courseRepo:     courseRepo,
		generator:      generator,
		eventPublisher: eventPublisher,
	}
}

// sequenceKindFor сопоставляет тип курса с категорией счётчика.
func sequenceKindFor(t course.Type) (sequence.Kind, error) {
	switch t {
	case course.TypeGraded:
		return sequence.KindGradedCourse, nil
	case course.TypeAudit:
		return sequence.KindAuditCourse, nil
	case course.TypeMastery:
		return sequence.KindMasteryCourse, nil
	default:
		return "", shared.ErrInvalidCourseType
	}
}

// Handle создаёт новый курс.
func (h *CreateCourseHandler) Handle(ctx context.Context, cmd CreateCourseCommand) (*CreateCourseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	courseType, err := course.ParseType(cmd.CourseType)
	if err != nil {
		return nil, err
	}

	kind, err := sequenceKindFor(courseType)
	if err != nil {
		return nil, err
	}

	number, err := h.generator.Next(ctx, kind)
	if err != nil {
		return nil, err
	}

	c, err := course.NewCourse(course.NewCourseParams{
		ID:               shared.RecordID(uuid.New().String()),
		Type:             courseType,
		CourseNumber:     course.FormatCourseNumber(courseType, number),
		ProgramID:        cmd.ProgramID,
		Title:            cmd.Title,
		CreditHours:      cmd.CreditHours,
		TuitionAmount:    shared.Money(cmd.TuitionAmount),
		Notes:            cmd.Notes,
		AssignmentWeight: cmd.AssignmentWeight,
		ExamWeight:       cmd.ExamWeight,
		MaximumAttempts:  cmd.MaximumAttempts,
	})
	if err != nil {
		return nil, err
	}

	if err := h.courseRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	if h.eventPublisher != nil {
		event := shared.NewCourseCreatedEvent(c.ID.String(), c.CourseNumber, c.Type.String(), c.Title)
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.eventPublisher.Publish(event)
	}

	return &CreateCourseResult{Course: c}, nil
}
