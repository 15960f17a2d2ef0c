package command

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/bit-college/records-hub/internal/domain/sequence"
	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/standing"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLL STUDENT COMMAND
// Зачисление: номер студента выдаётся генератором последовательностей,
// стартовый статус - singleton-запись Regular из каталога.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollStudentCommand содержит данные для зачисления студента.
type EnrollStudentCommand struct {
	FirstName string
	LastName  string
	Address   string
	City      string
	Province  string
	ProgramID *shared.RecordID
	Notes     string

	// CorrelationID для трассировки между сервисами.
	CorrelationID string
}

// Validate проверяет команду.
func (c EnrollStudentCommand) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" {
		return errors.New("enroll_student: first and last name must be provided")
	}
	if strings.TrimSpace(c.Address) == "" || strings.TrimSpace(c.City) == "" {
		return errors.New("enroll_student: address and city must be provided")
	}
	if _, err := shared.NewProvinceCode(c.Province); err != nil {
		return err
	}
	return nil
}

// EnrollStudentResult содержит результат зачисления.
type EnrollStudentResult struct {
	// Student - созданная запись студента.
	Student *student.Student

	// StudentNumber - выданный публичный номер.
	StudentNumber shared.StudentNumber
}

// EnrollStudentHandler обрабатывает EnrollStudentCommand.
type EnrollStudentHandler struct {
	studentRepo    student.Repository
	generator      *sequence.Generator
	catalog        *standing.Catalog
	eventPublisher shared.EventPublisher
}

// NewEnrollStudentHandler создаёт новый обработчик.
func NewEnrollStudentHandler(
	studentRepo student.Repository,
	generator *sequence.Generator,
	catalog *standing.Catalog,
	eventPublisher shared.EventPublisher,
) *EnrollStudentHandler {
	return &EnrollStudentHandler{
		studentRepo:    studentRepo,
		generator:      generator,
		catalog:        catalog,
		eventPublisher: eventPublisher,
	}
}

// Handle зачисляет нового студента.
func (h *EnrollStudentHandler) Handle(ctx context.Context, cmd EnrollStudentCommand) (*EnrollStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	province, err := shared.NewProvinceCode(cmd.Province)
	if err != nil {
		return nil, err
	}

	// Номер резервируется до вставки: проигранная вставка оставляет
	// дырку в нумерации, но никогда не дубликат.
	number, err := h.generator.NextStudentNumber(ctx)
	if err != nil {
		return nil, err
	}

	// Новый студент без оценок начинает со статуса Regular.
	initial, err := h.catalog.GetOrCreate(ctx, standing.VariantRegular)
	if err != nil {
		return nil, err
	}

	st, err := student.NewStudent(student.NewStudentParams{
		ID:                shared.RecordID(uuid.New().String()),
		StudentNumber:     number,
		GradePointStateID: initial.ID,
		ProgramID:         cmd.ProgramID,
		FirstName:         cmd.FirstName,
		LastName:          cmd.LastName,
		Address:           cmd.Address,
		City:              cmd.City,
		Province:          province,
		Notes:             cmd.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := h.studentRepo.Create(ctx, st); err != nil {
		return nil, err
	}

	if h.eventPublisher != nil {
		programID := ""
		if st.ProgramID != nil {
			programID = st.ProgramID.String()
		}
		event := shared.NewStudentEnrolledEvent(st.ID.String(), number.Int64(), st.FirstName, st.LastName, programID)
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.eventPublisher.Publish(event)
	}

	return &EnrollStudentResult{Student: st, StudentNumber: number}, nil
}
