package command

import (
	"context"
	"errors"
	"strings"

	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE STUDENT COMMAND
// Обновление личных данных студента. Академические поля (GPA, статус)
// мутируются только движком оценок и выверки - не этой командой.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateStudentCommand содержит обновляемые личные данные.
// Nil-поля не изменяются.
type UpdateStudentCommand struct {
	StudentID shared.RecordID

	FirstName *string
	LastName  *string
	Address   *string
	City      *string
	Province  *string
	Notes     *string
}

// Validate проверяет команду.
func (c UpdateStudentCommand) Validate() error {
	if c.StudentID.IsEmpty() {
		return errors.New("update_student: student_id must be provided")
	}
	if c.FirstName == nil && c.LastName == nil && c.Address == nil &&
		c.City == nil && c.Province == nil && c.Notes == nil {
		return errors.New("update_student: at least one field must be provided")
	}
	return nil
}

// UpdateStudentHandler обрабатывает UpdateStudentCommand.
type UpdateStudentHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewUpdateStudentHandler создаёт новый обработчик.
func NewUpdateStudentHandler(studentRepo student.Repository, eventPublisher shared.EventPublisher) *UpdateStudentHandler {
	return &UpdateStudentHandler{
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle обновляет личные данные студента.
func (h *UpdateStudentHandler) Handle(ctx context.Context, cmd UpdateStudentCommand) (*student.Student, error) {
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

	if cmd.FirstName != nil {
		name := strings.TrimSpace(*cmd.FirstName)
		if name == "" {
			return nil, shared.NewDomainError("student", "Update", shared.ErrEmptyValue, "first name cannot be empty")
		}
		st.FirstName = name
	}
	if cmd.LastName != nil {
		name := strings.TrimSpace(*cmd.LastName)
		if name == "" {
			return nil, shared.NewDomainError("student", "Update", shared.ErrEmptyValue, "last name cannot be empty")
		}
		st.LastName = name
	}
	if cmd.Address != nil {
		addr := strings.TrimSpace(*cmd.Address)
		if addr == "" {
			return nil, shared.NewDomainError("student", "Update", shared.ErrEmptyValue, "address cannot be empty")
		}
		st.Address = addr
	}
	if cmd.City != nil {
		city := strings.TrimSpace(*cmd.City)
		if city == "" {
			return nil, shared.NewDomainError("student", "Update", shared.ErrEmptyValue, "city cannot be empty")
		}
		st.City = city
	}
	if cmd.Province != nil {
		code, err := shared.NewProvinceCode(*cmd.Province)
		if err != nil {
			return nil, err
		}
		st.Province = code
	}
	if cmd.Notes != nil {
		st.Notes = *cmd.Notes
	}

	if err := h.studentRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewGenericEvent(shared.EventStudentUpdated, st.ID.String()))
	}

	return st, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ARCHIVE STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// ArchiveStudentHandler архивирует запись студента (soft delete).
type ArchiveStudentHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewArchiveStudentHandler создаёт новый обработчик.
func NewArchiveStudentHandler(studentRepo student.Repository, eventPublisher shared.EventPublisher) *ArchiveStudentHandler {
	return &ArchiveStudentHandler{
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle архивирует студента.
func (h *ArchiveStudentHandler) Handle(ctx context.Context, studentID shared.RecordID) error {
	if studentID.IsEmpty() {
		return errors.New("archive_student: student_id must be provided")
	}

	if err := h.studentRepo.Archive(ctx, studentID); err != nil {
		return err
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewGenericEvent(shared.EventStudentArchived, studentID.String()))
	}

	return nil
}
