// Package registration содержит доменную модель регистрации студента на курс.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package registration

import (
	"fmt"
	"time"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// Registration связывает студента с курсом и хранит его оценку.
type Registration struct {
	// ID - внутренний уникальный идентификатор (UUID).
	ID shared.RecordID

	// StudentID - ссылка на студента.
	StudentID shared.RecordID

	// CourseID - ссылка на курс.
	CourseID shared.RecordID

	// RegistrationNumber - публичный номер регистрации,
	// выдаётся генератором последовательностей.
	RegistrationNumber shared.RegistrationNumber

	// RegistrationDate - дата регистрации.
	RegistrationDate time.Time

	// Grade - оценка на шкале [0, 1]. Nil, пока курс не оценён.
	Grade *shared.Grade

	// Notes - произвольные примечания.
	Notes string

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// NewRegistrationParams содержит параметры для создания регистрации.
type NewRegistrationParams struct {
	ID                 shared.RecordID
	StudentID          shared.RecordID
	CourseID           shared.RecordID
	RegistrationNumber shared.RegistrationNumber
	Notes              string
}

// NewRegistration создаёт новую регистрацию с валидацией.
func NewRegistration(params NewRegistrationParams) (*Registration, error) {
	if params.ID.IsEmpty() {
		return nil, shared.NewDomainError("registration", "New", shared.ErrInvalidID, "registration id is required")
	}

	if params.StudentID.IsEmpty() || params.CourseID.IsEmpty() {
		return nil, shared.NewDomainError("registration", "New", shared.ErrInvalidID, "student and course ids are required")
	}

	if !params.RegistrationNumber.IsValid() {
		return nil, shared.NewDomainError("registration", "New", shared.ErrInvalidID, "invalid registration number")
	}

	now := time.Now().UTC()

	return &Registration{
		ID:                 params.ID,
		StudentID:          params.StudentID,
		CourseID:           params.CourseID,
		RegistrationNumber: params.RegistrationNumber,
		RegistrationDate:   now,
		Grade:              nil,
		Notes:              params.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// IsGraded возвращает true, если регистрация оценена.
func (r *Registration) IsGraded() bool {
	return r.Grade != nil
}

// RecordGrade выставляет оценку регистрации.
func (r *Registration) RecordGrade(grade shared.Grade) error {
	if !grade.IsValid() {
		return shared.ErrInvalidGrade
	}

	r.Grade = &grade
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// String возвращает строковое представление регистрации для логирования.
func (r *Registration) String() string {
	grade := "ungraded"
	if r.Grade != nil {
		grade = fmt.Sprintf("%.2f", r.Grade.Float64())
	}
	return fmt.Sprintf("Registration{ID: %s, Student: %s, Course: %s, Grade: %s}", r.ID, r.StudentID, r.CourseID, grade)
}
