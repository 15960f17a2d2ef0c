package query

import (
	"context"
	"errors"
	"time"

	"github.com/bit-college/records-hub/internal/domain/course"
	"github.com/bit-college/records-hub/internal/domain/registration"
	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET TRANSCRIPT QUERY
// Получает выписку студента: все регистрации с курсами и оценками.
// ══════════════════════════════════════════════════════════════════════════════

// GetTranscriptQuery содержит параметры запроса выписки.
type GetTranscriptQuery struct {
	// StudentID - внутренний ID студента.
	StudentID string

	// GradedOnly - вернуть только оценённые регистрации.
	GradedOnly bool
}

// Validate проверяет корректность параметров запроса.
func (q *GetTranscriptQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("student_id must be provided")
	}
	return nil
}

// TranscriptEntryDTO - одна строка выписки.
type TranscriptEntryDTO struct {
	// RegistrationID - внутренний ID регистрации.
	RegistrationID string `json:"registration_id"`

	// RegistrationNumber - публичный номер регистрации.
	RegistrationNumber int64 `json:"registration_number"`

	// RegistrationDate - дата регистрации.
	RegistrationDate time.Time `json:"registration_date"`

	// CourseNumber - публичный номер курса, например "G-2001".
	CourseNumber string `json:"course_number"`

	// CourseTitle - название курса.
	CourseTitle string `json:"course_title"`

	// CourseType - тип курса: graded, audit или mastery.
	CourseType string `json:"course_type"`

	// CreditHours - кредитные часы курса.
	CreditHours float64 `json:"credit_hours"`

	// Grade - оценка на шкале [0, 1]. Nil, если курс не оценён.
	Grade *float64 `json:"grade,omitempty"`

	// GradePoints - оценка на шкале 4.5. Nil, если курс не оценён
	// или его тип не участвует в GPA.
	GradePoints *float64 `json:"grade_points,omitempty"`
}

// GetTranscriptResult содержит результат запроса выписки.
type GetTranscriptResult struct {
	// StudentID - внутренний ID студента.
	StudentID string `json:"student_id"`

	// StudentNumber - публичный номер студента.
	StudentNumber int64 `json:"student_number"`

	// FullName - полное имя студента.
	FullName string `json:"full_name"`

	// GradePointAverage - текущий GPA. Nil у студента без оценённых курсов.
	GradePointAverage *float64 `json:"grade_point_average,omitempty"`

	// Entries - строки выписки.
	Entries []TranscriptEntryDTO `json:"entries"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetTranscriptHandler обрабатывает запросы выписки.
type GetTranscriptHandler struct {
	studentRepo      student.Repository
	registrationRepo registration.Repository
	courseRepo       course.Repository
}

// NewGetTranscriptHandler создаёт новый обработчик.
func NewGetTranscriptHandler(
	studentRepo student.Repository,
	registrationRepo registration.Repository,
	courseRepo course.Repository,
) *GetTranscriptHandler {
	return &GetTranscriptHandler{
		studentRepo:      studentRepo,
		registrationRepo: registrationRepo,
		courseRepo:       courseRepo,
	}
}

// Handle выполняет запрос выписки студента.
func (h *GetTranscriptHandler) Handle(ctx context.Context, query GetTranscriptQuery) (*GetTranscriptResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetTranscript", shared.ErrValidation, err.Error(), err)
	}

	stud, err := h.studentRepo.GetByID(ctx, shared.RecordID(query.StudentID))
	if err != nil {
		return nil, err
	}

	regs, err := h.registrationRepo.GetByStudent(ctx, stud.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]TranscriptEntryDTO, 0, len(regs))
	for _, reg := range regs {
		if query.GradedOnly && !reg.IsGraded() {
			continue
		}

		c, err := h.courseRepo.GetByID(ctx, reg.CourseID)
		if err != nil {
			return nil, err
		}

		entry := TranscriptEntryDTO{
			RegistrationID:     reg.ID.String(),
			RegistrationNumber: reg.RegistrationNumber.Int64(),
			RegistrationDate:   reg.RegistrationDate,
			CourseNumber:       c.CourseNumber,
			CourseTitle:        c.Title,
			CourseType:         c.Type.String(),
			CreditHours:        c.CreditHours,
		}

		if reg.Grade != nil {
			grade := reg.Grade.Float64()
			entry.Grade = &grade

			if c.Type.CountsTowardGPA() {
				points := reg.Grade.ToGradePoints().Float64()
				entry.GradePoints = &points
			}
		}

		entries = append(entries, entry)
	}

	result := &GetTranscriptResult{
		StudentID:     stud.ID.String(),
		StudentNumber: stud.StudentNumber.Int64(),
		FullName:      stud.FullName(),
		Entries:       entries,
		GeneratedAt:   time.Now().UTC(),
	}

	if stud.GradePointAverage != nil {
		gpa := stud.GradePointAverage.Float64()
		result.GradePointAverage = &gpa
	}

	return result, nil
}
