package query

import (
	"context"
	"errors"
	"time"

	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENTS QUERY
// Постраничный список студентов для регистратора.
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentsQuery содержит параметры списочного запроса.
type ListStudentsQuery struct {
	// Offset - смещение (для пагинации).
	Offset int

	// Limit - размер страницы (по умолчанию 50, максимум 200).
	Limit int

	// IncludeArchived - включать ли заархивированные записи.
	IncludeArchived bool
}

// Validate проверяет и нормализует параметры запроса.
func (q *ListStudentsQuery) Validate() error {
	if q.Offset < 0 {
		return errors.New("offset cannot be negative")
	}
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = 50
	}
	if q.Limit > 200 {
		q.Limit = 200
	}
	return nil
}

// StudentSummaryDTO - краткая строка списка студентов.
type StudentSummaryDTO struct {
	// StudentID - внутренний ID студента.
	StudentID string `json:"student_id"`

	// StudentNumber - публичный номер студента.
	StudentNumber int64 `json:"student_number"`

	// FullName - полное имя.
	FullName string `json:"full_name"`

	// City - город.
	City string `json:"city"`

	// Province - код провинции.
	Province string `json:"province"`

	// GradePointAverage - средний балл. Nil у неоценённых студентов.
	GradePointAverage *float64 `json:"grade_point_average,omitempty"`

	// OutstandingFees - невыплаченная сумма.
	OutstandingFees float64 `json:"outstanding_fees"`

	// Archived - заархивирована ли запись.
	Archived bool `json:"archived"`
}

// ListStudentsResult содержит результат списочного запроса.
type ListStudentsResult struct {
	// Students - строки текущей страницы.
	Students []StudentSummaryDTO `json:"students"`

	// TotalCount - общее количество незаархивированных студентов.
	TotalCount int `json:"total_count"`

	// Offset и Limit - эхо параметров пагинации.
	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// ListStudentsHandler обрабатывает списочные запросы студентов.
type ListStudentsHandler struct {
	studentRepo student.Repository
}

// NewListStudentsHandler создаёт новый обработчик.
func NewListStudentsHandler(studentRepo student.Repository) *ListStudentsHandler {
	return &ListStudentsHandler{studentRepo: studentRepo}
}

// Handle выполняет списочный запрос.
func (h *ListStudentsHandler) Handle(ctx context.Context, query ListStudentsQuery) (*ListStudentsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "ListStudents", shared.ErrValidation, err.Error(), err)
	}

	students, err := h.studentRepo.GetAll(ctx, student.ListOptions{
		Offset:          query.Offset,
		Limit:           query.Limit,
		IncludeArchived: query.IncludeArchived,
	})
	if err != nil {
		return nil, err
	}

	total, err := h.studentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]StudentSummaryDTO, 0, len(students))
	for _, s := range students {
		row := StudentSummaryDTO{
			StudentID:       s.ID.String(),
			StudentNumber:   s.StudentNumber.Int64(),
			FullName:        s.FullName(),
			City:            s.City,
			Province:        s.Province.String(),
			OutstandingFees: s.OutstandingFees.Float64(),
			Archived:        s.Archived,
		}
		if s.GradePointAverage != nil {
			gpa := s.GradePointAverage.Float64()
			row.GradePointAverage = &gpa
		}
		rows = append(rows, row)
	}

	return &ListStudentsResult{
		Students:    rows,
		TotalCount:  total,
		Offset:      query.Offset,
		Limit:       query.Limit,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
