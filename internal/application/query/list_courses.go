package query

import (
	"context"
	"time"

	"github.com/bit-college/records-hub/internal/domain/course"
	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST COURSES QUERY
// Каталог курсов, опционально отфильтрованный по типу.
// ══════════════════════════════════════════════════════════════════════════════

// ListCoursesQuery содержит параметры запроса каталога.
type ListCoursesQuery struct {
	// CourseType - фильтр по типу: graded, audit или mastery.
	// Пустая строка - все типы.
	CourseType string
}

// CourseDTO - строка каталога курсов.
type CourseDTO struct {
	// CourseID - внутренний ID курса.
	CourseID string `json:"course_id"`

	// CourseNumber - публичный номер, например "G-2001".
	CourseNumber string `json:"course_number"`

	// CourseType - тип курса.
	CourseType string `json:"course_type"`

	// Title - название курса.
	Title string `json:"title"`

	// CreditHours - кредитные часы.
	CreditHours float64 `json:"credit_hours"`

	// TuitionAmount - базовая стоимость до применения коэффициента.
	TuitionAmount float64 `json:"tuition_amount"`

	// ProgramID - академическая программа (если назначена).
	ProgramID string `json:"program_id,omitempty"`

	// AssignmentWeight и ExamWeight заполнены только для graded-курсов.
	AssignmentWeight float64 `json:"assignment_weight,omitempty"`
	ExamWeight       float64 `json:"exam_weight,omitempty"`

	// MaximumAttempts заполнено только для mastery-курсов.
	MaximumAttempts int `json:"maximum_attempts,omitempty"`
}

// ListCoursesResult содержит результат запроса каталога.
type ListCoursesResult struct {
	// Courses - строки каталога.
	Courses []CourseDTO `json:"courses"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// ListCoursesHandler обрабатывает запросы каталога курсов.
type ListCoursesHandler struct {
	courseRepo course.Repository
}

// NewListCoursesHandler создаёт новый обработчик.
func NewListCoursesHandler(courseRepo course.Repository) *ListCoursesHandler {
	return &ListCoursesHandler{courseRepo: courseRepo}
}

// Handle выполняет запрос каталога.
func (h *ListCoursesHandler) Handle(ctx context.Context, query ListCoursesQuery) (*ListCoursesResult, error) {
	var filter *course.Type
	if query.CourseType != "" {
		t, err := course.ParseType(query.CourseType)
		if err != nil {
			return nil, shared.WrapError("query", "ListCourses", shared.ErrValidation, "invalid course type", err)
		}
		filter = &t
	}

	courses, err := h.courseRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]CourseDTO, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, buildCourseDTO(c))
	}

	return &ListCoursesResult{
		Courses:     rows,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// buildCourseDTO формирует DTO из доменного объекта.
func buildCourseDTO(c *course.Course) CourseDTO {
	dto := CourseDTO{
		CourseID:      c.ID.String(),
		CourseNumber:  c.CourseNumber,
		CourseType:    c.Type.String(),
		Title:         c.Title,
		CreditHours:   c.CreditHours,
		TuitionAmount: c.TuitionAmount.Float64(),
	}

	if c.ProgramID != nil {
		dto.ProgramID = c.ProgramID.String()
	}

	switch c.Type {
	case course.TypeGraded:
		dto.AssignmentWeight = c.AssignmentWeight
		dto.ExamWeight = c.ExamWeight
	case course.TypeMastery:
		dto.MaximumAttempts = c.MaximumAttempts
	}

	return dto
}
