package query

import (
	"context"
	"errors"
	"regexp"

	"github.com/bit-college/records-hub/internal/domain/course"
	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET COURSE QUERY
// Курс ищется либо по внутреннему ID, либо по публичному номеру
// ("G-2001", "A-104", "M-110").
// ══════════════════════════════════════════════════════════════════════════════

// courseNumberPattern - форма публичного номера курса.
var courseNumberPattern = regexp.MustCompile(`^[GAM]-\d+$`)

// IsCourseNumber сообщает, выглядит ли строка как публичный номер курса.
func IsCourseNumber(s string) bool {
	return courseNumberPattern.MatchString(s)
}

// GetCourseQuery содержит параметры запроса курса.
// Заполняется ровно одно из двух полей.
type GetCourseQuery struct {
	// CourseID - внутренний ID курса.
	CourseID string

	// CourseNumber - публичный номер курса.
	CourseNumber string
}

// GetCourseResult содержит результат запроса курса.
type GetCourseResult struct {
	// Course - найденная запись каталога.
	Course CourseDTO `json:"course"`
}

// GetCourseHandler обрабатывает запросы отдельного курса.
type GetCourseHandler struct {
	courseRepo course.Repository
}

// NewGetCourseHandler создаёт новый обработчик.
func NewGetCourseHandler(courseRepo course.Repository) *GetCourseHandler {
	return &GetCourseHandler{courseRepo: courseRepo}
}

// Handle выполняет запрос курса.
func (h *GetCourseHandler) Handle(ctx context.Context, query GetCourseQuery) (*GetCourseResult, error) {
	var (
		c   *course.Course
		err error
	)

	switch {
	case query.CourseNumber != "":
		c, err = h.courseRepo.GetByCourseNumber(ctx, query.CourseNumber)
	case query.CourseID != "":
		var id shared.RecordID
		id, err = shared.NewRecordID(query.CourseID)
		if err != nil {
			return nil, err
		}
		c, err = h.courseRepo.GetByID(ctx, id)
	default:
		return nil, errors.New("get_course: course_id or course_number must be provided")
	}
	if err != nil {
		return nil, err
	}

	return &GetCourseResult{Course: buildCourseDTO(c)}, nil
}
