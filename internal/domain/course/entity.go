// Package course содержит доменную модель курса BIT College.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package course

import (
	"fmt"
	"strings"
	"time"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE TYPES
// ══════════════════════════════════════════════════════════════════════════════

// Type определяет один из трёх фиксированных типов курса.
type Type string

const (
	// TypeGraded - курс с оценкой (участвует в GPA).
	TypeGraded Type = "graded"
	// TypeAudit - курс вольнослушателя (без оценки).
	TypeAudit Type = "audit"
	// TypeMastery - курс с зачётом по освоению (ограниченное число попыток).
	TypeMastery Type = "mastery"
)

// IsValid проверяет, что тип корректен.
func (t Type) IsValid() bool {
	switch t {
	case TypeGraded, TypeAudit, TypeMastery:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление типа.
func (t Type) String() string {
	return string(t)
}

// Description возвращает отображаемое название типа.
func (t Type) Description() string {
	switch t {
	case TypeGraded:
		return "Graded"
	case TypeAudit:
		return "Audit"
	case TypeMastery:
		return "Mastery"
	default:
		return "Unknown"
	}
}

// NumberPrefix возвращает префикс номера курса для типа.
func (t Type) NumberPrefix() string {
	switch t {
	case TypeGraded:
		return "G-"
	case TypeAudit:
		return "A-"
	case TypeMastery:
		return "M-"
	default:
		return ""
	}
}

// CountsTowardGPA возвращает true, если оценки курса участвуют в GPA.
func (t Type) CountsTowardGPA() bool {
	return t == TypeGraded
}

// ParseType разбирает строку в Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", shared.ErrInvalidCourseType
	}
	return t, nil
}

// FormatCourseNumber собирает публичный номер курса из типа и
// зарезервированного номера последовательности.
func FormatCourseNumber(t Type, sequenceNumber int64) string {
	return fmt.Sprintf("%s%d", t.NumberPrefix(), sequenceNumber)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: COURSE
// ══════════════════════════════════════════════════════════════════════════════

// Course представляет курс учебного плана. Три типа курса хранятся в одной
// записи с дискриминатором Type; поля, специфичные для типа, заполняются
// только для него.
type Course struct {
	// ID - внутренний уникальный идентификатор (UUID).
	ID shared.RecordID

	// Type - тип курса.
	Type Type

	// CourseNumber - публичный номер курса, например "G-2001".
	CourseNumber string

	// ProgramID - ссылка на академическую программу (опционально).
	ProgramID *shared.RecordID

	// Title - название курса.
	Title string

	// CreditHours - кредитные часы.
	CreditHours float64

	// TuitionAmount - базовая стоимость обучения до применения
	// тарифного коэффициента статуса.
	TuitionAmount shared.Money

	// Notes - произвольные примечания.
	Notes string

	// AssignmentWeight - вес заданий в итоговой оценке (только graded).
	AssignmentWeight float64

	// ExamWeight - вес экзаменов в итоговой оценке (только graded).
	ExamWeight float64

	// MaximumAttempts - максимум попыток зачёта (только mastery).
	MaximumAttempts int

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// NewCourseParams содержит параметры для создания нового курса.
type NewCourseParams struct {
	ID               shared.RecordID
	Type             Type
	CourseNumber     string
	ProgramID        *shared.RecordID
	Title            string
	CreditHours      float64
	TuitionAmount    shared.Money
	Notes            string
	AssignmentWeight float64
	ExamWeight       float64
	MaximumAttempts  int
}

// NewCourse создаёт новый курс с валидацией всех полей.
func NewCourse(params NewCourseParams) (*Course, error) {
	if params.ID.IsEmpty() {
		return nil, shared.NewDomainError("course", "New", shared.ErrInvalidID, "course id is required")
	}

	if !params.Type.IsValid() {
		return nil, shared.ErrInvalidCourseType
	}

	if strings.TrimSpace(params.CourseNumber) == "" {
		return nil, shared.NewDomainError("course", "New", shared.ErrEmptyValue, "course number is required")
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, shared.NewDomainError("course", "New", shared.ErrEmptyValue, "course title is required")
	}

	if params.CreditHours <= 0 {
		return nil, shared.NewDomainError("course", "New", shared.ErrInvalidInput, "credit hours must be positive")
	}

	if !params.TuitionAmount.IsValid() {
		return nil, shared.NewDomainError("course", "New", shared.ErrNegativeValue, "tuition amount cannot be negative")
	}

	c := &Course{
		ID:            params.ID,
		Type:          params.Type,
		CourseNumber:  strings.TrimSpace(params.CourseNumber),
		ProgramID:     params.ProgramID,
		Title:         title,
		CreditHours:   params.CreditHours,
		TuitionAmount: params.TuitionAmount,
		Notes:         params.Notes,
		CreatedAt:     time.Now().UTC(),
	}
	c.UpdatedAt = c.CreatedAt

	switch params.Type {
	case TypeGraded:
		if params.AssignmentWeight < 0 || params.ExamWeight < 0 ||
			!weightsSumToOne(params.AssignmentWeight, params.ExamWeight) {
			return nil, shared.ErrInvalidWeights
		}
		c.AssignmentWeight = params.AssignmentWeight
		c.ExamWeight = params.ExamWeight
	case TypeMastery:
		if params.MaximumAttempts <= 0 {
			return nil, shared.NewDomainError("course", "New", shared.ErrInvalidInput, "maximum attempts must be positive")
		}
		c.MaximumAttempts = params.MaximumAttempts
	}

	return c, nil
}

// Допуск на погрешность двоичного представления весов.
const weightEpsilon = 1e-9

func weightsSumToOne(a, b float64) bool {
	sum := a + b
	return sum > 1-weightEpsilon && sum < 1+weightEpsilon
}

// SetWeights задаёт веса итоговой оценки graded-курса.
func (c *Course) SetWeights(assignment, exam float64) error {
	if c.Type != TypeGraded {
		return shared.ErrInvalidCourseType
	}
	if assignment < 0 || exam < 0 || !weightsSumToOne(assignment, exam) {
		return shared.ErrInvalidWeights
	}
	c.AssignmentWeight = assignment
	c.ExamWeight = exam
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// TuitionFor возвращает стоимость курса для тарифного коэффициента статуса.
func (c *Course) TuitionFor(tuitionFactor float64) shared.Money {
	return c.TuitionAmount.Scale(tuitionFactor)
}

// String возвращает строковое представление курса для логирования.
func (c *Course) String() string {
	return fmt.Sprintf("Course{ID: %s, Number: %s, Type: %s, Title: %s}", c.ID, c.CourseNumber, c.Type, c.Title)
}
