// Package sequence содержит доменную модель генератора уникальных номеров.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package sequence

import (
	"strings"
	"time"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// KINDS
// ══════════════════════════════════════════════════════════════════════════════

// Kind определяет категорию сущности, для которой ведётся счётчик.
type Kind string

const (
	// KindStudent - номера студентов.
	KindStudent Kind = "student"
	// KindRegistration - номера регистраций.
	KindRegistration Kind = "registration"
	// KindGradedCourse - номера оцениваемых курсов.
	KindGradedCourse Kind = "graded_course"
	// KindAuditCourse - номера курсов-вольнослушателей.
	KindAuditCourse Kind = "audit_course"
	// KindMasteryCourse - номера курсов с зачётом по освоению.
	KindMasteryCourse Kind = "mastery_course"
)

// IsValid проверяет, что категория корректна.
func (k Kind) IsValid() bool {
	switch k {
	case KindStudent, KindRegistration, KindGradedCourse, KindAuditCourse, KindMasteryCourse:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление категории.
func (k Kind) String() string {
	return string(k)
}

// ParseKind разбирает строку в Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", shared.ErrUnknownSequenceKind
	}
	return k, nil
}

// Kinds возвращает все категории счётчиков.
func Kinds() []Kind {
	return []Kind{KindStudent, KindRegistration, KindGradedCourse, KindAuditCourse, KindMasteryCourse}
}

// ══════════════════════════════════════════════════════════════════════════════
// BOOTSTRAP POLICY
// Стартовые значения счётчиков - константы политики per-kind.
// ══════════════════════════════════════════════════════════════════════════════

// Номера студентов восьмизначные, остальные счётчики начинаются со 100.
var bootstraps = map[Kind]int64{
	KindStudent:       int64(shared.MinStudentNumber),
	KindRegistration:  100,
	KindGradedCourse:  100,
	KindAuditCourse:   100,
	KindMasteryCourse: 100,
}

// BootstrapFor возвращает стартовое значение счётчика для категории.
func BootstrapFor(k Kind) (int64, error) {
	v, ok := bootstraps[k]
	if !ok {
		return 0, shared.ErrUnknownSequenceKind
	}
	return v, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COUNTER ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Counter - персистентная запись счётчика (ровно одна строка на категорию).
// Создаётся лениво при первом резервировании и никогда не удаляется.
type Counter struct {
	// Kind - категория сущности.
	Kind Kind

	// NextAvailable - следующий свободный номер.
	NextAvailable int64

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего резервирования.
	UpdatedAt time.Time
}
