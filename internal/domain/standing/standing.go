// Package standing содержит доменную модель академического статуса студента.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package standing

import (
	"strings"
	"time"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VARIANTS
// ══════════════════════════════════════════════════════════════════════════════

// Variant определяет один из четырёх фиксированных статусов успеваемости.
type Variant string

const (
	// VariantSuspended - студент отстранён (GPA ниже 1.00).
	VariantSuspended Variant = "suspended"
	// VariantProbation - студент на испытательном сроке (GPA 1.00-2.00).
	VariantProbation Variant = "probation"
	// VariantRegular - обычный статус (GPA 2.00-3.70).
	VariantRegular Variant = "regular"
	// VariantHonours - статус отличника (GPA выше 3.70).
	VariantHonours Variant = "honours"
)

// IsValid проверяет, что вариант корректен.
func (v Variant) IsValid() bool {
	switch v {
	case VariantSuspended, VariantProbation, VariantRegular, VariantHonours:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление варианта.
func (v Variant) String() string {
	return string(v)
}

// Description возвращает отображаемое название статуса.
func (v Variant) Description() string {
	switch v {
	case VariantSuspended:
		return "Suspended"
	case VariantProbation:
		return "Probation"
	case VariantRegular:
		return "Regular"
	case VariantHonours:
		return "Honours"
	default:
		return "Unknown"
	}
}

// ParseVariant разбирает строку в Variant.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", shared.ErrUnknownVariant
	}
	return v, nil
}

// Variants возвращает все варианты в порядке возрастания границ.
func Variants() []Variant {
	return []Variant{VariantSuspended, VariantProbation, VariantRegular, VariantHonours}
}

// ══════════════════════════════════════════════════════════════════════════════
// POLICY TABLE
// Границы и тарифные коэффициенты - фиксированные константы политики колледжа.
// ══════════════════════════════════════════════════════════════════════════════

// Bounds содержит фиксированные границы и тарифный коэффициент варианта.
type Bounds struct {
	LowerLimit    float64
	UpperLimit    float64
	TuitionFactor float64
}

// Границы разбивают [0.00, 4.50] непрерывно, без зазоров и пересечений.
var policy = map[Variant]Bounds{
	VariantSuspended: {LowerLimit: 0.00, UpperLimit: 1.00, TuitionFactor: 1.10},
	VariantProbation: {LowerLimit: 1.00, UpperLimit: 2.00, TuitionFactor: 1.075},
	VariantRegular:   {LowerLimit: 2.00, UpperLimit: 3.70, TuitionFactor: 1.00},
	VariantHonours:   {LowerLimit: 3.70, UpperLimit: 4.50, TuitionFactor: 0.90},
}

// BoundsFor возвращает границы варианта.
func BoundsFor(v Variant) (Bounds, error) {
	b, ok := policy[v]
	if !ok {
		return Bounds{}, shared.ErrUnknownVariant
	}
	return b, nil
}

// TuitionFactorFor возвращает тарифный коэффициент варианта.
// Чистая функция, без I/O.
func TuitionFactorFor(v Variant) (float64, error) {
	b, err := BoundsFor(v)
	if err != nil {
		return 0, err
	}
	return b.TuitionFactor, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSITION FUNCTION
// ══════════════════════════════════════════════════════════════════════════════

// NextVariant вычисляет следующий статус для текущего статуса и GPA.
// Переход всегда на соседнюю полосу: скачок GPA через несколько полос
// разрешается итерацией функции, а не одним вызовом.
func NextVariant(current Variant, gpa float64) (Variant, error) {
	bounds, err := BoundsFor(current)
	if err != nil {
		return "", err
	}

	switch current {
	case VariantSuspended:
		if gpa > bounds.UpperLimit {
			return VariantProbation, nil
		}
	case VariantProbation:
		if gpa > bounds.UpperLimit {
			return VariantRegular, nil
		}
		if gpa < bounds.LowerLimit {
			return VariantSuspended, nil
		}
	case VariantRegular:
		if gpa > bounds.UpperLimit {
			return VariantHonours, nil
		}
		if gpa < bounds.LowerLimit {
			return VariantProbation, nil
		}
	case VariantHonours:
		if gpa < bounds.LowerLimit {
			return VariantRegular, nil
		}
	}

	return current, nil
}

// MaxTransitionSteps ограничивает цикл сходимости: полос четыре,
// значит между любыми двумя статусами не более трёх рёбер.
const MaxTransitionSteps = 3

// ══════════════════════════════════════════════════════════════════════════════
// PERSISTED STATE (singleton row per variant)
// ══════════════════════════════════════════════════════════════════════════════

// State - персистентная запись статуса (ровно одна строка на вариант).
// Идентичность строки создаётся один раз при первом обращении и затем
// переиспользуется; сравнение статусов выполняется по идентичности.
type State struct {
	// ID - внутренний идентификатор строки (UUID).
	ID shared.RecordID

	// Variant - вариант статуса.
	Variant Variant

	// LowerLimit - нижняя граница GPA.
	LowerLimit float64

	// UpperLimit - верхняя граница GPA.
	UpperLimit float64

	// TuitionFactor - множитель стоимости обучения.
	TuitionFactor float64

	// CreatedAt - время создания записи.
	CreatedAt time.Time
}

// NewState создаёт запись статуса из фиксированной таблицы политики.
func NewState(id shared.RecordID, v Variant) (*State, error) {
	bounds, err := BoundsFor(v)
	if err != nil {
		return nil, err
	}

	return &State{
		ID:            id,
		Variant:       v,
		LowerLimit:    bounds.LowerLimit,
		UpperLimit:    bounds.UpperLimit,
		TuitionFactor: bounds.TuitionFactor,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// Contains проверяет, попадает ли GPA в полосу [LowerLimit, UpperLimit).
// Верхняя полоса включает и свою верхнюю границу.
func (s *State) Contains(gpa float64) bool {
	if s.Variant == VariantHonours {
		return gpa >= s.LowerLimit && gpa <= s.UpperLimit
	}
	return gpa >= s.LowerLimit && gpa < s.UpperLimit
}
