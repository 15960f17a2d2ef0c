package student

import (
	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GPA COMPUTATION
// GPA - средневзвешенное оценок по кредитным часам оцениваемых курсов,
// приведённое к шкале 4.5. Курсы audit и mastery в GPA не участвуют.
// ══════════════════════════════════════════════════════════════════════════════

// GradedResult - одна оценённая запись для вычисления GPA.
type GradedResult struct {
	// Grade - оценка на шкале [0, 1].
	Grade shared.Grade

	// CreditHours - кредитные часы курса (вес оценки).
	CreditHours float64
}

// ComputeGPA вычисляет средневзвешенный GPA по оценённым курсам.
// Возвращает nil, если оценённых курсов нет: у такого студента GPA
// отсутствует, и выверка статуса для него - no-op.
func ComputeGPA(results []GradedResult) (*shared.GPA, error) {
	var weightedPoints, totalHours float64

	for _, r := range results {
		if !r.Grade.IsValid() {
			return nil, shared.ErrInvalidGrade
		}
		if r.CreditHours <= 0 {
			return nil, shared.NewDomainError("student", "ComputeGPA", shared.ErrInvalidInput, "credit hours must be positive")
		}

		weightedPoints += r.Grade.ToGradePoints().Float64() * r.CreditHours
		totalHours += r.CreditHours
	}

	if totalHours == 0 {
		return nil, nil
	}

	gpa, err := shared.NewGPA(weightedPoints / totalHours)
	if err != nil {
		return nil, err
	}
	return &gpa, nil
}
