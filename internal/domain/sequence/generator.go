package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// GENERATOR
// Генератор выдаёт уникальные, строго возрастающие номера per-kind.
// Проигранная гонка условного обновления повторяется внутри, невидимо
// для вызывающей стороны, в пределах небольшого бюджета попыток.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultRetryBudget - число попыток резервирования до эскалации.
const DefaultRetryBudget = 5

// Generator выдаёт следующий уникальный номер для категории сущности.
type Generator struct {
	repo      Repository
	retryOpts []retry.Option
}

// GeneratorOption настраивает генератор.
type GeneratorOption func(*Generator)

// WithRetryBudget задаёт бюджет попыток резервирования.
func WithRetryBudget(attempts int) GeneratorOption {
	return func(g *Generator) {
		g.retryOpts = []retry.Option{
			retry.WithMaxAttempts(attempts),
			retry.WithInitialDelay(5 * time.Millisecond),
			retry.WithMaxDelay(250 * time.Millisecond),
			retry.WithRetryIf(shared.IsConflict),
		}
	}
}

// NewGenerator создаёт новый генератор номеров.
func NewGenerator(repo Repository, opts ...GeneratorOption) *Generator {
	g := &Generator{repo: repo}
	WithRetryBudget(DefaultRetryBudget)(g)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next резервирует и возвращает следующий уникальный номер категории.
// Для фиксированной категории никакие два вызова не возвращают одно
// значение, а возвращённые значения строго возрастают в порядке
// сериализации атомарного обновления.
func (g *Generator) Next(ctx context.Context, kind Kind) (int64, error) {
	bootstrap, err := BootstrapFor(kind)
	if err != nil {
		return 0, err
	}

	number, err := retry.DoWithData(ctx, func(ctx context.Context) (int64, error) {
		return g.repo.Reserve(ctx, kind, bootstrap)
	}, g.retryOpts...)
	if err != nil {
		if shared.IsConflict(err) {
			return 0, shared.WrapError("sequence", "Next", shared.ErrSequenceExhausted,
				fmt.Sprintf("reservation for kind %q kept losing races", kind), err)
		}
		return 0, err
	}

	return number, nil
}

// NextStudentNumber резервирует следующий номер студента.
func (g *Generator) NextStudentNumber(ctx context.Context) (shared.StudentNumber, error) {
	n, err := g.Next(ctx, KindStudent)
	if err != nil {
		return 0, err
	}
	return shared.NewStudentNumber(n)
}

// NextRegistrationNumber резервирует следующий номер регистрации.
func (g *Generator) NextRegistrationNumber(ctx context.Context) (shared.RegistrationNumber, error) {
	n, err := g.Next(ctx, KindRegistration)
	if err != nil {
		return 0, err
	}
	return shared.RegistrationNumber(n), nil
}

// IsExhausted сообщает, исчерпан ли бюджет попыток резервирования.
// Вызывающая сторона может повторить Next(kind) целиком.
func IsExhausted(err error) bool {
	return errors.Is(err, shared.ErrSequenceExhausted)
}
