package sequence

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Интерфейс определяет контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет атомарное резервирование номеров.
// Чтение-инкремент-запись обязано быть единой атомарной операцией:
// никакой другой путь не пишет NextAvailable напрямую.
type Repository interface {
	// Reserve атомарно резервирует следующий номер категории и сдвигает
	// счётчик на единицу. Если счётчика ещё нет, он создаётся со значением
	// bootstrap в той же атомарной операции, которая резервирует первый
	// номер (никогда не отдельным create-then-read).
	//
	// Возвращает shared.ErrReservationConflict, если условное обновление
	// проиграло гонку; вызывающая сторона повторяет резервирование целиком.
	Reserve(ctx context.Context, kind Kind, bootstrap int64) (int64, error)

	// Peek возвращает текущее значение счётчика без резервирования.
	// Возвращает shared.ErrNotFound, если счётчик ещё не создан.
	// Только для диагностики; решения по номерам на Peek не основываются.
	Peek(ctx context.Context, kind Kind) (*Counter, error)
}
