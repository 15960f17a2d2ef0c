// Package eventhandler содержит обработчики доменных событий.
// Обработчики реализуют event-driven архитектуру: реагируют на изменения
// и запускают побочные эффекты, такие как инвалидация кешей.
package eventhandler

import (
	"context"
	"log/slog"

	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON STANDING CHANGED HANDLER
// Обрабатывает событие смены академического статуса студента.
// Движок выверки публикует по одному событию на каждый сохранённый шаг:
// скачок GPA через две полосы даёт два события подряд.
// ═══════════════════════════════════════════════════════════════════════════

// OnStandingChangedHandler инвалидирует кеш карточки студента при смене
// статуса. Карточка содержит тарифный коэффициент, поэтому устаревший
// кеш показал бы неверную стоимость обучения.
type OnStandingChangedHandler struct {
	studentCache student.Cache
	logger       *slog.Logger
}

// NewOnStandingChangedHandler создаёт новый обработчик.
func NewOnStandingChangedHandler(studentCache student.Cache, logger *slog.Logger) *OnStandingChangedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnStandingChangedHandler{
		studentCache: studentCache,
		logger:       logger.With("handler", "on_standing_changed"),
	}
}

// Handle обрабатывает событие смены статуса.
// Реализует интерфейс shared.EventHandler.
func (h *OnStandingChangedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	var studentID string
	if standingEvent, ok := event.(shared.StandingChangedEvent); ok {
		studentID = standingEvent.StudentID
		h.logger.Info("processing standing changed event",
			"student_id", standingEvent.StudentID,
			"from_variant", standingEvent.FromVariant,
			"to_variant", standingEvent.ToVariant,
			"grade_average", standingEvent.GradeAverage,
		)
	} else {
		// Событие пришло с другого инстанса через Redis: остался только payload.
		studentID, _ = event.Payload()["student_id"].(string)
		if studentID == "" {
			h.logger.Warn("standing changed event without student_id",
				"event_type", event.EventType(),
			)
			return nil
		}
	}

	if h.studentCache != nil {
		id := shared.RecordID(studentID)
		if err := h.studentCache.Invalidate(ctx, id); err != nil {
			h.logger.Warn("failed to invalidate student cache",
				"student_id", studentID,
				"error", err,
			)
			// Не возвращаем ошибку - кеш истечёт по TTL
		}
	}

	return nil
}

// EventType возвращает тип события, который обрабатывает этот handler.
func (h *OnStandingChangedHandler) EventType() shared.EventType {
	return shared.EventStandingChanged
}
