package eventhandler

import (
	"context"
	"log/slog"

	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON GRADE RECORDED HANDLER
// Выставление оценки меняет GPA студента, поэтому закешированная
// карточка становится неактуальной.
// ═══════════════════════════════════════════════════════════════════════════

// OnGradeRecordedHandler инвалидирует кеш карточки студента при
// выставлении оценки.
type OnGradeRecordedHandler struct {
	studentCache student.Cache
	logger       *slog.Logger
}

// NewOnGradeRecordedHandler создаёт новый обработчик.
func NewOnGradeRecordedHandler(studentCache student.Cache, logger *slog.Logger) *OnGradeRecordedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnGradeRecordedHandler{
		studentCache: studentCache,
		logger:       logger.With("handler", "on_grade_recorded"),
	}
}

// Handle обрабатывает событие выставления оценки.
// Реализует интерфейс shared.EventHandler.
func (h *OnGradeRecordedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	var studentID string
	if gradeEvent, ok := event.(shared.GradeRecordedEvent); ok {
		studentID = gradeEvent.StudentID
	} else {
		// Событие пришло с другого инстанса через Redis.
		studentID, _ = event.Payload()["student_id"].(string)
		if studentID == "" {
			h.logger.Warn("grade recorded event without student_id",
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
		}
	}

	return nil
}

// EventType возвращает тип события, который обрабатывает этот handler.
func (h *OnGradeRecordedHandler) EventType() shared.EventType {
	return shared.EventGradeRecorded
}
