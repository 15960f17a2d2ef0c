package course

import (
	"context"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// Repository определяет операции над записями курсов.
// Реализации находятся в infrastructure/persistence.
type Repository interface {
	// Create создаёт новый курс.
	Create(ctx context.Context, course *Course) error

	// GetByID возвращает курс по внутреннему ID.
	// Возвращает shared.ErrCourseNotFound, если курс не найден.
	GetByID(ctx context.Context, id shared.RecordID) (*Course, error)

	// GetByCourseNumber возвращает курс по публичному номеру.
	// Возвращает shared.ErrCourseNotFound, если курс не найден.
	GetByCourseNumber(ctx context.Context, number string) (*Course, error)

	// Update обновляет данные курса.
	// Возвращает shared.ErrCourseNotFound, если курс не найден.
	Update(ctx context.Context, course *Course) error

	// Delete удаляет курс.
	// Возвращает shared.ErrCourseNotFound, если курс не найден.
	Delete(ctx context.Context, id shared.RecordID) error

	// GetAll возвращает все курсы, опционально отфильтрованные по типу.
	GetAll(ctx context.Context, courseType *Type) ([]*Course, error)
}
