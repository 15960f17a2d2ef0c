package registration

import (
	"context"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// Repository определяет операции над записями регистраций.
// Реализации находятся в infrastructure/persistence.
type Repository interface {
	// Create создаёт новую регистрацию.
	// Возвращает shared.ErrDuplicateEnrollment, если студент уже
	// зарегистрирован на этот курс.
	Create(ctx context.Context, reg *Registration) error

	// GetByID возвращает регистрацию по внутреннему ID.
	// Возвращает shared.ErrRegistrationNotFound, если запись не найдена.
	GetByID(ctx context.Context, id shared.RecordID) (*Registration, error)

	// Update обновляет данные регистрации (включая оценку).
	// Возвращает shared.ErrRegistrationNotFound, если запись не найдена.
	Update(ctx context.Context, reg *Registration) error

	// Delete удаляет регистрацию (drop курса до выставления оценки).
	// Возвращает shared.ErrRegistrationNotFound, если запись не найдена.
	Delete(ctx context.Context, id shared.RecordID) error

	// GetByStudent возвращает все регистрации студента.
	GetByStudent(ctx context.Context, studentID shared.RecordID) ([]*Registration, error)

	// GetByCourse возвращает все регистрации курса.
	GetByCourse(ctx context.Context, courseID shared.RecordID) ([]*Registration, error)
}
