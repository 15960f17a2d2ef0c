package program

import (
	"context"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// Repository определяет операции над академическими программами.
// Реализации находятся в infrastructure/persistence.
type Repository interface {
	// Create создаёт новую программу.
	Create(ctx context.Context, p *Program) error

	// GetByID возвращает программу по внутреннему ID.
	// Возвращает shared.ErrProgramNotFound, если программа не найдена.
	GetByID(ctx context.Context, id shared.RecordID) (*Program, error)

	// GetByAcronym возвращает программу по акрониму.
	// Возвращает shared.ErrProgramNotFound, если программа не найдена.
	GetByAcronym(ctx context.Context, acronym string) (*Program, error)

	// GetAll возвращает все программы.
	GetAll(ctx context.Context) ([]*Program, error)
}
