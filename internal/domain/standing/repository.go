package standing

import (
	"context"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Интерфейс определяет контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над персистентными записями статусов.
type Repository interface {
	// GetOrCreate возвращает единственную запись для варианта, создавая её
	// при первом обращении. Конкурентные создатели одного варианта обязаны
	// сойтись на одной выжившей строке (атомарность - на стороне хранилища).
	GetOrCreate(ctx context.Context, v Variant) (*State, error)

	// GetByID возвращает запись статуса по идентификатору строки.
	// Возвращает shared.ErrStandingNotFound, если записи нет.
	GetByID(ctx context.Context, id shared.RecordID) (*State, error)

	// GetByVariant возвращает запись статуса по варианту без создания.
	// Возвращает shared.ErrStandingNotFound, если записи нет.
	GetByVariant(ctx context.Context, v Variant) (*State, error)

	// ListAll возвращает все материализованные записи статусов.
	ListAll(ctx context.Context) ([]*State, error)
}
