package standing

import (
	"context"
	"errors"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG
// Каталог отвечает за ленивое создание и выдачу singleton-записей статусов.
// Атомарность get-or-create вынесена в контракт хранилища: статические поля
// процесса не координируют несколько экземпляров сервера.
// ══════════════════════════════════════════════════════════════════════════════

// Catalog разрешает вариант статуса в его персистентную singleton-запись.
type Catalog struct {
	repo Repository
}

// NewCatalog создаёт новый каталог статусов.
func NewCatalog(repo Repository) *Catalog {
	return &Catalog{repo: repo}
}

// GetOrCreate возвращает запись варианта, создавая её при первом обращении.
// Повторные вызовы для одного варианта всегда возвращают одну и ту же
// идентичность.
func (c *Catalog) GetOrCreate(ctx context.Context, v Variant) (*State, error) {
	if !v.IsValid() {
		return nil, shared.ErrUnknownVariant
	}
	return c.repo.GetOrCreate(ctx, v)
}

// Resolve возвращает запись статуса по идентификатору строки.
// Если запись существует, но её вариант не входит в закрытое множество,
// это повреждение данных: возвращается shared.ErrUnknownVariant.
func (c *Catalog) Resolve(ctx context.Context, id shared.RecordID) (*State, error) {
	st, err := c.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnknownVariant
		}
		return nil, err
	}

	if !st.Variant.IsValid() {
		return nil, shared.ErrUnknownVariant
	}

	return st, nil
}

// EnsureAll материализует записи всех четырёх вариантов.
// Используется при старте сервиса, чтобы справочник был полон до
// первого запроса.
func (c *Catalog) EnsureAll(ctx context.Context) error {
	for _, v := range Variants() {
		if _, err := c.repo.GetOrCreate(ctx, v); err != nil {
			return err
		}
	}
	return nil
}
