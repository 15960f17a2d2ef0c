// Package program содержит доменную модель академической программы.
package program

import (
	"strings"
	"time"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// Program представляет академическую программу (например, "SET").
type Program struct {
	// ID - внутренний уникальный идентификатор (UUID).
	ID shared.RecordID

	// Acronym - короткий акроним программы.
	Acronym string

	// Description - полное название программы.
	Description string

	// CreatedAt - время создания записи.
	CreatedAt time.Time
}

// NewProgram создаёт новую программу с валидацией.
func NewProgram(id shared.RecordID, acronym, description string) (*Program, error) {
	if id.IsEmpty() {
		return nil, shared.NewDomainError("program", "New", shared.ErrInvalidID, "program id is required")
	}

	acronym = strings.ToUpper(strings.TrimSpace(acronym))
	description = strings.TrimSpace(description)
	if acronym == "" || description == "" {
		return nil, shared.NewDomainError("program", "New", shared.ErrEmptyValue, "acronym and description are required")
	}

	return &Program{
		ID:          id,
		Acronym:     acronym,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
