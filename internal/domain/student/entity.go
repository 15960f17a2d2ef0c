// Package student содержит доменную модель студента BIT College.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package student

import (
	"fmt"
	"strings"
	"time"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - центральная сущность системы, представляющая студента BIT College.
type Student struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID shared.RecordID

	// StudentNumber - публичный восьмизначный номер студента,
	// выдаётся генератором последовательностей при зачислении.
	StudentNumber shared.StudentNumber

	// GradePointStateID - ссылка на текущую запись академического статуса.
	// Мутируется только движком статусов (convergence loop).
	GradePointStateID shared.RecordID

	// ProgramID - ссылка на академическую программу (опционально).
	ProgramID *shared.RecordID

	// FirstName - имя.
	FirstName string

	// LastName - фамилия.
	LastName string

	// Address - почтовый адрес.
	Address string

	// City - город.
	City string

	// Province - код канадской провинции.
	Province shared.ProvinceCode

	// GradePointAverage - средний балл [0, 4.5]. Nil у студента без
	// оценённых курсов; мутируется логикой выставления оценок.
	GradePointAverage *shared.GPA

	// OutstandingFees - невыплаченная сумма за обучение.
	OutstandingFees shared.Money

	// Notes - произвольные примечания.
	Notes string

	// Archived - запись заархивирована (soft delete).
	Archived bool

	// DateCreated - дата зачисления.
	DateCreated time.Time

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams содержит параметры для создания нового студента.
type NewStudentParams struct {
	ID                shared.RecordID
	StudentNumber     shared.StudentNumber
	GradePointStateID shared.RecordID
	ProgramID         *shared.RecordID
	FirstName         string
	LastName          string
	Address           string
	City              string
	Province          shared.ProvinceCode
	Notes             string
}

// NewStudent создаёт нового студента с валидацией всех полей.
func NewStudent(params NewStudentParams) (*Student, error) {
	if params.ID.IsEmpty() {
		return nil, shared.NewDomainError("student", "New", shared.ErrInvalidID, "student id is required")
	}

	if !params.StudentNumber.IsValid() {
		return nil, shared.ErrInvalidStudentNumber
	}

	if params.GradePointStateID.IsEmpty() {
		return nil, shared.ErrStandingUnassigned
	}

	firstName := strings.TrimSpace(params.FirstName)
	lastName := strings.TrimSpace(params.LastName)
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("student", "New", shared.ErrEmptyValue, "first and last name are required")
	}

	if strings.TrimSpace(params.Address) == "" || strings.TrimSpace(params.City) == "" {
		return nil, shared.NewDomainError("student", "New", shared.ErrEmptyValue, "address and city are required")
	}

	if !params.Province.IsValid() {
		return nil, shared.ErrInvalidProvince
	}

	now := time.Now().UTC()

	return &Student{
		ID:                params.ID,
		StudentNumber:     params.StudentNumber,
		GradePointStateID: params.GradePointStateID,
		ProgramID:         params.ProgramID,
		FirstName:         firstName,
		LastName:          lastName,
		Address:           strings.TrimSpace(params.Address),
		City:              strings.TrimSpace(params.City),
		Province:          params.Province,
		GradePointAverage: nil,
		OutstandingFees:   0,
		Notes:             params.Notes,
		Archived:          false,
		DateCreated:       now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// FullName возвращает полное имя студента.
func (s *Student) FullName() string {
	return fmt.Sprintf("%s %s", s.FirstName, s.LastName)
}

// FullAddress возвращает полный адрес студента.
func (s *Student) FullAddress() string {
	return fmt.Sprintf("%s %s, %s", s.Address, s.City, s.Province)
}

// IsGraded возвращает true, если у студента есть вычисленный GPA.
func (s *Student) IsGraded() bool {
	return s.GradePointAverage != nil
}

// SetGradePointAverage обновляет GPA студента.
func (s *Student) SetGradePointAverage(gpa shared.GPA) error {
	if !gpa.IsValid() {
		return shared.ErrInvalidGPA
	}

	s.GradePointAverage = &gpa
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// ClearGradePointAverage сбрасывает GPA (например, после отмены всех оценок).
func (s *Student) ClearGradePointAverage() {
	s.GradePointAverage = nil
	s.UpdatedAt = time.Now().UTC()
}

// AddFees добавляет сумму к невыплаченным сборам.
func (s *Student) AddFees(amount shared.Money) error {
	if !amount.IsValid() {
		return shared.NewDomainError("student", "AddFees", shared.ErrNegativeValue, "fee amount cannot be negative")
	}

	s.OutstandingFees += amount
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Archive архивирует запись студента (soft delete).
func (s *Student) Archive() error {
	if s.Archived {
		return shared.ErrStudentArchived
	}

	s.Archived = true
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// String возвращает строковое представление студента для логирования.
func (s *Student) String() string {
	gpa := "ungraded"
	if s.GradePointAverage != nil {
		gpa = s.GradePointAverage.String()
	}
	return fmt.Sprintf(
		"Student{ID: %s, Number: %d, Name: %s, GPA: %s}",
		s.ID, s.StudentNumber, s.FullName(), gpa,
	)
}

// Clone создаёт глубокую копию студента.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}

	clone := *s
	if s.GradePointAverage != nil {
		gpa := *s.GradePointAverage
		clone.GradePointAverage = &gpa
	}
	if s.ProgramID != nil {
		pid := *s.ProgramID
		clone.ProgramID = &pid
	}
	return &clone
}
