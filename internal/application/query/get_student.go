// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"time"

	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/standing"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT QUERY
// Получает карточку студента: личные данные, GPA, академический статус
// и действующий тарифный коэффициент.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentQuery содержит параметры запроса карточки студента.
type GetStudentQuery struct {
	// StudentID - внутренний ID студента.
	StudentID string

	// StudentNumber - альтернативный способ идентификации (опционально).
	StudentNumber int64
}

// Validate проверяет корректность параметров запроса.
func (q *GetStudentQuery) Validate() error {
	if q.StudentID == "" && q.StudentNumber == 0 {
		return errors.New("either student_id or student_number must be provided")
	}
	return nil
}

// StudentCardDTO - DTO с карточкой студента.
type StudentCardDTO struct {
	// ─────────────────────────────────────────────────────────────────────────
	// Идентификация
	// ─────────────────────────────────────────────────────────────────────────

	// StudentID - внутренний ID студента.
	StudentID string `json:"student_id"`

	// StudentNumber - публичный номер студента.
	StudentNumber int64 `json:"student_number"`

	// FullName - полное имя.
	FullName string `json:"full_name"`

	// FullAddress - полный адрес.
	FullAddress string `json:"full_address"`

	// ProgramID - академическая программа (если назначена).
	ProgramID string `json:"program_id,omitempty"`

	// ─────────────────────────────────────────────────────────────────────────
	// Академические данные
	// ─────────────────────────────────────────────────────────────────────────

	// GradePointAverage - средний балл. Nil у студента без оценённых курсов.
	GradePointAverage *float64 `json:"grade_point_average,omitempty"`

	// Standing - текущий академический статус.
	Standing string `json:"standing"`

	// StandingDescription - отображаемое название статуса.
	StandingDescription string `json:"standing_description"`

	// TuitionRateFactor - действующий тарифный коэффициент.
	TuitionRateFactor float64 `json:"tuition_rate_factor"`

	// ─────────────────────────────────────────────────────────────────────────
	// Финансы и служебные поля
	// ─────────────────────────────────────────────────────────────────────────

	// OutstandingFees - невыплаченная сумма.
	OutstandingFees float64 `json:"outstanding_fees"`

	// Archived - заархивирована ли запись.
	Archived bool `json:"archived"`

	// DateCreated - дата зачисления.
	DateCreated time.Time `json:"date_created"`
}

// GetStudentResult содержит результат запроса карточки.
type GetStudentResult struct {
	// Student - карточка студента.
	Student StudentCardDTO `json:"student"`

	// FromCache - была ли карточка собрана из кеша.
	FromCache bool `json:"-"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetStudentHandler обрабатывает запросы карточки студента.
type GetStudentHandler struct {
	studentRepo  student.Repository
	studentCache student.Cache
	catalog      *standing.Catalog
}

// NewGetStudentHandler создаёт новый обработчик.
func NewGetStudentHandler(
	studentRepo student.Repository,
	studentCache student.Cache,
	catalog *standing.Catalog,
) *GetStudentHandler {
	return &GetStudentHandler{
		studentRepo:  studentRepo,
		studentCache: studentCache,
		catalog:      catalog,
	}
}

// Handle выполняет запрос карточки студента.
// Кеш используется по схеме cache-aside: промах читает из БД и
// пополняет кеш, инвалидация происходит по событию смены статуса.
func (h *GetStudentHandler) Handle(ctx context.Context, query GetStudentQuery) (*GetStudentResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetStudent", shared.ErrValidation, err.Error(), err)
	}

	stud, fromCache, err := h.loadStudent(ctx, query)
	if err != nil {
		return nil, err
	}

	state, err := h.catalog.Resolve(ctx, stud.GradePointStateID)
	if err != nil {
		return nil, err
	}

	dto := StudentCardDTO{
		StudentID:           stud.ID.String(),
		StudentNumber:       stud.StudentNumber.Int64(),
		FullName:            stud.FullName(),
		FullAddress:         stud.FullAddress(),
		Standing:            state.Variant.String(),
		StandingDescription: state.Variant.Description(),
		TuitionRateFactor:   state.TuitionFactor,
		OutstandingFees:     stud.OutstandingFees.Float64(),
		Archived:            stud.Archived,
		DateCreated:         stud.DateCreated,
	}

	if stud.ProgramID != nil {
		dto.ProgramID = stud.ProgramID.String()
	}
	if stud.GradePointAverage != nil {
		gpa := stud.GradePointAverage.Float64()
		dto.GradePointAverage = &gpa
	}

	return &GetStudentResult{
		Student:     dto,
		FromCache:   fromCache,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// loadStudent загружает студента через кеш (если есть ID) или из БД.
func (h *GetStudentHandler) loadStudent(ctx context.Context, query GetStudentQuery) (*student.Student, bool, error) {
	if query.StudentID != "" {
		id := shared.RecordID(query.StudentID)

		if h.studentCache != nil {
			if cached, err := h.studentCache.Get(ctx, id); err == nil {
				return cached, true, nil
			}
		}

		stud, err := h.studentRepo.GetByID(ctx, id)
		if err != nil {
			return nil, false, err
		}

		if h.studentCache != nil {
			_ = h.studentCache.Set(ctx, stud)
		}
		return stud, false, nil
	}

	number, err := shared.NewStudentNumber(query.StudentNumber)
	if err != nil {
		return nil, false, err
	}

	stud, err := h.studentRepo.GetByStudentNumber(ctx, number)
	if err != nil {
		return nil, false, err
	}

	if h.studentCache != nil {
		_ = h.studentCache.Set(ctx, stud)
	}
	return stud, false, nil
}
