package student

import (
	"context"

	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// AcademicRecord - свежее чтение академических полей студента:
// идентичность текущего статуса и GPA. Движок статусов никогда не
// принимает решения по закешированной копии между вызовами.
type AcademicRecord struct {
	StudentID         shared.RecordID
	GradePointStateID shared.RecordID
	GradePointAverage *shared.GPA
}

// Repository определяет основные операции над записями студентов.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// CRUD Operations
	// ─────────────────────────────────────────────────────────────────────────

	// Create создаёт нового студента.
	// Возвращает shared.ErrStudentAlreadyExists при конфликте номера.
	Create(ctx context.Context, student *Student) error

	// GetByID возвращает студента по внутреннему ID.
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	GetByID(ctx context.Context, id shared.RecordID) (*Student, error)

	// GetByStudentNumber возвращает студента по публичному номеру.
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	GetByStudentNumber(ctx context.Context, number shared.StudentNumber) (*Student, error)

	// Update обновляет данные студента.
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	Update(ctx context.Context, student *Student) error

	// Archive архивирует студента (soft delete).
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	Archive(ctx context.Context, id shared.RecordID) error

	// ─────────────────────────────────────────────────────────────────────────
	// Bulk Operations
	// ─────────────────────────────────────────────────────────────────────────

	// GetAll возвращает всех студентов с пагинацией.
	GetAll(ctx context.Context, opts ListOptions) ([]*Student, error)

	// Count возвращает общее количество незаархивированных студентов.
	Count(ctx context.Context) (int, error)

	// ListGradedIDs возвращает ID всех студентов с вычисленным GPA.
	// Используется периодической выверкой статусов.
	ListGradedIDs(ctx context.Context) ([]shared.RecordID, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Academic Standing
	// ─────────────────────────────────────────────────────────────────────────

	// GetAcademicRecord возвращает свежее чтение статуса и GPA студента.
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	GetAcademicRecord(ctx context.Context, id shared.RecordID) (*AcademicRecord, error)

	// CompareAndSetStanding условно обновляет ссылку на статус:
	// запись меняется только если текущая ссылка равна expected.
	// Возвращает false (без ошибки), если условие не выполнено -
	// это сигнал о конкурентном писателе.
	CompareAndSetStanding(ctx context.Context, id, next, expected shared.RecordID) (bool, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Existence Checks
	// ─────────────────────────────────────────────────────────────────────────

	// Exists проверяет существование студента по ID.
	Exists(ctx context.Context, id shared.RecordID) (bool, error)
}

// ListOptions содержит параметры для пагинации и сортировки.
type ListOptions struct {
	// Offset - смещение (для пагинации).
	Offset int

	// Limit - максимальное число записей (0 = без ограничения).
	Limit int

	// IncludeArchived - включать ли заархивированные записи.
	IncludeArchived bool
}

// Cache определяет кеш карточек студентов (реализация - Redis).
type Cache interface {
	// Get возвращает студента из кеша или shared.ErrNotFound при промахе.
	Get(ctx context.Context, id shared.RecordID) (*Student, error)

	// Set кладёт студента в кеш.
	Set(ctx context.Context, student *Student) error

	// Invalidate удаляет студента из кеша.
	Invalidate(ctx context.Context, id shared.RecordID) error
}
