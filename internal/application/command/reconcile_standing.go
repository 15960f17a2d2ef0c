// Package command contains write operations (CQRS - Commands).
// Commands are responsible for changing the state of the system.
package command

import (
	"context"
	"errors"

	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/standing"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECONCILE STANDING COMMAND
// Движок академического статуса: применяет функцию перехода к свежему
// чтению GPA, пока вычисленный статус не совпадёт с текущим. Каждый
// промежуточный переход персистится немедленно, поэтому падение посреди
// цикла оставляет студента в корректном промежуточном статусе.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultConflictRestarts ограничивает число полных перезапусков цикла
// после проигранных условных обновлений.
const DefaultConflictRestarts = 5

// ReconcileStandingCommand содержит данные для выверки статуса студента.
type ReconcileStandingCommand struct {
	// StudentID - внутренний ID студента.
	StudentID shared.RecordID

	// CorrelationID для трассировки между сервисами.
	CorrelationID string
}

// Validate проверяет команду.
func (c ReconcileStandingCommand) Validate() error {
	if c.StudentID.IsEmpty() {
		return errors.New("reconcile_standing: student_id must be provided")
	}
	return nil
}

// ReconcileStandingResult содержит результат выверки.
type ReconcileStandingResult struct {
	// StudentID - внутренний ID студента.
	StudentID shared.RecordID

	// FinalState - статус после сходимости.
	FinalState *standing.State

	// Path - последовательность вариантов от исходного к конечному
	// (включая исходный). Длина 1 означает отсутствие переходов.
	Path []standing.Variant

	// StepsPersisted - число персистированных переходов.
	StepsPersisted int

	// Restarts - число перезапусков цикла из-за конкурентных писателей.
	Restarts int

	// Skipped - true, если у студента нет GPA и выверка была no-op.
	Skipped bool
}

// ReconcileStandingHandler обрабатывает ReconcileStandingCommand.
type ReconcileStandingHandler struct {
	studentRepo    student.Repository
	catalog        *standing.Catalog
	eventPublisher shared.EventPublisher

	conflictRestarts int
}

// ReconcileStandingHandlerConfig содержит конфигурацию обработчика.
type ReconcileStandingHandlerConfig struct {
	// ConflictRestarts - бюджет полных перезапусков цикла.
	ConflictRestarts int
}

// NewReconcileStandingHandler создаёт новый обработчик.
// eventPublisher может быть nil - тогда события не публикуются.
func NewReconcileStandingHandler(
	studentRepo student.Repository,
	catalog *standing.Catalog,
	eventPublisher shared.EventPublisher,
	config ReconcileStandingHandlerConfig,
) *ReconcileStandingHandler {
	restarts := config.ConflictRestarts
	if restarts <= 0 {
		restarts = DefaultConflictRestarts
	}

	return &ReconcileStandingHandler{
		studentRepo:      studentRepo,
		catalog:          catalog,
		eventPublisher:   eventPublisher,
		conflictRestarts: restarts,
	}
}

// Handle выполняет выверку статуса студента.
//
// Семантика отказов:
//   - GPA отсутствует: no-op, возвращается неизменённый текущий статус;
//   - ссылка на статус не разрешается в известный вариант: операция
//     завершается shared.ErrStateResolution без каких-либо мутаций;
//   - проигранное условное обновление: цикл перечитывает свежее
//     состояние и перезапускается целиком, вместо слепого повтора
//     устаревшей записи.
//
// Повторный вызов с тем же GPA идемпотентен и не делает новых записей.
func (h *ReconcileStandingHandler) Handle(ctx context.Context, cmd ReconcileStandingCommand) (*ReconcileStandingResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &ReconcileStandingResult{StudentID: cmd.StudentID}

	for restart := 0; restart <= h.conflictRestarts; restart++ {
		result.Restarts = restart

		record, err := h.studentRepo.GetAcademicRecord(ctx, cmd.StudentID)
		if err != nil {
			return nil, err
		}

		if record.GradePointStateID.IsEmpty() {
			return nil, shared.ErrStandingUnassigned
		}

		current, err := h.catalog.Resolve(ctx, record.GradePointStateID)
		if err != nil {
			return nil, err
		}

		if record.GradePointAverage == nil {
			// Студент без оценок: статус не трогаем.
			result.FinalState = current
			result.Path = []standing.Variant{current.Variant}
			result.Skipped = true
			return result, nil
		}

		gpa := record.GradePointAverage.Float64()

		converged, err := h.converge(ctx, cmd, current, gpa, result)
		if err != nil {
			return nil, err
		}
		if converged {
			return result, nil
		}
		// Конкурентный писатель: перечитываем и перезапускаем цикл.
	}

	return nil, shared.ErrStandingConflict
}

// converge гоняет цикл сходимости от текущего статуса.
// Возвращает false без ошибки, если условное обновление проиграло гонку
// и требуется полный перезапуск со свежим чтением.
func (h *ReconcileStandingHandler) converge(
	ctx context.Context,
	cmd ReconcileStandingCommand,
	current *standing.State,
	gpa float64,
	result *ReconcileStandingResult,
) (bool, error) {
	path := []standing.Variant{current.Variant}

	// Полос четыре, значит сходимость достигается не более чем за
	// MaxTransitionSteps шагов; жёсткая граница защищает от незамеченного
	// расширения множества полос.
	for step := 0; step < standing.MaxTransitionSteps; step++ {
		nextVariant, err := standing.NextVariant(current.Variant, gpa)
		if err != nil {
			return false, err
		}

		if nextVariant == current.Variant {
			result.FinalState = current
			result.Path = path
			return true, nil
		}

		nextState, err := h.catalog.GetOrCreate(ctx, nextVariant)
		if err != nil {
			return false, err
		}

		ok, err := h.studentRepo.CompareAndSetStanding(ctx, cmd.StudentID, nextState.ID, current.ID)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}

		h.publishStandingChanged(cmd, current.Variant, nextState.Variant, gpa)

		result.StepsPersisted++
		current = nextState
		path = append(path, current.Variant)
	}

	// После MaxTransitionSteps шагов статус обязан быть стабильным.
	nextVariant, err := standing.NextVariant(current.Variant, gpa)
	if err != nil {
		return false, err
	}
	if nextVariant != current.Variant {
		return false, shared.NewDomainError("standing", "Reconcile", shared.ErrStateTransition,
			"convergence loop exceeded the maximum number of transitions")
	}

	result.FinalState = current
	result.Path = path
	return true, nil
}

func (h *ReconcileStandingHandler) publishStandingChanged(cmd ReconcileStandingCommand, from, to standing.Variant, gpa float64) {
	if h.eventPublisher == nil {
		return
	}

	event := shared.NewStandingChangedEvent(cmd.StudentID.String(), from.String(), to.String(), gpa)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}

	// Публикация событий не участвует в транзакции выверки.
	_ = h.eventPublisher.Publish(event)
}

// TuitionRate возвращает тарифный коэффициент текущего статуса студента.
// Чистое чтение, без мутаций; вызывается независимо от Handle.
func (h *ReconcileStandingHandler) TuitionRate(ctx context.Context, studentID shared.RecordID) (float64, error) {
	record, err := h.studentRepo.GetAcademicRecord(ctx, studentID)
	if err != nil {
		return 0, err
	}

	if record.GradePointStateID.IsEmpty() {
		return 0, shared.ErrStandingUnassigned
	}

	state, err := h.catalog.Resolve(ctx, record.GradePointStateID)
	if err != nil {
		return 0, err
	}

	return state.TuitionFactor, nil
}
