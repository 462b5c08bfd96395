// Пакет lifecycle — конечный автомат статусов файла в реестре.
//
// Жизненный цикл записи файла:
//   - available → checked-out — открытие выдачи
//   - checked-out → available — возврат файла
//   - available → archived — архивация
//   - archived → available — восстановление из архива
//
// Прямой переход archived → checked-out запрещён: архивный файл
// сначала восстанавливается в available. Все изменения статуса
// проходят через Validate, самовольных переходов в реестре нет.
package lifecycle

import (
	"fmt"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
)

// validTransitions — матрица допустимых переходов статусов файла.
// Ключ — текущий статус, значение — набор допустимых целевых статусов.
var validTransitions = map[model.FileStatus]map[model.FileStatus]bool{
	model.StatusAvailable:  {model.StatusCheckedOut: true, model.StatusArchived: true},
	model.StatusCheckedOut: {model.StatusAvailable: true},
	model.StatusArchived:   {model.StatusAvailable: true},
}

// CanTransition проверяет, допустим ли переход from → to.
// Переход в текущий статус (from == to) недопустим.
func CanTransition(from, to model.FileStatus) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// Validate проверяет переход from → to и возвращает *TransitionError,
// если переход недопустим или целевой статус не существует.
func Validate(from, to model.FileStatus) error {
	if !model.IsValidFileStatus(to) {
		return &TransitionError{
			From:    from,
			To:      to,
			Message: fmt.Sprintf("неизвестный статус: %q", to),
		}
	}
	if !CanTransition(from, to) {
		return &TransitionError{
			From:    from,
			To:      to,
			Message: fmt.Sprintf("переход %s → %s недопустим", from, to),
		}
	}
	return nil
}

// TransitionError — ошибка недопустимого перехода статуса файла.
type TransitionError struct {
	From    model.FileStatus
	To      model.FileStatus
	Message string
}

func (e *TransitionError) Error() string {
	return e.Message
}
