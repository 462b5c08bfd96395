// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrInvalidTransition — недопустимый переход статуса файла.
	ErrInvalidTransition = errors.New("недопустимый переход статуса")
	// ErrInvalidDateOrder — дата возврата раньше даты выдачи.
	ErrInvalidDateOrder = errors.New("дата возврата раньше даты выдачи")
	// ErrAlreadyIssued — у файла уже есть открытая выдача.
	ErrAlreadyIssued = errors.New("файл уже выдан — открытая выдача существует")
	// ErrAlreadyClosed — выдача уже закрыта.
	ErrAlreadyClosed = errors.New("выдача уже закрыта")
	// ErrAlreadyDecided — по заявке уже принято решение.
	ErrAlreadyDecided = errors.New("по заявке уже принято решение")
)
