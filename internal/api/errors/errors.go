// Пакет errors — конструкторы стандартных ошибок HTTP API.
// Единый формат: {"error": {"code": "...", "message": "..."}}.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors

import (
	"encoding/json"
	"net/http"
)

// Машиночитаемые коды ошибок API.
const (
	CodeValidationError   = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInvalidDateOrder  = "INVALID_DATE_ORDER"
	CodeAlreadyIssued     = "ALREADY_ISSUED"
	CodeAlreadyClosed     = "ALREADY_CLOSED"
	CodeAlreadyDecided    = "ALREADY_DECIDED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error errorDetail `json:"error"`
}

// errorDetail — детали ошибки.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError записывает ответ ошибки в стандартном формате.
// statusCode — HTTP статус-код, code — машиночитаемый код, message — описание.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// Unauthorized — 401 требуется аутентификация.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden — 403 недостаточно прав.
func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, CodeForbidden, message)
}

// InvalidTransition — 409 недопустимый переход статуса файла.
func InvalidTransition(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, CodeInvalidTransition, message)
}

// InvalidDateOrder — 409 нарушен порядок дат.
func InvalidDateOrder(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, CodeInvalidDateOrder, message)
}

// AlreadyIssued — 409 у файла уже есть открытая выдача.
func AlreadyIssued(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, CodeAlreadyIssued, message)
}

// AlreadyClosed — 409 выдача уже закрыта.
func AlreadyClosed(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, CodeAlreadyClosed, message)
}

// AlreadyDecided — 409 по заявке уже принято решение.
func AlreadyDecided(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, CodeAlreadyDecided, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}
