// issues.go — обработчики /api/v1/issues endpoints.
// Выдачи файлов: открытые выдачи, открытие, закрытие.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/filetrack/registry-module/internal/api/errors"
	"github.com/bigkaa/filetrack/registry-module/internal/api/middleware"
	"github.com/bigkaa/filetrack/registry-module/internal/service"
)

// ListIssues — GET /api/v1/issues.
// Возвращает открытые выдачи (issued и overdue) по возрастанию даты выдачи.
// Доступ: любой аутентифицированный пользователь.
func (h *APIHandler) ListIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := h.issues.ListOpen(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения открытых выдач", "error", err)
		apierrors.InternalError(w, "Ошибка получения открытых выдач")
		return
	}

	writeJSON(w, http.StatusOK, issues)
}

// openIssueRequest — тело запроса открытия выдачи.
type openIssueRequest struct {
	FileID             string    `json:"fileId"`
	IssuedTo           string    `json:"issuedTo"`
	ExpectedReturnDate time.Time `json:"expectedReturnDate"`
	IssueLocationID    string    `json:"issueLocationId"`
	Notes              string    `json:"notes,omitempty"`
}

// OpenIssue — POST /api/v1/issues.
// Открывает выдачу файла: файл переходит в checked-out.
// Доступ: admin.
func (h *APIHandler) OpenIssue(w http.ResponseWriter, r *http.Request) {
	var req openIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}
	if req.FileID == "" {
		apierrors.ValidationError(w, "Файл (fileId) обязателен")
		return
	}
	if req.IssuedTo == "" {
		apierrors.ValidationError(w, "Получатель (issuedTo) обязателен")
		return
	}
	if req.ExpectedReturnDate.IsZero() {
		apierrors.ValidationError(w, "Ожидаемая дата возврата (expectedReturnDate) обязательна")
		return
	}
	if req.IssueLocationID == "" {
		apierrors.ValidationError(w, "Локация выдачи (issueLocationId) обязательна")
		return
	}

	loc, err := h.directory.Location(r.Context(), req.IssueLocationID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.ValidationError(w, "Неизвестная локация: "+req.IssueLocationID)
			return
		}
		h.logger.Error("Ошибка получения локации", "location_id", req.IssueLocationID, "error", err)
		apierrors.InternalError(w, "Ошибка получения локации")
		return
	}

	issue, err := h.issues.OpenIssue(r.Context(), service.OpenIssueParams{
		FileID:             req.FileID,
		IssuedTo:           req.IssuedTo,
		IssuedBy:           middleware.ActorFromContext(r.Context()),
		ExpectedReturnDate: req.ExpectedReturnDate,
		IssueLocation:      loc,
		Notes:              req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Файл не найден")
		case errors.Is(err, service.ErrAlreadyIssued):
			apierrors.AlreadyIssued(w, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			apierrors.InvalidTransition(w, err.Error())
		case errors.Is(err, service.ErrInvalidDateOrder):
			apierrors.InvalidDateOrder(w, err.Error())
		default:
			h.logger.Error("Ошибка открытия выдачи", "file_id", req.FileID, "error", err)
			apierrors.InternalError(w, "Ошибка открытия выдачи")
		}
		return
	}

	writeJSON(w, http.StatusCreated, issue)
}

// closeIssueRequest — тело запроса закрытия выдачи.
type closeIssueRequest struct {
	ActualReturnDate time.Time `json:"actualReturnDate"`
	ReturnLocationID string    `json:"returnLocationId"`
	Notes            string    `json:"notes,omitempty"`
}

// CloseIssue — POST /api/v1/issues/{id}/close.
// Закрывает выдачу: выдача переходит в returned, файл — в available.
// Доступ: admin.
func (h *APIHandler) CloseIssue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req closeIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}
	if req.ActualReturnDate.IsZero() {
		apierrors.ValidationError(w, "Фактическая дата возврата (actualReturnDate) обязательна")
		return
	}
	if req.ReturnLocationID == "" {
		apierrors.ValidationError(w, "Локация возврата (returnLocationId) обязательна")
		return
	}

	loc, err := h.directory.Location(r.Context(), req.ReturnLocationID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.ValidationError(w, "Неизвестная локация: "+req.ReturnLocationID)
			return
		}
		h.logger.Error("Ошибка получения локации", "location_id", req.ReturnLocationID, "error", err)
		apierrors.InternalError(w, "Ошибка получения локации")
		return
	}

	closedBy := middleware.ActorFromContext(r.Context())
	issue, err := h.issues.CloseIssue(r.Context(), id, req.ActualReturnDate, loc, closedBy, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Выдача не найдена")
		case errors.Is(err, service.ErrAlreadyClosed):
			apierrors.AlreadyClosed(w, err.Error())
		case errors.Is(err, service.ErrInvalidDateOrder):
			apierrors.InvalidDateOrder(w, err.Error())
		default:
			h.logger.Error("Ошибка закрытия выдачи", "issue_id", id, "error", err)
			apierrors.InternalError(w, "Ошибка закрытия выдачи")
		}
		return
	}

	writeJSON(w, http.StatusOK, issue)
}
