// requests.go — обработчики /api/v1/requests endpoints.
// Очередь заявок: подача, список, счётчики, решение.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/filetrack/registry-module/internal/api/errors"
	"github.com/bigkaa/filetrack/registry-module/internal/api/middleware"
	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
	"github.com/bigkaa/filetrack/registry-module/internal/repository"
	"github.com/bigkaa/filetrack/registry-module/internal/service"
)

// submitRequest — тело запроса подачи заявки.
type submitRequest struct {
	Type        string   `json:"type"`
	RFIDTag     string   `json:"rfidTag"`
	FileName    string   `json:"fileName"`
	RequestedBy string   `json:"requestedBy"`
	Department  string   `json:"department,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	FileSize    string   `json:"fileSize,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	// Content — содержимое файла в base64 (только для upload-заявок).
	Content string `json:"content,omitempty"`
}

// SubmitRequest — POST /api/v1/requests.
// Подаёт новую заявку (issue или upload) в статусе pending.
// Доступ: любой аутентифицированный пользователь.
func (h *APIHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	var content []byte
	if req.Content != "" {
		var err error
		content, err = base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			apierrors.ValidationError(w, "Некорректный base64 в content: "+err.Error())
			return
		}
	}

	var dep model.Department
	if req.Department != "" {
		var err error
		dep, err = h.directory.Department(r.Context(), req.Department)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				apierrors.ValidationError(w, "Неизвестное подразделение: "+req.Department)
				return
			}
			h.logger.Error("Ошибка получения подразделения", "department_id", req.Department, "error", err)
			apierrors.InternalError(w, "Ошибка подачи заявки")
			return
		}
	}

	created, err := h.requests.Submit(r.Context(), service.SubmitParams{
		Type:        model.RequestType(req.Type),
		RFIDTag:     req.RFIDTag,
		FileName:    req.FileName,
		RequestedBy: req.RequestedBy,
		Department:  dep,
		Duration:    req.Duration,
		CreatedBy:   middleware.ActorFromContext(r.Context()),
		Tags:        req.Tags,
		FileSize:    req.FileSize,
		Notes:       req.Notes,
		Content:     content,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка подачи заявки", "error", err)
		apierrors.InternalError(w, "Ошибка подачи заявки")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListRequests — GET /api/v1/requests.
// Список заявок с фильтрами: ?status=, ?type=, ?q=.
// Доступ: любой аутентифицированный пользователь.
func (h *APIHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	reqs, err := h.requests.List(r.Context(), repository.RequestListFilters{
		Status:    model.RequestStatus(q.Get("status")),
		Type:      model.RequestType(q.Get("type")),
		TextQuery: q.Get("q"),
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка получения списка заявок", "error", err)
		apierrors.InternalError(w, "Ошибка получения списка заявок")
		return
	}

	writeJSON(w, http.StatusOK, reqs)
}

// GetRequestCounts — GET /api/v1/requests/counts.
// Счётчики заявок по статусам.
// Доступ: любой аутентифицированный пользователь.
func (h *APIHandler) GetRequestCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.requests.Counts(r.Context())
	if err != nil {
		h.logger.Error("Ошибка подсчёта заявок", "error", err)
		apierrors.InternalError(w, "Ошибка подсчёта заявок")
		return
	}

	writeJSON(w, http.StatusOK, counts)
}

// GetRequest — GET /api/v1/requests/{id}.
// Возвращает заявку по ID.
// Доступ: любой аутентифицированный пользователь.
func (h *APIHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := h.requests.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Заявка не найдена")
			return
		}
		h.logger.Error("Ошибка получения заявки", "request_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка получения заявки")
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// decideRequest — тело запроса решения по заявке.
type decideRequest struct {
	Approve bool `json:"approve"`
}

// DecideRequest — POST /api/v1/requests/{id}/decision.
// Принимает решение по pending-заявке. Решение необратимо.
// Доступ: admin.
func (h *APIHandler) DecideRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	decidedBy := middleware.ActorFromContext(r.Context())
	decided, err := h.requests.Decide(r.Context(), id, req.Approve, decidedBy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Заявка не найдена")
		case errors.Is(err, service.ErrAlreadyDecided):
			apierrors.AlreadyDecided(w, err.Error())
		case errors.Is(err, service.ErrAlreadyIssued):
			apierrors.AlreadyIssued(w, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			apierrors.InvalidTransition(w, err.Error())
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, err.Error())
		default:
			h.logger.Error("Ошибка решения по заявке", "request_id", id, "error", err)
			apierrors.InternalError(w, "Ошибка решения по заявке")
		}
		return
	}

	writeJSON(w, http.StatusOK, decided)
}
