// files.go — обработчики /api/v1/files endpoints.
// Реестр файлов: поиск, карточка, смена статуса, смена локации,
// журнал перемещений, выдачи файла.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/filetrack/registry-module/internal/api/errors"
	"github.com/bigkaa/filetrack/registry-module/internal/api/middleware"
	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
	"github.com/bigkaa/filetrack/registry-module/internal/repository"
	"github.com/bigkaa/filetrack/registry-module/internal/service"
)

// ListFiles — GET /api/v1/files.
// Поиск по реестру: ?q= (подстрока в имени файла, метке или accessedBy),
// ?department= (ID отдела), ?tags= (через запятую, совпадение любого тега).
// Доступ: любой аутентифицированный пользователь.
func (h *APIHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := repository.FileListFilters{
		TextQuery:    q.Get("q"),
		DepartmentID: q.Get("department"),
	}
	if raw := q.Get("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filters.Tags = append(filters.Tags, t)
			}
		}
	}

	files, err := h.files.Search(r.Context(), filters)
	if err != nil {
		h.logger.Error("Ошибка поиска по реестру", "error", err)
		apierrors.InternalError(w, "Ошибка поиска по реестру")
		return
	}

	writeJSON(w, http.StatusOK, files)
}

// GetFile — GET /api/v1/files/{id}.
// Возвращает карточку файла. Поиск по RFID-метке: ?by=rfid.
// Доступ: любой аутентифицированный пользователь.
func (h *APIHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var (
		f   *model.FileRecord
		err error
	)
	if r.URL.Query().Get("by") == "rfid" {
		f, err = h.files.GetByRFID(r.Context(), id)
	} else {
		f, err = h.files.Get(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Файл не найден")
			return
		}
		h.logger.Error("Ошибка получения файла", "file_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка получения файла")
		return
	}

	writeJSON(w, http.StatusOK, f)
}

// fileStatusRequest — тело запроса смены статуса файла.
type fileStatusRequest struct {
	Status string `json:"status"`
}

// SetFileStatus — PUT /api/v1/files/{id}/status.
// Переводит файл в новый статус с проверкой допустимости перехода.
// Доступ: admin.
func (h *APIHandler) SetFileStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req fileStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}
	if !model.IsValidFileStatus(model.FileStatus(req.Status)) {
		apierrors.ValidationError(w, "Неизвестный статус файла: "+req.Status)
		return
	}

	f, err := h.files.SetStatus(r.Context(), id, model.FileStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Файл не найден")
		case errors.Is(err, service.ErrInvalidTransition):
			apierrors.InvalidTransition(w, err.Error())
		default:
			h.logger.Error("Ошибка смены статуса файла", "file_id", id, "error", err)
			apierrors.InternalError(w, "Ошибка смены статуса файла")
		}
		return
	}

	writeJSON(w, http.StatusOK, f)
}

// fileLocationRequest — тело запроса перемещения файла.
type fileLocationRequest struct {
	LocationID string `json:"locationId"`
	Notes      string `json:"notes,omitempty"`
}

// SetFileLocation — PUT /api/v1/files/{id}/location.
// Перемещает файл в новую локацию с записью в журнал перемещений.
// Доступ: admin.
func (h *APIHandler) SetFileLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req fileLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}
	if req.LocationID == "" {
		apierrors.ValidationError(w, "Локация (locationId) обязательна")
		return
	}

	loc, err := h.directory.Location(r.Context(), req.LocationID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.ValidationError(w, "Неизвестная локация: "+req.LocationID)
			return
		}
		h.logger.Error("Ошибка получения локации", "location_id", req.LocationID, "error", err)
		apierrors.InternalError(w, "Ошибка получения локации")
		return
	}

	movedBy := middleware.ActorFromContext(r.Context())
	entry, err := h.tracker.RecordMove(r.Context(), id, loc, movedBy, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Файл не найден")
			return
		}
		h.logger.Error("Ошибка перемещения файла", "file_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка перемещения файла")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// GetFileHistory — GET /api/v1/files/{id}/history.
// Возвращает журнал перемещений файла от старых к новым.
// Доступ: любой аутентифицированный пользователь.
func (h *APIHandler) GetFileHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entries, err := h.tracker.HistoryFor(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Файл не найден")
			return
		}
		h.logger.Error("Ошибка получения журнала перемещений", "file_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка получения журнала перемещений")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// GetFileIssues — GET /api/v1/files/{id}/issues.
// Возвращает все выдачи файла по убыванию даты выдачи.
// Доступ: любой аутентифицированный пользователь.
func (h *APIHandler) GetFileIssues(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	issues, err := h.issues.ListForFile(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Файл не найден")
			return
		}
		h.logger.Error("Ошибка получения выдач файла", "file_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка получения выдач файла")
		return
	}

	writeJSON(w, http.StatusOK, issues)
}
