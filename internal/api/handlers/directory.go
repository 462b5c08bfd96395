// directory.go — обработчики справочников /api/v1/departments и /api/v1/locations.
package handlers

import (
	"net/http"

	apierrors "github.com/bigkaa/filetrack/registry-module/internal/api/errors"
)

// ListDepartments — GET /api/v1/departments.
// Возвращает все отделы справочника.
// Доступ: любой аутентифицированный пользователь.
func (h *APIHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.directory.Departments(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения списка отделов", "error", err)
		apierrors.InternalError(w, "Ошибка получения списка отделов")
		return
	}

	writeJSON(w, http.StatusOK, deps)
}

// ListLocations — GET /api/v1/locations.
// Возвращает все локации справочника.
// Доступ: любой аутентифицированный пользователь.
func (h *APIHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.directory.Locations(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения списка локаций", "error", err)
		apierrors.InternalError(w, "Ошибка получения списка локаций")
		return
	}

	writeJSON(w, http.StatusOK, locs)
}
