// request_queue.go — in-memory хранилище пользовательских заявок.
package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
)

// RequestListFilters — фильтры списка заявок.
// Та же политика, что и у поиска файлов: ИЛИ внутри фильтра, И между фильтрами.
type RequestListFilters struct {
	// Status — точное совпадение статуса (пустой — все).
	Status model.RequestStatus
	// Type — точное совпадение типа (пустой — все).
	Type model.RequestType
	// TextQuery — подстрока (без учёта регистра) в fileName, requestedBy или rfidTag.
	TextQuery string
}

// RequestRepository — хранилище заявок FileRequest.
type RequestRepository interface {
	// Insert добавляет заявку. ErrConflict при дублировании id.
	Insert(ctx context.Context, req *model.FileRequest) error
	// GetByID возвращает заявку по id.
	GetByID(ctx context.Context, id string) (*model.FileRequest, error)
	// Update заменяет заявку целиком. ErrNotFound, если id отсутствует.
	Update(ctx context.Context, req *model.FileRequest) error
	// List возвращает заявки по фильтрам в порядке подачи.
	List(ctx context.Context, filters RequestListFilters) ([]*model.FileRequest, error)
}

// requestRepo — реализация RequestRepository.
type requestRepo struct {
	mu    sync.RWMutex
	byID  map[string]*model.FileRequest
	order []string
}

// NewRequestRepository создаёт пустое хранилище заявок.
func NewRequestRepository() RequestRepository {
	return &requestRepo{byID: make(map[string]*model.FileRequest)}
}

func (r *requestRepo) Insert(_ context.Context, req *model.FileRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[req.ID]; exists {
		return ErrConflict
	}
	r.byID[req.ID] = copyRequest(req)
	r.order = append(r.order, req.ID)
	return nil
}

func (r *requestRepo) GetByID(_ context.Context, id string) (*model.FileRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRequest(req), nil
}

func (r *requestRepo) Update(_ context.Context, req *model.FileRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[req.ID]; !ok {
		return ErrNotFound
	}
	r.byID[req.ID] = copyRequest(req)
	return nil
}

func (r *requestRepo) List(_ context.Context, filters RequestListFilters) ([]*model.FileRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.FileRequest
	for _, id := range r.order {
		req := r.byID[id]
		if matchesRequestFilters(req, filters) {
			result = append(result, copyRequest(req))
		}
	}
	return result, nil
}

// matchesRequestFilters проверяет заявку против фильтров.
func matchesRequestFilters(req *model.FileRequest, filters RequestListFilters) bool {
	if filters.Status != "" && req.Status != filters.Status {
		return false
	}
	if filters.Type != "" && req.Type != filters.Type {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(filters.TextQuery)); q != "" {
		match := strings.Contains(strings.ToLower(req.FileName), q) ||
			strings.Contains(strings.ToLower(req.RequestedBy), q) ||
			strings.Contains(strings.ToLower(req.RFIDTag), q)
		if !match {
			return false
		}
	}
	return true
}

// copyRequest возвращает глубокую копию заявки.
func copyRequest(req *model.FileRequest) *model.FileRequest {
	c := *req
	c.Tags = copyTags(req.Tags)
	return &c
}
