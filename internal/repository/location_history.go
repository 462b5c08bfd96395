// location_history.go — append-only журнал перемещений файлов.
// Записи никогда не изменяются и не удаляются.
package repository

import (
	"context"
	"sync"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
)

// LocationHistoryRepository — хранилище журнала перемещений.
type LocationHistoryRepository interface {
	// Append добавляет запись в конец журнала файла.
	Append(ctx context.Context, entry *model.LocationHistory) error
	// ListByFile возвращает журнал файла от старых записей к новым.
	ListByFile(ctx context.Context, fileID string) ([]*model.LocationHistory, error)
	// LatestByFile возвращает последнюю запись журнала файла.
	// ErrNotFound, если журнал файла пуст.
	LatestByFile(ctx context.Context, fileID string) (*model.LocationHistory, error)
}

// historyRepo — реализация LocationHistoryRepository.
// Журнал каждого файла хранится в порядке добавления; порядок
// добавления совпадает с порядком movedDate, т.к. записи создаются
// только через LocationTracker с отметкой текущего времени.
type historyRepo struct {
	mu     sync.RWMutex
	byFile map[string][]*model.LocationHistory
}

// NewLocationHistoryRepository создаёт пустой журнал перемещений.
func NewLocationHistoryRepository() LocationHistoryRepository {
	return &historyRepo{byFile: make(map[string][]*model.LocationHistory)}
}

func (r *historyRepo) Append(_ context.Context, entry *model.LocationHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byFile[entry.FileID] = append(r.byFile[entry.FileID], copyHistory(entry))
	return nil
}

func (r *historyRepo) ListByFile(_ context.Context, fileID string) ([]*model.LocationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byFile[fileID]
	result := make([]*model.LocationHistory, 0, len(entries))
	for _, e := range entries {
		result = append(result, copyHistory(e))
	}
	return result, nil
}

func (r *historyRepo) LatestByFile(_ context.Context, fileID string) (*model.LocationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byFile[fileID]
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return copyHistory(entries[len(entries)-1]), nil
}

// copyHistory возвращает глубокую копию записи журнала.
func copyHistory(entry *model.LocationHistory) *model.LocationHistory {
	c := *entry
	if entry.PreviousLocation != nil {
		loc := *entry.PreviousLocation
		c.PreviousLocation = &loc
	}
	return &c
}
