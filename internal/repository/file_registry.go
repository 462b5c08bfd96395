// file_registry.go — in-memory хранилище записей файлового реестра.
package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
)

// FileListFilters — фильтры поиска по реестру.
// Внутри одного фильтра совпадение по ИЛИ, между фильтрами — по И.
type FileListFilters struct {
	// TextQuery — подстрока (без учёта регистра) в fileName, тегах или accessedBy.
	TextQuery string
	// DepartmentID — точное совпадение id подразделения.
	DepartmentID string
	// Tags — файл подходит, если хотя бы один его тег содержит
	// хотя бы один из фильтруемых тегов (без учёта регистра).
	Tags []string
}

// FileRepository — хранилище записей FileRecord.
type FileRepository interface {
	// Insert добавляет новую запись. ErrConflict при дублировании id или RFID.
	Insert(ctx context.Context, f *model.FileRecord) error
	// GetByID возвращает запись по id.
	GetByID(ctx context.Context, id string) (*model.FileRecord, error)
	// GetByRFID возвращает запись по RFID-метке.
	GetByRFID(ctx context.Context, tag string) (*model.FileRecord, error)
	// List возвращает записи, удовлетворяющие фильтрам, в порядке seed/вставки.
	List(ctx context.Context, filters FileListFilters) ([]*model.FileRecord, error)
	// Update заменяет запись целиком. ErrNotFound, если id отсутствует.
	Update(ctx context.Context, f *model.FileRecord) error
}

// fileRepo — реализация FileRepository на map + порядок вставки.
type fileRepo struct {
	mu    sync.RWMutex
	byID  map[string]*model.FileRecord
	byTag map[string]string // rfidTag → id
	order []string
}

// NewFileRepository создаёт пустое хранилище файлов.
func NewFileRepository() FileRepository {
	return &fileRepo{
		byID:  make(map[string]*model.FileRecord),
		byTag: make(map[string]string),
	}
}

func (r *fileRepo) Insert(_ context.Context, f *model.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[f.ID]; exists {
		return ErrConflict
	}
	if _, exists := r.byTag[f.RFIDTag]; exists {
		return ErrConflict
	}

	stored := copyFile(f)
	r.byID[f.ID] = stored
	r.byTag[f.RFIDTag] = f.ID
	r.order = append(r.order, f.ID)
	return nil
}

func (r *fileRepo) GetByID(_ context.Context, id string) (*model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyFile(f), nil
}

func (r *fileRepo) GetByRFID(_ context.Context, tag string) (*model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byTag[tag]
	if !ok {
		return nil, ErrNotFound
	}
	return copyFile(r.byID[id]), nil
}

func (r *fileRepo) List(_ context.Context, filters FileListFilters) ([]*model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.FileRecord
	for _, id := range r.order {
		f := r.byID[id]
		if matchesFilters(f, filters) {
			result = append(result, copyFile(f))
		}
	}
	return result, nil
}

func (r *fileRepo) Update(_ context.Context, f *model.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[f.ID]
	if !ok {
		return ErrNotFound
	}

	// RFID-метка может смениться только на свободную
	if old.RFIDTag != f.RFIDTag {
		if _, taken := r.byTag[f.RFIDTag]; taken {
			return ErrConflict
		}
		delete(r.byTag, old.RFIDTag)
		r.byTag[f.RFIDTag] = f.ID
	}

	r.byID[f.ID] = copyFile(f)
	return nil
}

// matchesFilters проверяет запись против фильтров поиска.
// Пустой фильтр пропускает все записи.
func matchesFilters(f *model.FileRecord, filters FileListFilters) bool {
	if q := strings.ToLower(strings.TrimSpace(filters.TextQuery)); q != "" {
		match := strings.Contains(strings.ToLower(f.FileName), q) ||
			strings.Contains(strings.ToLower(f.AccessedBy), q)
		if !match {
			for _, tag := range f.Tags {
				if strings.Contains(strings.ToLower(tag), q) {
					match = true
					break
				}
			}
		}
		if !match {
			return false
		}
	}

	if filters.DepartmentID != "" && f.Department.ID != filters.DepartmentID {
		return false
	}

	if len(filters.Tags) > 0 {
		match := false
	outer:
		for _, want := range filters.Tags {
			w := strings.ToLower(want)
			for _, tag := range f.Tags {
				if strings.Contains(strings.ToLower(tag), w) {
					match = true
					break outer
				}
			}
		}
		if !match {
			return false
		}
	}

	return true
}

// copyFile возвращает глубокую копию записи файла.
func copyFile(f *model.FileRecord) *model.FileRecord {
	c := *f
	c.Tags = copyTags(f.Tags)
	if f.CurrentLocation != nil {
		loc := *f.CurrentLocation
		c.CurrentLocation = &loc
	}
	return &c
}
