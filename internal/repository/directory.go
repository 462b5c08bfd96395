// directory.go — справочник подразделений и локаций.
// Данные фиксируются при создании и никогда не мутируются.
package repository

import (
	"context"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
)

// DirectoryRepository — read-only доступ к справочным данным.
type DirectoryRepository interface {
	// ListDepartments возвращает все подразделения в порядке seed.
	ListDepartments(ctx context.Context) ([]model.Department, error)
	// ListLocations возвращает все локации в порядке seed.
	ListLocations(ctx context.Context) ([]model.Location, error)
	// GetDepartment возвращает подразделение по id.
	GetDepartment(ctx context.Context, id string) (model.Department, error)
	// GetLocation возвращает локацию по id.
	GetLocation(ctx context.Context, id string) (model.Location, error)
}

// directoryRepo — реализация DirectoryRepository поверх seed-срезов.
// Мьютекс не нужен: данные неизменяемы после создания.
type directoryRepo struct {
	departments []model.Department
	locations   []model.Location
	depByID     map[string]model.Department
	locByID     map[string]model.Location
}

// NewDirectoryRepository создаёт справочник из seed-данных.
func NewDirectoryRepository(departments []model.Department, locations []model.Location) DirectoryRepository {
	r := &directoryRepo{
		departments: departments,
		locations:   locations,
		depByID:     make(map[string]model.Department, len(departments)),
		locByID:     make(map[string]model.Location, len(locations)),
	}
	for _, d := range departments {
		r.depByID[d.ID] = d
	}
	for _, l := range locations {
		r.locByID[l.ID] = l
	}
	return r
}

func (r *directoryRepo) ListDepartments(_ context.Context) ([]model.Department, error) {
	out := make([]model.Department, len(r.departments))
	copy(out, r.departments)
	return out, nil
}

func (r *directoryRepo) ListLocations(_ context.Context) ([]model.Location, error) {
	out := make([]model.Location, len(r.locations))
	copy(out, r.locations)
	return out, nil
}

func (r *directoryRepo) GetDepartment(_ context.Context, id string) (model.Department, error) {
	d, ok := r.depByID[id]
	if !ok {
		return model.Department{}, ErrNotFound
	}
	return d, nil
}

func (r *directoryRepo) GetLocation(_ context.Context, id string) (model.Location, error) {
	l, ok := r.locByID[id]
	if !ok {
		return model.Location{}, ErrNotFound
	}
	return l, nil
}
