// directory.go — сервис справочников отделов и локаций.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
	"github.com/bigkaa/filetrack/registry-module/internal/repository"
)

// DirectoryService — сервис справочников отделов и локаций.
// Справочники неизменяемы после старта, сервис предоставляет только чтение.
type DirectoryService struct {
	directory repository.DirectoryRepository
	logger    *slog.Logger
}

// NewDirectoryService создаёт сервис справочников.
func NewDirectoryService(directory repository.DirectoryRepository, logger *slog.Logger) *DirectoryService {
	return &DirectoryService{
		directory: directory,
		logger:    logger.With(slog.String("component", "directory_service")),
	}
}

// Departments возвращает все отделы.
func (s *DirectoryService) Departments(ctx context.Context) ([]model.Department, error) {
	deps, err := s.directory.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("список отделов: %w", err)
	}
	return deps, nil
}

// Locations возвращает все локации.
func (s *DirectoryService) Locations(ctx context.Context) ([]model.Location, error) {
	locs, err := s.directory.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("список локаций: %w", err)
	}
	return locs, nil
}

// Location возвращает локацию по ID.
func (s *DirectoryService) Location(ctx context.Context, id string) (model.Location, error) {
	loc, err := s.directory.GetLocation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Location{}, fmt.Errorf("%w: локация '%s'", ErrNotFound, id)
		}
		return model.Location{}, fmt.Errorf("получение локации: %w", err)
	}
	return loc, nil
}

// Department возвращает отдел по ID.
func (s *DirectoryService) Department(ctx context.Context, id string) (model.Department, error) {
	dep, err := s.directory.GetDepartment(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Department{}, fmt.Errorf("%w: отдел '%s'", ErrNotFound, id)
		}
		return model.Department{}, fmt.Errorf("получение отдела: %w", err)
	}
	return dep, nil
}
