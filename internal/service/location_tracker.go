// location_tracker.go — сервис журнала перемещений файлов.
// Каждое перемещение добавляет ровно одну запись в append-only журнал
// и синхронно обновляет currentLocation в реестре.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
	"github.com/bigkaa/filetrack/registry-module/internal/repository"
)

// LocationTrackerService — сервис отслеживания локаций файлов.
type LocationTrackerService struct {
	history  repository.LocationHistoryRepository
	registry *FileRegistryService
	clock    func() time.Time
	logger   *slog.Logger
}

// NewLocationTrackerService создаёт сервис отслеживания локаций.
func NewLocationTrackerService(
	history repository.LocationHistoryRepository,
	registry *FileRegistryService,
	logger *slog.Logger,
) *LocationTrackerService {
	return &LocationTrackerService{
		history:  history,
		registry: registry,
		clock:    func() time.Time { return time.Now().UTC() },
		logger:   logger.With(slog.String("component", "location_tracker_service")),
	}
}

// SetClock подменяет источник времени (для тестов).
func (s *LocationTrackerService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// RecordMove фиксирует перемещение файла: добавляет запись журнала
// с предыдущей локацией и обновляет currentLocation в реестре.
// Валидация выполняется до любых изменений: при неизвестном fileId
// ни журнал, ни реестр не меняются.
func (s *LocationTrackerService) RecordMove(ctx context.Context, fileID string, newLocation model.Location, movedBy, notes string) (*model.LocationHistory, error) {
	if _, err := s.registry.Get(ctx, fileID); err != nil {
		return nil, err
	}

	previous, err := s.CurrentLocationOf(ctx, fileID)
	if err != nil {
		return nil, err
	}

	entry := &model.LocationHistory{
		ID:               uuid.NewString(),
		FileID:           fileID,
		Location:         newLocation,
		MovedBy:          movedBy,
		MovedDate:        s.clock(),
		PreviousLocation: previous,
		Notes:            notes,
	}

	if err := s.history.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("запись в журнал перемещений: %w", err)
	}

	if _, err := s.registry.SetCurrentLocation(ctx, fileID, newLocation, movedBy); err != nil {
		return nil, fmt.Errorf("обновление текущей локации: %w", err)
	}

	s.logger.Info("Перемещение файла зафиксировано",
		slog.String("file_id", fileID),
		slog.String("location", newLocation.Name),
		slog.String("moved_by", movedBy),
	)
	return entry, nil
}

// HistoryFor возвращает журнал перемещений файла от старых записей к новым.
func (s *LocationTrackerService) HistoryFor(ctx context.Context, fileID string) ([]*model.LocationHistory, error) {
	if _, err := s.registry.Get(ctx, fileID); err != nil {
		return nil, err
	}

	entries, err := s.history.ListByFile(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("чтение журнала перемещений: %w", err)
	}
	return entries, nil
}

// CurrentLocationOf возвращает текущую локацию файла: локацию последней
// записи журнала, а при пустом журнале — сохранённую в реестре
// (seed-случай). nil, если локация неизвестна.
func (s *LocationTrackerService) CurrentLocationOf(ctx context.Context, fileID string) (*model.Location, error) {
	latest, err := s.history.LatestByFile(ctx, fileID)
	if err == nil {
		loc := latest.Location
		return &loc, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("чтение последней записи журнала: %w", err)
	}

	f, err := s.registry.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return f.CurrentLocation, nil
}
