// file_registry.go — сервис файлового реестра.
// Точка соединения остальных компонентов: статус и текущая локация
// файла меняются только здесь. Все переходы статусов проходят
// через матрицу пакета lifecycle.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/lifecycle"
	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
	"github.com/bigkaa/filetrack/registry-module/internal/repository"
)

// FileRegistryService — сервис файлового реестра.
type FileRegistryService struct {
	files  repository.FileRepository
	clock  func() time.Time
	logger *slog.Logger
}

// NewFileRegistryService создаёт сервис файлового реестра.
func NewFileRegistryService(files repository.FileRepository, logger *slog.Logger) *FileRegistryService {
	return &FileRegistryService{
		files:  files,
		clock:  func() time.Time { return time.Now().UTC() },
		logger: logger.With(slog.String("component", "file_registry_service")),
	}
}

// SetClock подменяет источник времени (для тестов).
func (s *FileRegistryService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Get возвращает запись файла по id.
func (s *FileRegistryService) Get(ctx context.Context, id string) (*model.FileRecord, error) {
	f, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: файл '%s'", ErrNotFound, id)
		}
		return nil, fmt.Errorf("получение файла: %w", err)
	}
	return f, nil
}

// GetByRFID возвращает запись файла по RFID-метке.
func (s *FileRegistryService) GetByRFID(ctx context.Context, tag string) (*model.FileRecord, error) {
	f, err := s.files.GetByRFID(ctx, tag)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: RFID-метка '%s'", ErrNotFound, tag)
		}
		return nil, fmt.Errorf("поиск по RFID: %w", err)
	}
	return f, nil
}

// Search возвращает записи, удовлетворяющие фильтрам поиска.
func (s *FileRegistryService) Search(ctx context.Context, filters repository.FileListFilters) ([]*model.FileRecord, error) {
	files, err := s.files.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("поиск файлов: %w", err)
	}
	return files, nil
}

// Register добавляет новую запись в реестр (создаётся при approve upload-заявки).
func (s *FileRegistryService) Register(ctx context.Context, f *model.FileRecord) error {
	if err := s.files.Insert(ctx, f); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("%w: файл с таким id или RFID уже зарегистрирован", ErrValidation)
		}
		return fmt.Errorf("регистрация файла: %w", err)
	}

	s.logger.Info("Файл зарегистрирован в реестре",
		slog.String("file_id", f.ID),
		slog.String("rfid_tag", f.RFIDTag),
		slog.String("file_name", f.FileName),
	)
	return nil
}

// SetStatus переводит файл в новый статус.
// Недопустимые переходы (например archived → checked-out)
// отклоняются с ErrInvalidTransition, состояние не меняется.
func (s *FileRegistryService) SetStatus(ctx context.Context, id string, newStatus model.FileStatus) (*model.FileRecord, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := lifecycle.Validate(f.Status, newStatus); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, err.Error())
	}

	old := f.Status
	f.Status = newStatus
	if err := s.files.Update(ctx, f); err != nil {
		return nil, fmt.Errorf("обновление статуса файла: %w", err)
	}

	s.logger.Info("Статус файла изменён",
		slog.String("file_id", id),
		slog.String("from", string(old)),
		slog.String("to", string(newStatus)),
	)
	return f, nil
}

// SetCurrentLocation обновляет текущую локацию файла.
// Перемещение допустимо в любом статусе. Если actor непустой,
// обновляются lastAccessed и accessedBy.
func (s *FileRegistryService) SetCurrentLocation(ctx context.Context, id string, location model.Location, actor string) (*model.FileRecord, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	loc := location
	f.CurrentLocation = &loc
	if actor != "" {
		f.LastAccessed = s.clock()
		f.AccessedBy = actor
	}

	if err := s.files.Update(ctx, f); err != nil {
		return nil, fmt.Errorf("обновление локации файла: %w", err)
	}
	return f, nil
}
