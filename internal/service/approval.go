// approval.go — обработчики одобрения заявок.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bigkaa/filetrack/registry-module/internal/blobstore"
	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
)

// defaultIssueDays — срок выдачи, если в заявке не указана длительность.
const defaultIssueDays = 7

// IssueApprovalHandler открывает выдачу файла при одобрении
// issue-заявки. Файл ищется по RFID-метке из заявки, локацией выдачи
// служит текущая локация файла.
type IssueApprovalHandler struct {
	registry *FileRegistryService
	ledger   *IssueLedgerService
	// fallbackLocation используется, когда у файла нет текущей локации.
	fallbackLocation model.Location
	logger           *slog.Logger
}

// NewIssueApprovalHandler создаёт обработчик issue-заявок.
func NewIssueApprovalHandler(registry *FileRegistryService, ledger *IssueLedgerService, fallbackLocation model.Location, logger *slog.Logger) *IssueApprovalHandler {
	return &IssueApprovalHandler{
		registry:         registry,
		ledger:           ledger,
		fallbackLocation: fallbackLocation,
		logger:           logger.With(slog.String("component", "issue_approval_handler")),
	}
}

// Approve реализует ApprovalHandler. Исполнителем выдачи (issuedBy)
// записывается администратор, одобривший заявку.
func (h *IssueApprovalHandler) Approve(ctx context.Context, req *model.FileRequest, decidedBy string) error {
	f, err := h.registry.GetByRFID(ctx, req.RFIDTag)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: файл с меткой '%s' не зарегистрирован", ErrNotFound, req.RFIDTag)
		}
		return err
	}

	loc := h.fallbackLocation
	if f.CurrentLocation != nil {
		loc = *f.CurrentLocation
	}

	days := parseDurationDays(req.Duration)
	issue, err := h.ledger.OpenIssue(ctx, OpenIssueParams{
		FileID:             f.ID,
		IssuedTo:           req.RequestedBy,
		IssuedBy:           decidedBy,
		ExpectedReturnDate: h.ledger.clock().AddDate(0, 0, days),
		IssueLocation:      loc,
		Notes:              req.Notes,
	})
	if err != nil {
		return err
	}

	h.logger.Info("Выдача открыта по одобренной заявке",
		slog.String("request_id", req.ID),
		slog.String("issue_id", issue.ID),
		slog.String("file_id", f.ID),
	)
	return nil
}

// parseDurationDays разбирает длительность вида "7 days" или "14".
// Пустая или нераспознанная строка даёт срок по умолчанию.
func parseDurationDays(duration string) int {
	fields := strings.Fields(strings.ToLower(duration))
	if len(fields) == 0 {
		return defaultIssueDays
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return defaultIssueDays
	}
	if len(fields) > 1 && strings.HasPrefix(fields[1], "week") {
		return n * 7
	}
	return n
}

// UploadApprovalHandler регистрирует новый файл при одобрении
// upload-заявки: содержимое уходит в blob-хранилище, карточка файла —
// в реестр.
type UploadApprovalHandler struct {
	registry *FileRegistryService
	blobs    blobstore.BlobStore
	queue    *RequestQueueService
	clock    func() time.Time
	logger   *slog.Logger
}

// NewUploadApprovalHandler создаёт обработчик upload-заявок.
func NewUploadApprovalHandler(registry *FileRegistryService, blobs blobstore.BlobStore, queue *RequestQueueService, logger *slog.Logger) *UploadApprovalHandler {
	return &UploadApprovalHandler{
		registry: registry,
		blobs:    blobs,
		queue:    queue,
		clock:    func() time.Time { return time.Now().UTC() },
		logger:   logger.With(slog.String("component", "upload_approval_handler")),
	}
}

// Approve реализует ApprovalHandler.
func (h *UploadApprovalHandler) Approve(ctx context.Context, req *model.FileRequest, _ string) error {
	if _, err := h.registry.GetByRFID(ctx, req.RFIDTag); err == nil {
		return fmt.Errorf("%w: метка '%s' уже занята", ErrValidation, req.RFIDTag)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	content, ok := h.queue.StagedContent(req.ID)
	if !ok {
		// Заявка подана без содержимого: регистрируем только карточку.
		content = nil
	}
	if content != nil {
		if _, err := h.blobs.Store(ctx, req.RFIDTag+"/"+req.FileName, content); err != nil {
			return fmt.Errorf("сохранение содержимого файла: %w", err)
		}
	}

	f := &model.FileRecord{
		ID:           uuid.NewString(),
		FileName:     req.FileName,
		Department:   req.Department,
		RFIDTag:      req.RFIDTag,
		FileType:     fileTypeOf(req.FileName),
		Size:         req.FileSize,
		Tags:         req.Tags,
		LastAccessed: h.clock(),
		AccessedBy:   req.CreatedBy,
		Status:       model.StatusAvailable,
	}
	if err := h.registry.Register(ctx, f); err != nil {
		return err
	}

	h.logger.Info("Файл зарегистрирован по одобренной заявке",
		slog.String("request_id", req.ID),
		slog.String("file_id", f.ID),
		slog.String("rfid_tag", f.RFIDTag),
	)
	return nil
}

// fileTypeOf выводит тип файла из расширения имени.
func fileTypeOf(fileName string) string {
	if i := strings.LastIndex(fileName, "."); i >= 0 && i < len(fileName)-1 {
		return strings.ToUpper(fileName[i+1:])
	}
	return "UNKNOWN"
}
