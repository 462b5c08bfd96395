// request_queue.go — сервис очереди заявок.
//
// Заявка проходит ровно один переход: pending → approved | rejected.
// Решение по заявке необратимо. При одобрении сначала выполняется
// побочный эффект (зарегистрированный ApprovalHandler), и только при
// его успехе заявка переводится в approved: неуспешный эффект
// оставляет заявку в pending для повторной попытки.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
	"github.com/bigkaa/filetrack/registry-module/internal/repository"
)

var (
	requestsSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rm_requests_submitted_total",
		Help: "Общее количество поданных заявок по типам",
	}, []string{"type"})
	requestsDecidedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rm_requests_decided_total",
		Help: "Общее количество решённых заявок по исходам",
	}, []string{"status"})
)

// ApprovalHandler выполняет побочный эффект одобрения заявки.
// Ошибка обработчика отменяет одобрение: заявка остаётся pending.
type ApprovalHandler interface {
	// Approve выполняет эффект для заявки данного типа.
	// decidedBy — администратор, принявший решение.
	Approve(ctx context.Context, req *model.FileRequest, decidedBy string) error
}

// SubmitParams — параметры подачи заявки.
type SubmitParams struct {
	Type        model.RequestType
	RFIDTag     string
	FileName    string
	RequestedBy string
	Department  model.Department
	Duration    string
	CreatedBy   string
	Tags        []string
	FileSize    string
	Notes       string
	// Content — содержимое файла для заявок типа upload.
	// Хранится до решения по заявке.
	Content []byte
}

// RequestCounts — количество заявок по статусам.
type RequestCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// RequestQueueService — сервис очереди заявок.
type RequestQueueService struct {
	requests repository.RequestRepository
	handlers map[model.RequestType]ApprovalHandler
	clock    func() time.Time
	logger   *slog.Logger

	// submitDelay имитирует сетевую задержку внешней системы подачи.
	// Контекст проверяется после паузы: отменённая подача не создаёт
	// заявку.
	submitDelay time.Duration

	// staged — содержимое файлов upload-заявок до решения.
	mu     sync.Mutex
	staged map[string][]byte
}

// NewRequestQueueService создаёт сервис очереди заявок.
func NewRequestQueueService(requests repository.RequestRepository, submitDelay time.Duration, logger *slog.Logger) *RequestQueueService {
	return &RequestQueueService{
		requests:    requests,
		handlers:    make(map[model.RequestType]ApprovalHandler),
		clock:       func() time.Time { return time.Now().UTC() },
		logger:      logger.With(slog.String("component", "request_queue_service")),
		submitDelay: submitDelay,
		staged:      make(map[string][]byte),
	}
}

// SetClock подменяет источник времени (для тестов).
func (s *RequestQueueService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// RegisterHandler регистрирует обработчик одобрения для типа заявки.
func (s *RequestQueueService) RegisterHandler(t model.RequestType, h ApprovalHandler) {
	s.handlers[t] = h
}

// Submit подаёт новую заявку. Заявка создаётся в статусе pending.
//
// Ошибки:
//   - ErrValidation — неизвестный тип или пустые обязательные поля
//   - ошибка контекста — подача отменена до фиксации, заявка не создана
func (s *RequestQueueService) Submit(ctx context.Context, p SubmitParams) (*model.FileRequest, error) {
	if !model.IsValidRequestType(p.Type) {
		return nil, fmt.Errorf("%w: неизвестный тип заявки '%s'", ErrValidation, p.Type)
	}
	if strings.TrimSpace(p.RFIDTag) == "" {
		return nil, fmt.Errorf("%w: rfidTag обязателен", ErrValidation)
	}
	if strings.TrimSpace(p.FileName) == "" {
		return nil, fmt.Errorf("%w: fileName обязателен", ErrValidation)
	}
	if strings.TrimSpace(p.RequestedBy) == "" {
		return nil, fmt.Errorf("%w: requestedBy обязателен", ErrValidation)
	}

	// Пауза перед фиксацией: отменённый контекст прерывает подачу
	// без следов в хранилище.
	if s.submitDelay > 0 {
		timer := time.NewTimer(s.submitDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("подача заявки прервана: %w", ctx.Err())
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("подача заявки прервана: %w", err)
	}

	// createdBy, tags и fileSize заполняются только у upload-заявок.
	createdBy, tags, fileSize := p.CreatedBy, p.Tags, p.FileSize
	if p.Type != model.RequestTypeUpload {
		createdBy, tags, fileSize = "", nil, ""
	}

	req := &model.FileRequest{
		ID:          uuid.NewString(),
		Type:        p.Type,
		RFIDTag:     p.RFIDTag,
		FileName:    p.FileName,
		RequestedBy: p.RequestedBy,
		Department:  p.Department,
		RequestDate: s.clock(),
		Status:      model.RequestStatusPending,
		Duration:    p.Duration,
		CreatedBy:   createdBy,
		Tags:        tags,
		FileSize:    fileSize,
		Notes:       p.Notes,
	}

	if err := s.requests.Insert(ctx, req); err != nil {
		return nil, fmt.Errorf("создание заявки: %w", err)
	}

	if p.Type == model.RequestTypeUpload && p.Content != nil {
		s.mu.Lock()
		s.staged[req.ID] = p.Content
		s.mu.Unlock()
	}

	requestsSubmittedTotal.WithLabelValues(string(p.Type)).Inc()
	s.logger.Info("Заявка подана",
		slog.String("request_id", req.ID),
		slog.String("type", string(req.Type)),
		slog.String("requested_by", req.RequestedBy),
	)
	return req, nil
}

// Get возвращает заявку по ID.
func (s *RequestQueueService) Get(ctx context.Context, id string) (*model.FileRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: заявка '%s'", ErrNotFound, id)
		}
		return nil, fmt.Errorf("получение заявки: %w", err)
	}
	return req, nil
}

// Decide принимает решение по заявке: approve=true — одобрить,
// иначе отклонить.
//
// Ошибки:
//   - ErrNotFound — заявка не существует
//   - ErrAlreadyDecided — по заявке уже принято решение
//   - ошибка обработчика одобрения — заявка остаётся pending
func (s *RequestQueueService) Decide(ctx context.Context, id string, approve bool, decidedBy string) (*model.FileRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: заявка '%s'", ErrNotFound, id)
		}
		return nil, fmt.Errorf("получение заявки: %w", err)
	}
	if req.Status != model.RequestStatusPending {
		return nil, fmt.Errorf("%w: заявка '%s' уже в статусе %s", ErrAlreadyDecided, id, req.Status)
	}

	if approve {
		if h, ok := s.handlers[req.Type]; ok {
			if err := h.Approve(ctx, req, decidedBy); err != nil {
				s.logger.Error("Эффект одобрения не выполнен, заявка остаётся pending",
					slog.String("request_id", id),
					slog.String("type", string(req.Type)),
					slog.String("error", err.Error()),
				)
				return nil, err
			}
		}
		req.Status = model.RequestStatusApproved
	} else {
		req.Status = model.RequestStatusRejected
	}

	if err := s.requests.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("фиксация решения: %w", err)
	}

	// Содержимое upload-заявки больше не нужно после решения.
	s.mu.Lock()
	delete(s.staged, id)
	s.mu.Unlock()

	requestsDecidedTotal.WithLabelValues(string(req.Status)).Inc()
	s.logger.Info("Решение по заявке принято",
		slog.String("request_id", id),
		slog.String("status", string(req.Status)),
		slog.String("decided_by", decidedBy),
	)
	return req, nil
}

// List возвращает заявки по фильтрам в порядке подачи.
func (s *RequestQueueService) List(ctx context.Context, filters repository.RequestListFilters) ([]*model.FileRequest, error) {
	if filters.Status != "" && !model.IsValidRequestStatus(filters.Status) {
		return nil, fmt.Errorf("%w: неизвестный статус заявки '%s'", ErrValidation, filters.Status)
	}
	if filters.Type != "" && !model.IsValidRequestType(filters.Type) {
		return nil, fmt.Errorf("%w: неизвестный тип заявки '%s'", ErrValidation, filters.Type)
	}

	reqs, err := s.requests.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("список заявок: %w", err)
	}
	return reqs, nil
}

// Counts возвращает количество заявок по статусам.
func (s *RequestQueueService) Counts(ctx context.Context) (*RequestCounts, error) {
	reqs, err := s.requests.List(ctx, repository.RequestListFilters{})
	if err != nil {
		return nil, fmt.Errorf("список заявок: %w", err)
	}

	counts := &RequestCounts{}
	for _, req := range reqs {
		switch req.Status {
		case model.RequestStatusPending:
			counts.Pending++
		case model.RequestStatusApproved:
			counts.Approved++
		case model.RequestStatusRejected:
			counts.Rejected++
		}
	}
	return counts, nil
}

// StagedContent возвращает содержимое upload-заявки, если оно
// было передано при подаче.
func (s *RequestQueueService) StagedContent(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.staged[id]
	return content, ok
}
