// issue_ledger.go — сервис выдач файлов.
//
// Конечный автомат по файлу: нет открытой выдачи → issued → returned.
// Просроченная выдача (overdue) остаётся открытой: блокирует повторную
// выдачу и закрывается возвратом так же, как issued.
// Вся валидация выполняется до первой мутации: неуспешный вызов
// не оставляет частичных изменений ни в одном хранилище.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/lifecycle"
	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
	"github.com/bigkaa/filetrack/registry-module/internal/repository"
)

// Prometheus-метрики выдач.
var (
	issuesOpenedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rm_issues_opened_total",
		Help: "Общее количество открытых выдач файлов",
	})
	issuesClosedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rm_issues_closed_total",
		Help: "Общее количество закрытых выдач файлов",
	})
	issuesOverdueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rm_issues_overdue_total",
		Help: "Общее количество выдач, помеченных как просроченные",
	})
)

// OpenIssueParams — параметры открытия выдачи.
type OpenIssueParams struct {
	FileID             string
	IssuedTo           string
	IssuedBy           string
	ExpectedReturnDate time.Time
	IssueLocation      model.Location
	Notes              string
}

// IssueLedgerService — сервис выдач файлов.
type IssueLedgerService struct {
	issues   repository.IssueRepository
	registry *FileRegistryService
	tracker  *LocationTrackerService
	clock    func() time.Time
	logger   *slog.Logger
}

// NewIssueLedgerService создаёт сервис выдач.
func NewIssueLedgerService(
	issues repository.IssueRepository,
	registry *FileRegistryService,
	tracker *LocationTrackerService,
	logger *slog.Logger,
) *IssueLedgerService {
	return &IssueLedgerService{
		issues:   issues,
		registry: registry,
		tracker:  tracker,
		clock:    func() time.Time { return time.Now().UTC() },
		logger:   logger.With(slog.String("component", "issue_ledger_service")),
	}
}

// SetClock подменяет источник времени (для тестов).
func (s *IssueLedgerService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// OpenIssue открывает выдачу файла.
//
// Ошибки (до любых мутаций):
//   - ErrNotFound — файл не существует
//   - ErrAlreadyIssued — у файла уже есть открытая выдача
//   - ErrInvalidTransition — файл не в статусе available (например, archived)
//   - ErrInvalidDateOrder — ожидаемый возврат раньше даты выдачи
//
// При успехе файл переводится в checked-out, его текущая локация —
// в локацию выдачи.
func (s *IssueLedgerService) OpenIssue(ctx context.Context, p OpenIssueParams) (*model.FileIssue, error) {
	f, err := s.registry.Get(ctx, p.FileID)
	if err != nil {
		return nil, err
	}

	// Сначала проверка открытой выдачи: она даёт более точную ошибку,
	// чем общий отказ перехода checked-out → checked-out.
	if _, err := s.issues.OpenByFile(ctx, p.FileID); err == nil {
		return nil, fmt.Errorf("%w: файл '%s'", ErrAlreadyIssued, p.FileID)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("проверка открытой выдачи: %w", err)
	}

	if err := lifecycle.Validate(f.Status, model.StatusCheckedOut); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, err.Error())
	}

	issueDate := s.clock()
	if p.ExpectedReturnDate.Before(issueDate) {
		return nil, fmt.Errorf("%w: ожидаемый возврат %s раньше выдачи %s",
			ErrInvalidDateOrder,
			p.ExpectedReturnDate.Format(time.RFC3339),
			issueDate.Format(time.RFC3339),
		)
	}

	issue := &model.FileIssue{
		ID:                 uuid.NewString(),
		FileID:             f.ID,
		FileName:           f.FileName,
		RFIDTag:            f.RFIDTag,
		IssuedTo:           p.IssuedTo,
		IssuedBy:           p.IssuedBy,
		IssueDate:          issueDate,
		ExpectedReturnDate: p.ExpectedReturnDate,
		IssueLocation:      p.IssueLocation,
		Status:             model.IssueStatusIssued,
		Notes:              p.Notes,
	}

	if err := s.issues.Insert(ctx, issue); err != nil {
		return nil, fmt.Errorf("создание выдачи: %w", err)
	}
	if _, err := s.registry.SetStatus(ctx, f.ID, model.StatusCheckedOut); err != nil {
		return nil, fmt.Errorf("перевод файла в checked-out: %w", err)
	}
	if _, err := s.registry.SetCurrentLocation(ctx, f.ID, p.IssueLocation, p.IssuedBy); err != nil {
		return nil, fmt.Errorf("обновление локации выдачи: %w", err)
	}

	issuesOpenedTotal.Inc()
	s.logger.Info("Выдача открыта",
		slog.String("issue_id", issue.ID),
		slog.String("file_id", f.ID),
		slog.String("issued_to", p.IssuedTo),
		slog.Time("expected_return", p.ExpectedReturnDate),
	)
	return issue, nil
}

// CloseIssue закрывает выдачу: фиксирует фактический возврат.
//
// Ошибки (до любых мутаций):
//   - ErrNotFound — выдача не существует
//   - ErrAlreadyClosed — выдача уже закрыта
//   - ErrInvalidDateOrder — фактический возврат раньше даты выдачи
//
// При успехе выдача переходит в returned, файл — в available,
// перемещение в локацию возврата попадает в журнал.
func (s *IssueLedgerService) CloseIssue(ctx context.Context, issueID string, actualReturnDate time.Time, returnLocation model.Location, closedBy, notes string) (*model.FileIssue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: выдача '%s'", ErrNotFound, issueID)
		}
		return nil, fmt.Errorf("получение выдачи: %w", err)
	}

	if !issue.IsOpen() {
		return nil, fmt.Errorf("%w: выдача '%s'", ErrAlreadyClosed, issueID)
	}
	if actualReturnDate.Before(issue.IssueDate) {
		return nil, fmt.Errorf("%w: возврат %s раньше выдачи %s",
			ErrInvalidDateOrder,
			actualReturnDate.Format(time.RFC3339),
			issue.IssueDate.Format(time.RFC3339),
		)
	}

	movedBy := closedBy
	if movedBy == "" {
		movedBy = issue.IssuedBy
	}

	retDate := actualReturnDate
	retLoc := returnLocation
	issue.ActualReturnDate = &retDate
	issue.ReturnLocation = &retLoc
	issue.Status = model.IssueStatusReturned
	if notes != "" {
		issue.Notes = notes
	}

	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("закрытие выдачи: %w", err)
	}
	if _, err := s.registry.SetStatus(ctx, issue.FileID, model.StatusAvailable); err != nil {
		return nil, fmt.Errorf("возврат файла в available: %w", err)
	}
	if _, err := s.tracker.RecordMove(ctx, issue.FileID, returnLocation, movedBy, notes); err != nil {
		return nil, fmt.Errorf("фиксация перемещения при возврате: %w", err)
	}

	issuesClosedTotal.Inc()
	s.logger.Info("Выдача закрыта",
		slog.String("issue_id", issueID),
		slog.String("file_id", issue.FileID),
		slog.Time("actual_return", actualReturnDate),
	)
	return issue, nil
}

// ListOpen возвращает открытые выдачи. Статус просроченных выдач
// вычисляется на момент чтения: issued с истёкшим expectedReturnDate
// отдаётся как overdue, даже если sweeper ещё не пометил его в хранилище.
func (s *IssueLedgerService) ListOpen(ctx context.Context) ([]*model.FileIssue, error) {
	issues, err := s.issues.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("список открытых выдач: %w", err)
	}

	now := s.clock()
	for _, issue := range issues {
		applyOverdue(issue, now)
	}
	return issues, nil
}

// ListForFile возвращает все выдачи файла по убыванию issueDate.
func (s *IssueLedgerService) ListForFile(ctx context.Context, fileID string) ([]*model.FileIssue, error) {
	if _, err := s.registry.Get(ctx, fileID); err != nil {
		return nil, err
	}

	issues, err := s.issues.ListByFile(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("список выдач файла: %w", err)
	}

	now := s.clock()
	for _, issue := range issues {
		applyOverdue(issue, now)
	}
	return issues, nil
}

// MarkOverdue помечает в хранилище все issued-выдачи с истёкшим
// сроком возврата как overdue. Возвращает количество помеченных.
// Вызывается фоновым sweeper-ом.
func (s *IssueLedgerService) MarkOverdue(ctx context.Context) (int, error) {
	issues, err := s.issues.ListOpen(ctx)
	if err != nil {
		return 0, fmt.Errorf("список открытых выдач: %w", err)
	}

	now := s.clock()
	marked := 0
	for _, issue := range issues {
		if issue.Status != model.IssueStatusIssued || !now.After(issue.ExpectedReturnDate) {
			continue
		}
		issue.Status = model.IssueStatusOverdue
		if err := s.issues.Update(ctx, issue); err != nil {
			return marked, fmt.Errorf("пометка выдачи %s: %w", issue.ID, err)
		}
		marked++
		issuesOverdueTotal.Inc()
		s.logger.Warn("Выдача просрочена",
			slog.String("issue_id", issue.ID),
			slog.String("file_id", issue.FileID),
			slog.String("issued_to", issue.IssuedTo),
			slog.Time("expected_return", issue.ExpectedReturnDate),
		)
	}
	return marked, nil
}

// applyOverdue проставляет derived-статус overdue открытой выдаче
// с истёкшим сроком возврата.
func applyOverdue(issue *model.FileIssue, now time.Time) {
	if issue.Status == model.IssueStatusIssued && now.After(issue.ExpectedReturnDate) {
		issue.Status = model.IssueStatusOverdue
	}
}
