package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
	"github.com/bigkaa/filetrack/registry-module/internal/repository"
)

// failingHandler — обработчик одобрения, всегда возвращающий ошибку.
type failingHandler struct{ err error }

func (h *failingHandler) Approve(_ context.Context, _ *model.FileRequest, _ string) error {
	return h.err
}

// TestSubmit_CreatesPending — подача заявки создаёт pending-запись.
func TestSubmit_CreatesPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req, err := env.queue.Submit(ctx, SubmitParams{
		Type:        model.RequestTypeIssue,
		RFIDTag:     "RFID001",
		FileName:    "Employee_Handbook_2024.pdf",
		RequestedBy: "lisa.anderson",
		Duration:    "7 days",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка подачи заявки: %v", err)
	}

	if req.Status != model.RequestStatusPending {
		t.Errorf("ожидался статус pending, получен %s", req.Status)
	}
	if !req.RequestDate.Equal(testNow) {
		t.Errorf("ожидалась дата подачи %v, получена %v", testNow, req.RequestDate)
	}

	stored, err := env.queue.Get(ctx, req.ID)
	if err != nil {
		t.Fatalf("заявка должна находиться по id: %v", err)
	}
	if stored.RequestedBy != "lisa.anderson" {
		t.Errorf("ожидался requestedBy=lisa.anderson, получен %s", stored.RequestedBy)
	}
}

// TestSubmit_StagesUploadContent — содержимое upload-заявки сохраняется до решения.
func TestSubmit_StagesUploadContent(t *testing.T) {
	env := newTestEnv(t)
	content := []byte("%PDF-1.7 test")

	req, err := env.queue.Submit(context.Background(), SubmitParams{
		Type:        model.RequestTypeUpload,
		RFIDTag:     "RFID010",
		FileName:    "New_Policy.pdf",
		RequestedBy: "john.smith",
		Content:     content,
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка подачи заявки: %v", err)
	}

	staged, ok := env.queue.StagedContent(req.ID)
	if !ok {
		t.Fatal("содержимое должно быть сохранено до решения")
	}
	if string(staged) != string(content) {
		t.Errorf("содержимое искажено: %q", staged)
	}
}

// TestSubmit_IssueRequestDropsUploadFields — поля createdBy, tags и
// fileSize сохраняются только у upload-заявок.
func TestSubmit_IssueRequestDropsUploadFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req, err := env.queue.Submit(ctx, SubmitParams{
		Type:        model.RequestTypeIssue,
		RFIDTag:     "RFID003",
		FileName:    "Employee_Handbook_2024.pdf",
		RequestedBy: "alice.wong",
		Duration:    "7 days",
		CreatedBy:   "alice.wong",
		Tags:        []string{"hr"},
		FileSize:    "1.2 MB",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка подачи заявки: %v", err)
	}

	stored, err := env.queue.Get(ctx, req.ID)
	if err != nil {
		t.Fatalf("заявка должна находиться по id: %v", err)
	}
	if stored.CreatedBy != "" {
		t.Errorf("createdBy заполнен у issue-заявки: %q", stored.CreatedBy)
	}
	if stored.Tags != nil {
		t.Errorf("tags заполнены у issue-заявки: %v", stored.Tags)
	}
	if stored.FileSize != "" {
		t.Errorf("fileSize заполнен у issue-заявки: %q", stored.FileSize)
	}
}

// TestSubmit_Validation — обязательные поля и тип заявки.
func TestSubmit_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		params SubmitParams
	}{
		{"unknown type", SubmitParams{Type: "transfer", RFIDTag: "RFID001", FileName: "f.pdf", RequestedBy: "x"}},
		{"empty rfid", SubmitParams{Type: model.RequestTypeIssue, FileName: "f.pdf", RequestedBy: "x"}},
		{"empty file name", SubmitParams{Type: model.RequestTypeIssue, RFIDTag: "RFID001", RequestedBy: "x"}},
		{"empty requested by", SubmitParams{Type: model.RequestTypeIssue, RFIDTag: "RFID001", FileName: "f.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.queue.Submit(context.Background(), tt.params)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("ожидался ErrValidation, получено: %v", err)
			}
		})
	}
}

// TestSubmit_ContextCancelled — отменённая подача не создаёт заявку.
func TestSubmit_ContextCancelled(t *testing.T) {
	env := newTestEnv(t)
	queue := NewRequestQueueService(env.requests, 50*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := queue.Submit(ctx, SubmitParams{
		Type:        model.RequestTypeIssue,
		RFIDTag:     "RFID001",
		FileName:    "Employee_Handbook_2024.pdf",
		RequestedBy: "lisa.anderson",
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ожидался context.Canceled, получено: %v", err)
	}

	// Хранилище без следов: только 2 seed-заявки.
	reqs, _ := queue.List(context.Background(), repository.RequestListFilters{})
	if len(reqs) != 2 {
		t.Errorf("отменённая подача не должна создавать заявку, всего %d", len(reqs))
	}
}

// TestDecide_Reject — отклонение pending-заявки.
func TestDecide_Reject(t *testing.T) {
	env := newTestEnv(t)

	req, err := env.queue.Decide(context.Background(), "req-1", false, "admin")
	if err != nil {
		t.Fatalf("неожиданная ошибка решения: %v", err)
	}
	if req.Status != model.RequestStatusRejected {
		t.Errorf("ожидался статус rejected, получен %s", req.Status)
	}
}

// TestDecide_ApproveWithoutHandler — одобрение без обработчика лишь меняет статус.
func TestDecide_ApproveWithoutHandler(t *testing.T) {
	env := newTestEnv(t)

	req, err := env.queue.Decide(context.Background(), "req-1", true, "admin")
	if err != nil {
		t.Fatalf("неожиданная ошибка решения: %v", err)
	}
	if req.Status != model.RequestStatusApproved {
		t.Errorf("ожидался статус approved, получен %s", req.Status)
	}
}

// TestDecide_AlreadyDecided — решение по заявке необратимо.
func TestDecide_AlreadyDecided(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.queue.Decide(ctx, "req-1", false, "admin"); err != nil {
		t.Fatalf("первое решение должно пройти: %v", err)
	}

	for _, approve := range []bool{true, false} {
		_, err := env.queue.Decide(ctx, "req-1", approve, "admin")
		if !errors.Is(err, ErrAlreadyDecided) {
			t.Fatalf("approve=%v: ожидался ErrAlreadyDecided, получено: %v", approve, err)
		}
	}
}

// TestDecide_NotFound — решение по несуществующей заявке.
func TestDecide_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.queue.Decide(context.Background(), "nope", true, "admin")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидался ErrNotFound, получено: %v", err)
	}
}

// TestDecide_HandlerFailureKeepsPending — неуспешный эффект оставляет заявку pending.
func TestDecide_HandlerFailureKeepsPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	handlerErr := fmt.Errorf("хранилище недоступно")
	env.queue.RegisterHandler(model.RequestTypeIssue, &failingHandler{err: handlerErr})

	_, err := env.queue.Decide(ctx, "req-1", true, "admin")
	if !errors.Is(err, handlerErr) {
		t.Fatalf("ожидалась ошибка обработчика, получено: %v", err)
	}

	// Заявка осталась pending: решение можно повторить.
	req, _ := env.queue.Get(ctx, "req-1")
	if req.Status != model.RequestStatusPending {
		t.Errorf("ожидался статус pending, получен %s", req.Status)
	}
}

// TestList_Filters — фильтры списка заявок.
func TestList_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	byStatus, err := env.queue.List(ctx, repository.RequestListFilters{Status: model.RequestStatusPending})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(byStatus) != 2 {
		t.Errorf("ожидались 2 pending-заявки, получено %d", len(byStatus))
	}

	byType, err := env.queue.List(ctx, repository.RequestListFilters{Type: model.RequestTypeUpload})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(byType) != 1 || byType[0].ID != "req-2" {
		t.Errorf("ожидалась заявка req-2, получено %+v", byType)
	}

	byText, err := env.queue.List(ctx, repository.RequestListFilters{TextQuery: "vendor"})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(byText) != 1 || byText[0].ID != "req-2" {
		t.Errorf("ожидалась заявка req-2 по подстроке, получено %+v", byText)
	}
}

// TestList_InvalidFilters — неизвестный статус или тип в фильтре.
func TestList_InvalidFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.queue.List(ctx, repository.RequestListFilters{Status: "done"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("ожидался ErrValidation для статуса, получено: %v", err)
	}
	if _, err := env.queue.List(ctx, repository.RequestListFilters{Type: "transfer"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("ожидался ErrValidation для типа, получено: %v", err)
	}
}

// TestCounts — счётчики заявок по статусам.
func TestCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	counts, err := env.queue.Counts(ctx)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if counts.Pending != 2 || counts.Approved != 0 || counts.Rejected != 0 {
		t.Errorf("ожидалось 2/0/0, получено %+v", counts)
	}

	if _, err := env.queue.Decide(ctx, "req-1", false, "admin"); err != nil {
		t.Fatalf("решение должно пройти: %v", err)
	}
	counts, _ = env.queue.Counts(ctx)
	if counts.Pending != 1 || counts.Rejected != 1 {
		t.Errorf("ожидалось pending=1 rejected=1, получено %+v", counts)
	}
}
