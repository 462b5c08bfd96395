package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
)

// newRequest — заявка для тестов хранилища.
func newRequest(id string, t model.RequestType, status model.RequestStatus) *model.FileRequest {
	return &model.FileRequest{
		ID:          id,
		Type:        t,
		RFIDTag:     "RFID-" + id,
		FileName:    "File_" + id + ".pdf",
		RequestedBy: "tester",
		RequestDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:      status,
	}
}

// TestRequestRepo_ListFilters — фильтры по статусу, типу и подстроке.
func TestRequestRepo_ListFilters(t *testing.T) {
	repo := NewRequestRepository()
	ctx := context.Background()

	reqs := []*model.FileRequest{
		newRequest("r1", model.RequestTypeIssue, model.RequestStatusPending),
		newRequest("r2", model.RequestTypeUpload, model.RequestStatusPending),
		newRequest("r3", model.RequestTypeIssue, model.RequestStatusApproved),
	}
	reqs[1].FileName = "Vendor_Agreement.pdf"
	for _, r := range reqs {
		if err := repo.Insert(ctx, r); err != nil {
			t.Fatalf("вставка должна пройти: %v", err)
		}
	}

	tests := []struct {
		name     string
		filters  RequestListFilters
		expected []string
	}{
		{"all", RequestListFilters{}, []string{"r1", "r2", "r3"}},
		{"pending", RequestListFilters{Status: model.RequestStatusPending}, []string{"r1", "r2"}},
		{"issue type", RequestListFilters{Type: model.RequestTypeIssue}, []string{"r1", "r3"}},
		{"pending issue", RequestListFilters{Status: model.RequestStatusPending, Type: model.RequestTypeIssue}, []string{"r1"}},
		{"text query", RequestListFilters{TextQuery: "vendor"}, []string{"r2"}},
		{"no match", RequestListFilters{TextQuery: "nonexistent"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("ожидалось %d заявок, получено %d", len(tt.expected), len(got))
			}
			for i, r := range got {
				if r.ID != tt.expected[i] {
					t.Errorf("позиция %d: ожидалась %s, получена %s", i, tt.expected[i], r.ID)
				}
			}
		})
	}
}

// TestRequestRepo_InsertConflict — дублирование id заявки.
func TestRequestRepo_InsertConflict(t *testing.T) {
	repo := NewRequestRepository()
	ctx := context.Background()

	if err := repo.Insert(ctx, newRequest("r1", model.RequestTypeIssue, model.RequestStatusPending)); err != nil {
		t.Fatalf("первая вставка должна пройти: %v", err)
	}
	if err := repo.Insert(ctx, newRequest("r1", model.RequestTypeUpload, model.RequestStatusPending)); !errors.Is(err, ErrConflict) {
		t.Errorf("ожидался ErrConflict, получено %v", err)
	}
}

// TestRequestRepo_UpdateNotFound — обновление несуществующей заявки.
func TestRequestRepo_UpdateNotFound(t *testing.T) {
	repo := NewRequestRepository()

	err := repo.Update(context.Background(), newRequest("r1", model.RequestTypeIssue, model.RequestStatusApproved))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидался ErrNotFound, получено %v", err)
	}
}

// TestSeed_Apply — seed наполняет все хранилища без конфликтов.
func TestSeed_Apply(t *testing.T) {
	seed := Seed()
	ctx := context.Background()

	files := NewFileRepository()
	issues := NewIssueRepository()
	history := NewLocationHistoryRepository()
	requests := NewRequestRepository()

	if err := seed.Apply(ctx, files, issues, history, requests); err != nil {
		t.Fatalf("seed должен применяться без ошибок: %v", err)
	}

	allFiles, _ := files.List(ctx, FileListFilters{})
	if len(allFiles) != 8 {
		t.Errorf("ожидалось 8 файлов, получено %d", len(allFiles))
	}

	open, _ := issues.ListOpen(ctx)
	if len(open) != 2 {
		t.Errorf("ожидались 2 открытые выдачи, получено %d", len(open))
	}

	// Выданные в seed файлы помечены checked-out.
	for _, issue := range open {
		f, err := files.GetByID(ctx, issue.FileID)
		if err != nil {
			t.Fatalf("файл выдачи должен существовать: %v", err)
		}
		if f.Status != model.StatusCheckedOut {
			t.Errorf("файл %s: ожидался checked-out, получен %s", f.ID, f.Status)
		}
	}

	reqs, _ := requests.List(ctx, RequestListFilters{Status: model.RequestStatusPending})
	if len(reqs) != 2 {
		t.Errorf("ожидались 2 pending-заявки, получено %d", len(reqs))
	}
}
