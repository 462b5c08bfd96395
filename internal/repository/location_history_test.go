package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
)

// newHistoryEntry — запись журнала для тестов.
func newHistoryEntry(id, fileID, locID string, moved time.Time) *model.LocationHistory {
	return &model.LocationHistory{
		ID:        id,
		FileID:    fileID,
		Location:  model.Location{ID: locID, Name: "Loc " + locID},
		MovedBy:   "tester",
		MovedDate: moved,
	}
}

// TestHistoryRepo_AppendOrder — журнал хранится в порядке добавления.
func TestHistoryRepo_AppendOrder(t *testing.T) {
	repo := NewLocationHistoryRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"h1", "h2", "h3"} {
		if err := repo.Append(ctx, newHistoryEntry(id, "1", "1", base.AddDate(0, 0, i))); err != nil {
			t.Fatalf("запись должна пройти: %v", err)
		}
	}

	entries, err := repo.ListByFile(ctx, "1")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("ожидались 3 записи, получено %d", len(entries))
	}
	for i, want := range []string{"h1", "h2", "h3"} {
		if entries[i].ID != want {
			t.Errorf("позиция %d: ожидалась %s, получена %s", i, want, entries[i].ID)
		}
	}
}

// TestHistoryRepo_LatestByFile — последняя запись журнала файла.
func TestHistoryRepo_LatestByFile(t *testing.T) {
	repo := NewLocationHistoryRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	if _, err := repo.LatestByFile(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("пустой журнал: ожидался ErrNotFound, получено %v", err)
	}

	if err := repo.Append(ctx, newHistoryEntry("h1", "1", "1", base)); err != nil {
		t.Fatalf("запись должна пройти: %v", err)
	}
	if err := repo.Append(ctx, newHistoryEntry("h2", "1", "2", base.AddDate(0, 0, 1))); err != nil {
		t.Fatalf("запись должна пройти: %v", err)
	}

	latest, err := repo.LatestByFile(ctx, "1")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if latest.ID != "h2" {
		t.Errorf("ожидалась последняя запись h2, получена %s", latest.ID)
	}
}

// TestHistoryRepo_Isolation — мутация возвращённой записи не меняет журнал.
func TestHistoryRepo_Isolation(t *testing.T) {
	repo := NewLocationHistoryRepository()
	ctx := context.Background()

	entry := newHistoryEntry("h1", "1", "1", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	prev := model.Location{ID: "0", Name: "Origin"}
	entry.PreviousLocation = &prev
	if err := repo.Append(ctx, entry); err != nil {
		t.Fatalf("запись должна пройти: %v", err)
	}

	got, _ := repo.LatestByFile(ctx, "1")
	got.Location.Name = "mutated"
	got.PreviousLocation.Name = "mutated"

	fresh, _ := repo.LatestByFile(ctx, "1")
	if fresh.Location.Name != "Loc 1" {
		t.Errorf("локация не должна меняться извне, получено %q", fresh.Location.Name)
	}
	if fresh.PreviousLocation.Name != "Origin" {
		t.Errorf("предыдущая локация не должна делить память, получено %q", fresh.PreviousLocation.Name)
	}
}
