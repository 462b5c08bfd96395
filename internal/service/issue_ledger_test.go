package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
)

// TestOpenIssue_Success — открытие выдачи доступного файла.
func TestOpenIssue_Success(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	loc := env.seed.Locations[2] // HR Records Room

	issue, err := env.ledger.OpenIssue(ctx, OpenIssueParams{
		FileID:             "1",
		IssuedTo:           "Ms. Lisa Anderson",
		IssuedBy:           "admin",
		ExpectedReturnDate: testNow.AddDate(0, 0, 7),
		IssueLocation:      loc,
		Notes:              "для ознакомления",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка открытия выдачи: %v", err)
	}

	if issue.Status != model.IssueStatusIssued {
		t.Errorf("ожидался статус issued, получен %s", issue.Status)
	}
	if issue.FileName != "Employee_Handbook_2024.pdf" {
		t.Errorf("ожидалась денормализация имени файла, получено %q", issue.FileName)
	}
	if !issue.IssueDate.Equal(testNow) {
		t.Errorf("ожидалась дата выдачи %v, получена %v", testNow, issue.IssueDate)
	}

	f, err := env.registry.Get(ctx, "1")
	if err != nil {
		t.Fatalf("неожиданная ошибка чтения файла: %v", err)
	}
	if f.Status != model.StatusCheckedOut {
		t.Errorf("ожидался статус файла checked-out, получен %s", f.Status)
	}
	if f.CurrentLocation == nil || f.CurrentLocation.ID != loc.ID {
		t.Errorf("ожидалась текущая локация %s, получена %+v", loc.ID, f.CurrentLocation)
	}
}

// TestOpenIssue_AlreadyIssued — повторная выдача файла с открытой выдачей.
func TestOpenIssue_AlreadyIssued(t *testing.T) {
	env := newTestEnv(t)

	// Файл "2" выдан в seed-данных (issue-1).
	_, err := env.ledger.OpenIssue(context.Background(), OpenIssueParams{
		FileID:             "2",
		IssuedTo:           "Mr. John Smith",
		IssuedBy:           "admin",
		ExpectedReturnDate: testNow.AddDate(0, 0, 7),
		IssueLocation:      env.seed.Locations[0],
	})
	if !errors.Is(err, ErrAlreadyIssued) {
		t.Fatalf("ожидался ErrAlreadyIssued, получено: %v", err)
	}
}

// TestOpenIssue_ArchivedFile — выдача архивного файла запрещена.
func TestOpenIssue_ArchivedFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Файл "6" в статусе archived.
	_, err := env.ledger.OpenIssue(ctx, OpenIssueParams{
		FileID:             "6",
		IssuedTo:           "Mr. Robert Garcia",
		IssuedBy:           "admin",
		ExpectedReturnDate: testNow.AddDate(0, 0, 7),
		IssueLocation:      env.seed.Locations[0],
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ожидался ErrInvalidTransition, получено: %v", err)
	}

	// Состояние файла не изменилось.
	f, _ := env.registry.Get(ctx, "6")
	if f.Status != model.StatusArchived {
		t.Errorf("статус файла не должен меняться, получен %s", f.Status)
	}
}

// TestOpenIssue_FileNotFound — выдача несуществующего файла.
func TestOpenIssue_FileNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.OpenIssue(context.Background(), OpenIssueParams{
		FileID:             "nope",
		IssuedTo:           "x",
		IssuedBy:           "admin",
		ExpectedReturnDate: testNow.AddDate(0, 0, 7),
		IssueLocation:      env.seed.Locations[0],
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидался ErrNotFound, получено: %v", err)
	}
}

// TestOpenIssue_DateOrder — ожидаемый возврат раньше даты выдачи.
func TestOpenIssue_DateOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.OpenIssue(ctx, OpenIssueParams{
		FileID:             "1",
		IssuedTo:           "x",
		IssuedBy:           "admin",
		ExpectedReturnDate: testNow.AddDate(0, 0, -1),
		IssueLocation:      env.seed.Locations[0],
	})
	if !errors.Is(err, ErrInvalidDateOrder) {
		t.Fatalf("ожидался ErrInvalidDateOrder, получено: %v", err)
	}

	// Неуспешная выдача не оставляет следов.
	f, _ := env.registry.Get(ctx, "1")
	if f.Status != model.StatusAvailable {
		t.Errorf("статус файла не должен меняться, получен %s", f.Status)
	}
	if _, err := env.issues.OpenByFile(ctx, "1"); err == nil {
		t.Error("открытая выдача не должна существовать")
	}
}

// TestCloseIssue_Success — закрытие открытой выдачи.
func TestCloseIssue_Success(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	returnLoc := env.seed.Locations[0] // Main Archive

	issue, err := env.ledger.CloseIssue(ctx, "issue-1", testNow, returnLoc, "admin", "возврат в архив")
	if err != nil {
		t.Fatalf("неожиданная ошибка закрытия выдачи: %v", err)
	}

	if issue.Status != model.IssueStatusReturned {
		t.Errorf("ожидался статус returned, получен %s", issue.Status)
	}
	if issue.ActualReturnDate == nil || !issue.ActualReturnDate.Equal(testNow) {
		t.Errorf("ожидался actualReturnDate %v, получен %v", testNow, issue.ActualReturnDate)
	}
	if issue.ReturnLocation == nil || issue.ReturnLocation.ID != returnLoc.ID {
		t.Errorf("ожидалась локация возврата %s, получена %+v", returnLoc.ID, issue.ReturnLocation)
	}

	// Файл вернулся в available и переместился в локацию возврата.
	f, _ := env.registry.Get(ctx, "2")
	if f.Status != model.StatusAvailable {
		t.Errorf("ожидался статус файла available, получен %s", f.Status)
	}
	if f.CurrentLocation == nil || f.CurrentLocation.ID != returnLoc.ID {
		t.Errorf("ожидалась текущая локация %s, получена %+v", returnLoc.ID, f.CurrentLocation)
	}

	// Возврат зафиксирован в журнале с предыдущей локацией.
	entries, err := env.tracker.HistoryFor(ctx, "2")
	if err != nil {
		t.Fatalf("неожиданная ошибка чтения журнала: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ожидалась 1 запись журнала, получено %d", len(entries))
	}
	last := entries[0]
	if last.Location.ID != returnLoc.ID {
		t.Errorf("ожидалась локация %s, получена %s", returnLoc.ID, last.Location.ID)
	}
	if last.PreviousLocation == nil || last.PreviousLocation.ID != "4" {
		t.Errorf("ожидалась предыдущая локация 4 (Finance Vault), получена %+v", last.PreviousLocation)
	}
}

// TestCloseIssue_AlreadyClosed — повторное закрытие выдачи.
func TestCloseIssue_AlreadyClosed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	loc := env.seed.Locations[0]

	if _, err := env.ledger.CloseIssue(ctx, "issue-1", testNow, loc, "admin", ""); err != nil {
		t.Fatalf("первое закрытие должно пройти: %v", err)
	}
	_, err := env.ledger.CloseIssue(ctx, "issue-1", testNow, loc, "admin", "")
	if !errors.Is(err, ErrAlreadyClosed) {
		t.Fatalf("ожидался ErrAlreadyClosed, получено: %v", err)
	}
}

// TestCloseIssue_DateOrder — фактический возврат раньше даты выдачи.
func TestCloseIssue_DateOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// issue-1 выдан 14.01; попытка вернуть 13.01.
	early := time.Date(2024, 1, 13, 10, 0, 0, 0, time.UTC)
	_, err := env.ledger.CloseIssue(ctx, "issue-1", early, env.seed.Locations[0], "admin", "")
	if !errors.Is(err, ErrInvalidDateOrder) {
		t.Fatalf("ожидался ErrInvalidDateOrder, получено: %v", err)
	}

	// Выдача осталась открытой, файл — выданным.
	issue, _ := env.issues.GetByID(ctx, "issue-1")
	if !issue.IsOpen() {
		t.Error("выдача должна остаться открытой")
	}
	f, _ := env.registry.Get(ctx, "2")
	if f.Status != model.StatusCheckedOut {
		t.Errorf("ожидался статус checked-out, получен %s", f.Status)
	}
}

// TestCloseIssue_NotFound — закрытие несуществующей выдачи.
func TestCloseIssue_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.CloseIssue(context.Background(), "nope", testNow, env.seed.Locations[0], "admin", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидался ErrNotFound, получено: %v", err)
	}
}

// TestCloseIssue_ReopenAfterReturn — после возврата файл можно выдать снова.
func TestCloseIssue_ReopenAfterReturn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.ledger.CloseIssue(ctx, "issue-1", testNow, env.seed.Locations[0], "admin", ""); err != nil {
		t.Fatalf("закрытие должно пройти: %v", err)
	}

	issue, err := env.ledger.OpenIssue(ctx, OpenIssueParams{
		FileID:             "2",
		IssuedTo:           "Mr. John Smith",
		IssuedBy:           "admin",
		ExpectedReturnDate: testNow.AddDate(0, 0, 14),
		IssueLocation:      env.seed.Locations[3],
	})
	if err != nil {
		t.Fatalf("повторная выдача после возврата должна пройти: %v", err)
	}
	if issue.Status != model.IssueStatusIssued {
		t.Errorf("ожидался статус issued, получен %s", issue.Status)
	}
}

// TestListOpen_DerivedOverdue — просрочка вычисляется на момент чтения.
func TestListOpen_DerivedOverdue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Февраль: оба seed-срока возврата (18.01 и 21.01) истекли.
	env.setClocks(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	open, err := env.ledger.ListOpen(ctx)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("ожидались 2 открытые выдачи, получено %d", len(open))
	}
	for _, issue := range open {
		if issue.Status != model.IssueStatusOverdue {
			t.Errorf("выдача %s: ожидался derived-статус overdue, получен %s", issue.ID, issue.Status)
		}
	}

	// В хранилище статус ещё issued: sweeper не запускался.
	stored, _ := env.issues.GetByID(ctx, "issue-1")
	if stored.Status != model.IssueStatusIssued {
		t.Errorf("в хранилище ожидался issued, получен %s", stored.Status)
	}
}

// TestListForFile_Order — выдачи файла от новых к старым.
func TestListForFile_Order(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.ledger.CloseIssue(ctx, "issue-1", testNow, env.seed.Locations[0], "admin", ""); err != nil {
		t.Fatalf("закрытие должно пройти: %v", err)
	}
	if _, err := env.ledger.OpenIssue(ctx, OpenIssueParams{
		FileID:             "2",
		IssuedTo:           "Mr. John Smith",
		IssuedBy:           "admin",
		ExpectedReturnDate: testNow.AddDate(0, 0, 7),
		IssueLocation:      env.seed.Locations[3],
	}); err != nil {
		t.Fatalf("выдача должна пройти: %v", err)
	}

	issues, err := env.ledger.ListForFile(ctx, "2")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("ожидались 2 выдачи, получено %d", len(issues))
	}
	if !issues[0].IssueDate.After(issues[1].IssueDate) {
		t.Error("ожидался порядок от новых выдач к старым")
	}
}

// TestListForFile_NotFound — выдачи несуществующего файла.
func TestListForFile_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.ListForFile(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидался ErrNotFound, получено: %v", err)
	}
}

// TestMarkOverdue — sweeper помечает только истёкшие issued-выдачи.
func TestMarkOverdue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 19.01: истёк только issue-2 (ожидаемый возврат 18.01).
	env.setClocks(time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC))

	marked, err := env.ledger.MarkOverdue(ctx)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if marked != 1 {
		t.Fatalf("ожидалась 1 помеченная выдача, получено %d", marked)
	}

	stored, _ := env.issues.GetByID(ctx, "issue-2")
	if stored.Status != model.IssueStatusOverdue {
		t.Errorf("ожидался статус overdue, получен %s", stored.Status)
	}
	untouched, _ := env.issues.GetByID(ctx, "issue-1")
	if untouched.Status != model.IssueStatusIssued {
		t.Errorf("issue-1 не должен быть помечен, получен %s", untouched.Status)
	}

	// Повторный проход ничего не помечает.
	marked, err = env.ledger.MarkOverdue(ctx)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if marked != 0 {
		t.Errorf("повторный проход: ожидалось 0, получено %d", marked)
	}
}

// TestMarkOverdue_OverdueStaysClosable — просроченная выдача закрывается возвратом.
func TestMarkOverdue_OverdueStaysClosable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	env.setClocks(now)
	if _, err := env.ledger.MarkOverdue(ctx); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	issue, err := env.ledger.CloseIssue(ctx, "issue-2", now, env.seed.Locations[0], "admin", "поздний возврат")
	if err != nil {
		t.Fatalf("просроченная выдача должна закрываться: %v", err)
	}
	if issue.Status != model.IssueStatusReturned {
		t.Errorf("ожидался статус returned, получен %s", issue.Status)
	}
	f, _ := env.registry.Get(ctx, "8")
	if f.Status != model.StatusAvailable {
		t.Errorf("ожидался статус available, получен %s", f.Status)
	}
}
