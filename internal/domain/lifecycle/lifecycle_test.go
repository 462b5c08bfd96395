package lifecycle

import (
	"errors"
	"testing"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
)

// TestCanTransition проверяет матрицу допустимых переходов.
func TestCanTransition(t *testing.T) {
	tests := []struct {
		from model.FileStatus
		to   model.FileStatus
		want bool
	}{
		{model.StatusAvailable, model.StatusCheckedOut, true},
		{model.StatusAvailable, model.StatusArchived, true},
		{model.StatusCheckedOut, model.StatusAvailable, true},
		{model.StatusArchived, model.StatusAvailable, true},
		// Запрещённые переходы
		{model.StatusArchived, model.StatusCheckedOut, false},
		{model.StatusCheckedOut, model.StatusArchived, false},
		{model.StatusAvailable, model.StatusAvailable, false},
		{model.StatusCheckedOut, model.StatusCheckedOut, false},
		{model.FileStatus("unknown"), model.StatusAvailable, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s): ожидалось %v, получено %v", tt.from, tt.to, tt.want, got)
		}
	}
}

// TestValidate_ArchivedToCheckedOut проверяет, что архивный файл
// нельзя выдать напрямую, минуя available.
func TestValidate_ArchivedToCheckedOut(t *testing.T) {
	err := Validate(model.StatusArchived, model.StatusCheckedOut)
	if err == nil {
		t.Fatal("archived → checked-out должен вернуть ошибку")
	}

	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("ожидался *TransitionError, получен %T", err)
	}
	if te.From != model.StatusArchived || te.To != model.StatusCheckedOut {
		t.Errorf("ошибка содержит неверные статусы: %s → %s", te.From, te.To)
	}
}

// TestValidate_UnknownTarget проверяет переход в несуществующий статус.
func TestValidate_UnknownTarget(t *testing.T) {
	err := Validate(model.StatusAvailable, model.FileStatus("lost"))
	if err == nil {
		t.Fatal("переход в неизвестный статус должен вернуть ошибку")
	}
}

// TestValidate_AllowedRoundTrip проверяет штатный цикл
// available → checked-out → available → archived → available.
func TestValidate_AllowedRoundTrip(t *testing.T) {
	steps := []struct {
		from model.FileStatus
		to   model.FileStatus
	}{
		{model.StatusAvailable, model.StatusCheckedOut},
		{model.StatusCheckedOut, model.StatusAvailable},
		{model.StatusAvailable, model.StatusArchived},
		{model.StatusArchived, model.StatusAvailable},
	}

	for _, s := range steps {
		if err := Validate(s.from, s.to); err != nil {
			t.Errorf("%s → %s: неожиданная ошибка: %v", s.from, s.to, err)
		}
	}
}
