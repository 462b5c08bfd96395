package service

import (
	"context"
	"testing"
	"time"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
)

// TestOverdueSweeper_MarksInBackground — фоновый проход помечает
// просроченные выдачи в хранилище.
func TestOverdueSweeper_MarksInBackground(t *testing.T) {
	env := newTestEnv(t)
	env.setClocks(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	sweeper := NewOverdueSweeper(env.ledger, 10*time.Millisecond, testLogger())
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for {
		stored, err := env.issues.GetByID(context.Background(), "issue-2")
		if err != nil {
			t.Fatalf("неожиданная ошибка чтения выдачи: %v", err)
		}
		if stored.Status == model.IssueStatusOverdue {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("выдача не помечена за 2s, статус %s", stored.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// TestOverdueSweeper_StopWaits — Stop дожидается завершения горутины
// и безопасен при повторном вызове.
func TestOverdueSweeper_StopWaits(t *testing.T) {
	env := newTestEnv(t)

	sweeper := NewOverdueSweeper(env.ledger, time.Hour, testLogger())
	sweeper.Start(context.Background())

	done := make(chan struct{})
	go func() {
		sweeper.Stop()
		sweeper.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop не завершился за 2s")
	}
}
