package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/bigkaa/filetrack/registry-module/internal/repository"
)

// testEnv — репозитории и сервисы поверх seed-данных.
type testEnv struct {
	seed     *repository.SeedData
	files    repository.FileRepository
	issues   repository.IssueRepository
	history  repository.LocationHistoryRepository
	requests repository.RequestRepository

	registry *FileRegistryService
	tracker  *LocationTrackerService
	ledger   *IssueLedgerService
	queue    *RequestQueueService
}

// testNow — «текущее» время тестов: после seed-данных (январь 2024),
// но до истечения сроков возврата seed-выдач (21.01 и 18.01).
var testNow = time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC)

// newTestEnv собирает полный сервисный слой поверх seed-данных
// с фиксированными часами testNow.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		seed:     repository.Seed(),
		files:    repository.NewFileRepository(),
		issues:   repository.NewIssueRepository(),
		history:  repository.NewLocationHistoryRepository(),
		requests: repository.NewRequestRepository(),
	}

	if err := env.seed.Apply(context.Background(), env.files, env.issues, env.history, env.requests); err != nil {
		t.Fatalf("не удалось применить seed-данные: %v", err)
	}

	logger := testLogger()
	env.registry = NewFileRegistryService(env.files, logger)
	env.tracker = NewLocationTrackerService(env.history, env.registry, logger)
	env.ledger = NewIssueLedgerService(env.issues, env.registry, env.tracker, logger)
	env.queue = NewRequestQueueService(env.requests, 0, logger)

	clock := func() time.Time { return testNow }
	env.registry.SetClock(clock)
	env.tracker.SetClock(clock)
	env.ledger.SetClock(clock)
	env.queue.SetClock(clock)

	return env
}

// setClocks подменяет часы всех сервисов окружения.
func (e *testEnv) setClocks(now time.Time) {
	clock := func() time.Time { return now }
	e.registry.SetClock(clock)
	e.tracker.SetClock(clock)
	e.ledger.SetClock(clock)
	e.queue.SetClock(clock)
}

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
