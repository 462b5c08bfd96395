// overdue_sweeper.go — фоновая пометка просроченных выдач.
//
// OverdueSweeper запускает горутину с ticker (RM_OVERDUE_SWEEP_INTERVAL),
// которая переводит issued-выдачи с истёкшим expectedReturnDate в
// overdue. Чтение списка выдач и так вычисляет overdue на лету, sweeper
// лишь фиксирует статус в хранилище и пишет предупреждения в лог.
package service

import (
	"context"
	"log/slog"
	"time"
)

// OverdueSweeper — фоновый сервис пометки просроченных выдач.
type OverdueSweeper struct {
	ledger   *IssueLedgerService
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewOverdueSweeper создаёт сервис пометки просроченных выдач.
func NewOverdueSweeper(ledger *IssueLedgerService, interval time.Duration, logger *slog.Logger) *OverdueSweeper {
	return &OverdueSweeper{
		ledger:   ledger,
		interval: interval,
		logger:   logger.With(slog.String("component", "overdue_sweeper")),
	}
}

// Start запускает фоновую горутину. Вызывается один раз при старте
// приложения.
func (s *OverdueSweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		s.logger.Info("Фоновая пометка просроченных выдач запущена",
			slog.String("interval", s.interval.String()),
		)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Фоновая пометка просроченных выдач остановлена")
				return
			case <-ticker.C:
				marked, err := s.ledger.MarkOverdue(ctx)
				if err != nil {
					s.logger.Error("Ошибка пометки просроченных выдач", slog.String("error", err.Error()))
					continue
				}
				if marked > 0 {
					s.logger.Info("Просроченные выдачи помечены", slog.Int("count", marked))
				}
			}
		}
	}()
}

// Stop останавливает фоновую горутину и ждёт завершения.
func (s *OverdueSweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
}
