package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweepable - то, что умеет удалять устаревшие записи
type Sweepable interface {
	Sweep() int
	Count() int
}

// SweepTarget - именованный объект для периодической чистки
type SweepTarget struct {
	Name  string
	Store Sweepable
}

// Sweeper периодически удаляет брошенные диалоги и простаивающие лимитеры
type Sweeper struct {
	targets  []SweepTarget
	interval time.Duration
	logger   *zap.Logger
}

// NewSweeper создаёт новый чистильщик
func NewSweeper(interval time.Duration, logger *zap.Logger, targets ...SweepTarget) *Sweeper {
	return &Sweeper{
		targets:  targets,
		interval: interval,
		logger:   logger,
	}
}

// Run работает до отмены ctx. Возвращает nil при штатной остановке.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info("Starting sweeper", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-ctx.Done():
			s.logger.Info("Sweeper stopped")
			return nil
		}
	}
}

func (s *Sweeper) sweep() {
	for _, target := range s.targets {
		removed := target.Store.Sweep()
		if removed == 0 {
			continue
		}

		s.logger.Info("Stale entries removed",
			zap.String("target", target.Name),
			zap.Int("removed", removed),
			zap.Int("active", target.Store.Count()),
		)
	}
}
