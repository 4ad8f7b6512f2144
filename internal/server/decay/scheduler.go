// Package decay runs the recurring pass that pulls every station's signal
// back toward the baseline.
package decay

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/lanternhq/lanternhack/internal/common"
	"github.com/lanternhq/lanternhack/internal/logging"
	"github.com/lanternhq/lanternhack/internal/server/config"
	"github.com/lanternhq/lanternhack/internal/server/metrics"
	"github.com/lanternhq/lanternhack/internal/server/repositories/repomanager"
	"github.com/lanternhq/lanternhack/internal/server/telemetry"
)

// Scheduler owns the single recurring decay tick. One tick moves every
// active station whose signal differs from the baseline by exactly one unit
// toward it; with unit steps an overshoot past the baseline is impossible.
type Scheduler struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	notifier telemetry.Notifier
	logger   logging.Logger

	baseline int64
	interval time.Duration
}

func NewScheduler(db *sql.DB, repos repomanager.RepositoryManager, notifier telemetry.Notifier,
	logger logging.Logger, cfg *config.Config) *Scheduler {
	return &Scheduler{
		db:       db,
		repos:    repos,
		notifier: notifier,
		logger:   logger.With("module", "decay_scheduler"),
		baseline: cfg.SignalBaseline,
		interval: cfg.DecayTickInterval,
	}
}

// Run blocks, executing one Tick per interval until ctx is cancelled.
// A failed tick is logged and the schedule continues.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "decay scheduler started", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "decay scheduler stopped")
			return nil
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Error(ctx, "decay tick failed", "error", err)
			}
		}
	}
}

// Tick performs one decay pass. Per-station write failures are logged and
// skipped so one broken row cannot stall the rest of the pass.
func (s *Scheduler) Tick(ctx context.Context) error {
	repo := s.repos.Stations(s.db)

	list, err := repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: reading stations: %v", common.ErrStorage, err)
	}

	adjusted := 0
	for _, station := range list {
		if !station.IsActive || station.SignalValue == s.baseline {
			continue
		}

		next := station.SignalValue
		if next > s.baseline {
			next--
		} else {
			next++
		}

		if err := repo.UpdateSignal(ctx, station.ID, next); err != nil {
			s.logger.Warn(ctx, "decay update failed", "station_id", station.ID, "error", err)
			continue
		}

		metrics.StationSignal.WithLabelValues(strconv.FormatInt(station.ID, 10)).Set(float64(next))
		metrics.StationsDecayed.Inc()
		adjusted++

		if err := s.notifier.NotifyBoost(ctx, station.ID, next); err != nil {
			s.logger.Warn(ctx, "telemetry notification failed", "station_id", station.ID, "error", err)
		}
	}

	metrics.DecayTicks.Inc()
	if adjusted > 0 {
		s.logger.Debug(ctx, "decay tick complete", "adjusted", adjusted)
	}
	return nil
}
