// Package signal implements the engine that moves a station's signal value
// in response to a successful hack.
package signal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/lanternhq/lanternhack/internal/common"
	"github.com/lanternhq/lanternhack/internal/logging"
	"github.com/lanternhq/lanternhack/internal/server/metrics"
	"github.com/lanternhq/lanternhack/internal/server/repositories/repomanager"
	"github.com/lanternhq/lanternhack/internal/server/telemetry"
)

// Params are the world constants of the signal model.
type Params struct {
	Baseline         int64
	Threshold        int64
	ChangePercentage float64
	MaxStepChange    int64
}

// Engine reads a station's current signal, computes the boosted or cut
// value, persists it, and emits telemetry. Telemetry is best-effort; only
// the persistence write can fail the operation.
type Engine struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	notifier telemetry.Notifier
	logger   logging.Logger
	params   Params
}

func NewEngine(db *sql.DB, repos repomanager.RepositoryManager, notifier telemetry.Notifier, logger logging.Logger, params Params) *Engine {
	return &Engine{
		db:       db,
		repos:    repos,
		notifier: notifier,
		logger:   logger.With("module", "signal_engine"),
		params:   params,
	}
}

// Apply moves the station's signal one step in the requested direction and
// returns the new value. Unknown stations yield common.ErrNotFound;
// persistence failures yield common.ErrStorage.
func (e *Engine) Apply(ctx context.Context, stationID int64, boosting bool) (int64, error) {
	repo := e.repos.Stations(e.db)

	station, err := repo.GetByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("%w: reading station %d: %v", common.ErrStorage, stationID, err)
	}

	next := NextValue(station.SignalValue, boosting, e.params)

	if err := repo.UpdateSignal(ctx, stationID, next); err != nil {
		return 0, fmt.Errorf("%w: updating station %d: %v", common.ErrStorage, stationID, err)
	}

	metrics.StationSignal.WithLabelValues(strconv.FormatInt(stationID, 10)).Set(float64(next))

	// Telemetry runs after the write and never rolls it back.
	if err := e.notifier.NotifyBoost(ctx, stationID, next); err != nil {
		e.logger.Warn(ctx, "telemetry notification failed", "station_id", stationID, "error", err)
	}

	return next, nil
}

// WithinBounds reports whether a signal value satisfies the clamp invariant.
func (p Params) WithinBounds(value int64) bool {
	return value >= p.Baseline-p.Threshold && value <= p.Baseline+p.Threshold
}

// NextValue computes the boosted or cut signal value.
//
// The step is proportional to how close the signal already is to its bound:
// step = (threshold - |value - baseline|) * changePercentage. When the
// requested direction pushes the value back toward the baseline from the
// wrong side (boosting below the baseline, cutting above it), the step is
// overridden with the fixed maximum so a contested station snaps back
// quickly once the neutral point is crossed. The result is rounded up and
// clamped to [baseline-threshold, baseline+threshold].
func NextValue(current int64, boosting bool, p Params) int64 {
	difference := current - p.Baseline
	if difference < 0 {
		difference = -difference
	}

	step := float64(p.Threshold-difference) * p.ChangePercentage

	wrongSide := (boosting && current < p.Baseline) || (!boosting && current > p.Baseline)
	if wrongSide {
		step = float64(p.MaxStepChange)
	}

	var raw float64
	if boosting {
		raw = float64(current) + step
	} else {
		raw = float64(current) - step
	}

	next := int64(math.Ceil(raw))

	if min := p.Baseline - p.Threshold; next < min {
		next = min
	}
	if max := p.Baseline + p.Threshold; next > max {
		next = max
	}

	return next
}
