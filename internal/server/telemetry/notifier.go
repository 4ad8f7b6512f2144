// Package telemetry delivers best-effort signal-change notifications.
// Sinks must never block an authoritative state change: callers log a
// delivery error and move on.
package telemetry

import (
	"context"
	"errors"
)

// Notifier receives a station's new signal value after it has been
// persisted. Implementations must be safe for concurrent use.
type Notifier interface {
	NotifyBoost(ctx context.Context, stationID int64, value int64) error
}

// Multi fans one notification out to several sinks. Every sink is attempted;
// the errors are joined.
type Multi []Notifier

func (m Multi) NotifyBoost(ctx context.Context, stationID int64, value int64) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyBoost(ctx, stationID, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards notifications. Used when no telemetry endpoint is configured
// and in tests.
type Nop struct{}

func (Nop) NotifyBoost(ctx context.Context, stationID int64, value int64) error { return nil }
