// Package models holds the persistent domain records of the hacking
// subsystem: stations, the account identities attached to them, and the
// per-user hack session.
package models

// Station is a contested world resource with a bounded numeric signal value.
// Stations are created at world-population time and never deleted during
// normal operation; only the signal engine, the decay scheduler, and the
// round reset mutate SignalValue.
type Station struct {
	ID          int64  `json:"station_id"`
	Name        string `json:"name"`
	IsActive    bool   `json:"is_active"`
	SignalValue int64  `json:"signal_value"`
}
