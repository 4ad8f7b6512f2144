// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Guess outcomes.
const (
	OutcomeWin       = "win"
	OutcomeMiss      = "miss"
	OutcomeExhausted = "exhausted"
	OutcomeError     = "error"
)

var (
	ChallengesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lanternhack",
		Name:      "challenges_issued_total",
		Help:      "Hack challenges handed out to players.",
	})

	Guesses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lanternhack",
		Name:      "guesses_total",
		Help:      "Guess submissions by outcome.",
	}, []string{"outcome"})

	DecayTicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lanternhack",
		Name:      "decay_ticks_total",
		Help:      "Completed decay scheduler passes.",
	})

	StationsDecayed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lanternhack",
		Name:      "stations_decayed_total",
		Help:      "Station signal adjustments made by the decay scheduler.",
	})

	StationSignal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "lanternhack",
		Name:      "station_signal_value",
		Help:      "Last persisted signal value per station.",
	}, []string{"station_id"})
)
