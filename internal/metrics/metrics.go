// Package metrics exposes game counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jyokai"

var (
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Sessions created.",
	})
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Sessions currently held in memory.",
	})
	SceneStarts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scene_starts_total",
		Help:      "Scene constructions by scene name.",
	}, []string{"scene"})
	TrialCompletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trial_completions_total",
		Help:      "Completed trials by scene name.",
	}, []string{"scene"})
	Inputs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inputs_total",
		Help:      "Player inputs by kind.",
	}, []string{"kind"})
	BusEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bus_events_total",
		Help:      "Events emitted on session buses by channel.",
	}, []string{"channel"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
