package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sync outcomes used as the status label
const (
	StatusOK        = "ok"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
	StatusReconnect = "reconnect"
)

type Manager struct {
	// counters
	CounterSyncs              *prometheus.CounterVec
	CounterActivitiesUpserted prometheus.Counter
	CounterTokenRefreshes     *prometheus.CounterVec
	CounterRecommendations    prometheus.Counter

	// gauges
	GaugeChronicLoad prometheus.Gauge
	GaugeFTP         prometheus.Gauge

	// histograms
	HistSyncDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("ridecoach", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("ridecoach", "test", reg), reg
}

// NewRegistry returns a registry with the Go runtime and process collectors attached
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterSyncs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "syncs_total",
			Help:      "Activity syncs by outcome",
		}, []string{"status"}),
		CounterActivitiesUpserted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "activities_upserted_total",
			Help:      "Activities written to the store by sync and import",
		}),
		CounterTokenRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "token_refreshes_total",
			Help:      "Strava token refresh attempts by outcome",
		}, []string{"status"}),
		CounterRecommendations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "recommendations_generated_total",
			Help:      "Workout recommendations generated",
		}),
		GaugeChronicLoad: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chronic_training_load",
			Help:      "Chronic training load after the last sync",
		}),
		GaugeFTP: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ftp_watts",
			Help:      "Threshold power estimate after the last sync",
		}),
		HistSyncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sync_duration_seconds",
			Help:      "Duration of a full activity sync in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
