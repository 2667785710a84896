package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterSessionsSaved       prometheus.Counter
	CounterSetsDiscarded       prometheus.Counter
	CounterExercisesCreated    prometheus.Counter
	CounterPersistenceFailures *prometheus.CounterVec

	// gauges
	GaugeActiveControllers prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("workout", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("workout", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterSessionsSaved := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_saved",
		Help:      "The total number of persisted workout sessions",
	})
	counterSetsDiscarded := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sets_discarded",
		Help:      "The total number of incomplete sets dropped at finalization",
	})
	counterExercisesCreated := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "exercises_created",
		Help:      "The total number of exercises added to the catalog",
	})
	counterPersistenceFailures := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persistence_failures",
		Help:      "The total number of failed persistence calls",
	}, []string{"op"})

	gaugeActiveControllers := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "active_controllers",
		Help:      "Current number of signed-in identities with a loaded controller",
	})

	histReqDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.0001, 0.0005, 0.001, 0.005, 0.01,
				0.05, 0.1, 0.5, 1, 5, 10,
			},
			Name: "request_duration_seconds",
			Help: "Total duration of requests in seconds",
		},
	)

	return &Manager{
		CounterRequests:            counterRequests,
		CounterSessionsSaved:       counterSessionsSaved,
		CounterSetsDiscarded:       counterSetsDiscarded,
		CounterExercisesCreated:    counterExercisesCreated,
		CounterPersistenceFailures: counterPersistenceFailures,
		GaugeActiveControllers:     gaugeActiveControllers,
		HistRequestDuration:        histReqDuration,
	}
}
