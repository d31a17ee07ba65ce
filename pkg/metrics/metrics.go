// Package metrics exposes Prometheus metrics for catalog and storage setup.
//
// Catalog initialization is the one step of a destination job that talks to
// a remote service, so every attempt is counted and timed:
//
//	timer := metrics.NewTimer()
//	cat, err := initializer.Initialize(ctx, name, props)
//	metrics.ObserveCatalogInitialization("nessie", timer.Elapsed(), err)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	// CatalogInitializations counts catalog client initializations.
	// Labels: catalog_type, status (success/failure)
	CatalogInitializations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nebula_catalog_initializations_total",
			Help: "Total number of catalog client initializations",
		},
		[]string{"catalog_type", "status"},
	)

	// CatalogInitializationDuration tracks how long catalog initialization takes
	CatalogInitializationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nebula_catalog_initialization_duration_seconds",
			Help:    "Catalog client initialization duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"catalog_type"},
	)

	// StorageChecks counts storage connectivity checks.
	// Labels: storage_type, status (success/failure)
	StorageChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nebula_storage_checks_total",
			Help: "Total number of storage connectivity checks",
		},
		[]string{"storage_type", "status"},
	)
)

// Timer measures elapsed wall time
type Timer struct {
	start time.Time
}

// NewTimer starts a timer
func NewTimer() Timer {
	return Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started
func (t Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// ObserveCatalogInitialization records the outcome of one initialization
func ObserveCatalogInitialization(catalogType string, elapsed time.Duration, err error) {
	CatalogInitializations.WithLabelValues(catalogType, status(err)).Inc()
	CatalogInitializationDuration.WithLabelValues(catalogType).Observe(elapsed.Seconds())
}

// ObserveStorageCheck records the outcome of one storage check
func ObserveStorageCheck(storageType string, err error) {
	StorageChecks.WithLabelValues(storageType, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}
