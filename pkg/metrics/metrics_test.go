package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCatalogInitialization(t *testing.T) {
	success := CatalogInitializations.WithLabelValues("metrics-test", StatusSuccess)
	failure := CatalogInitializations.WithLabelValues("metrics-test", StatusFailure)
	beforeOK := testutil.ToFloat64(success)
	beforeErr := testutil.ToFloat64(failure)

	ObserveCatalogInitialization("metrics-test", 10*time.Millisecond, nil)
	ObserveCatalogInitialization("metrics-test", 20*time.Millisecond, errors.New("unreachable"))

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(success))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(failure))
}

func TestObserveStorageCheck(t *testing.T) {
	failure := StorageChecks.WithLabelValues("metrics-test", StatusFailure)
	before := testutil.ToFloat64(failure)

	ObserveStorageCheck("metrics-test", errors.New("access denied"))

	assert.Equal(t, before+1, testutil.ToFloat64(failure))
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	assert.GreaterOrEqual(t, timer.Elapsed(), time.Duration(0))
}
