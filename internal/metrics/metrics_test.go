package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowProcessed(t *testing.T) {
	m := getMetrics()
	before := testutil.ToFloat64(m.rowsTotal.WithLabelValues(ResultFailed))
	RowProcessed(ResultFailed, 3*time.Millisecond)
	RowProcessed(ResultFailed, 4*time.Millisecond)
	assert.Equal(t, before+2, testutil.ToFloat64(m.rowsTotal.WithLabelValues(ResultFailed)))
}

func TestJobLifecycle(t *testing.T) {
	m := getMetrics()
	running := testutil.ToFloat64(m.jobsRunning)
	completed := testutil.ToFloat64(m.jobsTotal.WithLabelValues("COMPLETED"))

	JobStarted()
	assert.Equal(t, running+1, testutil.ToFloat64(m.jobsRunning))
	JobFinished("COMPLETED", time.Second)
	assert.Equal(t, running, testutil.ToFloat64(m.jobsRunning))
	assert.Equal(t, completed+1, testutil.ToFloat64(m.jobsTotal.WithLabelValues("COMPLETED")))
}

func TestGauges(t *testing.T) {
	QueueDepth(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(getMetrics().queueDepth))
	ReferenceEntries("designation", 12)
	assert.Equal(t, 12.0, testutil.ToFloat64(getMetrics().referenceLen.WithLabelValues("designation")))
}

func TestHandler(t *testing.T) {
	RowProcessed(ResultCommitted, time.Millisecond)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "bulk_import_rows_total"))
}
