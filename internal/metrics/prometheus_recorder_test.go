package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("stage_files", 150*time.Millisecond)
	pr.IncStageResult("stage_files", ResultSuccess)
	pr.ObserveRunDuration(2 * time.Second)
	pr.IncRunOutcome(OutcomeSuccess)
	pr.IncGeneratorResult("ios", false)
	pr.AddFilesStaged("ios", 4)
	pr.AddFilesStaged("ios", 0)
	pr.SetLastRunTimestamp(time.Unix(1700000000, 0))

	assert.Equal(t, 4.0, testutil.ToFloat64(pr.filesStaged.WithLabelValues("ios")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.generatorResult.WithLabelValues("ios", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.runOutcome.WithLabelValues("success")))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(pr.lastRun))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncRunOutcome(OutcomeFailed)
	pr.AddFilesStaged("unity", 1)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncRunOutcome(OutcomeWarning)

	path := filepath.Join(t.TempDir(), "doxycombine.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `doxycombine_run_outcomes_total{outcome="warning"} 1`)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncRunOutcome(OutcomeSuccess)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "doxycombine_run_outcomes_total"))
}
