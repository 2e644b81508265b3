package metrics

import (
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
	pr.ObserveStageDuration("resolve", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncLocaleResult("fr", ResultSuccess)
	pr.IncLocaleResult("fr", ResultSuccess)
	pr.ObserveRenderDuration("fr", 2*time.Second, true)
	pr.IncRunOutcome(OutcomeSuccess)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.localeResults.WithLabelValues("fr", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.runOutcome.WithLabelValues("success")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(pr.renderDuration))
}

func TestPrometheusRecorder_NilRegistry(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	require.NotNil(t, pr.Registry())
	pr.IncRunOutcome(OutcomeFailed)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveStageDuration("resolve", time.Second)
	pr.IncLocaleResult("en", ResultFailed)
	pr.ObserveRenderDuration("en", time.Second, false)
	pr.ObserveRunDuration(time.Second)
	pr.IncRunOutcome(OutcomeCanceled)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncLocaleResult("de", ResultSkipped)
	pr.IncRunOutcome(OutcomeSuccess)

	path := filepath.Join(t.TempDir(), "cvlocalize.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `cvlocalize_locale_results_total{locale="de",result="skipped"} 1`), text)
	assert.Contains(t, text, "cvlocalize_last_run_timestamp_seconds")
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("x", time.Second)
	r.IncRunOutcome(OutcomeSuccess)
	rec := newTestRecorder()
	rec.IncLocaleResult("en", ResultSuccess)
	assert.Equal(t, 1, rec.localeResults["en"][ResultSuccess])
}
