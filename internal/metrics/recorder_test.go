package metrics

import (
	"sync"
	"time"
)

// testRecorder counts calls per label.
type testRecorder struct {
	mu             sync.Mutex
	stageDurations map[string]int
	localeResults  map[string]map[ResultLabel]int
	renders        map[string]bool
	runDurations   int
	runOutcomes    map[string]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		localeResults:  map[string]map[ResultLabel]int{},
		renders:        map[string]bool{},
		runOutcomes:    map[string]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stageDurations[stage]++
}

func (t *testRecorder) IncLocaleResult(locale string, result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.localeResults[locale]
	if !ok {
		m = map[ResultLabel]int{}
		t.localeResults[locale] = m
	}
	m[result]++
}

func (t *testRecorder) ObserveRenderDuration(locale string, _ time.Duration, success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renders[locale] = success
}

func (t *testRecorder) ObserveRunDuration(time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runDurations++
}

func (t *testRecorder) IncRunOutcome(outcome string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runOutcomes[outcome]++
}

var (
	_ Recorder = (*testRecorder)(nil)
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)
