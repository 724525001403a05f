package input

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// Metrics tracks key processing. Each Metrics owns its own metric set so
// several handlers can run in one process.
type Metrics struct {
	set *metrics.Set

	keysTotal    *metrics.Counter
	pending      *metrics.Counter
	executed     *metrics.Counter
	aborted      *metrics.Counter
	failed       *metrics.Counter
	consumed     *metrics.Counter
	modeSwitches *metrics.Counter
	macroKeys    *metrics.Counter

	keyDuration *metrics.Histogram

	enabled atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	set := metrics.NewSet()
	m := &Metrics{
		set:          set,
		keysTotal:    set.NewCounter(`modalkeys_keys_total`),
		pending:      set.NewCounter(`modalkeys_key_outcomes_total{outcome="pending"}`),
		executed:     set.NewCounter(`modalkeys_key_outcomes_total{outcome="executed"}`),
		aborted:      set.NewCounter(`modalkeys_key_outcomes_total{outcome="aborted"}`),
		failed:       set.NewCounter(`modalkeys_key_outcomes_total{outcome="failed"}`),
		consumed:     set.NewCounter(`modalkeys_key_outcomes_total{outcome="consumed"}`),
		modeSwitches: set.NewCounter(`modalkeys_mode_switches_total`),
		macroKeys:    set.NewCounter(`modalkeys_macro_keys_total`),
		keyDuration:  set.NewHistogram(`modalkeys_key_duration_seconds`),
	}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether metrics collection is enabled.
func (m *Metrics) IsEnabled() bool {
	return m != nil && m.enabled.Load()
}

// recordKey records one processed key, its outcome and how long it took.
func (m *Metrics) recordKey(status OutcomeStatus, start time.Time) {
	if !m.IsEnabled() {
		return
	}
	m.keysTotal.Inc()
	switch status {
	case Pending:
		m.pending.Inc()
	case Executed:
		m.executed.Inc()
	case Aborted:
		m.aborted.Inc()
	case Failed:
		m.failed.Inc()
	case Consumed:
		m.consumed.Inc()
	}
	m.keyDuration.UpdateDuration(start)
}

func (m *Metrics) recordModeSwitch() {
	if m.IsEnabled() {
		m.modeSwitches.Inc()
	}
}

func (m *Metrics) recordMacroKey() {
	if m.IsEnabled() {
		m.macroKeys.Inc()
	}
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Keys         uint64
	Pending      uint64
	Executed     uint64
	Aborted      uint64
	Failed       uint64
	Consumed     uint64
	ModeSwitches uint64
	MacroKeys    uint64
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Keys:         m.keysTotal.Get(),
		Pending:      m.pending.Get(),
		Executed:     m.executed.Get(),
		Aborted:      m.aborted.Get(),
		Failed:       m.failed.Get(),
		Consumed:     m.consumed.Get(),
		ModeSwitches: m.modeSwitches.Get(),
		MacroKeys:    m.macroKeys.Get(),
	}
}

// WritePrometheus writes all metrics in Prometheus text format.
func (m *Metrics) WritePrometheus(w io.Writer) {
	if m != nil {
		m.set.WritePrometheus(w)
	}
}
