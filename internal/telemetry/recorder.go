// Package telemetry implements the event sink the reconciliation services
// emit into: every event is logged structurally and counted in Prometheus.
package telemetry

import (
	"sort"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Recorder implements usecase.EventSink. Safe for concurrent use; both
// zap and prometheus tolerate concurrent callers.
type Recorder struct {
	log    *zap.Logger
	events *prometheus.CounterVec
	stats  *prometheus.GaugeVec
}

// NewRecorder registers the reconciliation metrics with reg and returns
// the sink.
func NewRecorder(log *zap.Logger, reg prometheus.Registerer) *Recorder {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconciliation_events_total",
		Help: "Telemetry events emitted by reconciliation runs, by event name.",
	}, []string{"event"})
	stats := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "reconciliation_report_stat",
		Help: "Numeric attributes of the most recent report event, by event name and attribute.",
	}, []string{"event", "stat"})
	reg.MustRegister(events, stats)
	return &Recorder{
		log:    log.With(zap.String("component", "telemetry")),
		events: events,
		stats:  stats,
	}
}

// Emit logs the event and bumps its counter. Numeric attributes are also
// exported as gauges so report counts show up on dashboards without any
// extra wiring. Fire-and-forget: Emit never fails.
func (r *Recorder) Emit(name string, attributes map[string]string) {
	keys := make([]string, 0, len(attributes))
	for k := range attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys)+1)
	fields = append(fields, zap.String("event", name))
	for _, k := range keys {
		fields = append(fields, zap.String(k, attributes[k]))
	}
	r.log.Info("event", fields...)

	r.events.WithLabelValues(name).Inc()
	for _, k := range keys {
		if v, err := strconv.ParseFloat(attributes[k], 64); err == nil {
			r.stats.WithLabelValues(name, k).Set(v)
		}
	}
}
