package persistence

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacemeshos/vdf/event"
	"github.com/spacemeshos/vdf/stats"
)

const metricsNamespace = "vdf"

// MetricsSink exports the records of a run as Prometheus metrics.
type MetricsSink struct {
	evalSeconds   prometheus.Histogram
	verifySeconds prometheus.Histogram
	ticks         prometheus.Counter
	failures      prometheus.Counter
	proofBytes    prometheus.Gauge
	meanSeconds   prometheus.Gauge
}

// A compile time check to ensure that MetricsSink fully implements the Sink interface.
var _ Sink = (*MetricsSink)(nil)

// NewMetricsSink creates the sink's collectors and registers them with reg.
func NewMetricsSink(reg prometheus.Registerer) (*MetricsSink, error) {
	buckets := prometheus.ExponentialBuckets(0.001, 2, 16)
	s := &MetricsSink{
		evalSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "eval_seconds",
			Help:      "Duration of one evaluation, including the proof.",
			Buckets:   buckets,
		}),
		verifySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "verify_seconds",
			Help:      "Duration of one verification.",
			Buckets:   buckets,
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ticks_total",
			Help:      "Number of evaluated ticks.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "verify_failures_total",
			Help:      "Number of ticks whose proof did not verify.",
		}),
		proofBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "proof_size_bytes",
			Help:      "Size of the last proof.",
		}),
		meanSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "eval_mean_seconds",
			Help:      "Mean evaluation time of the run, excluding warm-up ticks.",
		}),
	}

	for _, c := range []prometheus.Collector{s.evalSeconds, s.verifySeconds, s.ticks, s.failures, s.proofBytes, s.meanSeconds} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MetricsSink) WriteEvent(ev *event.TimeUnitEvent) error {
	u := ev.Unit
	s.ticks.Inc()
	s.evalSeconds.Observe(time.Duration(u.DurationNs).Seconds())
	if u.VerifyTimeNs != nil {
		s.verifySeconds.Observe(time.Duration(*u.VerifyTimeNs).Seconds())
	}
	if u.ProofSizeBytes != nil {
		s.proofBytes.Set(float64(*u.ProofSizeBytes))
	}
	if !u.OK() {
		s.failures.Inc()
	}
	return nil
}

func (s *MetricsSink) WriteSummary(report *stats.Report) error {
	s.meanSeconds.Set(report.Summary.MeanNs / float64(time.Second))
	return nil
}

func (s *MetricsSink) Close() error {
	return nil
}
