package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/histograms for the extraction and
// synthesis pipelines.
type PipelineMetrics struct {
	extractionsTotal  *prometheus.CounterVec
	phiWarningsTotal  *prometheus.CounterVec
	completionLatency *prometheus.HistogramVec
	selfPlayRounds    prometheus.Histogram
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		extractionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reflectcare",
			Subsystem: "pipeline",
			Name:      "extractions_total",
			Help:      "Total extraction attempts by processing method and outcome",
		}, []string{"method", "status"}),
		phiWarningsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reflectcare",
			Subsystem: "pipeline",
			Name:      "phi_warnings_total",
			Help:      "Total advisory PHI warnings by category",
		}, []string{"type"}),
		completionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reflectcare",
			Subsystem: "pipeline",
			Name:      "completion_latency_seconds",
			Help:      "Latency of external completion calls per pipeline",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"pipeline"}),
		selfPlayRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "reflectcare",
			Subsystem: "pipeline",
			Name:      "selfplay_rounds",
			Help:      "Completed self-play rounds per session",
			Buckets:   []float64{1, 2, 3, 4, 5, 8, 10},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.extractionsTotal, m.phiWarningsTotal, m.completionLatency, m.selfPlayRounds)
	return m
}

func (m *PipelineMetrics) ObserveExtraction(method, status string) {
	if m == nil {
		return
	}
	m.extractionsTotal.WithLabelValues(method, status).Inc()
}

func (m *PipelineMetrics) ObservePHIWarning(warningType string) {
	if m == nil {
		return
	}
	m.phiWarningsTotal.WithLabelValues(warningType).Inc()
}

func (m *PipelineMetrics) ObserveCompletionLatency(pipeline string, seconds float64) {
	if m == nil {
		return
	}
	m.completionLatency.WithLabelValues(pipeline).Observe(seconds)
}

func (m *PipelineMetrics) ObserveSelfPlayRounds(rounds int) {
	if m == nil {
		return
	}
	m.selfPlayRounds.Observe(float64(rounds))
}
