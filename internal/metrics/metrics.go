package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values besides the boundary error kinds
const (
	OutcomeSuccess = "success"
)

// Metrics holds the collectors of the parse service
type Metrics struct {
	ParsesTotal      *prometheus.CounterVec
	ParseDuration    prometheus.Histogram
	SamplesDecoded   prometheus.Counter
	InputBytes       prometheus.Histogram
	PersistFailures  prometheus.Counter
	StorageDownloads *prometheus.CounterVec
}

// New registers the collectors with reg. Passing prometheus.DefaultRegisterer
// exposes them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ParsesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "faultscope_parses_total",
			Help: "COMTRADE parse attempts by outcome.",
		}, []string{"shape", "outcome"}),
		ParseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "faultscope_parse_duration_seconds",
			Help:    "Time spent parsing and flattening one recording.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		SamplesDecoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "faultscope_samples_decoded_total",
			Help: "Samples returned in waveform snapshots.",
		}),
		InputBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "faultscope_input_bytes",
			Help:    "Size of the files submitted per parse.",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "faultscope_persist_failures_total",
			Help: "Parse records that could not be stored.",
		}),
		StorageDownloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "faultscope_storage_downloads_total",
			Help: "Object storage downloads by result.",
		}, []string{"result"}),
	}
}

// ObserveParse records one parse attempt
func (m *Metrics) ObserveParse(shape, outcome string, inputBytes int, samples int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ParsesTotal.WithLabelValues(shape, outcome).Inc()
	m.ParseDuration.Observe(elapsed.Seconds())
	m.InputBytes.Observe(float64(inputBytes))
	if samples > 0 {
		m.SamplesDecoded.Add(float64(samples))
	}
}

// ObserveDownload records one object storage download
func (m *Metrics) ObserveDownload(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.StorageDownloads.WithLabelValues(result).Inc()
}

// ObservePersistFailure counts a parse record that could not be stored
func (m *Metrics) ObservePersistFailure() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}
