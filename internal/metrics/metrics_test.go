package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveParse(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveParse("split", OutcomeSuccess, 2048, 500, 20*time.Millisecond)
	m.ObserveParse("split", OutcomeSuccess, 1024, 0, time.Millisecond)
	m.ObserveParse("combined", "parse_error", 512, 0, time.Millisecond)

	if got := testutil.ToFloat64(m.ParsesTotal.WithLabelValues("split", OutcomeSuccess)); got != 2 {
		t.Fatalf("expected 2 successful split parses, got %f", got)
	}
	if got := testutil.ToFloat64(m.ParsesTotal.WithLabelValues("combined", "parse_error")); got != 1 {
		t.Fatalf("expected 1 combined parse error, got %f", got)
	}
	if got := testutil.ToFloat64(m.SamplesDecoded); got != 500 {
		t.Fatalf("expected 500 samples, got %f", got)
	}
	if samples := testutil.CollectAndCount(m.ParseDuration); samples != 1 {
		t.Fatalf("expected duration histogram to be collected once, got %d", samples)
	}
}

func TestObserveDownloadAndPersist(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveDownload(nil)
	m.ObserveDownload(errors.New("no such key"))
	m.ObserveDownload(errors.New("timeout"))
	m.ObservePersistFailure()

	if got := testutil.ToFloat64(m.StorageDownloads.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 ok download, got %f", got)
	}
	if got := testutil.ToFloat64(m.StorageDownloads.WithLabelValues("error")); got != 2 {
		t.Fatalf("expected 2 failed downloads, got %f", got)
	}
	if got := testutil.ToFloat64(m.PersistFailures); got != 1 {
		t.Fatalf("expected 1 persist failure, got %f", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveParse("split", OutcomeSuccess, 1, 1, time.Millisecond)
	m.ObserveDownload(nil)
	m.ObservePersistFailure()
}
