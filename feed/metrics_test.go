package feed

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/onnwee/feedrank/ranking"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	if m == nil {
		t.Fatal("NewMetrics() returned nil")
	}

	// Verify all collectors are initialized
	collectors := m.Collectors()
	if len(collectors) != 5 {
		t.Errorf("expected 5 collectors, got %d", len(collectors))
	}
}

func TestMetrics_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		m := NewMetrics()
		reg := prometheus.NewRegistry()

		if err := m.Register(reg); err != nil {
			t.Errorf("Register() returned error: %v", err)
		}

		// CounterVecs with no observations are not gathered; touch the
		// strategy counter so every family shows up.
		m.ObserveRequest(string(ranking.StrategyHeuristic), 0.01, 30)

		families, err := reg.Gather()
		if err != nil {
			t.Errorf("Gather() returned error: %v", err)
		}

		expectedNames := map[string]bool{
			MetricRankRequestsTotal:  false,
			MetricRankStrategyTotal:  false,
			MetricRankDuration:       false,
			MetricViewLogErrorsTotal: false,
			MetricLastCandidateCount: false,
		}

		for _, family := range families {
			if _, ok := expectedNames[family.GetName()]; ok {
				expectedNames[family.GetName()] = true
			}
		}

		for name, found := range expectedNames {
			if !found {
				t.Errorf("metric %s not found in gathered metrics", name)
			}
		}
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		m1 := NewMetrics()
		m2 := NewMetrics()
		reg := prometheus.NewRegistry()

		if err := m1.Register(reg); err != nil {
			t.Fatalf("first Register() returned error: %v", err)
		}

		if err := m2.Register(reg); err == nil {
			t.Error("second Register() should have returned an error")
		}
	})
}

func getCounterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.(prometheus.Metric).Write(&m); err != nil {
		return -1
	}
	return m.GetCounter().GetValue()
}

func getGaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	if err := g.(prometheus.Metric).Write(&m); err != nil {
		return -1
	}
	return m.GetGauge().GetValue()
}

func getHistogramSampleCount(h prometheus.Histogram) uint64 {
	var m dto.Metric
	if err := h.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := NewMetrics()

	if v := getCounterValue(m.rankRequestsTotal); v != 0 {
		t.Errorf("initial request count = %f, want 0", v)
	}

	for i := 0; i < 20; i++ {
		m.ObserveRequest(string(ranking.StrategyHeuristic), 0.005, 30)
	}
	for i := 0; i < 5; i++ {
		m.ObserveRequest(string(ranking.StrategyHybrid), 0.05, 120)
	}

	if v := getCounterValue(m.rankRequestsTotal); v != 25 {
		t.Errorf("request count = %f, want 25", v)
	}

	heuristic := m.rankStrategyTotal.WithLabelValues(string(ranking.StrategyHeuristic))
	if v := getCounterValue(heuristic); v != 20 {
		t.Errorf("heuristic strategy count = %f, want 20", v)
	}
	hybrid := m.rankStrategyTotal.WithLabelValues(string(ranking.StrategyHybrid))
	if v := getCounterValue(hybrid); v != 5 {
		t.Errorf("hybrid strategy count = %f, want 5", v)
	}

	if c := getHistogramSampleCount(m.rankDuration); c != 25 {
		t.Errorf("duration sample count = %d, want 25", c)
	}

	// Gauge holds the most recent candidate pool size.
	if v := getGaugeValue(m.lastCandidateCount); v != 120 {
		t.Errorf("last candidate count = %f, want 120", v)
	}
}

func TestMetrics_RecordViewLogError(t *testing.T) {
	m := NewMetrics()

	if v := getCounterValue(m.viewLogErrorsTotal); v != 0 {
		t.Errorf("initial value = %f, want 0", v)
	}

	for i := 0; i < 7; i++ {
		m.RecordViewLogError()
	}

	if v := getCounterValue(m.viewLogErrorsTotal); v != 7 {
		t.Errorf("final value = %f, want 7", v)
	}
}

func TestMetrics_Concurrency(t *testing.T) {
	m := NewMetrics()
	done := make(chan bool)
	iterations := 100

	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < iterations; j++ {
				m.ObserveRequest(string(ranking.StrategyHybrid), 0.01, j)
				m.RecordViewLogError()
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	expected := float64(10 * iterations)

	if v := getCounterValue(m.rankRequestsTotal); v != expected {
		t.Errorf("rankRequestsTotal = %f, want %f", v, expected)
	}
	if v := getCounterValue(m.viewLogErrorsTotal); v != expected {
		t.Errorf("viewLogErrorsTotal = %f, want %f", v, expected)
	}
	if c := getHistogramSampleCount(m.rankDuration); c != uint64(10*iterations) {
		t.Errorf("rankDuration sample count = %d, want %d", c, 10*iterations)
	}

	// Gauge value is the last write and non-deterministic here, just
	// verify it is in range.
	if v := getGaugeValue(m.lastCandidateCount); v < 0 || v >= float64(iterations) {
		t.Errorf("lastCandidateCount = %f, want within [0, %d)", v, iterations)
	}
}
