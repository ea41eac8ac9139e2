package optimizer

import (
	"math"
	"sort"
	"time"
)

const reportWindow = 24 * time.Hour

// MetricSummary aggregates one metric over the report window.
type MetricSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Stdev  float64 `json:"stdev"`
}

// Report is the aggregated view over recent snapshots. Status is
// "no_data" when no snapshots have been collected yet; that is a
// sentinel, not an error.
type Report struct {
	Status      string                              `json:"status"`
	Level       OptimizationLevel                   `json:"level"`
	WindowHours float64                             `json:"window_hours"`
	Samples     int                                 `json:"samples"`
	Metrics     map[PerformanceMetric]MetricSummary `json:"metrics,omitempty"`
	GeneratedAt time.Time                           `json:"generated_at"`
}

// GetPerformanceReport aggregates snapshots from the last 24 hours,
// grouped by metric type.
func (o *TradingPerformanceOptimizer) GetPerformanceReport() Report {
	now := time.Now()
	report := Report{
		Status:      "ok",
		Level:       o.level,
		WindowHours: reportWindow.Hours(),
		GeneratedAt: now,
	}

	snaps := o.snapshots.Since(now.Add(-reportWindow))
	if len(snaps) == 0 {
		report.Status = "no_data"
		return report
	}

	grouped := make(map[PerformanceMetric][]float64)
	for _, snap := range snaps {
		grouped[snap.Metric] = append(grouped[snap.Metric], snap.Value)
	}

	report.Samples = len(snaps)
	report.Metrics = make(map[PerformanceMetric]MetricSummary, len(grouped))
	for metric, values := range grouped {
		report.Metrics[metric] = summarize(values)
	}
	return report
}

func summarize(values []float64) MetricSummary {
	s := MetricSummary{
		Count: len(values),
		Min:   values[0],
		Max:   values[0],
	}
	for _, v := range values {
		s.Mean += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean /= float64(len(values))
	s.Median = median(values)
	s.Stdev = stdev(values, s.Mean)
	return s
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stdev is the sample standard deviation; zero for fewer than two values.
func stdev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
