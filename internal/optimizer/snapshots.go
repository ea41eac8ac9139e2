package optimizer

import (
	"sync"
	"time"
)

// PerformanceMetric names one measured execution dimension.
type PerformanceMetric string

const (
	MetricExecutionTime PerformanceMetric = "execution_time"
	MetricGasCost       PerformanceMetric = "gas_cost"
	MetricSlippage      PerformanceMetric = "slippage"
	MetricProfitLoss    PerformanceMetric = "profit_loss"
	MetricOverallScore  PerformanceMetric = "overall_score"
)

// PerformanceSnapshot is one time-series sample. Snapshots are never
// mutated after creation.
type PerformanceSnapshot struct {
	Timestamp time.Time         `json:"timestamp"`
	Metric    PerformanceMetric `json:"metric"`
	Value     float64           `json:"value"`
	Context   map[string]string `json:"context,omitempty"`
}

// snapshotStore is a bounded append-only sample store with an explicit
// eviction policy: when the store exceeds cap, it is trimmed to the
// most recent keep entries.
type snapshotStore struct {
	mu   sync.RWMutex
	data []PerformanceSnapshot
	cap  int
	keep int
}

func newSnapshotStore(capacity, keep int) *snapshotStore {
	if keep > capacity {
		keep = capacity
	}
	return &snapshotStore{cap: capacity, keep: keep}
}

func (s *snapshotStore) Append(snap PerformanceSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append(s.data, snap)
	if len(s.data) > s.cap {
		trimmed := make([]PerformanceSnapshot, s.keep)
		copy(trimmed, s.data[len(s.data)-s.keep:])
		s.data = trimmed
	}
}

// Since returns all snapshots taken at or after cutoff.
func (s *snapshotStore) Since(cutoff time.Time) []PerformanceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]PerformanceSnapshot, 0, len(s.data))
	for _, snap := range s.data {
		if !snap.Timestamp.Before(cutoff) {
			out = append(out, snap)
		}
	}
	return out
}

func (s *snapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
