package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePositionSize(t *testing.T) {
	s := NewRiskAdjustedSizer()

	tests := []struct {
		name      string
		riskScore float64
		max       float64
		expected  float64
	}{
		{"zero risk gets full size", 0, 0.1, 0.1},
		{"low risk", 1, 0.1, 0.09},
		{"mid risk", 5, 0.1, 0.05},
		{"high risk hits the floor", 9.5, 0.1, 0.01},
		{"max risk hits the floor", 10, 0.1, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := s.CalculatePositionSize(tt.riskScore, 0.8, tt.max)
			assert.InDelta(t, tt.expected, size, 1e-9)
		})
	}
}

func TestCalculatePositionSizeInvalidMax(t *testing.T) {
	s := NewRiskAdjustedSizer()
	assert.Zero(t, s.CalculatePositionSize(1, 0.8, 0))
	assert.Zero(t, s.CalculatePositionSize(1, 0.8, -0.1))
}

func TestExitPrices(t *testing.T) {
	stopLoss, profitTarget := ExitPrices(2.0, 10, 20)
	assert.InDelta(t, 1.8, stopLoss, 1e-9)
	assert.InDelta(t, 2.4, profitTarget, 1e-9)

	// stopLoss < entry < profitTarget for any positive percents.
	assert.Less(t, stopLoss, 2.0)
	assert.Greater(t, profitTarget, 2.0)
}
