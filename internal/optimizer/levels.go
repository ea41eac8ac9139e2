package optimizer

import (
	"fmt"
	"strings"
	"time"
)

// OptimizationLevel is a named preset selecting a fixed table of
// execution-parameter bounds. The level is parsed once at configuration
// time and never re-parsed internally.
type OptimizationLevel string

const (
	LevelConservative OptimizationLevel = "conservative"
	LevelBalanced     OptimizationLevel = "balanced"
	LevelAggressive   OptimizationLevel = "aggressive"
	LevelMaximum      OptimizationLevel = "maximum"
)

// ParseLevel parses untyped input into an OptimizationLevel. Empty input
// defaults to balanced.
func ParseLevel(s string) (OptimizationLevel, error) {
	switch OptimizationLevel(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return LevelBalanced, nil
	case LevelConservative:
		return LevelConservative, nil
	case LevelBalanced:
		return LevelBalanced, nil
	case LevelAggressive:
		return LevelAggressive, nil
	case LevelMaximum:
		return LevelMaximum, nil
	default:
		return "", fmt.Errorf("unknown optimization level %q", s)
	}
}

// levelParams is the fixed parameter table for one level.
type levelParams struct {
	MaxGasPriceGwei    float64
	MinConfidence      float64
	MaxSlippagePercent float64
	Frequency          time.Duration
	RiskTolerance      float64
}

var levelTable = map[OptimizationLevel]levelParams{
	LevelConservative: {
		MaxGasPriceGwei:    30,
		MinConfidence:      0.8,
		MaxSlippagePercent: 1.0,
		Frequency:          300 * time.Second,
		RiskTolerance:      0.2,
	},
	LevelBalanced: {
		MaxGasPriceGwei:    50,
		MinConfidence:      0.6,
		MaxSlippagePercent: 3.0,
		Frequency:          120 * time.Second,
		RiskTolerance:      0.5,
	},
	LevelAggressive: {
		MaxGasPriceGwei:    100,
		MinConfidence:      0.4,
		MaxSlippagePercent: 5.0,
		Frequency:          60 * time.Second,
		RiskTolerance:      0.7,
	},
	LevelMaximum: {
		MaxGasPriceGwei:    200,
		MinConfidence:      0.2,
		MaxSlippagePercent: 10.0,
		Frequency:          30 * time.Second,
		RiskTolerance:      0.9,
	},
}
