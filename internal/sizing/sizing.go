package sizing

// PositionSizer decides how much capital to allocate to one trade.
type PositionSizer interface {
	CalculatePositionSize(riskScore, confidence, maxPositionSize float64) float64
}

// RiskAdjustedSizer scales the maximum position size down linearly with
// risk: size = max * max(0.1, 1 - riskScore/10). Even the riskiest
// accepted opportunity gets a 10% floor rather than zero.
type RiskAdjustedSizer struct{}

// NewRiskAdjustedSizer creates a new RiskAdjustedSizer
func NewRiskAdjustedSizer() *RiskAdjustedSizer {
	return &RiskAdjustedSizer{}
}

// CalculatePositionSize implements PositionSizer.
func (s *RiskAdjustedSizer) CalculatePositionSize(riskScore, confidence, maxPositionSize float64) float64 {
	if maxPositionSize <= 0 {
		return 0
	}
	factor := 1 - riskScore/10
	if factor < 0.1 {
		factor = 0.1
	}
	return maxPositionSize * factor
}

// ExitPrices returns the stop-loss and profit-target prices for a BUY
// entry. For a long-only strategy the invariant
// stopLoss < entry < profitTarget holds whenever both percents are
// positive.
func ExitPrices(entryPrice, stopLossPercent, profitTargetPercent float64) (stopLoss, profitTarget float64) {
	stopLoss = entryPrice * (1 - stopLossPercent/100)
	profitTarget = entryPrice * (1 + profitTargetPercent/100)
	return stopLoss, profitTarget
}
