package models

import (
	"time"
)

// Recommendation is the action suggested by the risk assessor.
type Recommendation string

const (
	RecommendBuy  Recommendation = "BUY"
	RecommendSell Recommendation = "SELL"
	RecommendHold Recommendation = "HOLD"
)

// TradingOpportunity is a candidate token that passed risk and liquidity
// screening within one scan cycle. Opportunities are not persisted; they
// either convert into a position or are discarded.
type TradingOpportunity struct {
	TokenAddress      string         `json:"token_address"`
	Network           string         `json:"network"`
	Symbol            string         `json:"symbol"`
	CurrentPrice      float64        `json:"current_price"`
	LiquidityUSD      float64        `json:"liquidity_usd"`
	RiskScore         float64        `json:"risk_score"` // 0-10, lower is safer
	Confidence        float64        `json:"confidence"` // 0-1
	RecommendedAction Recommendation `json:"recommended_action"`
	ProfitPotential   float64        `json:"profit_potential"`
	DiscoveredAt      time.Time      `json:"discovered_at"`
}
