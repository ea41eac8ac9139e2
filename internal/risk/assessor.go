package risk

import (
	"time"

	"github.com/dex-sniper/internal/models"
)

// Assessment is the outcome of scoring one token.
type Assessment struct {
	TokenAddress      string                `json:"token_address"`
	Network           string                `json:"network"`
	RiskScore         float64               `json:"risk_score"` // 0-10, lower is safer
	Confidence        float64               `json:"confidence"` // 0-1
	RecommendedAction models.Recommendation `json:"recommended_action"`
	Factors           []string              `json:"factors,omitempty"`
}

// Assessor scores a candidate token. Implementations must return a
// RiskScore in [0,10] and a Confidence in [0,1].
type Assessor interface {
	QuickAssessment(token models.TokenRecord) (Assessment, error)
}

// Banded thresholds for the heuristic assessor. Liquidity and volume
// bands reduce risk; very young listings add risk.
const (
	deepLiquidityUSD = 500000
	okLiquidityUSD   = 100000
	thinLiquidityUSD = 25000

	activeVolumeUSD = 100000
	quietVolumeUSD  = 10000

	freshListingAge  = 1 * time.Hour
	youngListingAge  = 24 * time.Hour
	minBuyConfidence = 0.6
	maxBuyRisk       = 5.0
)

// HeuristicAssessor scores tokens from observable feed data only:
// liquidity depth, 24h volume and listing age. It is deterministic so
// the same discovery record always yields the same score.
type HeuristicAssessor struct {
	now func() time.Time
}

// NewHeuristicAssessor creates a new HeuristicAssessor
func NewHeuristicAssessor() *HeuristicAssessor {
	return &HeuristicAssessor{now: time.Now}
}

// QuickAssessment implements Assessor.
func (a *HeuristicAssessor) QuickAssessment(token models.TokenRecord) (Assessment, error) {
	assessment := Assessment{
		TokenAddress: token.Address,
		Network:      token.Network,
	}

	score := 5.0
	confidence := 0.5

	switch {
	case token.LiquidityUSD >= deepLiquidityUSD:
		score -= 3.0
		confidence += 0.3
		assessment.Factors = append(assessment.Factors, "deep liquidity")
	case token.LiquidityUSD >= okLiquidityUSD:
		score -= 2.0
		confidence += 0.2
	case token.LiquidityUSD < thinLiquidityUSD:
		score += 3.0
		confidence += 0.1
		assessment.Factors = append(assessment.Factors, "thin liquidity")
	}

	switch {
	case token.Volume24hUSD >= activeVolumeUSD:
		score -= 1.0
		confidence += 0.15
	case token.Volume24hUSD < quietVolumeUSD:
		score += 1.5
		assessment.Factors = append(assessment.Factors, "low volume")
	}

	age := token.Age(a.now())
	switch {
	case age > 0 && age < freshListingAge:
		score += 2.0
		assessment.Factors = append(assessment.Factors, "fresh listing")
	case age > 0 && age < youngListingAge:
		score += 0.5
	}

	assessment.RiskScore = clamp(score, 0, 10)
	assessment.Confidence = clamp(confidence, 0, 1)

	if assessment.RiskScore <= maxBuyRisk && assessment.Confidence >= minBuyConfidence {
		assessment.RecommendedAction = models.RecommendBuy
	} else {
		assessment.RecommendedAction = models.RecommendHold
	}

	return assessment, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
