package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dex-sniper/internal/models"
)

func fixedAssessor(now time.Time) *HeuristicAssessor {
	a := NewHeuristicAssessor()
	a.now = func() time.Time { return now }
	return a
}

func TestQuickAssessmentDeepLiquidity(t *testing.T) {
	now := time.Now()
	a := fixedAssessor(now)

	assessment, err := a.QuickAssessment(models.TokenRecord{
		Address:      "0xaaa",
		Network:      "ethereum",
		LiquidityUSD: 600000,
		Volume24hUSD: 200000,
		ListedAt:     now.Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	// 5.0 - 3.0 (deep liquidity) - 1.0 (active volume).
	assert.InDelta(t, 1.0, assessment.RiskScore, 1e-9)
	assert.InDelta(t, 0.95, assessment.Confidence, 1e-9)
	assert.Equal(t, models.RecommendBuy, assessment.RecommendedAction)
	assert.Contains(t, assessment.Factors, "deep liquidity")
}

func TestQuickAssessmentThinFreshListing(t *testing.T) {
	now := time.Now()
	a := fixedAssessor(now)

	assessment, err := a.QuickAssessment(models.TokenRecord{
		Address:      "0xbbb",
		Network:      "ethereum",
		LiquidityUSD: 10000,
		Volume24hUSD: 500,
		ListedAt:     now.Add(-30 * time.Minute),
	})
	require.NoError(t, err)

	// 5.0 + 3.0 (thin) + 1.5 (quiet) + 2.0 (fresh), clamped to 10.
	assert.InDelta(t, 10.0, assessment.RiskScore, 1e-9)
	assert.Equal(t, models.RecommendHold, assessment.RecommendedAction)
	assert.Contains(t, assessment.Factors, "thin liquidity")
	assert.Contains(t, assessment.Factors, "low volume")
	assert.Contains(t, assessment.Factors, "fresh listing")
}

func TestQuickAssessmentNeutralToken(t *testing.T) {
	now := time.Now()
	a := fixedAssessor(now)

	assessment, err := a.QuickAssessment(models.TokenRecord{
		Address:      "0xccc",
		Network:      "ethereum",
		LiquidityUSD: 60000,
		Volume24hUSD: 50000,
		ListedAt:     now.Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	// No band fires; baseline score with baseline confidence.
	assert.InDelta(t, 5.0, assessment.RiskScore, 1e-9)
	assert.InDelta(t, 0.5, assessment.Confidence, 1e-9)
	// Score is within the buy band but confidence is too low.
	assert.Equal(t, models.RecommendHold, assessment.RecommendedAction)
}

func TestQuickAssessmentYoungListingPenalty(t *testing.T) {
	now := time.Now()
	a := fixedAssessor(now)

	assessment, err := a.QuickAssessment(models.TokenRecord{
		Address:      "0xddd",
		Network:      "ethereum",
		LiquidityUSD: 600000,
		Volume24hUSD: 200000,
		ListedAt:     now.Add(-6 * time.Hour),
	})
	require.NoError(t, err)

	// Deep liquidity token listed under a day ago picks up +0.5.
	assert.InDelta(t, 1.5, assessment.RiskScore, 1e-9)
	assert.Equal(t, models.RecommendBuy, assessment.RecommendedAction)
}

func TestQuickAssessmentDeterministic(t *testing.T) {
	now := time.Now()
	a := fixedAssessor(now)
	token := models.TokenRecord{
		Address:      "0xeee",
		Network:      "ethereum",
		LiquidityUSD: 150000,
		Volume24hUSD: 5000,
		ListedAt:     now.Add(-2 * time.Hour),
	}

	first, err := a.QuickAssessment(token)
	require.NoError(t, err)
	second, err := a.QuickAssessment(token)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
