package optimizer

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/dex-sniper/internal/models"
)

const (
	snapshotCap  = 1000
	snapshotKeep = 500

	// Baseline for the time-efficiency bands.
	baselineExecutionMs = 5000

	defaultBaseGasGwei         = 25.0
	defaultBaseSlippagePercent = 2.0
	executionDeadline          = 20 * time.Minute

	weiPerETH = 1e18
)

// ExecutionParams are the optimizer's recommended parameters for one
// order submission.
type ExecutionParams struct {
	GasPriceGwei             float64       `json:"gas_price_gwei"`
	SlippageTolerancePercent float64       `json:"slippage_tolerance_percent"`
	Deadline                 time.Duration `json:"deadline"`
	GasConfidence            float64       `json:"gas_confidence"`
	SlippageConfidence       float64       `json:"slippage_confidence"`
	DeadlineConfidence       float64       `json:"deadline_confidence"`
	OptimizationConfidence   float64       `json:"optimization_confidence"`
}

// safeDefaultParams is returned whenever optimization cannot complete.
// Execution must never be blocked by optimizer failure.
func safeDefaultParams() ExecutionParams {
	return ExecutionParams{
		GasPriceGwei:             30,
		SlippageTolerancePercent: 3,
		Deadline:                 executionDeadline,
		GasConfidence:            0.5,
		SlippageConfidence:       0.5,
		DeadlineConfidence:       0.5,
		OptimizationConfidence:   0.5,
	}
}

// TradeOutcome is the raw measurement of one completed execution.
type TradeOutcome struct {
	TokenAddress    string  `json:"token_address"`
	Network         string  `json:"network"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`
	GasUsed         float64 `json:"gas_used"`
	GasPriceWei     float64 `json:"gas_price_wei"`
	ActualSlippage  float64 `json:"actual_slippage"` // fraction
	ProfitLossUSD   float64 `json:"profit_loss_usd"`
}

// PerformanceAnalysis is the scored breakdown of one trade outcome.
// Each efficiency score is a 0-10 banded rating of one dimension.
type PerformanceAnalysis struct {
	TimeEfficiency     float64   `json:"time_efficiency"`
	GasEfficiency      float64   `json:"gas_efficiency"`
	SlippageEfficiency float64   `json:"slippage_efficiency"`
	ProfitEfficiency   float64   `json:"profit_efficiency"`
	OverallScore       float64   `json:"overall_score"`
	GasCostETH         float64   `json:"gas_cost_eth"`
	AnalyzedAt         time.Time `json:"analyzed_at"`
}

// TradingPerformanceOptimizer analyzes trade outcomes and recommends
// per-order execution parameters. It never calls the executor itself;
// it is a pure analysis/recommendation layer.
type TradingPerformanceOptimizer struct {
	level     OptimizationLevel
	params    levelParams
	snapshots *snapshotStore

	recMux      sync.RWMutex
	recommended ExecutionParams

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a TradingPerformanceOptimizer at the given level. The
// level is fixed for the optimizer's lifetime.
func New(level OptimizationLevel) *TradingPerformanceOptimizer {
	params, ok := levelTable[level]
	if !ok {
		level = LevelBalanced
		params = levelTable[LevelBalanced]
	}
	return &TradingPerformanceOptimizer{
		level:       level,
		params:      params,
		snapshots:   newSnapshotStore(snapshotCap, snapshotKeep),
		recommended: safeDefaultParams(),
		stopChan:    make(chan struct{}),
	}
}

// Level returns the configured optimization level.
func (o *TradingPerformanceOptimizer) Level() OptimizationLevel {
	return o.level
}

// OptimizeOrderExecution derives execution parameters for an order from
// the level's bounds. Gas price and slippage are scaled from their base
// values and clipped at the level caps; the deadline is fixed. The
// overall confidence is the minimum of the component confidences.
func (o *TradingPerformanceOptimizer) OptimizeOrderExecution(order models.OrderParams) ExecutionParams {
	baseGas := order.GasPriceGwei
	if baseGas <= 0 {
		baseGas = defaultBaseGasGwei
	}
	baseSlippage := order.SlippageTolerance * 100
	if baseSlippage <= 0 {
		baseSlippage = defaultBaseSlippagePercent
	}

	if o.params.MaxGasPriceGwei <= 0 || o.params.MaxSlippagePercent <= 0 {
		// Corrupted level table; fall back rather than block execution.
		return safeDefaultParams()
	}

	result := ExecutionParams{
		Deadline:           executionDeadline,
		DeadlineConfidence: 0.95,
	}

	result.GasPriceGwei = baseGas * 1.2
	result.GasConfidence = 0.9
	if result.GasPriceGwei > o.params.MaxGasPriceGwei {
		result.GasPriceGwei = o.params.MaxGasPriceGwei
		result.GasConfidence = 0.7 // capped, less headroom
	}

	result.SlippageTolerancePercent = baseSlippage * 1.5
	result.SlippageConfidence = 0.85
	if result.SlippageTolerancePercent > o.params.MaxSlippagePercent {
		result.SlippageTolerancePercent = o.params.MaxSlippagePercent
		result.SlippageConfidence = 0.65
	}

	result.OptimizationConfidence = math.Min(result.GasConfidence,
		math.Min(result.SlippageConfidence, result.DeadlineConfidence))
	return result
}

// AnalyzeTradePerformance scores one trade outcome on the fixed
// efficiency bands and records snapshots for each dimension.
func (o *TradingPerformanceOptimizer) AnalyzeTradePerformance(outcome TradeOutcome) PerformanceAnalysis {
	now := time.Now()
	gasCostETH := outcome.GasUsed * outcome.GasPriceWei / weiPerETH

	analysis := PerformanceAnalysis{
		TimeEfficiency:     timeEfficiency(outcome.ExecutionTimeMs),
		GasEfficiency:      gasEfficiency(gasCostETH),
		SlippageEfficiency: slippageEfficiency(outcome.ActualSlippage * 100),
		ProfitEfficiency:   profitEfficiency(outcome.ProfitLossUSD),
		GasCostETH:         gasCostETH,
		AnalyzedAt:         now,
	}

	weighted := 0.25*analysis.TimeEfficiency +
		0.25*analysis.GasEfficiency +
		0.25*analysis.SlippageEfficiency +
		0.25*analysis.ProfitEfficiency
	// Scores land on half-point boundaries; report on the same grid.
	analysis.OverallScore = math.Round(weighted*2) / 2

	ctx := map[string]string{
		"token":   outcome.TokenAddress,
		"network": outcome.Network,
	}
	o.snapshots.Append(PerformanceSnapshot{Timestamp: now, Metric: MetricExecutionTime, Value: outcome.ExecutionTimeMs, Context: ctx})
	o.snapshots.Append(PerformanceSnapshot{Timestamp: now, Metric: MetricGasCost, Value: gasCostETH, Context: ctx})
	o.snapshots.Append(PerformanceSnapshot{Timestamp: now, Metric: MetricSlippage, Value: outcome.ActualSlippage * 100, Context: ctx})
	o.snapshots.Append(PerformanceSnapshot{Timestamp: now, Metric: MetricProfitLoss, Value: outcome.ProfitLossUSD, Context: ctx})
	o.snapshots.Append(PerformanceSnapshot{Timestamp: now, Metric: MetricOverallScore, Value: analysis.OverallScore, Context: ctx})

	return analysis
}

// RecommendedParams returns the most recently refreshed recommendation.
func (o *TradingPerformanceOptimizer) RecommendedParams() ExecutionParams {
	o.recMux.RLock()
	defer o.recMux.RUnlock()
	return o.recommended
}

// Start begins the background refresh loop at the level's optimization
// frequency.
func (o *TradingPerformanceOptimizer) Start() {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		log.Printf("[Optimizer] Started (level=%s, frequency=%v)", o.level, o.params.Frequency)

		ticker := time.NewTicker(o.params.Frequency)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				o.refresh()
			case <-o.stopChan:
				log.Printf("[Optimizer] Stopped")
				return
			}
		}
	}()
}

// Stop terminates the background loop and waits for it to exit.
func (o *TradingPerformanceOptimizer) Stop() {
	o.stopOnce.Do(func() { close(o.stopChan) })
	o.wg.Wait()
}

// refresh recomputes the standing recommendation from recent samples.
func (o *TradingPerformanceOptimizer) refresh() {
	params := o.OptimizeOrderExecution(models.OrderParams{})

	// Nudge the gas base toward observed costs when we have samples.
	recent := o.snapshots.Since(time.Now().Add(-time.Hour))
	var gasSamples []float64
	for _, snap := range recent {
		if snap.Metric == MetricGasCost {
			gasSamples = append(gasSamples, snap.Value)
		}
	}
	if len(gasSamples) > 0 {
		meanCost := mean(gasSamples)
		if meanCost > 0.05 {
			// Recent fills are expensive; trim the recommendation.
			params.GasPriceGwei = math.Max(params.GasPriceGwei*0.9, 1)
		}
	}

	o.recMux.Lock()
	o.recommended = params
	o.recMux.Unlock()
}

// timeEfficiency bands execution time against the baseline.
func timeEfficiency(ms float64) float64 {
	switch {
	case ms <= baselineExecutionMs/2:
		return 10
	case ms <= baselineExecutionMs:
		return 8
	case ms <= 2*baselineExecutionMs:
		return 6
	case ms <= 3*baselineExecutionMs:
		return 4
	default:
		return 2
	}
}

// gasEfficiency bands the ETH cost of a fill.
func gasEfficiency(costETH float64) float64 {
	switch {
	case costETH <= 0.01:
		return 10
	case costETH <= 0.05:
		return 8
	case costETH <= 0.1:
		return 6
	case costETH <= 0.2:
		return 4
	default:
		return 2
	}
}

// slippageEfficiency bands realized slippage in percent. Negative
// slippage means the fill beat the quote.
func slippageEfficiency(percent float64) float64 {
	switch {
	case percent < 0:
		return 10 // positive slippage
	case percent <= 1:
		return 9
	case percent <= 2:
		return 7
	case percent <= 5:
		return 5
	case percent <= 10:
		return 3
	default:
		return 1
	}
}

// profitEfficiency bands the realized USD outcome.
func profitEfficiency(usd float64) float64 {
	switch {
	case usd > 10:
		return 10
	case usd > 5:
		return 8
	case usd > 0:
		return 6
	case usd == 0:
		return 5
	case usd > -5:
		return 3
	default:
		return 1
	}
}

func (o *TradingPerformanceOptimizer) String() string {
	return fmt.Sprintf("optimizer(level=%s, snapshots=%d)", o.level, o.snapshots.Len())
}
