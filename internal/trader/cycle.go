package trader

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dex-sniper/internal/models"
	"github.com/dex-sniper/internal/optimizer"
	"github.com/dex-sniper/internal/sizing"
	"github.com/dex-sniper/pkg/idgen"
)

// Reference ETH price used to express simulated PnL in USD for the
// performance optimizer.
const simETHPriceUSD = 3000.0

// runCycle executes one trading cycle: scan, process opportunities,
// manage open positions, refresh statistics. A single bad token or
// position never aborts the rest of the cycle; only step-level failures
// are returned so the loop can back off.
func (t *AutoTrader) runCycle() error {
	var cycleErrs []error

	if t.Status() != StatusPaused {
		opportunities := t.scanOpportunities()
		for _, opp := range opportunities {
			if err := t.processOpportunity(opp); err != nil {
				log.Printf("[AutoTrader] Skipping %s on %s: %v", opp.Symbol, opp.Network, err)
			}
		}
	}

	if err := t.managePositions(); err != nil {
		cycleErrs = append(cycleErrs, fmt.Errorf("manage positions: %w", err))
	}

	t.refreshStatistics()

	err := errors.Join(cycleErrs...)
	t.mu.Lock()
	t.cyclesCompleted++
	if err != nil {
		t.lastCycleError = err.Error()
	} else {
		t.lastCycleError = ""
	}
	t.mu.Unlock()
	return err
}

// scanOpportunities assembles this cycle's eligible opportunities from
// the discovery feeds. The whole scan is skipped while the global
// cooldown is active. Tokens are kept in discovery order.
func (t *AutoTrader) scanOpportunities() []models.TradingOpportunity {
	cfg := t.config()

	t.mu.RLock()
	lastTrade := t.lastTradeTime
	t.mu.RUnlock()

	if !lastTrade.IsZero() && time.Since(lastTrade) < cfg.Cooldown() {
		return nil
	}

	var opportunities []models.TradingOpportunity
	for _, network := range cfg.Networks {
		tokens := t.deps.Discovery.GetRecentTokens(network)
		for _, token := range tokens {
			assessment, err := t.deps.Assessor.QuickAssessment(token)
			if err != nil {
				log.Printf("[AutoTrader] Risk assessment failed for %s on %s: %v", token.Address, network, err)
				continue
			}

			// Boundary semantics: a token at exactly the risk cap or
			// exactly the liquidity floor is eligible.
			if assessment.RiskScore > cfg.MaxRiskScore || token.LiquidityUSD < cfg.MinLiquidityUSD {
				continue
			}

			opportunities = append(opportunities, models.TradingOpportunity{
				TokenAddress:      token.Address,
				Network:           token.Network,
				Symbol:            token.Symbol,
				CurrentPrice:      token.PriceUSD,
				LiquidityUSD:      token.LiquidityUSD,
				RiskScore:         assessment.RiskScore,
				Confidence:        assessment.Confidence,
				RecommendedAction: assessment.RecommendedAction,
				ProfitPotential:   cfg.ProfitTargetPercent,
				DiscoveredAt:      token.DiscoveredAt,
			})
		}
	}
	return opportunities
}

// processOpportunity converts one eligible opportunity into an open
// position, or rejects it.
func (t *AutoTrader) processOpportunity(opp models.TradingOpportunity) error {
	if opp.RecommendedAction != models.RecommendBuy {
		return nil
	}

	cfg := t.config()
	if reason := t.rejectReason(opp, cfg.MaxRiskScore, cfg.MinLiquidityUSD, cfg.MaxOpenPositions, cfg.Cooldown()); reason != "" {
		log.Printf("[AutoTrader] Rejected %s (%s): %s", opp.Symbol, opp.TokenAddress, reason)
		return nil
	}

	size := t.deps.Sizer.CalculatePositionSize(opp.RiskScore, opp.Confidence, cfg.MaxPositionSizeETH)
	if size <= 0 {
		return nil
	}

	t.mu.RLock()
	balance := t.walletBalanceETH
	t.mu.RUnlock()
	if size > balance {
		return fmt.Errorf("%w: need %.4f ETH, have %.4f ETH", ErrInsufficientFunds, size, balance)
	}

	result := t.deps.Executor.ExecuteOrder(models.OrderParams{
		TokenAddress:      opp.TokenAddress,
		Network:           opp.Network,
		Side:              models.OrderSideBuy,
		Type:              models.OrderTypeMarket,
		AmountETH:         size,
		SlippageTolerance: cfg.MaxSlippagePercent / 100,
		PriceUSD:          opp.CurrentPrice,
	})
	if !result.Filled() {
		return fmt.Errorf("%w: %s", ErrExecutionFailed, result.Error)
	}

	trade := t.recordFill(result, opp.Symbol)
	t.openPosition(opp, result, trade.TradeID, cfg.StopLossPercent, cfg.ProfitTargetPercent)

	log.Printf("[AutoTrader] Opened position in %s on %s: %.4f ETH at $%.8f (trade=%s, risk=%.1f)",
		opp.Symbol, opp.Network, size, opp.CurrentPrice, trade.TradeID, opp.RiskScore)
	return nil
}

// rejectReason re-checks the per-opportunity gate. Returns "" when the
// opportunity may trade.
func (t *AutoTrader) rejectReason(opp models.TradingOpportunity, maxRisk, minLiquidity float64, maxPositions int, cooldown time.Duration) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.lastTradeTime.IsZero() && time.Since(t.lastTradeTime) < cooldown {
		return "cooldown active"
	}
	if _, held := t.activePositions[opp.TokenAddress]; held {
		return "already holding token"
	}
	if len(t.activePositions) >= maxPositions {
		return fmt.Sprintf("at capacity (%d positions)", maxPositions)
	}
	if opp.RiskScore > maxRisk {
		return fmt.Sprintf("risk %.1f above cap %.1f", opp.RiskScore, maxRisk)
	}
	if opp.LiquidityUSD < minLiquidity {
		return fmt.Sprintf("liquidity $%.0f below floor $%.0f", opp.LiquidityUSD, minLiquidity)
	}
	return ""
}

// recordFill appends the ledger record for a filled order and mirrors
// it to durable storage.
func (t *AutoTrader) recordFill(result *models.OrderResult, symbol string) *models.TradeExecution {
	trade := &models.TradeExecution{
		TradeID:         idgen.NewTradeID(),
		TokenAddress:    result.TokenAddress,
		Network:         result.Network,
		Symbol:          symbol,
		Action:          result.Side,
		AmountETH:       result.AmountETH,
		PriceUSD:        result.PriceUSD,
		SlippagePercent: result.SlippageTolerance * 100,
		GasFeeETH:       result.GasFeeETH,
		Status:          string(result.Status),
		TransactionHash: result.TransactionHash,
		ExecutedAt:      result.ExecutedAt,
	}

	t.mu.Lock()
	t.tradeHistory = append(t.tradeHistory, trade)
	t.mu.Unlock()

	if t.deps.Ledger != nil {
		if err := t.deps.Ledger.RecordTrade(trade); err != nil {
			log.Printf("[AutoTrader] Ledger write failed for trade %s: %v", trade.TradeID, err)
		}
	}
	return trade
}

// openPosition creates the in-memory position for a filled BUY and
// starts the global cooldown window. The position remembers its entry
// trade so the eventual close settles that exact record.
func (t *AutoTrader) openPosition(opp models.TradingOpportunity, result *models.OrderResult, entryTradeID string, stopLossPercent, profitTargetPercent float64) {
	stopLoss, profitTarget := sizing.ExitPrices(opp.CurrentPrice, stopLossPercent, profitTargetPercent)

	position := &models.Position{
		PositionID:        idgen.NewPositionID(),
		EntryTradeID:      entryTradeID,
		TokenAddress:      opp.TokenAddress,
		Network:           opp.Network,
		Symbol:            opp.Symbol,
		EntryPrice:        opp.CurrentPrice,
		AmountETH:         result.AmountETH,
		OpenedAt:          result.ExecutedAt,
		StopLossPrice:     stopLoss,
		ProfitTargetPrice: profitTarget,
		CurrentPrice:      opp.CurrentPrice,
	}

	t.mu.Lock()
	t.activePositions[opp.TokenAddress] = position
	t.walletBalanceETH -= result.AmountETH + result.GasFeeETH
	t.lastTradeTime = time.Now()
	t.mu.Unlock()
}

// managePositions re-evaluates every open position against the current
// price and closes those that hit an exit condition. Positions are
// visited in open order; a failure on one position does not stop the
// sweep. When no open position can be priced at all the feed is treated
// as down and the cycle reports an error so the loop backs off.
func (t *AutoTrader) managePositions() error {
	cfg := t.config()
	positions := t.GetActivePositions()
	now := time.Now()

	unpriced := 0
	for i := range positions {
		pos := positions[i]
		price, err := t.deps.Prices.GetCurrentPrice(pos.Network, pos.TokenAddress)
		if err != nil {
			log.Printf("[AutoTrader] No price for %s on %s: %v", pos.TokenAddress, pos.Network, err)
			unpriced++
			continue
		}

		pnl := pos.PnLPercent(price)
		t.updatePositionMark(pos.TokenAddress, price, pnl)

		var reason models.CloseReason
		switch {
		case pnl <= -cfg.StopLossPercent:
			reason = models.CloseReasonStopLoss
		case pnl >= cfg.ProfitTargetPercent:
			reason = models.CloseReasonProfitTarget
		case pos.HoldingTime(now) >= cfg.MaxHoldingTime:
			reason = models.CloseReasonTimeExit
		default:
			continue
		}

		if err := t.closePosition(pos.TokenAddress, price, pnl, reason, cfg.MaxSlippagePercent); err != nil {
			log.Printf("[AutoTrader] Failed to close %s (%s): %v", pos.Symbol, reason, err)
		}
	}

	if len(positions) > 0 && unpriced == len(positions) {
		return fmt.Errorf("price feed unavailable for all %d open positions", len(positions))
	}
	return nil
}

func (t *AutoTrader) updatePositionMark(tokenAddress string, price, pnl float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if pos, ok := t.activePositions[tokenAddress]; ok {
		pos.CurrentPrice = price
		pos.CurrentPnL = pnl
	}
}

// closePosition sells out of a position, matches the SELL back to the
// opening BUY record, and removes the position. If the SELL fails the
// position stays open and is retried next cycle.
func (t *AutoTrader) closePosition(tokenAddress string, exitPrice, pnl float64, reason models.CloseReason, maxSlippagePercent float64) error {
	t.mu.RLock()
	pos, ok := t.activePositions[tokenAddress]
	if !ok {
		t.mu.RUnlock()
		return fmt.Errorf("position for %s not found", tokenAddress)
	}
	position := *pos
	t.mu.RUnlock()

	result := t.deps.Executor.ExecuteOrder(models.OrderParams{
		TokenAddress:      position.TokenAddress,
		Network:           position.Network,
		Side:              models.OrderSideSell,
		Type:              models.OrderTypeMarket,
		AmountETH:         position.AmountETH,
		SlippageTolerance: maxSlippagePercent / 100,
		PriceUSD:          exitPrice,
	})
	if !result.Filled() {
		return fmt.Errorf("%w: %s", ErrExecutionFailed, result.Error)
	}

	t.recordFill(result, position.Symbol)
	closedAt := result.ExecutedAt

	// Settle the position's own entry record. Matching by trade id keeps
	// manual BUYs in the same token out of the pairing.
	t.mu.Lock()
	var opening *models.TradeExecution
	for _, trade := range t.tradeHistory {
		if trade.TradeID == position.EntryTradeID && !trade.IsClosed() {
			opening = trade
			break
		}
	}
	if opening != nil {
		opening.Close(pnl, closedAt)
	}
	delete(t.activePositions, tokenAddress)
	t.walletBalanceETH += position.AmountETH*(1+pnl/100) - result.GasFeeETH
	t.mu.Unlock()

	if opening == nil {
		log.Printf("[AutoTrader] No opening BUY found for %s; ledger pair incomplete", tokenAddress)
	} else if t.deps.Ledger != nil {
		if err := t.deps.Ledger.CloseTrade(opening.TradeID, pnl, closedAt); err != nil {
			log.Printf("[AutoTrader] Ledger close failed for trade %s: %v", opening.TradeID, err)
		}
	}

	if t.deps.Ledger != nil {
		record := &models.ClosedPositionRecord{
			PositionID:   position.PositionID,
			TokenAddress: position.TokenAddress,
			Network:      position.Network,
			Symbol:       position.Symbol,
			EntryPrice:   position.EntryPrice,
			ExitPrice:    exitPrice,
			AmountETH:    position.AmountETH,
			PnLPercent:   pnl,
			Reason:       reason,
			OpenedAt:     position.OpenedAt,
			ClosedAt:     closedAt,
		}
		if err := t.deps.Ledger.RecordClosedPosition(record); err != nil {
			log.Printf("[AutoTrader] Ledger close record failed for %s: %v", position.PositionID, err)
		}
	}

	if t.deps.Outcomes != nil {
		t.deps.Outcomes.AnalyzeTradePerformance(optimizer.TradeOutcome{
			TokenAddress:    position.TokenAddress,
			Network:         position.Network,
			ExecutionTimeMs: float64(result.ExecutedAt.Sub(result.CreatedAt).Milliseconds()),
			GasUsed:         150000,
			GasPriceWei:     30e9,
			ActualSlippage:  result.SlippageTolerance / 2,
			ProfitLossUSD:   position.AmountETH * (pnl / 100) * simETHPriceUSD,
		})
	}

	log.Printf("[AutoTrader] Closed %s (%s): pnl=%.2f%% entry=$%.8f exit=$%.8f",
		position.Symbol, reason, pnl, position.EntryPrice, exitPrice)
	return nil
}

// refreshStatistics rebuilds the aggregate from the full ledger so
// readers never observe a partially updated view.
func (t *AutoTrader) refreshStatistics() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = models.ComputeStatistics(t.tradeHistory, len(t.activePositions))
}
