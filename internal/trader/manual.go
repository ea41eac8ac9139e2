package trader

import (
	"fmt"
	"strings"

	"github.com/dex-sniper/internal/models"
)

// ManualTradeRequest is an operator-initiated trade. Manual trades
// bypass opportunity scanning and the cooldown window but are still
// executed and recorded through the same pipeline as automatic ones.
type ManualTradeRequest struct {
	TokenAddress string  `json:"token_address" binding:"required"`
	Network      string  `json:"network" binding:"required"`
	Symbol       string  `json:"symbol"`
	Action       string  `json:"action" binding:"required"`
	AmountETH    float64 `json:"amount_eth" binding:"required,gt=0"`
	PriceUSD     float64 `json:"price_usd"`
}

// ExecuteManualTrade runs a single operator-initiated order. The trade
// is recorded in the history but does not open a tracked position; the
// operator owns the exit.
func (t *AutoTrader) ExecuteManualTrade(req ManualTradeRequest) (*models.TradeExecution, error) {
	var side models.OrderSide
	switch strings.ToUpper(req.Action) {
	case string(models.OrderSideBuy):
		side = models.OrderSideBuy
	case string(models.OrderSideSell):
		side = models.OrderSideSell
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, req.Action)
	}

	cfg := t.config()

	if side == models.OrderSideBuy {
		t.mu.RLock()
		balance := t.walletBalanceETH
		t.mu.RUnlock()
		if req.AmountETH > balance {
			return nil, fmt.Errorf("%w: need %.4f ETH, have %.4f ETH", ErrInsufficientFunds, req.AmountETH, balance)
		}
	}

	result := t.deps.Executor.ExecuteOrder(models.OrderParams{
		TokenAddress:      req.TokenAddress,
		Network:           req.Network,
		Side:              side,
		Type:              models.OrderTypeMarket,
		AmountETH:         req.AmountETH,
		SlippageTolerance: cfg.MaxSlippagePercent / 100,
		PriceUSD:          req.PriceUSD,
	})
	if !result.Filled() {
		return nil, fmt.Errorf("%w: %s", ErrExecutionFailed, result.Error)
	}

	trade := t.recordFill(result, req.Symbol)

	t.mu.Lock()
	if side == models.OrderSideBuy {
		t.walletBalanceETH -= result.AmountETH + result.GasFeeETH
	} else {
		t.walletBalanceETH += result.AmountETH - result.GasFeeETH
	}
	t.stats = models.ComputeStatistics(t.tradeHistory, len(t.activePositions))
	t.mu.Unlock()

	return trade, nil
}
