package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func closedBuy(token string, amount, pnl float64) *TradeExecution {
	trade := &TradeExecution{
		TradeID:      "trade-" + token,
		TokenAddress: token,
		Action:       OrderSideBuy,
		AmountETH:    amount,
		GasFeeETH:    0.002,
		Status:       string(OrderStatusFilled),
	}
	trade.Close(pnl, time.Now())
	return trade
}

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil, 0)
	assert.Zero(t, stats.TotalTrades)
	assert.Zero(t, stats.SuccessRate)
}

func TestComputeStatistics(t *testing.T) {
	history := []*TradeExecution{
		closedBuy("0xa", 0.1, 25),
		closedBuy("0xb", 0.05, -11),
		closedBuy("0xc", 0.08, 30),
		// Open BUY with no resolved outcome yet.
		{TradeID: "trade-open", Action: OrderSideBuy, AmountETH: 0.07, GasFeeETH: 0.002},
		// Closing SELL half of a pair; not counted as a trade.
		{TradeID: "trade-sell", Action: OrderSideSell, AmountETH: 0.1, GasFeeETH: 0.002},
	}

	stats := ComputeStatistics(history, 1)

	assert.Equal(t, 4, stats.TotalTrades)
	assert.Equal(t, 2, stats.ProfitableTrades)
	assert.Equal(t, 1, stats.LosingTrades)
	assert.InDelta(t, 44.0, stats.TotalPnLPercent, 1e-9)
	assert.InDelta(t, 30.0, stats.LargestProfit, 1e-9)
	assert.InDelta(t, -11.0, stats.LargestLoss, 1e-9)
	assert.InDelta(t, 50.0, stats.SuccessRate, 1e-9)
	assert.Equal(t, 1, stats.ActivePositions)
	assert.InDelta(t, 0.4, stats.TotalVolumeETH, 1e-9)
	assert.InDelta(t, 0.01, stats.TotalFeesETH, 1e-9)
}

func TestTradeExecutionCloseIsIdempotent(t *testing.T) {
	trade := &TradeExecution{TradeID: "t1", Action: OrderSideBuy}
	assert.False(t, trade.IsClosed())

	first := time.Now()
	assert.True(t, trade.Close(12.5, first))
	assert.True(t, trade.IsClosed())

	// A second close must not overwrite the resolved outcome.
	assert.False(t, trade.Close(-5, first.Add(time.Hour)))
	assert.InDelta(t, 12.5, *trade.ProfitLoss, 1e-9)
	assert.Equal(t, first, *trade.ClosedAt)
}

func TestPositionPnLPercent(t *testing.T) {
	pos := &Position{EntryPrice: 2.0}
	assert.InDelta(t, 10.0, pos.PnLPercent(2.2), 1e-9)
	assert.InDelta(t, -25.0, pos.PnLPercent(1.5), 1e-9)

	// Degenerate entry price never divides by zero.
	broken := &Position{EntryPrice: 0}
	assert.Zero(t, broken.PnLPercent(1.0))
}
