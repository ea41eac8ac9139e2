package models

// TradingStatistics is a derived aggregate, recomputed in full from the
// trade ledger. Trades with no resolved profit/loss yet are counted in
// TotalTrades but in neither ProfitableTrades nor LosingTrades.
type TradingStatistics struct {
	TotalTrades      int     `json:"total_trades"`
	ProfitableTrades int     `json:"profitable_trades"`
	LosingTrades     int     `json:"losing_trades"`
	TotalPnLPercent  float64 `json:"total_pnl_percent"`
	LargestProfit    float64 `json:"largest_profit"`
	LargestLoss      float64 `json:"largest_loss"`
	SuccessRate      float64 `json:"success_rate"` // percent of closed trades
	ActivePositions  int     `json:"active_positions"`
	TotalVolumeETH   float64 `json:"total_volume_eth"`
	TotalFeesETH     float64 `json:"total_fees_eth"`
}

// ComputeStatistics rebuilds the aggregate from the full ledger. Readers
// always observe a consistent aggregate because the result replaces the
// previous one wholesale.
func ComputeStatistics(history []*TradeExecution, activePositions int) TradingStatistics {
	stats := TradingStatistics{ActivePositions: activePositions}

	for _, trade := range history {
		stats.TotalVolumeETH += trade.AmountETH
		stats.TotalFeesETH += trade.GasFeeETH

		// Only BUY records carry a resolved outcome; SELLs are the
		// closing half of a pair.
		if trade.Action != OrderSideBuy {
			continue
		}
		stats.TotalTrades++
		if trade.ProfitLoss == nil {
			continue
		}
		pl := *trade.ProfitLoss
		stats.TotalPnLPercent += pl
		if pl > 0 {
			stats.ProfitableTrades++
			if pl > stats.LargestProfit {
				stats.LargestProfit = pl
			}
		} else {
			stats.LosingTrades++
			if pl < stats.LargestLoss {
				stats.LargestLoss = pl
			}
		}
	}

	if stats.TotalTrades > 0 {
		stats.SuccessRate = float64(stats.ProfitableTrades) / float64(stats.TotalTrades) * 100
	}
	return stats
}
