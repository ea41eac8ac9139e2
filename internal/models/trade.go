package models

import (
	"time"
)

// TradeExecution is one row of the append-only trade ledger. A record is
// created when an order fills and mutated exactly once afterwards, when a
// matching SELL closes the position opened by this BUY: ProfitLoss and
// ClosedAt are always set together.
type TradeExecution struct {
	ID              uint       `gorm:"primaryKey" json:"-"`
	TradeID         string     `gorm:"uniqueIndex;size:50;not null" json:"trade_id"`
	TokenAddress    string     `gorm:"size:100;not null;index" json:"token_address"`
	Network         string     `gorm:"size:20;not null" json:"network"`
	Symbol          string     `gorm:"size:20" json:"symbol"`
	Action          OrderSide  `gorm:"size:10;not null" json:"action"`
	AmountETH       float64    `gorm:"type:decimal(20,8);not null" json:"amount_eth"`
	PriceUSD        float64    `gorm:"type:decimal(30,12)" json:"price_usd"`
	SlippagePercent float64    `gorm:"type:decimal(10,4)" json:"slippage_percent"`
	GasFeeETH       float64    `gorm:"type:decimal(20,8)" json:"gas_fee_eth"`
	Status          string     `gorm:"size:20;not null" json:"status"`
	TransactionHash string     `gorm:"size:100" json:"transaction_hash,omitempty"`
	ExecutedAt      time.Time  `gorm:"index" json:"executed_at"`
	ProfitLoss      *float64   `gorm:"type:decimal(20,8)" json:"profit_loss,omitempty"` // percent
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
}

// TableName specifies the table name for TradeExecution model
func (TradeExecution) TableName() string {
	return "trade_executions"
}

// IsClosed reports whether this BUY has been matched by a closing SELL.
func (t *TradeExecution) IsClosed() bool {
	return t.ClosedAt != nil
}

// Close marks the record closed. It is a no-op if already closed, so the
// both-or-neither invariant on ProfitLoss/ClosedAt cannot be violated.
func (t *TradeExecution) Close(profitLoss float64, closedAt time.Time) bool {
	if t.IsClosed() {
		return false
	}
	pl := profitLoss
	t.ProfitLoss = &pl
	t.ClosedAt = &closedAt
	return true
}
