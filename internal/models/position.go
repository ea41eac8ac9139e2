package models

import (
	"time"
)

// CloseReason explains why a position was exited.
type CloseReason string

const (
	CloseReasonStopLoss     CloseReason = "stop_loss"
	CloseReasonProfitTarget CloseReason = "profit_target"
	CloseReasonTimeExit     CloseReason = "time_exit"
	CloseReasonManual       CloseReason = "manual"
)

// Position is an open holding tracked by the auto-trader. Positions live
// in memory for the duration of the trade; a ClosedPositionRecord is
// written to the ledger when the position exits.
type Position struct {
	PositionID        string    `json:"position_id"`
	EntryTradeID      string    `json:"entry_trade_id"`
	TokenAddress      string    `json:"token_address"`
	Network           string    `json:"network"`
	Symbol            string    `json:"symbol"`
	EntryPrice        float64   `json:"entry_price"`
	AmountETH         float64   `json:"amount_eth"`
	OpenedAt          time.Time `json:"opened_at"`
	StopLossPrice     float64   `json:"stop_loss_price"`
	ProfitTargetPrice float64   `json:"profit_target_price"`
	CurrentPrice      float64   `json:"current_price"`
	CurrentPnL        float64   `json:"current_pnl"` // percent, recomputed each cycle
}

// PnLPercent returns the percentage move of markPrice against the entry.
func (p *Position) PnLPercent(markPrice float64) float64 {
	if p.EntryPrice <= 0 {
		return 0
	}
	return (markPrice - p.EntryPrice) / p.EntryPrice * 100
}

// HoldingTime returns how long the position has been open.
func (p *Position) HoldingTime(now time.Time) time.Duration {
	return now.Sub(p.OpenedAt)
}

// ClosedPositionRecord is the durable record of a fully exited position.
type ClosedPositionRecord struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	PositionID   string      `gorm:"size:50;index" json:"position_id"`
	TokenAddress string      `gorm:"size:100;not null;index" json:"token_address"`
	Network      string      `gorm:"size:20;not null" json:"network"`
	Symbol       string      `gorm:"size:20" json:"symbol"`
	EntryPrice   float64     `gorm:"type:decimal(30,12);not null" json:"entry_price"`
	ExitPrice    float64     `gorm:"type:decimal(30,12);not null" json:"exit_price"`
	AmountETH    float64     `gorm:"type:decimal(20,8);not null" json:"amount_eth"`
	PnLPercent   float64     `gorm:"type:decimal(20,8);not null" json:"pnl_percent"`
	Reason       CloseReason `gorm:"size:20;not null" json:"reason"`
	OpenedAt     time.Time   `json:"opened_at"`
	ClosedAt     time.Time   `gorm:"index" json:"closed_at"`
}

// TableName specifies the table name for ClosedPositionRecord model
func (ClosedPositionRecord) TableName() string {
	return "closed_positions"
}
