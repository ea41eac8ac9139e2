package repository

import (
	"time"

	"github.com/dex-sniper/internal/models"
	"gorm.io/gorm"
)

// Ledger is the durable sink for trade outcomes. The auto-trader keeps
// its working state in memory and treats ledger writes as best-effort;
// callers log write failures instead of aborting a trading cycle.
type Ledger struct {
	trades          *TradeRepository
	closedPositions *ClosedPositionRepository
}

// NewLedger creates a Ledger over the given database
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{
		trades:          NewTradeRepository(db),
		closedPositions: NewClosedPositionRepository(db),
	}
}

// RecordTrade appends a trade execution
func (l *Ledger) RecordTrade(trade *models.TradeExecution) error {
	return l.trades.Create(trade)
}

// CloseTrade marks a ledger trade closed with its resolved profit/loss
func (l *Ledger) CloseTrade(tradeID string, profitLoss float64, closedAt time.Time) error {
	return l.trades.MarkClosed(tradeID, profitLoss, closedAt)
}

// RecordClosedPosition stores the durable record of an exited position
func (l *Ledger) RecordClosedPosition(record *models.ClosedPositionRecord) error {
	return l.closedPositions.Create(record)
}

// RecentClosedPositions returns recent closed positions, newest first
func (l *Ledger) RecentClosedPositions(page, pageSize int) ([]models.ClosedPositionRecord, int64, error) {
	return l.closedPositions.GetRecentPaginated(page, pageSize)
}
