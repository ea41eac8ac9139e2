package repository

import (
	"errors"
	"time"

	"github.com/dex-sniper/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTradeNotFound = errors.New("trade not found")
)

// TradeRepository handles trade ledger data access
type TradeRepository struct {
	db *gorm.DB
}

// NewTradeRepository creates a new TradeRepository
func NewTradeRepository(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// Create appends a trade execution to the ledger
func (r *TradeRepository) Create(trade *models.TradeExecution) error {
	return r.db.Create(trade).Error
}

// GetByTradeID retrieves a trade by its trade id
func (r *TradeRepository) GetByTradeID(tradeID string) (*models.TradeExecution, error) {
	var trade models.TradeExecution
	result := r.db.Where("trade_id = ?", tradeID).First(&trade)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, result.Error
	}
	return &trade, nil
}

// MarkClosed sets profit/loss and close time on a trade. Both columns
// are written in one update so the row is never half-closed.
func (r *TradeRepository) MarkClosed(tradeID string, profitLoss float64, closedAt time.Time) error {
	result := r.db.Model(&models.TradeExecution{}).
		Where("trade_id = ? AND closed_at IS NULL", tradeID).
		Updates(map[string]interface{}{
			"profit_loss": profitLoss,
			"closed_at":   closedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTradeNotFound
	}
	return nil
}

// GetRecent retrieves the most recent trades, newest first
func (r *TradeRepository) GetRecent(limit int) ([]models.TradeExecution, error) {
	var trades []models.TradeExecution
	result := r.db.Order("executed_at DESC").Limit(limit).Find(&trades)
	return trades, result.Error
}

// GetByTokenAddress retrieves trades for a token, newest first
func (r *TradeRepository) GetByTokenAddress(tokenAddress string) ([]models.TradeExecution, error) {
	var trades []models.TradeExecution
	result := r.db.Where("token_address = ?", tokenAddress).Order("executed_at DESC").Find(&trades)
	return trades, result.Error
}
