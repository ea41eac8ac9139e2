package repository

import (
	"github.com/dex-sniper/internal/models"
	"gorm.io/gorm"
)

// ClosedPositionRepository handles closed position records
type ClosedPositionRepository struct {
	db *gorm.DB
}

// NewClosedPositionRepository creates a new ClosedPositionRepository
func NewClosedPositionRepository(db *gorm.DB) *ClosedPositionRepository {
	return &ClosedPositionRepository{db: db}
}

// Create creates a closed position record
func (r *ClosedPositionRepository) Create(record *models.ClosedPositionRecord) error {
	return r.db.Create(record).Error
}

// GetRecentPaginated retrieves closed positions with pagination, newest first
func (r *ClosedPositionRepository) GetRecentPaginated(page, pageSize int) ([]models.ClosedPositionRecord, int64, error) {
	var records []models.ClosedPositionRecord
	var total int64

	if err := r.db.Model(&models.ClosedPositionRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	result := r.db.Order("closed_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&records)

	return records, total, result.Error
}
