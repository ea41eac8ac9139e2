package repository

import (
	"errors"
	"time"

	"github.com/dex-sniper/internal/models"
	"gorm.io/gorm"
)

var (
	ErrOperatorNotFound = errors.New("operator not found")
)

// OperatorRepository handles operator account data access
type OperatorRepository struct {
	db *gorm.DB
}

// NewOperatorRepository creates a new OperatorRepository
func NewOperatorRepository(db *gorm.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

// Create creates a new operator account
func (r *OperatorRepository) Create(operator *models.Operator) error {
	return r.db.Create(operator).Error
}

// GetByID retrieves an operator by ID
func (r *OperatorRepository) GetByID(id uint) (*models.Operator, error) {
	var operator models.Operator
	result := r.db.First(&operator, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, result.Error
	}
	return &operator, nil
}

// GetByUsernameOrEmail retrieves an operator by username or email
func (r *OperatorRepository) GetByUsernameOrEmail(identifier string) (*models.Operator, error) {
	var operator models.Operator
	result := r.db.Where("username = ? OR email = ?", identifier, identifier).First(&operator)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, result.Error
	}
	return &operator, nil
}

// ExistsByUsername checks if a username is taken
func (r *OperatorRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Operator{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if an email is taken
func (r *OperatorRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Operator{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Count returns the number of registered operators, soft-deleted ones
// included, so the admin bootstrap cannot repeat after a deletion.
func (r *OperatorRepository) Count() (int64, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.Operator{}).Count(&count).Error
	return count, err
}

// RecordLogin stamps the operator's last successful login
func (r *OperatorRepository) RecordLogin(id uint, at time.Time) error {
	return r.db.Model(&models.Operator{}).Where("id = ?", id).
		Update("last_login_at", at).Error
}
