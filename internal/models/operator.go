package models

import (
	"time"

	"gorm.io/gorm"
)

// OperatorRole gates what an account may do through the API. Admins
// drive the trading loop, change its thresholds and place manual
// trades; observers get the read-only surface.
type OperatorRole string

const (
	RoleAdmin    OperatorRole = "admin"
	RoleObserver OperatorRole = "observer"
)

// Operator is an account that can log in to the trading API. The first
// registered operator is the bot's admin; later registrations default
// to observer until promoted.
type Operator struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         OperatorRole   `gorm:"size:20;not null;default:observer" json:"role"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// CanControl reports whether this operator may start, stop, reconfigure
// or trade through the bot.
func (o *Operator) CanControl() bool {
	return o.Role == RoleAdmin
}

// TableName specifies the table name for Operator model
func (Operator) TableName() string {
	return "operators"
}
