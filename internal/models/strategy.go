package models

import (
	"time"

	"gorm.io/gorm"
)

// Strategy 交易策略
type Strategy struct {
	ID          string         `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Name        string         `gorm:"type:varchar(64);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (Strategy) TableName() string {
	return "strategies"
}
