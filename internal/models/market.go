package models

import (
	"time"

	"gorm.io/gorm"
)

// Market 交易市场/品种
type Market struct {
	ID          string         `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Name        string         `gorm:"type:varchar(64);not null" json:"name"`
	Symbol      string         `gorm:"type:varchar(20);index" json:"symbol"` // 交易所符号，用于行情联想，可为空
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (Market) TableName() string {
	return "markets"
}
