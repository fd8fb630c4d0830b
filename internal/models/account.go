package models

import (
	"time"

	"gorm.io/gorm"
)

// Account 交易账户
type Account struct {
	ID          string         `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Name        string         `gorm:"type:varchar(64);not null" json:"name"`
	Currency    string         `gorm:"type:varchar(8)" json:"currency"`           // 用户侧币种代码，入库前经币种表规范化
	Initial     float64        `gorm:"type:decimal(20,8)" json:"initial"`         // 期初资金
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (Account) TableName() string {
	return "accounts"
}
