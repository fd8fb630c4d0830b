package models

import (
	"time"

	"gorm.io/gorm"
)

// EquitySnapshot 账户权益快照，由定时任务生成
type EquitySnapshot struct {
	ID         string         `gorm:"primaryKey;type:varchar(26)" json:"id"`
	AccountID  string         `gorm:"type:varchar(26);not null;index" json:"account_id"`
	Balance    float64        `gorm:"type:decimal(20,8)" json:"balance"`  // 期初资金加累计净盈亏
	Net        float64        `gorm:"type:decimal(20,8)" json:"net"`      // 累计净盈亏
	Drawdown   float64        `gorm:"type:decimal(20,8)" json:"drawdown"` // 净盈亏曲线的最大回撤（绝对金额）
	Trades     int            `gorm:"type:int" json:"trades"`
	RecordedAt time.Time      `gorm:"not null;index" json:"recorded_at"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (EquitySnapshot) TableName() string {
	return "equity_snapshots"
}
