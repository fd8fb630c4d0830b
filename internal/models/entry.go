package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dushixiang/tradebook/pkg/numstr"
)

// 结果类别
const (
	ResultGain      = "gain"
	ResultLoss      = "loss"
	ResultBreakeven = "breakeven"
)

// 订单方向
const (
	OrderBuy  = "buy"
	OrderSell = "sell"
)

// MoneyMaxDecimals 金额输入保留的最大小数位
const MoneyMaxDecimals = 2

// Entry 交易日志条目
// 账户/市场/策略的外键可以为空，为空时以冗余的名称字段作为分组兜底
type Entry struct {
	ID           string                      `gorm:"primaryKey;type:varchar(26)" json:"id"`
	AccountID    string                      `gorm:"type:varchar(26);index" json:"account_id"`
	AccountName  string                      `gorm:"type:varchar(64)" json:"account_name"`
	MarketID     string                      `gorm:"type:varchar(26);index" json:"market_id"`
	MarketName   string                      `gorm:"type:varchar(64)" json:"market_name"`
	StrategyID   string                      `gorm:"type:varchar(26);index" json:"strategy_id"`
	StrategyName string                      `gorm:"type:varchar(64)" json:"strategy_name"`
	Order        string                      `gorm:"column:order_side;type:varchar(10)" json:"order"`  // buy/sell，空表示未填
	Result       string                      `gorm:"type:varchar(10);index" json:"result"`             // gain/loss/breakeven，空表示未填
	Invested     string                      `gorm:"type:varchar(32)" json:"invested"`                 // 投入金额，十进制字符串
	ResultMoney  string                      `gorm:"type:varchar(32)" json:"result_money"`             // 带符号的盈亏金额
	ResultPct    string                      `gorm:"type:varchar(16)" json:"result_pct"`               // 派生收益率，两位小数
	Date         string                      `gorm:"type:varchar(10);index" json:"date"`               // 交易日期 2006-01-02
	Session      string                      `gorm:"type:varchar(16)" json:"session"`                  // 交易时段
	Respect      string                      `gorm:"type:varchar(8)" json:"respect"`                   // yes/no，是否遵守交易计划
	Comment      string                      `gorm:"type:text" json:"comment"`
	Detail       string                      `gorm:"type:text" json:"detail"`
	Tags         datatypes.JSONSlice[string] `gorm:"type:json" json:"tags"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt              `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (Entry) TableName() string {
	return "entries"
}

// ApplyResult 按照结果类别约束盈亏金额的符号
// 保本强制清零；亏损强制单个前导负号（零除外）；盈利剥掉负号；
// 未填类别时只做输入规范化，不加符号约束
func (e *Entry) ApplyResult() {
	switch e.Result {
	case ResultBreakeven:
		e.ResultMoney = "0"
	case ResultLoss:
		v := numstr.Normalize(e.ResultMoney, MoneyMaxDecimals, false)
		if d, ok := numstr.Parse(v); ok && !d.IsZero() {
			v = "-" + v
		}
		e.ResultMoney = v
	case ResultGain:
		e.ResultMoney = numstr.Normalize(e.ResultMoney, MoneyMaxDecimals, false)
	default:
		e.ResultMoney = numstr.Normalize(e.ResultMoney, MoneyMaxDecimals, true)
	}
}

// RecomputeResultPct 由盈亏金额和投入重新推导收益率
// 投入为零或不可解析时清空收益率，绝不产生 Inf/NaN
func (e *Entry) RecomputeResultPct() {
	if e.Result == ResultBreakeven {
		e.ResultPct = "0.00"
		return
	}
	invested, ok := numstr.Parse(e.Invested)
	if !ok || invested.IsZero() {
		e.ResultPct = ""
		return
	}
	resultMoney, ok := numstr.Parse(e.ResultMoney)
	if !ok {
		e.ResultPct = ""
		return
	}
	pct := resultMoney.Div(invested).Mul(decimal.NewFromInt(100))
	e.ResultPct = numstr.Round2(pct)
}

// MoneyEditable 保本状态下盈亏金额不可编辑
func (e Entry) MoneyEditable() bool {
	return e.Result != ResultBreakeven
}

// SortKey 组内排序键，无交易日期时回退到创建时间的日期部分
func (e *Entry) SortKey() string {
	if e.Date != "" {
		return e.Date
	}
	return e.CreatedAt.UTC().Format("2006-01-02 15:04:05.000000000")
}
