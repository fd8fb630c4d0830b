package xe

import "github.com/go-orz/orz"

var (
	ErrInvalidParams     = orz.NewError(10400, "参数无效")
	ErrCurrentNotAllowed = orz.NewError(10004, "当前不允许操作")

	ErrEntryNotFound    = orz.NewError(10100, "交易记录不存在")
	ErrAccountNotFound  = orz.NewError(10101, "账户不存在")
	ErrMarketNotFound   = orz.NewError(10102, "市场不存在")
	ErrStrategyNotFound = orz.NewError(10103, "策略不存在")

	ErrMoneyLocked     = orz.NewError(10110, "保本状态下盈亏金额不可编辑")
	ErrQuoteSuperseded = orz.NewError(10120, "查询已被更新的请求替代")
	ErrQuoteDisabled   = orz.NewError(10121, "行情联想未启用")
)
