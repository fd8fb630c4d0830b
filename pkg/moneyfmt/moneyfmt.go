package moneyfmt

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency 用户侧币种与结算币种的映射关系
// ISO 为空表示没有对应的 ISO 结算码（如稳定币），只能用符号做后缀展示
type Currency struct {
	Code   string `json:"code"`
	ISO    string `json:"iso"`
	Symbol string `json:"symbol"`
}

// registry 固定的币种表，首行是未识别输入的兜底币种
// 多个用户侧代码可以映射到同一个结算码（如 CFA/FCFA 都结算为 XOF）
var registry = []Currency{
	{Code: "USD", ISO: "USD", Symbol: "$"},
	{Code: "EUR", ISO: "EUR", Symbol: "€"},
	{Code: "GBP", ISO: "GBP", Symbol: "£"},
	{Code: "JPY", ISO: "JPY", Symbol: "¥"},
	{Code: "CHF", ISO: "CHF", Symbol: "CHF"},
	{Code: "CAD", ISO: "CAD", Symbol: "$"},
	{Code: "AUD", ISO: "AUD", Symbol: "$"},
	{Code: "NZD", ISO: "NZD", Symbol: "$"},
	{Code: "CNY", ISO: "CNY", Symbol: "¥"},
	{Code: "HKD", ISO: "HKD", Symbol: "$"},
	{Code: "SGD", ISO: "SGD", Symbol: "$"},
	{Code: "INR", ISO: "INR", Symbol: "₹"},
	{Code: "BRL", ISO: "BRL", Symbol: "R$"},
	{Code: "RUB", ISO: "RUB", Symbol: "₽"},
	{Code: "TRY", ISO: "TRY", Symbol: "₺"},
	{Code: "ZAR", ISO: "ZAR", Symbol: "R"},
	{Code: "CFA", ISO: "XOF", Symbol: "F CFA"},
	{Code: "FCFA", ISO: "XOF", Symbol: "F CFA"},
	{Code: "USDT", ISO: "", Symbol: "₮"},
	{Code: "USDC", ISO: "", Symbol: "USDC"},
	{Code: "BTC", ISO: "", Symbol: "₿"},
}

// Resolve 大小写不敏感地查找币种，未识别时返回表中第一行
// 先按用户侧代码匹配，再按结算码反查，服务端存的 ISO 码也能解析回来
func Resolve(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range registry {
		if c.Code == code {
			return c
		}
	}
	for _, c := range registry {
		if c.ISO == code {
			return c
		}
	}
	return registry[0]
}

// Canonical 返回与存储层交换用的结算码，没有 ISO 码的币种退回用户侧代码
func Canonical(code string) string {
	c := Resolve(code)
	if c.ISO != "" {
		return c.ISO
	}
	return c.Code
}

// Supported 返回全部支持的币种，顺序即注册顺序
func Supported() []Currency {
	out := make([]Currency, len(registry))
	copy(out, registry)
	return out
}

// Format 将金额渲染成带币种的展示文本，永远不会失败：
// 有 ISO 结算码时走 go-money 的币种模板，否则退化为分组数字加符号后缀。
// 负数由模板自带的符号约定处理，不手工拼负号。
func Format(amount float64, code string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	c := Resolve(code)

	if c.ISO != "" {
		if cur := money.GetCurrency(c.ISO); cur != nil {
			minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
			return cur.Formatter().Format(minor.IntPart())
		}
	}

	// 无结算码或模板缺失时的兜底展示
	fallback := money.Formatter{
		Fraction: 2,
		Decimal:  ".",
		Thousand: ",",
		Grapheme: c.Symbol,
		Template: "1 $",
	}
	minor := decimal.NewFromFloat(amount).Shift(2).Round(0)
	return fallback.Format(minor.IntPart())
}
