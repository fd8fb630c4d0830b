package moneyfmt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "USD", Resolve("usd").Code)
	assert.Equal(t, "USD", Resolve(" USD ").Code)
	assert.Equal(t, "XOF", Resolve("cfa").ISO)
	assert.Equal(t, "XOF", Resolve("FCFA").ISO)

	// 存储层的结算码也要能反查回来
	assert.Equal(t, "CFA", Resolve("XOF").Code)

	// 未识别输入兜底到默认币种
	assert.Equal(t, "USD", Resolve("").Code)
	assert.Equal(t, "USD", Resolve("NOPE").Code)
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "USD", Canonical("usd"))
	assert.Equal(t, "XOF", Canonical("CFA"))
	assert.Equal(t, "XOF", Canonical("fcfa"))
	// 无 ISO 结算码的币种保留用户侧代码
	assert.Equal(t, "USDT", Canonical("usdt"))
	assert.Equal(t, "BTC", Canonical("BTC"))
}

func TestSupported(t *testing.T) {
	t.Parallel()

	supported := Supported()
	assert.NotEmpty(t, supported)
	assert.Equal(t, "USD", supported[0].Code)

	// 返回的是副本，调用方改不了注册表
	supported[0].Code = "XXX"
	assert.Equal(t, "USD", Supported()[0].Code)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{"usd", 1234.5, "USD", "$1,234.50"},
		{"usd negative", -99.99, "USD", "-$99.99"},
		{"usd zero", 0, "USD", "$0.00"},
		{"jpy no fraction", 1234, "JPY", "¥1,234"},
		{"stablecoin fallback", 1000, "USDT", "1,000.00 ₮"},
		{"unknown code falls back to default", 5, "NOPE", "$5.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Format(tt.amount, tt.code))
		})
	}
}

func TestFormatNonFinite(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$0.00", Format(math.NaN(), "USD"))
	assert.Equal(t, "$0.00", Format(math.Inf(1), "USD"))
	assert.Equal(t, "$0.00", Format(math.Inf(-1), "USD"))
}
