package numstr

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize 将自由输入的数字文本规范化为标准的十进制字符串
// 规则：
//   - 仅保留数字、逗号、点和负号
//   - 逗号和点同时出现时，最靠右的作为小数分隔符，其余视为千分位输入残留并丢弃
//   - 小数位数超过 maxDecimals 时直接截断（不做四舍五入）
//   - 末尾悬空的分隔符原样保留，用户输入到一半的 "12." 不会被强行折叠成 "12"
//   - allowNegative 为 false 时去掉所有负号，否则只保留一个前导负号
func Normalize(raw string, maxDecimals int, allowNegative bool) string {
	var b strings.Builder
	negative := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.':
			b.WriteRune(r)
		case r == '-':
			negative = true
		}
	}
	s := b.String()

	// 只保留最靠右的一个分隔符
	if idx := strings.LastIndexAny(s, ",."); idx >= 0 {
		sep := s[idx]
		intPart := strings.Map(dropSeparators, s[:idx])
		fracPart := strings.Map(dropSeparators, s[idx+1:])
		if maxDecimals <= 0 {
			// 小数位归零也不吞掉输入到一半的悬空分隔符
			s = intPart
			if fracPart == "" {
				s += string(sep)
			}
		} else {
			if len(fracPart) > maxDecimals {
				fracPart = fracPart[:maxDecimals]
			}
			s = intPart + string(sep) + fracPart
		}
	}

	if negative && allowNegative {
		s = "-" + s
	}
	return s
}

func dropSeparators(r rune) rune {
	if r == ',' || r == '.' {
		return -1
	}
	return r
}

// Parse 宽容地解析十进制字符串，逗号按小数分隔符处理。
// 空串或无法解析时返回 ok=false，表示"缺失"而不是零。
func Parse(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Round2 保留两位小数的字符串表示
func Round2(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
