package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result string
		money  string
		want   string
	}{
		{"breakeven forces zero", ResultBreakeven, "123.45", "0"},
		{"breakeven on empty", ResultBreakeven, "", "0"},
		{"loss gets leading minus", ResultLoss, "12.5", "-12.5"},
		{"loss strips existing minus first", ResultLoss, "-7", "-7"},
		{"loss zero stays unsigned", ResultLoss, "0", "0"},
		{"loss empty stays empty", ResultLoss, "", ""},
		{"gain strips minus", ResultGain, "-12.5", "12.5"},
		{"gain plain", ResultGain, "12.5", "12.5"},
		{"unset keeps sign", "", "-12.5", "-12.5"},
		{"unset normalizes", "", "1,234.567", "1234.56"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := Entry{Result: tt.result, ResultMoney: tt.money}
			e.ApplyResult()
			assert.Equal(t, tt.want, e.ResultMoney)
		})
	}
}

func TestApplyResultNeverDoublesMinus(t *testing.T) {
	t.Parallel()

	e := Entry{Result: ResultLoss, ResultMoney: "-12.5"}
	e.ApplyResult()
	assert.Equal(t, "-12.5", e.ResultMoney)
	// 再套用一次也不会累积负号
	e.ApplyResult()
	assert.Equal(t, "-12.5", e.ResultMoney)
}

func TestRecomputeResultPct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   string
		invested string
		money    string
		want     string
	}{
		{"gain", ResultGain, "200", "25", "12.50"},
		{"loss", ResultLoss, "200", "-25", "-12.50"},
		{"breakeven always zero", ResultBreakeven, "200", "0", "0.00"},
		{"breakeven without invested", ResultBreakeven, "", "0", "0.00"},
		{"missing invested clears", ResultGain, "", "25", ""},
		{"zero invested clears", ResultGain, "0", "25", ""},
		{"missing money clears", ResultGain, "200", "", ""},
		{"comma input", ResultGain, "200,00", "25,00", "12.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := Entry{Result: tt.result, Invested: tt.invested, ResultMoney: tt.money}
			e.RecomputeResultPct()
			assert.Equal(t, tt.want, e.ResultPct)
		})
	}
}

func TestMoneyEditable(t *testing.T) {
	t.Parallel()

	assert.False(t, Entry{Result: ResultBreakeven}.MoneyEditable())
	assert.True(t, Entry{Result: ResultGain}.MoneyEditable())
	assert.True(t, Entry{Result: ResultLoss}.MoneyEditable())
	assert.True(t, Entry{Result: ""}.MoneyEditable())
}

func TestSortKey(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

	dated := Entry{Date: "2026-01-02", CreatedAt: created}
	assert.Equal(t, "2026-01-02", dated.SortKey())

	undated := Entry{CreatedAt: created}
	assert.Equal(t, "2026-03-15 09:30:00.000000000", undated.SortKey())

	// 无日期的条目按创建时间排在同日期条目之后
	assert.Less(t, dated.SortKey(), undated.SortKey())
}
