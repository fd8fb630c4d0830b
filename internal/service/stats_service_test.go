package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dushixiang/tradebook/internal/config"
	"github.com/dushixiang/tradebook/internal/models"
)

func TestResolveKey(t *testing.T) {
	t.Parallel()

	known := map[string]string{"acc1": "Main Account"}

	k := ResolveKey("acc1", "stale name", known)
	assert.Equal(t, KeyById, k.Kind)
	assert.Equal(t, "acc1", k.Key)
	assert.Equal(t, "Main Account", k.Name)

	// 外键失效时按名称降级，不丢弃记录
	k = ResolveKey("gone", " Alpha ", known)
	assert.Equal(t, KeyByName, k.Kind)
	assert.Equal(t, "alpha", k.Key)
	assert.Equal(t, "Alpha", k.Name)

	k = ResolveKey("", "Alpha", known)
	assert.Equal(t, KeyByName, k.Kind)
	assert.Equal(t, "alpha", k.Key)

	k = ResolveKey("", "   ", known)
	assert.Equal(t, KeyUnknown, k.Kind)
	assert.Equal(t, UnknownKey, k.Key)
	assert.Equal(t, UnknownKey, k.Name)
}

func TestFilter(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	entries := []models.Entry{
		{ID: "1", Date: "2026-01-05", Result: models.ResultGain, Comment: "Breakout Long"},
		{ID: "2", Date: "2026-02-20", Result: models.ResultLoss, Session: "london"},
		{ID: "3", CreatedAt: created, Result: models.ResultGain, AccountID: "acc1"},
	}

	out := Filter(entries, Criteria{DateFrom: "2026-02-01"})
	require.Len(t, out, 2)
	assert.Equal(t, "2", out[0].ID)
	// 无日期的条目按创建日期参与区间过滤
	assert.Equal(t, "3", out[1].ID)

	out = Filter(entries, Criteria{DateTo: "2026-01-31"})
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)

	out = Filter(entries, Criteria{Text: "breakout"})
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)

	out = Filter(entries, Criteria{Result: models.ResultGain, AccountID: "acc1"})
	require.Len(t, out, 1)
	assert.Equal(t, "3", out[0].ID)

	out = Filter(entries, Criteria{Session: "london"})
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)

	assert.Len(t, Filter(entries, Criteria{}), 3)
}

func fixedKey(models.Entry) GroupKey {
	return GroupKey{Kind: KeyById, Key: "acc1", Name: "Main"}
}

func TestAggregateDrawdown(t *testing.T) {
	t.Parallel()

	entries := []models.Entry{
		{Date: "2026-01-01", Result: models.ResultGain, ResultMoney: "100"},
		{Date: "2026-01-02", Result: models.ResultLoss, ResultMoney: "-150"},
		{Date: "2026-01-03", Result: models.ResultGain, ResultMoney: "20"},
	}

	st := Aggregate(entries, fixedKey)["acc1"]
	require.NotNil(t, st)

	assert.Equal(t, 3, st.Trades)
	assert.Equal(t, 2, st.Wins)
	assert.Equal(t, 0, st.Breakeven)
	assert.InDelta(t, 120, st.Gain, 1e-9)
	assert.InDelta(t, 150, st.Loss, 1e-9)
	assert.InDelta(t, -30, st.Net, 1e-9)
	// 峰值100跌到-50，最大回撤150，以非负金额表示
	assert.InDelta(t, 150, st.Drawdown, 1e-9)

	require.Len(t, st.Series, 3)
	assert.InDelta(t, 100, st.Series[0].Cum, 1e-9)
	assert.InDelta(t, -50, st.Series[1].Cum, 1e-9)
	assert.InDelta(t, -30, st.Series[2].Cum, 1e-9)
}

func TestAggregateInputOrderIrrelevant(t *testing.T) {
	t.Parallel()

	entries := []models.Entry{
		{Date: "2026-01-01", Result: models.ResultGain, ResultMoney: "100"},
		{Date: "2026-01-02", Result: models.ResultLoss, ResultMoney: "-150"},
		{Date: "2026-01-03", Result: models.ResultGain, ResultMoney: "20"},
	}
	reversed := []models.Entry{entries[2], entries[0], entries[1]}

	a := Aggregate(entries, fixedKey)["acc1"]
	b := Aggregate(reversed, fixedKey)["acc1"]
	require.NotNil(t, a)
	require.NotNil(t, b)

	assert.Equal(t, a.Net, b.Net)
	assert.Equal(t, a.Drawdown, b.Drawdown)
	assert.Equal(t, a.Series, b.Series)
}

func TestAggregateUnparseableMoney(t *testing.T) {
	t.Parallel()

	entries := []models.Entry{
		{Date: "2026-01-01", Result: models.ResultGain, ResultMoney: "100"},
		{Date: "2026-01-02", Result: models.ResultGain, ResultMoney: "n/a"},
		{Date: "2026-01-03", Result: models.ResultBreakeven, ResultMoney: "0"},
	}

	st := Aggregate(entries, fixedKey)["acc1"]
	require.NotNil(t, st)

	// 金额不可解析的记录计入笔数但不进数字和
	assert.Equal(t, 3, st.Trades)
	assert.Equal(t, 2, st.Wins)
	assert.Equal(t, 1, st.Breakeven)
	assert.InDelta(t, 100, st.Gain, 1e-9)
	assert.InDelta(t, 100, st.Net, 1e-9)
}

func TestAggregateGroupsByResolvedKey(t *testing.T) {
	t.Parallel()

	known := map[string]string{"acc1": "Main"}
	keyOf := func(e models.Entry) GroupKey {
		return ResolveKey(e.AccountID, e.AccountName, known)
	}

	entries := []models.Entry{
		{Date: "2026-01-01", AccountID: "acc1", ResultMoney: "10", Result: models.ResultGain},
		{Date: "2026-01-02", AccountName: "Alpha", ResultMoney: "5", Result: models.ResultGain},
		{Date: "2026-01-03", AccountName: " alpha ", ResultMoney: "-2", Result: models.ResultLoss},
		{Date: "2026-01-04", ResultMoney: "1", Result: models.ResultGain},
	}

	stats := Aggregate(entries, keyOf)
	require.Len(t, stats, 3)

	assert.Equal(t, 1, stats["acc1"].Trades)
	assert.Equal(t, "Main", stats["acc1"].Name)

	// 名称只差大小写和空白的记录合并到同一组
	require.NotNil(t, stats["alpha"])
	assert.Equal(t, 2, stats["alpha"].Trades)
	assert.Equal(t, "Alpha", stats["alpha"].Name)
	assert.InDelta(t, 3, stats["alpha"].Net, 1e-9)

	require.NotNil(t, stats[UnknownKey])
	assert.Equal(t, 1, stats[UnknownKey].Trades)
}

func TestStatsServiceGroupsByDimension(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	logger := zap.NewNop()
	refdata := NewRefdataService(db, logger)
	stats := NewStatsService(db, refdata, logger)
	editor := NewEditorService(db, &config.Config{}, nil, logger)
	entrySvc := NewEntryService(db, refdata, editor, logger)
	ctx := context.Background()

	account := &models.Account{Name: "Main", Currency: "USD", Initial: 1000}
	require.NoError(t, refdata.CreateAccount(ctx, account))

	seed := []*models.Entry{
		{AccountID: account.ID, Date: "2026-01-01", Result: models.ResultGain, ResultMoney: "100"},
		{AccountID: account.ID, Date: "2026-01-02", Result: models.ResultLoss, ResultMoney: "150"},
		{AccountName: "Side", Date: "2026-01-03", Result: models.ResultGain, ResultMoney: "20"},
	}
	for _, e := range seed {
		require.NoError(t, entrySvc.Create(ctx, e))
	}

	byAccount, err := stats.Stats(ctx, GroupByAccount, Criteria{})
	require.NoError(t, err)
	require.Len(t, byAccount, 2)
	assert.InDelta(t, -50, byAccount[account.ID].Net, 1e-9)
	assert.Equal(t, "Main", byAccount[account.ID].Name)
	assert.Equal(t, 1, byAccount["side"].Trades)

	_, err = stats.Stats(ctx, "bogus", Criteria{})
	require.Error(t, err)
}

func TestAccountEquityCurve(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	logger := zap.NewNop()
	refdata := NewRefdataService(db, logger)
	stats := NewStatsService(db, refdata, logger)
	editor := NewEditorService(db, &config.Config{}, nil, logger)
	entrySvc := NewEntryService(db, refdata, editor, logger)
	ctx := context.Background()

	account := &models.Account{Name: "Main", Currency: "USD", Initial: 1000}
	require.NoError(t, refdata.CreateAccount(ctx, account))

	seed := []*models.Entry{
		{AccountID: account.ID, Date: "2026-01-01", Result: models.ResultGain, ResultMoney: "100"},
		{AccountID: account.ID, Date: "2026-01-02", Result: models.ResultLoss, ResultMoney: "150"},
		{AccountID: account.ID, Date: "2026-01-03", Result: models.ResultGain, ResultMoney: "20"},
	}
	for _, e := range seed {
		require.NoError(t, entrySvc.Create(ctx, e))
	}

	curve, err := stats.AccountEquityCurve(ctx, account.ID)
	require.NoError(t, err)

	assert.Equal(t, account.ID, curve.Account.ID)
	assert.Equal(t, 3, curve.Trades)
	assert.InDelta(t, -30, curve.Net, 1e-9)
	assert.InDelta(t, 970, curve.Balance, 1e-9)
	assert.InDelta(t, 150, curve.Drawdown, 1e-9)
	require.Len(t, curve.Series, 3)

	_, err = stats.AccountEquityCurve(ctx, "missing")
	require.Error(t, err)
}
