package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/xe"
)

func TestAccountCurrencyCanonicalized(t *testing.T) {
	t.Parallel()

	svc := NewRefdataService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	account := &models.Account{Name: "West Africa", Currency: "cfa", Initial: 500}
	require.NoError(t, svc.CreateAccount(ctx, account))
	assert.Equal(t, "XOF", account.Currency)

	account.Currency = "usdt"
	require.NoError(t, svc.UpdateAccount(ctx, account))
	assert.Equal(t, "USDT", account.Currency)
}

func TestOptionsCacheInvalidation(t *testing.T) {
	t.Parallel()

	svc := NewRefdataService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	options, err := svc.Options(ctx, EntityMarket)
	require.NoError(t, err)
	assert.Empty(t, options)

	market := &models.Market{Name: "BTC/USDT", Symbol: "BTCUSDT"}
	require.NoError(t, svc.CreateMarket(ctx, market))

	options, err = svc.Options(ctx, EntityMarket)
	require.NoError(t, err)
	assert.Equal(t, "BTC/USDT", options[market.ID])

	_, err = svc.Options(ctx, "nope")
	require.ErrorIs(t, err, xe.ErrInvalidParams)
}

func TestRefdataNotFound(t *testing.T) {
	t.Parallel()

	svc := NewRefdataService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	_, err := svc.GetAccount(ctx, "missing")
	require.ErrorIs(t, err, xe.ErrAccountNotFound)
	require.ErrorIs(t, svc.DeleteMarket(ctx, "missing"), xe.ErrMarketNotFound)
	require.ErrorIs(t, svc.UpdateStrategy(ctx, &models.Strategy{ID: "missing"}), xe.ErrStrategyNotFound)
}

func TestStrategyCrud(t *testing.T) {
	t.Parallel()

	svc := NewRefdataService(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	strategy := &models.Strategy{Name: "Breakout", Description: "range break"}
	require.NoError(t, svc.CreateStrategy(ctx, strategy))
	require.NotEmpty(t, strategy.ID)

	strategy.Name = "Breakout v2"
	require.NoError(t, svc.UpdateStrategy(ctx, strategy))

	list, err := svc.ListStrategies(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Breakout v2", list[0].Name)

	require.NoError(t, svc.DeleteStrategy(ctx, strategy.ID))
	list, err = svc.ListStrategies(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
