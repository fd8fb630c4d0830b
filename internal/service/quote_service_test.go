package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dushixiang/tradebook/internal/config"
	"github.com/dushixiang/tradebook/internal/xe"
)

func TestQuoteDisabled(t *testing.T) {
	t.Parallel()

	svc := NewQuoteService(&config.Config{}, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Suggest(ctx, "btc")
	require.ErrorIs(t, err, xe.ErrQuoteDisabled)

	_, err = svc.Price(ctx, "BTCUSDT")
	require.ErrorIs(t, err, xe.ErrQuoteDisabled)
}
