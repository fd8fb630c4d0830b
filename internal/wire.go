//go:build wireinject
// +build wireinject

package internal

import (
	"net/http"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/tradebook/internal/config"
	"github.com/dushixiang/tradebook/internal/handler"
	"github.com/dushixiang/tradebook/internal/service"
	"github.com/dushixiang/tradebook/internal/telegram"
	"github.com/dushixiang/tradebook/pkg/exchange"
)

const telegramHTTPTimeout = 10 * time.Second

var (
	handlerSet = wire.NewSet(
		handler.NewJournalHandler,
		handler.NewRefdataHandler,
	)

	journalSet = wire.NewSet(
		provideBinanceClient,
		service.NewRefdataService,
		service.NewEntryService,
		service.NewStatsService,
		service.NewEditorService,
		service.NewQuoteService,
		service.NewSnapshotService,
	)
)

// InitializeApp 初始化应用
func InitializeApp(logger *zap.Logger, db *gorm.DB, conf *config.Config) (*AppComponents, error) {
	wire.Build(
		handlerSet,
		journalSet,
		provideTelegram,
		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}

// provideTelegram provides telegram instance
func provideTelegram(logger *zap.Logger, conf *config.Config) *telegram.Telegram {
	if !conf.Telegram.Enabled {
		return nil
	}

	httpClient := &http.Client{Timeout: telegramHTTPTimeout}

	tg, err := telegram.NewTelegram(logger, telegram.Settings{
		Token:  conf.Telegram.Token,
		Client: httpClient,
	})
	if err != nil {
		logger.Error("failed to init telegram", zap.Error(err))
		return nil
	}

	return tg
}

// provideBinanceClient provides Binance client
func provideBinanceClient(conf *config.Config, logger *zap.Logger) *exchange.BinanceClient {
	if !conf.Binance.Enabled {
		return nil
	}

	client := exchange.NewBinanceClient(
		conf.Binance.APIKey,
		conf.Binance.Secret,
		conf.Binance.ProxyURL,
	)

	logger.Info("Binance client initialized",
		zap.Bool("has_credentials", conf.Binance.APIKey != "" && conf.Binance.Secret != ""),
	)
	return client
}
