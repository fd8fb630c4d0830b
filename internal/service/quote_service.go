package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dushixiang/tradebook/internal/config"
	"github.com/dushixiang/tradebook/internal/xe"
	"github.com/dushixiang/tradebook/pkg/exchange"
)

const defaultSuggestLimit = 10

// QuoteService 市场符号联想与价格查询
// 新的联想查询会取消仍在途的旧查询，过期响应直接废弃，
// 保证旧结果不会覆盖更新的查询状态
type QuoteService struct {
	logger *zap.Logger

	conf    *config.Config
	binance *exchange.BinanceClient

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewQuoteService 创建行情服务
func NewQuoteService(conf *config.Config, binance *exchange.BinanceClient, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		logger:  logger,
		conf:    conf,
		binance: binance,
	}
}

// Suggest 联想查询交易对符号
// 返回 xe.ErrQuoteSuperseded 表示本次查询已被更新的查询替代，调用方应忽略
func (s *QuoteService) Suggest(ctx context.Context, query string) ([]exchange.Symbol, error) {
	if !s.conf.Binance.Enabled || s.binance == nil {
		return nil, xe.ErrQuoteDisabled
	}

	limit := s.conf.Journal.SuggestLimit
	if limit <= 0 {
		limit = defaultSuggestLimit
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		// 取消被替代的在途查询
		s.cancel()
	}
	qctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	symbols, err := s.binance.SearchSymbols(qctx, query, limit)

	s.mu.Lock()
	stale := seq != s.seq
	if !stale {
		cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	if stale {
		return nil, xe.ErrQuoteSuperseded
	}
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

// Price 查询交易对最新价格
func (s *QuoteService) Price(ctx context.Context, symbol string) (float64, error) {
	if !s.conf.Binance.Enabled || s.binance == nil {
		return 0, xe.ErrQuoteDisabled
	}
	return s.binance.GetPrice(ctx, symbol)
}
