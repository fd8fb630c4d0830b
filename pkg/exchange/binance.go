package exchange

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2"
)

const symbolCacheTTL = time.Hour

// BinanceClient Binance现货API客户端，只暴露行情查询能力
type BinanceClient struct {
	client *binance.Client

	symbolLock  sync.RWMutex
	symbols     []Symbol
	lastUpdated time.Time
}

// Symbol 交易对信息
type Symbol struct {
	Symbol string `json:"symbol"`
	Base   string `json:"base"`
	Quote  string `json:"quote"`
}

// NewBinanceClient 创建Binance客户端
func NewBinanceClient(apiKey, secretKey, proxyURL string) *BinanceClient {
	var client *binance.Client
	if proxyURL != "" {
		client = binance.NewProxiedClient(apiKey, secretKey, proxyURL)
	} else {
		client = binance.NewClient(apiKey, secretKey)
	}
	return &BinanceClient{client: client}
}

// SearchSymbols 按子串匹配交易对，结果数量上限 limit
func (b *BinanceClient) SearchSymbols(ctx context.Context, query string, limit int) ([]Symbol, error) {
	symbols, err := b.loadSymbols(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	matches := make([]Symbol, 0, limit)
	for _, s := range symbols {
		if strings.Contains(s.Symbol, query) {
			matches = append(matches, s)
			if len(matches) >= limit {
				break
			}
		}
	}
	return matches, nil
}

// GetPrice 获取交易对最新成交价
func (b *BinanceClient) GetPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := b.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get price for %s: %w", symbol, err)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("no price returned for %s", symbol)
	}
	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q for %s: %w", prices[0].Price, symbol, err)
	}
	return price, nil
}

// loadSymbols 获取并缓存交易对列表，缓存一小时
func (b *BinanceClient) loadSymbols(ctx context.Context) ([]Symbol, error) {
	b.symbolLock.RLock()
	if time.Since(b.lastUpdated) < symbolCacheTTL && len(b.symbols) > 0 {
		defer b.symbolLock.RUnlock()
		return b.symbols, nil
	}
	b.symbolLock.RUnlock()

	info, err := b.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange info: %w", err)
	}

	symbols := make([]Symbol, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status != "TRADING" {
			continue
		}
		symbols = append(symbols, Symbol{
			Symbol: s.Symbol,
			Base:   s.BaseAsset,
			Quote:  s.QuoteAsset,
		})
	}

	b.symbolLock.Lock()
	b.symbols = symbols
	b.lastUpdated = time.Now()
	b.symbolLock.Unlock()

	return symbols, nil
}
