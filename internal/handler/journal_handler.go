package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dushixiang/tradebook/internal/config"
	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/service"
	"github.com/dushixiang/tradebook/internal/xe"
	"github.com/dushixiang/tradebook/pkg/moneyfmt"
)

// JournalHandler 交易日志HTTP处理器
type JournalHandler struct {
	entryService  *service.EntryService
	statsService  *service.StatsService
	editorService *service.EditorService
	quoteService  *service.QuoteService
	refService    *service.RefdataService
	conf          *config.Config
	logger        *zap.Logger
}

// NewJournalHandler 创建日志处理器
func NewJournalHandler(
	entryService *service.EntryService,
	statsService *service.StatsService,
	editorService *service.EditorService,
	quoteService *service.QuoteService,
	refService *service.RefdataService,
	conf *config.Config,
	logger *zap.Logger,
) *JournalHandler {
	return &JournalHandler{
		entryService:  entryService,
		statsService:  statsService,
		editorService: editorService,
		quoteService:  quoteService,
		refService:    refService,
		conf:          conf,
		logger:        logger,
	}
}

// EntryRequest 创建/整单更新条目的请求体
// 缺省字段一律按空值处理，不因缺字段报错
type EntryRequest struct {
	AccountID    string   `json:"account_id"`
	AccountName  string   `json:"account_name"`
	MarketID     string   `json:"market_id"`
	MarketName   string   `json:"market_name"`
	StrategyID   string   `json:"strategy_id"`
	StrategyName string   `json:"strategy_name"`
	Order        string   `json:"order" validate:"omitempty,oneof=buy sell"`
	Result       string   `json:"result" validate:"omitempty,oneof=gain loss breakeven"`
	Invested     string   `json:"invested"`
	ResultMoney  string   `json:"result_money"`
	Date         string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Session      string   `json:"session" validate:"omitempty,oneof=london newyork tokyo sydney"`
	Respect      string   `json:"respect" validate:"omitempty,oneof=yes no"`
	Comment      string   `json:"comment"`
	Detail       string   `json:"detail"`
	Tags         []string `json:"tags"`
}

func (r *EntryRequest) toModel() *models.Entry {
	return &models.Entry{
		AccountID:    r.AccountID,
		AccountName:  r.AccountName,
		MarketID:     r.MarketID,
		MarketName:   r.MarketName,
		StrategyID:   r.StrategyID,
		StrategyName: r.StrategyName,
		Order:        r.Order,
		Result:       r.Result,
		Invested:     r.Invested,
		ResultMoney:  r.ResultMoney,
		Date:         r.Date,
		Session:      r.Session,
		Respect:      r.Respect,
		Comment:      r.Comment,
		Detail:       r.Detail,
		Tags:         r.Tags,
	}
}

func criteriaFromQuery(c echo.Context) service.Criteria {
	return service.Criteria{
		DateFrom:   c.QueryParam("date_from"),
		DateTo:     c.QueryParam("date_to"),
		Text:       c.QueryParam("text"),
		AccountID:  c.QueryParam("account_id"),
		MarketID:   c.QueryParam("market_id"),
		StrategyID: c.QueryParam("strategy_id"),
		Order:      c.QueryParam("order"),
		Result:     c.QueryParam("result"),
		Respect:    c.QueryParam("respect"),
		Session:    c.QueryParam("session"),
	}
}

// ListEntries 过滤查询条目
// GET /api/journal/entries
func (h *JournalHandler) ListEntries(c echo.Context) error {
	ctx := c.Request().Context()

	entries, err := h.entryService.List(ctx, criteriaFromQuery(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"entries": entries,
	})
}

// GetEntry 查询单个条目
// GET /api/journal/entries/:id
func (h *JournalHandler) GetEntry(c echo.Context) error {
	ctx := c.Request().Context()

	entry, err := h.entryService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"entry":          entry,
		"money_editable": entry.MoneyEditable(),
	})
}

// CreateEntry 创建条目，远端失败时不产生本地记录
// POST /api/journal/entries
func (h *JournalHandler) CreateEntry(c echo.Context) error {
	ctx := c.Request().Context()

	var req EntryRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entry := req.toModel()
	if err := h.entryService.Create(ctx, entry); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"entry": entry,
	})
}

// UpdateEntry 整单更新，与创建共用同一条规范化路径
// PUT /api/journal/entries/:id
func (h *JournalHandler) UpdateEntry(c echo.Context) error {
	ctx := c.Request().Context()

	var req EntryRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entry := req.toModel()
	entry.ID = c.Param("id")
	if err := h.entryService.Update(ctx, entry); err != nil {
		return err
	}
	// 整单更新绕过编辑器缓存，丢掉里面的旧副本
	h.editorService.Forget(entry.ID)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"entry": entry,
	})
}

// QuickEdit 单字段快速编辑，本地立即生效，远端失败时返回降级标记
// PATCH /api/journal/entries/:id
func (h *JournalHandler) QuickEdit(c echo.Context) error {
	ctx := c.Request().Context()

	var patch service.Patch
	if err := c.Bind(&patch); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&patch); err != nil {
		return err
	}

	result, err := h.editorService.Commit(ctx, c.Param("id"), patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"entry":          result.Entry,
		"synced":         result.Synced,
		"money_editable": result.Entry.MoneyEditable(),
	})
}

// FlushEdits 重试所有未同步的本地修改
// POST /api/journal/entries/flush
func (h *JournalHandler) FlushEdits(c echo.Context) error {
	ctx := c.Request().Context()

	failed := h.editorService.Flush(ctx)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"failed": failed,
		"dirty":  h.editorService.DirtyIDs(),
	})
}

// DeleteEntry 删除条目，远端失败时集合保持不变
// DELETE /api/journal/entries/:id
func (h *JournalHandler) DeleteEntry(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if err := h.entryService.Delete(ctx, id); err != nil {
		return err
	}
	h.editorService.Forget(id)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// GetStats 过滤并按维度聚合统计
// GET /api/journal/stats?group_by=account|market|strategy
func (h *JournalHandler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	groupBy := c.QueryParam("group_by")
	if groupBy == "" {
		groupBy = service.GroupByAccount
	}

	stats, err := h.statsService.Stats(ctx, groupBy, criteriaFromQuery(c))
	if err != nil {
		return err
	}

	currencies := h.groupCurrencies(c, groupBy)
	defaultCurrency := h.conf.Journal.DefaultCurrency

	data := make(map[string]interface{}, len(stats))
	for key, st := range stats {
		currency, ok := currencies[key]
		if !ok {
			currency = defaultCurrency
		}
		data[key] = map[string]interface{}{
			"key":           st.Key,
			"name":          st.Name,
			"trades":        st.Trades,
			"wins":          st.Wins,
			"breakeven":     st.Breakeven,
			"gain":          st.Gain,
			"loss":          st.Loss,
			"net":           st.Net,
			"invested":      st.Invested,
			"drawdown":      st.Drawdown,
			"series":        st.Series,
			"net_text":      moneyfmt.Format(st.Net, currency),
			"drawdown_text": moneyfmt.Format(st.Drawdown, currency),
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":    len(data),
		"group_by": groupBy,
		"stats":    data,
	})
}

// groupCurrencies 账户维度下每个分组用自己账户的币种渲染金额
func (h *JournalHandler) groupCurrencies(c echo.Context, groupBy string) map[string]string {
	currencies := make(map[string]string)
	if groupBy != service.GroupByAccount {
		return currencies
	}
	accounts, err := h.refService.ListAccounts(c.Request().Context())
	if err != nil {
		h.logger.Warn("failed to load accounts for money formatting", zap.Error(err))
		return currencies
	}
	for _, a := range accounts {
		currencies[a.ID] = a.Currency
	}
	return currencies
}

// GetEquityCurve 账户权益曲线
// GET /api/journal/equity-curve?account_id=xxx
func (h *JournalHandler) GetEquityCurve(c echo.Context) error {
	ctx := c.Request().Context()

	accountID := c.QueryParam("account_id")
	if accountID == "" {
		return xe.ErrInvalidParams
	}

	curve, err := h.statsService.AccountEquityCurve(ctx, accountID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"account":      curve.Account,
		"net":          curve.Net,
		"balance":      curve.Balance,
		"balance_text": moneyfmt.Format(curve.Balance, curve.Account.Currency),
		"drawdown":     curve.Drawdown,
		"trades":       curve.Trades,
		"series":       curve.Series,
		"snapshots":    curve.Snapshots,
	})
}

// GetSuggestions 市场符号联想
// GET /api/journal/suggestions?q=btc
func (h *JournalHandler) GetSuggestions(c echo.Context) error {
	ctx := c.Request().Context()

	symbols, err := h.quoteService.Suggest(ctx, c.QueryParam("q"))
	if err != nil {
		// 被更新查询替代的结果按空结果返回，调用方直接忽略
		if errors.Is(err, xe.ErrQuoteSuperseded) {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"stale":   true,
				"symbols": []interface{}{},
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"stale":   false,
		"symbols": symbols,
	})
}

// GetQuote 查询交易对最新价格
// GET /api/journal/quote?symbol=BTCUSDT
func (h *JournalHandler) GetQuote(c echo.Context) error {
	ctx := c.Request().Context()

	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return xe.ErrInvalidParams
	}

	price, err := h.quoteService.Price(ctx, symbol)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"price":  price,
	})
}

// GetCurrencies 支持的币种表
// GET /api/journal/currencies
func (h *JournalHandler) GetCurrencies(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"currencies": moneyfmt.Supported(),
	})
}

// RegisterRoutes 注册路由
func (h *JournalHandler) RegisterRoutes(g *echo.Group) {
	journal := g.Group("/journal")

	journal.GET("/entries", h.ListEntries)
	journal.POST("/entries", h.CreateEntry)
	journal.POST("/entries/flush", h.FlushEdits)
	journal.GET("/entries/:id", h.GetEntry)
	journal.PUT("/entries/:id", h.UpdateEntry)
	journal.PATCH("/entries/:id", h.QuickEdit)
	journal.DELETE("/entries/:id", h.DeleteEntry)

	journal.GET("/stats", h.GetStats)
	journal.GET("/equity-curve", h.GetEquityCurve)
	journal.GET("/suggestions", h.GetSuggestions)
	journal.GET("/quote", h.GetQuote)
	journal.GET("/currencies", h.GetCurrencies)
}
