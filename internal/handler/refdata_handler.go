package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/service"
	"github.com/dushixiang/tradebook/internal/xe"
)

// RefdataHandler 账户/市场/策略维护接口
type RefdataHandler struct {
	refService *service.RefdataService
	logger     *zap.Logger
}

func NewRefdataHandler(refService *service.RefdataService, logger *zap.Logger) *RefdataHandler {
	return &RefdataHandler{
		refService: refService,
		logger:     logger,
	}
}

type AccountRequest struct {
	Name        string  `json:"name" validate:"required"`
	Currency    string  `json:"currency"`
	Initial     float64 `json:"initial"`
	Description string  `json:"description"`
}

type MarketRequest struct {
	Name        string `json:"name" validate:"required"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

type StrategyRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// ---- 账户 ----

func (h *RefdataHandler) ListAccounts(c echo.Context) error {
	accounts, err := h.refService.ListAccounts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"accounts": accounts,
	})
}

func (h *RefdataHandler) CreateAccount(c echo.Context) error {
	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account := &models.Account{
		Name:        req.Name,
		Currency:    req.Currency,
		Initial:     req.Initial,
		Description: req.Description,
	}
	if err := h.refService.CreateAccount(c.Request().Context(), account); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"account": account,
	})
}

func (h *RefdataHandler) UpdateAccount(c echo.Context) error {
	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account := &models.Account{
		ID:          c.Param("id"),
		Name:        req.Name,
		Currency:    req.Currency,
		Initial:     req.Initial,
		Description: req.Description,
	}
	if err := h.refService.UpdateAccount(c.Request().Context(), account); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"account": account,
	})
}

func (h *RefdataHandler) DeleteAccount(c echo.Context) error {
	if err := h.refService.DeleteAccount(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// ---- 市场 ----

func (h *RefdataHandler) ListMarkets(c echo.Context) error {
	markets, err := h.refService.ListMarkets(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"markets": markets,
	})
}

func (h *RefdataHandler) CreateMarket(c echo.Context) error {
	var req MarketRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	market := &models.Market{
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: req.Description,
	}
	if err := h.refService.CreateMarket(c.Request().Context(), market); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"market": market,
	})
}

func (h *RefdataHandler) UpdateMarket(c echo.Context) error {
	var req MarketRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	market := &models.Market{
		ID:          c.Param("id"),
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: req.Description,
	}
	if err := h.refService.UpdateMarket(c.Request().Context(), market); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"market": market,
	})
}

func (h *RefdataHandler) DeleteMarket(c echo.Context) error {
	if err := h.refService.DeleteMarket(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// ---- 策略 ----

func (h *RefdataHandler) ListStrategies(c echo.Context) error {
	strategies, err := h.refService.ListStrategies(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"strategies": strategies,
	})
}

func (h *RefdataHandler) CreateStrategy(c echo.Context) error {
	var req StrategyRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	strategy := &models.Strategy{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.refService.CreateStrategy(c.Request().Context(), strategy); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"strategy": strategy,
	})
}

func (h *RefdataHandler) UpdateStrategy(c echo.Context) error {
	var req StrategyRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	strategy := &models.Strategy{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.refService.UpdateStrategy(c.Request().Context(), strategy); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"strategy": strategy,
	})
}

func (h *RefdataHandler) DeleteStrategy(c echo.Context) error {
	if err := h.refService.DeleteStrategy(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// RegisterRoutes 注册路由
func (h *RefdataHandler) RegisterRoutes(g *echo.Group) {
	refdata := g.Group("/refdata")

	refdata.GET("/accounts", h.ListAccounts)
	refdata.POST("/accounts", h.CreateAccount)
	refdata.PUT("/accounts/:id", h.UpdateAccount)
	refdata.DELETE("/accounts/:id", h.DeleteAccount)

	refdata.GET("/markets", h.ListMarkets)
	refdata.POST("/markets", h.CreateMarket)
	refdata.PUT("/markets/:id", h.UpdateMarket)
	refdata.DELETE("/markets/:id", h.DeleteMarket)

	refdata.GET("/strategies", h.ListStrategies)
	refdata.POST("/strategies", h.CreateStrategy)
	refdata.PUT("/strategies/:id", h.UpdateStrategy)
	refdata.DELETE("/strategies/:id", h.DeleteStrategy)
}
