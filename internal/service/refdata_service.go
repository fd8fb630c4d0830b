package service

import (
	"context"
	"errors"
	"sync"

	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/repo"
	"github.com/dushixiang/tradebook/internal/xe"
	"github.com/dushixiang/tradebook/pkg/moneyfmt"
)

// 实体类型，作为选项缓存的键
const (
	EntityAccount  = "account"
	EntityMarket   = "market"
	EntityStrategy = "strategy"
)

// RefdataService 账户/市场/策略的增删改查与选项缓存
// 缓存按实体类型读穿，写操作使对应类型失效，供过滤和聚合组件注入使用
type RefdataService struct {
	logger *zap.Logger

	*orz.Service

	accountRepo  *repo.AccountRepo
	marketRepo   *repo.MarketRepo
	strategyRepo *repo.StrategyRepo

	optionLock sync.RWMutex
	options    map[string]map[string]string // 实体类型 -> id -> 展示名
}

// NewRefdataService 创建基础数据服务
func NewRefdataService(db *gorm.DB, logger *zap.Logger) *RefdataService {
	return &RefdataService{
		logger:       logger,
		Service:      orz.NewService(db),
		accountRepo:  repo.NewAccountRepo(db),
		marketRepo:   repo.NewMarketRepo(db),
		strategyRepo: repo.NewStrategyRepo(db),
		options:      make(map[string]map[string]string),
	}
}

// Options 返回指定实体类型的 id->名称 映射，首次访问时读库填充
func (s *RefdataService) Options(ctx context.Context, kind string) (map[string]string, error) {
	s.optionLock.RLock()
	cached, ok := s.options[kind]
	s.optionLock.RUnlock()
	if ok {
		return cached, nil
	}

	loaded := make(map[string]string)
	switch kind {
	case EntityAccount:
		accounts, err := s.accountRepo.FindAllOrderByCreatedAt(ctx)
		if err != nil {
			return nil, err
		}
		for _, a := range accounts {
			loaded[a.ID] = a.Name
		}
	case EntityMarket:
		markets, err := s.marketRepo.FindAllOrderByName(ctx)
		if err != nil {
			return nil, err
		}
		for _, m := range markets {
			loaded[m.ID] = m.Name
		}
	case EntityStrategy:
		strategies, err := s.strategyRepo.FindAllOrderByName(ctx)
		if err != nil {
			return nil, err
		}
		for _, st := range strategies {
			loaded[st.ID] = st.Name
		}
	default:
		return nil, xe.ErrInvalidParams
	}

	s.optionLock.Lock()
	s.options[kind] = loaded
	s.optionLock.Unlock()
	return loaded, nil
}

// Invalidate 使指定实体类型的选项缓存失效
func (s *RefdataService) Invalidate(kind string) {
	s.optionLock.Lock()
	delete(s.options, kind)
	s.optionLock.Unlock()
}

// ---- 账户 ----

func (s *RefdataService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.accountRepo.FindAllOrderByCreatedAt(ctx)
}

func (s *RefdataService) GetAccount(ctx context.Context, id string) (models.Account, error) {
	account, err := s.accountRepo.FindById(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, xe.ErrAccountNotFound
		}
		return account, err
	}
	return account, nil
}

// CreateAccount 创建账户，币种入库前翻译为结算码
func (s *RefdataService) CreateAccount(ctx context.Context, account *models.Account) error {
	account.ID = ulid.Make().String()
	account.Currency = moneyfmt.Canonical(account.Currency)
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return err
	}
	s.Invalidate(EntityAccount)
	return nil
}

func (s *RefdataService) UpdateAccount(ctx context.Context, account *models.Account) error {
	if _, err := s.GetAccount(ctx, account.ID); err != nil {
		return err
	}
	account.Currency = moneyfmt.Canonical(account.Currency)
	if err := s.accountRepo.UpdateById(ctx, account); err != nil {
		return err
	}
	s.Invalidate(EntityAccount)
	return nil
}

func (s *RefdataService) DeleteAccount(ctx context.Context, id string) error {
	if _, err := s.GetAccount(ctx, id); err != nil {
		return err
	}
	if err := s.accountRepo.DeleteById(ctx, id); err != nil {
		return err
	}
	s.Invalidate(EntityAccount)
	return nil
}

// ---- 市场 ----

func (s *RefdataService) ListMarkets(ctx context.Context) ([]models.Market, error) {
	return s.marketRepo.FindAllOrderByName(ctx)
}

func (s *RefdataService) CreateMarket(ctx context.Context, market *models.Market) error {
	market.ID = ulid.Make().String()
	if err := s.marketRepo.Create(ctx, market); err != nil {
		return err
	}
	s.Invalidate(EntityMarket)
	return nil
}

func (s *RefdataService) UpdateMarket(ctx context.Context, market *models.Market) error {
	if _, err := s.marketRepo.FindById(ctx, market.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return xe.ErrMarketNotFound
		}
		return err
	}
	if err := s.marketRepo.UpdateById(ctx, market); err != nil {
		return err
	}
	s.Invalidate(EntityMarket)
	return nil
}

func (s *RefdataService) DeleteMarket(ctx context.Context, id string) error {
	if _, err := s.marketRepo.FindById(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return xe.ErrMarketNotFound
		}
		return err
	}
	if err := s.marketRepo.DeleteById(ctx, id); err != nil {
		return err
	}
	s.Invalidate(EntityMarket)
	return nil
}

// ---- 策略 ----

func (s *RefdataService) ListStrategies(ctx context.Context) ([]models.Strategy, error) {
	return s.strategyRepo.FindAllOrderByName(ctx)
}

func (s *RefdataService) CreateStrategy(ctx context.Context, strategy *models.Strategy) error {
	strategy.ID = ulid.Make().String()
	if err := s.strategyRepo.Create(ctx, strategy); err != nil {
		return err
	}
	s.Invalidate(EntityStrategy)
	return nil
}

func (s *RefdataService) UpdateStrategy(ctx context.Context, strategy *models.Strategy) error {
	if _, err := s.strategyRepo.FindById(ctx, strategy.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return xe.ErrStrategyNotFound
		}
		return err
	}
	if err := s.strategyRepo.UpdateById(ctx, strategy); err != nil {
		return err
	}
	s.Invalidate(EntityStrategy)
	return nil
}

func (s *RefdataService) DeleteStrategy(ctx context.Context, id string) error {
	if _, err := s.strategyRepo.FindById(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return xe.ErrStrategyNotFound
		}
		return err
	}
	if err := s.strategyRepo.DeleteById(ctx, id); err != nil {
		return err
	}
	s.Invalidate(EntityStrategy)
	return nil
}
