package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-orz/orz"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/repo"
	"github.com/dushixiang/tradebook/internal/xe"
	"github.com/dushixiang/tradebook/pkg/numstr"
)

// 分组维度
const (
	GroupByAccount  = "account"
	GroupByMarket   = "market"
	GroupByStrategy = "strategy"
)

// UnknownKey 既没有外键也没有名称的记录落入的兜底分组
const UnknownKey = "—"

// Criteria 过滤条件，全部可选，同时给定时取交集
type Criteria struct {
	DateFrom   string // 含当天，格式 2006-01-02
	DateTo     string // 含当天
	Text       string // 对名称和备注字段做大小写不敏感的子串匹配
	AccountID  string
	MarketID   string
	StrategyID string
	Order      string
	Result     string
	Respect    string
	Session    string
}

// SeriesPoint 累计净盈亏曲线上的一个点
type SeriesPoint struct {
	Timestamp int64   `json:"timestamp"`
	Cum       float64 `json:"cum"`
}

// GroupStat 单个分组的统计结果，每次读取时重新计算，不落库
type GroupStat struct {
	Key       string        `json:"key"`
	Name      string        `json:"name"`
	Trades    int           `json:"trades"`
	Wins      int           `json:"wins"`
	Breakeven int           `json:"breakeven"`
	Gain      float64       `json:"gain"`
	Loss      float64       `json:"loss"`
	Net       float64       `json:"net"`
	Invested  float64       `json:"invested"`
	Drawdown  float64       `json:"drawdown"`
	Series    []SeriesPoint `json:"series"`
}

// GroupKeyKind 分组键的解析途径
type GroupKeyKind int

const (
	KeyById GroupKeyKind = iota // 外键有效且在已知实体中
	KeyByName                   // 外键缺失或失效，回退到冗余名称
	KeyUnknown                  // 两者都没有
)

// GroupKey 分组键的解析结果，三种途径都必须被显式处理
type GroupKey struct {
	Kind GroupKeyKind
	Key  string // 规范化后的分组键
	Name string // 展示名
}

// ResolveKey 两级解析：优先已知外键，其次裁剪并小写化的冗余名称，最后兜底分组。
// 外键存在但已不在已知实体中时按名称降级，而不是丢弃记录。
func ResolveKey(id, name string, known map[string]string) GroupKey {
	if id != "" {
		if display, ok := known[id]; ok {
			return GroupKey{Kind: KeyById, Key: id, Name: display}
		}
	}
	trimmed := strings.TrimSpace(name)
	if trimmed != "" {
		return GroupKey{Kind: KeyByName, Key: strings.ToLower(trimmed), Name: trimmed}
	}
	return GroupKey{Kind: KeyUnknown, Key: UnknownKey, Name: UnknownKey}
}

// Filter 应用过滤条件，条件之间为且的关系
func Filter(entries []models.Entry, c Criteria) []models.Entry {
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if matches(e, c) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e models.Entry, c Criteria) bool {
	day := e.Date
	if day == "" {
		day = e.CreatedAt.UTC().Format("2006-01-02")
	}
	if c.DateFrom != "" && day < c.DateFrom {
		return false
	}
	if c.DateTo != "" && day > c.DateTo {
		return false
	}
	if c.Text != "" {
		haystack := strings.ToLower(strings.Join([]string{
			e.AccountName, e.MarketName, e.StrategyName, e.Comment, e.Detail,
		}, " "))
		if !strings.Contains(haystack, strings.ToLower(c.Text)) {
			return false
		}
	}
	if c.AccountID != "" && e.AccountID != c.AccountID {
		return false
	}
	if c.MarketID != "" && e.MarketID != c.MarketID {
		return false
	}
	if c.StrategyID != "" && e.StrategyID != c.StrategyID {
		return false
	}
	if c.Order != "" && e.Order != c.Order {
		return false
	}
	if c.Result != "" && e.Result != c.Result {
		return false
	}
	if c.Respect != "" && e.Respect != c.Respect {
		return false
	}
	if c.Session != "" && e.Session != c.Session {
		return false
	}
	return true
}

// Aggregate 把记录按分组键折叠成统计结果
// 组内按日期升序（无日期时回退到创建时间），相同时间戳保持原有相对顺序；
// 逐条累计净盈亏，之后更新峰值与回撤；不可解析的金额不进入数字和，
// 但该记录仍然计入笔数，胜负计数只由结果类别驱动
func Aggregate(entries []models.Entry, keyOf func(models.Entry) GroupKey) map[string]*GroupStat {
	groups := make(map[string][]models.Entry)
	names := make(map[string]string)
	for _, e := range entries {
		k := keyOf(e)
		groups[k.Key] = append(groups[k.Key], e)
		if _, ok := names[k.Key]; !ok {
			names[k.Key] = k.Name
		}
	}

	stats := make(map[string]*GroupStat, len(groups))
	for key, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].SortKey() < group[j].SortKey()
		})

		st := &GroupStat{Key: key, Name: names[key], Series: make([]SeriesPoint, 0, len(group))}
		cum, peak, dd := decimal.Zero, decimal.Zero, decimal.Zero
		gain, loss, invested := decimal.Zero, decimal.Zero, decimal.Zero

		for _, e := range group {
			st.Trades++
			switch e.Result {
			case models.ResultGain:
				st.Wins++
			case models.ResultBreakeven:
				st.Breakeven++
			}

			if inv, ok := numstr.Parse(e.Invested); ok {
				invested = invested.Add(inv)
			}
			if amount, ok := numstr.Parse(e.ResultMoney); ok {
				if amount.IsPositive() {
					gain = gain.Add(amount)
				} else {
					loss = loss.Add(amount.Abs())
				}
				cum = cum.Add(amount)
			}

			if cum.GreaterThan(peak) {
				peak = cum
			}
			if diff := cum.Sub(peak); diff.LessThan(dd) {
				dd = diff
			}
			st.Series = append(st.Series, SeriesPoint{
				Timestamp: seriesTimestamp(e),
				Cum:       cum.InexactFloat64(),
			})
		}

		st.Gain = gain.InexactFloat64()
		st.Loss = loss.InexactFloat64()
		st.Net = gain.Sub(loss).InexactFloat64()
		st.Invested = invested.InexactFloat64()
		st.Drawdown = dd.Abs().InexactFloat64()
		stats[key] = st
	}
	return stats
}

func seriesTimestamp(e models.Entry) int64 {
	if e.Date != "" {
		if t, err := time.Parse("2006-01-02", e.Date); err == nil {
			return t.Unix()
		}
	}
	return e.CreatedAt.Unix()
}

// StatsService 统计聚合服务
type StatsService struct {
	logger *zap.Logger

	*orz.Service
	*repo.EntryRepo

	accountRepo  *repo.AccountRepo
	snapshotRepo *repo.EquitySnapshotRepo
	refdata      *RefdataService
}

// NewStatsService 创建统计服务
func NewStatsService(db *gorm.DB, refdata *RefdataService, logger *zap.Logger) *StatsService {
	return &StatsService{
		logger:       logger,
		Service:      orz.NewService(db),
		EntryRepo:    repo.NewEntryRepo(db),
		accountRepo:  repo.NewAccountRepo(db),
		snapshotRepo: repo.NewEquitySnapshotRepo(db),
		refdata:      refdata,
	}
}

// Stats 按指定维度过滤并聚合全部条目
func (s *StatsService) Stats(ctx context.Context, groupBy string, c Criteria) (map[string]*GroupStat, error) {
	keyOf, err := s.keyResolver(ctx, groupBy)
	if err != nil {
		return nil, err
	}

	entries, err := s.EntryRepo.FindAllOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	return Aggregate(Filter(entries, c), keyOf), nil
}

// keyResolver 返回指定维度的分组键解析函数，已知实体来自选项缓存
func (s *StatsService) keyResolver(ctx context.Context, groupBy string) (func(models.Entry) GroupKey, error) {
	var kind string
	switch groupBy {
	case "", GroupByAccount:
		kind = EntityAccount
	case GroupByMarket:
		kind = EntityMarket
	case GroupByStrategy:
		kind = EntityStrategy
	default:
		return nil, xe.ErrInvalidParams
	}

	known, err := s.refdata.Options(ctx, kind)
	if err != nil {
		// 缓存不可用时按名称降级分组，聚合本身保持可用
		s.logger.Warn("refdata options unavailable, grouping by name only", zap.Error(err))
		known = map[string]string{}
	}

	switch kind {
	case EntityMarket:
		return func(e models.Entry) GroupKey { return ResolveKey(e.MarketID, e.MarketName, known) }, nil
	case EntityStrategy:
		return func(e models.Entry) GroupKey { return ResolveKey(e.StrategyID, e.StrategyName, known) }, nil
	default:
		return func(e models.Entry) GroupKey { return ResolveKey(e.AccountID, e.AccountName, known) }, nil
	}
}

// EquityCurve 账户权益曲线数据
type EquityCurve struct {
	Account   models.Account          `json:"account"`
	Net       float64                 `json:"net"`
	Balance   float64                 `json:"balance"` // 期初资金加累计净盈亏
	Drawdown  float64                 `json:"drawdown"`
	Trades    int                     `json:"trades"`
	Series    []SeriesPoint           `json:"series"`
	Snapshots []models.EquitySnapshot `json:"snapshots"`
}

// AccountEquityCurve 计算单个账户的累计净盈亏曲线与历史快照
func (s *StatsService) AccountEquityCurve(ctx context.Context, accountID string) (*EquityCurve, error) {
	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xe.ErrAccountNotFound
		}
		return nil, err
	}

	entries, err := s.EntryRepo.FindByAccountId(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account entries: %w", err)
	}

	keyOf := func(models.Entry) GroupKey {
		return GroupKey{Kind: KeyById, Key: accountID, Name: account.Name}
	}
	stat, ok := Aggregate(entries, keyOf)[accountID]
	if !ok {
		stat = &GroupStat{Key: accountID, Name: account.Name, Series: []SeriesPoint{}}
	}

	snapshots, err := s.snapshotRepo.FindByAccountIdOrderByRecordedAt(ctx, accountID)
	if err != nil {
		s.logger.Warn("failed to load equity snapshots", zap.String("account_id", accountID), zap.Error(err))
		snapshots = nil
	}

	return &EquityCurve{
		Account:   account,
		Net:       stat.Net,
		Balance:   account.Initial + stat.Net,
		Drawdown:  stat.Drawdown,
		Trades:    stat.Trades,
		Series:    stat.Series,
		Snapshots: snapshots,
	}, nil
}
