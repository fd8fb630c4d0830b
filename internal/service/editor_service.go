package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-orz/orz"
	"github.com/valyala/fasttemplate"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/tradebook/internal/config"
	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/repo"
	"github.com/dushixiang/tradebook/internal/telegram"
	"github.com/dushixiang/tradebook/internal/xe"
	"github.com/dushixiang/tradebook/pkg/numstr"
)

// 可快速编辑的字段
const (
	FieldInvested     = "invested"
	FieldResultMoney  = "result_money"
	FieldResult       = "result"
	FieldOrder        = "order"
	FieldRespect      = "respect"
	FieldSession      = "session"
	FieldComment      = "comment"
	FieldDetail       = "detail"
	FieldDate         = "date"
	FieldAccountName  = "account_name"
	FieldMarketName   = "market_name"
	FieldStrategyName = "strategy_name"
)

// editFailedNotice 同步失败通知模板
const editFailedNotice = "⚠️ 交易记录 {{entry_id}} 的修改仅保存在本地，服务端同步失败: {{error}}"

// Patch 单字段快速编辑
type Patch struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// CommitResult 提交结果：本地已生效的记录和远端同步状态
type CommitResult struct {
	Entry  models.Entry `json:"entry"`
	Synced bool         `json:"synced"`
}

// EditorService 乐观编辑协调器
// 两阶段提交：第一阶段在内存集合上套用修改（总是成功并立即可见），
// 第二阶段向存储层持久化，失败时不回滚本地修改，只打上未同步标记并发出通知。
// 内存集合是唯一属主，所有记录变更都串行通过这把互斥锁
type EditorService struct {
	logger *zap.Logger

	*orz.Service
	*repo.EntryRepo

	conf *config.Config
	tg   *telegram.Telegram

	mu    sync.Mutex
	cache map[string]*models.Entry
	dirty map[string]bool
}

// NewEditorService 创建乐观编辑服务
func NewEditorService(db *gorm.DB, conf *config.Config, tg *telegram.Telegram, logger *zap.Logger) *EditorService {
	return &EditorService{
		logger:    logger,
		Service:   orz.NewService(db),
		EntryRepo: repo.NewEntryRepo(db),
		conf:      conf,
		tg:        tg,
		cache:     make(map[string]*models.Entry),
		dirty:     make(map[string]bool),
	}
}

// Commit 套用单字段修改并尝试持久化
// 补丁在套用前构建完整（输入规范化、符号规则、收益率推导），
// 所以即使远端失败，对外可见的状态也是内部一致的；
// 持久化失败不是错误，以 Synced=false 的降级结果返回
func (s *EditorService) Commit(ctx context.Context, id string, p Patch) (CommitResult, error) {
	s.mu.Lock()
	entry, err := s.loadLocked(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return CommitResult{}, err
	}
	if err := applyPatch(entry, p); err != nil {
		s.mu.Unlock()
		return CommitResult{}, err
	}
	s.dirty[id] = true
	applied := *entry
	s.mu.Unlock()

	// 第二阶段：远端持久化
	if err := s.EntryRepo.Save(ctx, &applied); err != nil {
		s.logger.Warn("entry persist failed, keeping local edit",
			zap.String("entry_id", id),
			zap.String("field", p.Field),
			zap.Error(err))
		s.notifyEditFailed(id, err)
		return CommitResult{Entry: applied, Synced: false}, nil
	}

	// 回灌服务端的权威字段并清除未同步标记
	s.mu.Lock()
	if cached, ok := s.cache[id]; ok {
		cached.UpdatedAt = applied.UpdatedAt
	}
	delete(s.dirty, id)
	s.mu.Unlock()

	return CommitResult{Entry: applied, Synced: true}, nil
}

// Flush 重试所有未同步的本地修改，返回仍然失败的记录数
func (s *EditorService) Flush(ctx context.Context) int {
	s.mu.Lock()
	pending := make([]models.Entry, 0, len(s.dirty))
	for id := range s.dirty {
		if entry, ok := s.cache[id]; ok {
			pending = append(pending, *entry)
		}
	}
	s.mu.Unlock()

	failed := 0
	for i := range pending {
		entry := pending[i]
		if err := s.EntryRepo.Save(ctx, &entry); err != nil {
			s.logger.Warn("flush failed", zap.String("entry_id", entry.ID), zap.Error(err))
			failed++
			continue
		}
		s.mu.Lock()
		if cached, ok := s.cache[entry.ID]; ok {
			cached.UpdatedAt = entry.UpdatedAt
		}
		delete(s.dirty, entry.ID)
		s.mu.Unlock()
	}
	return failed
}

// Unsynced 返回 id 的本地未同步副本，没有时 ok=false
func (s *EditorService) Unsynced(id string) (models.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty[id] {
		if entry, ok := s.cache[id]; ok {
			return *entry, true
		}
	}
	return models.Entry{}, false
}

// DirtyIDs 返回仍未同步的记录ID
func (s *EditorService) DirtyIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.dirty))
	for id := range s.dirty {
		ids = append(ids, id)
	}
	return ids
}

// Forget 记录被删除后清理本地状态
func (s *EditorService) Forget(id string) {
	s.mu.Lock()
	delete(s.cache, id)
	delete(s.dirty, id)
	s.mu.Unlock()
}

// loadLocked 取出内存中的记录，没有时从存储层读入；调用方必须持有锁
func (s *EditorService) loadLocked(ctx context.Context, id string) (*models.Entry, error) {
	if entry, ok := s.cache[id]; ok {
		return entry, nil
	}
	entry, err := s.EntryRepo.FindById(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xe.ErrEntryNotFound
		}
		return nil, err
	}
	s.cache[id] = &entry
	return &entry, nil
}

// applyPatch 构建并套用补丁，派生字段在这里一并重算
func applyPatch(e *models.Entry, p Patch) error {
	switch p.Field {
	case FieldInvested:
		e.Invested = numstr.Normalize(p.Value, models.MoneyMaxDecimals, false)
		e.RecomputeResultPct()
	case FieldResultMoney:
		if !e.MoneyEditable() {
			return xe.ErrMoneyLocked
		}
		e.ResultMoney = p.Value
		e.ApplyResult()
		e.RecomputeResultPct()
	case FieldResult:
		switch p.Value {
		case "", models.ResultGain, models.ResultLoss, models.ResultBreakeven:
			e.Result = p.Value
		default:
			return xe.ErrInvalidParams
		}
		e.ApplyResult()
		e.RecomputeResultPct()
	case FieldOrder:
		switch p.Value {
		case "", models.OrderBuy, models.OrderSell:
			e.Order = p.Value
		default:
			return xe.ErrInvalidParams
		}
	case FieldRespect:
		switch p.Value {
		case "", "yes", "no":
			e.Respect = p.Value
		default:
			return xe.ErrInvalidParams
		}
	case FieldSession:
		switch p.Value {
		case "", "london", "newyork", "tokyo", "sydney":
			e.Session = p.Value
		default:
			return xe.ErrInvalidParams
		}
	case FieldComment:
		e.Comment = p.Value
	case FieldDetail:
		e.Detail = p.Value
	case FieldDate:
		// 非法日期按"未填"处理，不报错
		if _, err := time.Parse("2006-01-02", p.Value); err != nil {
			e.Date = ""
		} else {
			e.Date = p.Value
		}
	case FieldAccountName:
		e.AccountName = p.Value
	case FieldMarketName:
		e.MarketName = p.Value
	case FieldStrategyName:
		e.StrategyName = p.Value
	default:
		return xe.ErrInvalidParams
	}
	return nil
}

// notifyEditFailed 发送降级模式通知，通知失败只记日志
func (s *EditorService) notifyEditFailed(id string, cause error) {
	if s.tg == nil || !s.conf.Telegram.Enabled {
		return
	}
	tmpl := fasttemplate.New(editFailedNotice, "{{", "}}")
	msg := tmpl.ExecuteString(map[string]interface{}{
		"entry_id": id,
		"error":    cause.Error(),
	})
	if err := s.tg.Notify(s.conf.Telegram.ChatID, msg); err != nil {
		s.logger.Warn("failed to send degraded mode notice", zap.Error(err))
	}
}
