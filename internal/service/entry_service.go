package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/repo"
	"github.com/dushixiang/tradebook/internal/xe"
	"github.com/dushixiang/tradebook/pkg/numstr"
)

// EntryService 交易日志条目的创建、整单更新与删除
// 创建和删除都是先写库再生效，远端失败时内存集合保持不变，
// 不会产生只存在于本地的幽灵记录；
// 读取时用编辑器里未同步的本地副本覆盖存储层返回的旧值
type EntryService struct {
	logger *zap.Logger

	*orz.Service
	*repo.EntryRepo

	refdata *RefdataService
	editor  *EditorService
}

// NewEntryService 创建条目服务
func NewEntryService(db *gorm.DB, refdata *RefdataService, editor *EditorService, logger *zap.Logger) *EntryService {
	return &EntryService{
		logger:    logger,
		Service:   orz.NewService(db),
		EntryRepo: repo.NewEntryRepo(db),
		refdata:   refdata,
		editor:    editor,
	}
}

// Create 创建条目：规范化金额输入、套用结果符号规则、推导收益率后入库
func (s *EntryService) Create(ctx context.Context, entry *models.Entry) error {
	entry.ID = ulid.Make().String()
	s.normalize(ctx, entry)

	if err := s.EntryRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

// Update 整单更新，走与创建完全相同的规范化路径
func (s *EntryService) Update(ctx context.Context, entry *models.Entry) error {
	existing, err := s.Get(ctx, entry.ID)
	if err != nil {
		return err
	}
	entry.CreatedAt = existing.CreatedAt
	s.normalize(ctx, entry)

	if err := s.EntryRepo.UpdateById(ctx, entry); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

// Delete 删除条目，远端失败时直接返回错误，不做本地乐观删除
func (s *EntryService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.EntryRepo.DeleteById(ctx, id)
}

// Get 按主键查询条目，未同步的本地修改优先于存储层的旧值
func (s *EntryService) Get(ctx context.Context, id string) (models.Entry, error) {
	if local, ok := s.editor.Unsynced(id); ok {
		return local, nil
	}
	entry, err := s.EntryRepo.FindById(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entry, xe.ErrEntryNotFound
		}
		return entry, err
	}
	return entry, nil
}

// List 加载全部条目并在内存中应用过滤条件
// 存储层返回的旧值先被未同步的本地副本覆盖，再进过滤
func (s *EntryService) List(ctx context.Context, c Criteria) ([]models.Entry, error) {
	entries, err := s.EntryRepo.FindAllOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	for i := range entries {
		if local, ok := s.editor.Unsynced(entries[i].ID); ok {
			entries[i] = local
		}
	}
	return Filter(entries, c), nil
}

// normalize 创建与整单更新共用的规范化路径
func (s *EntryService) normalize(ctx context.Context, entry *models.Entry) {
	entry.Invested = numstr.Normalize(entry.Invested, models.MoneyMaxDecimals, false)
	entry.ApplyResult()
	entry.RecomputeResultPct()
	s.fillNames(ctx, entry)
}

// fillNames 外键有效时回填冗余名称，保证名称兜底分组可用
func (s *EntryService) fillNames(ctx context.Context, entry *models.Entry) {
	fill := func(kind, id string, name *string) {
		if id == "" {
			return
		}
		options, err := s.refdata.Options(ctx, kind)
		if err != nil {
			s.logger.Warn("failed to load options for name fill", zap.String("kind", kind), zap.Error(err))
			return
		}
		if display, ok := options[id]; ok {
			*name = display
		}
	}
	fill(EntityAccount, entry.AccountID, &entry.AccountName)
	fill(EntityMarket, entry.MarketID, &entry.MarketName)
	fill(EntityStrategy, entry.StrategyID, &entry.StrategyName)
}
