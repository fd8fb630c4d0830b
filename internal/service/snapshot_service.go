package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/tradebook/internal/config"
	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/repo"
)

// defaultSnapshotSpec 默认每天零点生成快照
const defaultSnapshotSpec = "0 0 * * *"

// SnapshotService 账户权益快照任务
// 定时把每个账户的条目折叠成净盈亏与回撤，连同期初资金换算的余额落库
type SnapshotService struct {
	logger *zap.Logger

	*orz.Service

	conf         config.SnapshotConf
	accountRepo  *repo.AccountRepo
	entryRepo    *repo.EntryRepo
	snapshotRepo *repo.EquitySnapshotRepo

	cron      *cron.Cron
	isRunning bool
}

// NewSnapshotService 创建快照服务
func NewSnapshotService(db *gorm.DB, conf *config.Config, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{
		logger:       logger,
		Service:      orz.NewService(db),
		conf:         conf.Snapshot,
		accountRepo:  repo.NewAccountRepo(db),
		entryRepo:    repo.NewEntryRepo(db),
		snapshotRepo: repo.NewEquitySnapshotRepo(db),
	}
}

// Start 启动定时任务
func (s *SnapshotService) Start() error {
	if s.isRunning {
		return fmt.Errorf("snapshot job is already running")
	}

	spec := s.conf.Spec
	if spec == "" {
		spec = defaultSnapshotSpec
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.CaptureAll(context.Background()); err != nil {
			s.logger.Error("equity snapshot failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("equity snapshot job started", zap.String("spec", spec))
	return nil
}

// Stop 停止定时任务，等待在途任务完成
func (s *SnapshotService) Stop() {
	if !s.isRunning {
		return
	}
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	s.isRunning = false
	s.logger.Info("equity snapshot job stopped")
}

// IsRunning 任务是否在运行
func (s *SnapshotService) IsRunning() bool {
	return s.isRunning
}

// CaptureAll 为全部账户生成一次权益快照
func (s *SnapshotService) CaptureAll(ctx context.Context) error {
	accounts, err := s.accountRepo.FindAllOrderByCreatedAt(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	now := time.Now()
	var errs error
	for _, account := range accounts {
		if err := s.capture(ctx, account, now); err != nil {
			s.logger.Error("failed to capture account snapshot",
				zap.String("account_id", account.ID),
				zap.Error(err))
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

func (s *SnapshotService) capture(ctx context.Context, account models.Account, at time.Time) error {
	entries, err := s.entryRepo.FindByAccountId(ctx, account.ID)
	if err != nil {
		return err
	}

	keyOf := func(models.Entry) GroupKey {
		return GroupKey{Kind: KeyById, Key: account.ID, Name: account.Name}
	}
	stat, ok := Aggregate(entries, keyOf)[account.ID]
	if !ok {
		stat = &GroupStat{}
	}

	snapshot := &models.EquitySnapshot{
		ID:         ulid.Make().String(),
		AccountID:  account.ID,
		Balance:    account.Initial + stat.Net,
		Net:        stat.Net,
		Drawdown:   stat.Drawdown,
		Trades:     stat.Trades,
		RecordedAt: at,
	}
	return s.snapshotRepo.Create(ctx, snapshot)
}
