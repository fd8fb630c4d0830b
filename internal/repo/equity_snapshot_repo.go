package repo

import (
	"context"

	"github.com/go-orz/orz"
	"gorm.io/gorm"

	"github.com/dushixiang/tradebook/internal/models"
)

func NewEquitySnapshotRepo(db *gorm.DB) *EquitySnapshotRepo {
	return &EquitySnapshotRepo{
		Repository: orz.NewRepository[models.EquitySnapshot, string](db),
	}
}

type EquitySnapshotRepo struct {
	orz.Repository[models.EquitySnapshot, string]
}

// FindByAccountIdOrderByRecordedAt 按账户返回快照，记录时间升序
func (r EquitySnapshotRepo) FindByAccountIdOrderByRecordedAt(ctx context.Context, accountID string) ([]models.EquitySnapshot, error) {
	var snapshots []models.EquitySnapshot
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("account_id = ?", accountID).
		Order("recorded_at ASC").
		Find(&snapshots).Error
	return snapshots, err
}
