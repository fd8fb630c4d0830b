package repo

import (
	"context"

	"github.com/go-orz/orz"
	"gorm.io/gorm"

	"github.com/dushixiang/tradebook/internal/models"
)

func NewEntryRepo(db *gorm.DB) *EntryRepo {
	return &EntryRepo{
		Repository: orz.NewRepository[models.Entry, string](db),
	}
}

type EntryRepo struct {
	orz.Repository[models.Entry, string]
}

// FindAllOrdered 按日期升序返回全部条目，空日期排在最前，创建时间兜底
func (r EntryRepo) FindAllOrdered(ctx context.Context) ([]models.Entry, error) {
	var entries []models.Entry
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("date ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}

// FindByAccountId 按账户返回条目，日期升序
func (r EntryRepo) FindByAccountId(ctx context.Context, accountID string) ([]models.Entry, error) {
	var entries []models.Entry
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("account_id = ?", accountID).
		Order("date ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}
