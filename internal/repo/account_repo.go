package repo

import (
	"context"

	"github.com/go-orz/orz"
	"gorm.io/gorm"

	"github.com/dushixiang/tradebook/internal/models"
)

func NewAccountRepo(db *gorm.DB) *AccountRepo {
	return &AccountRepo{
		Repository: orz.NewRepository[models.Account, string](db),
	}
}

type AccountRepo struct {
	orz.Repository[models.Account, string]
}

// FindAllOrderByCreatedAt 按创建时间升序返回全部账户
func (r AccountRepo) FindAllOrderByCreatedAt(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("created_at ASC").
		Find(&accounts).Error
	return accounts, err
}
