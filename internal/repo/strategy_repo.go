package repo

import (
	"context"

	"github.com/go-orz/orz"
	"gorm.io/gorm"

	"github.com/dushixiang/tradebook/internal/models"
)

func NewStrategyRepo(db *gorm.DB) *StrategyRepo {
	return &StrategyRepo{
		Repository: orz.NewRepository[models.Strategy, string](db),
	}
}

type StrategyRepo struct {
	orz.Repository[models.Strategy, string]
}

// FindAllOrderByName 按名称升序返回全部策略
func (r StrategyRepo) FindAllOrderByName(ctx context.Context) ([]models.Strategy, error) {
	var strategies []models.Strategy
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("name ASC").
		Find(&strategies).Error
	return strategies, err
}
