package repo

import (
	"context"

	"github.com/go-orz/orz"
	"gorm.io/gorm"

	"github.com/dushixiang/tradebook/internal/models"
)

func NewMarketRepo(db *gorm.DB) *MarketRepo {
	return &MarketRepo{
		Repository: orz.NewRepository[models.Market, string](db),
	}
}

type MarketRepo struct {
	orz.Repository[models.Market, string]
}

// FindAllOrderByName 按名称升序返回全部市场
func (r MarketRepo) FindAllOrderByName(ctx context.Context) ([]models.Market, error) {
	var markets []models.Market
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("name ASC").
		Find(&markets).Error
	return markets, err
}
