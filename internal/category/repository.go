package category

import (
	"context"

	"github.com/Iceblockp/mini-shop-pos/internal/category/dto"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id int64) (*model.Category, error)
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id int64) error
}

// ProductCounter reports how many products reference each category id.
type ProductCounter interface {
	CountByCategory(ctx context.Context) (map[int64]int, error)
}
