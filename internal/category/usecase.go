package category

import (
	"context"

	"github.com/Iceblockp/mini-shop-pos/internal/category/dto"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	// Hierarchy reads
	ResolvePath(ctx context.Context, id int64) (string, error)
	ListWithPaths(ctx context.Context) ([]model.CategoryNode, error)
	Tree(ctx context.Context) ([]*model.CategoryNode, error)
}
