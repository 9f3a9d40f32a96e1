package usecase

import (
	"context"
	"time"

	"github.com/Iceblockp/mini-shop-pos/internal/apperror"
	"github.com/Iceblockp/mini-shop-pos/internal/category"
	"github.com/Iceblockp/mini-shop-pos/internal/category/dto"
	"github.com/Iceblockp/mini-shop-pos/internal/logger"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo     category.Repository
	products category.ProductCounter
	logger   logger.ZapLogger
}

// NewCategoryUseCase wires the category store. products may be nil, in which case
// hierarchy reads report zero products per category.
func NewCategoryUseCase(repo category.Repository, products category.ProductCounter, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:     repo,
		products: products,
		logger:   log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	const op = "category.Create"
	if err := apperror.ValidateStruct(op, input); err != nil {
		return nil, err
	}
	if input.ParentID != nil {
		if err := uc.requireParent(ctx, op, *input.ParentID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			CreatedAt: now,
			UpdatedAt: now,
		},
		ParentID:    input.ParentID,
		Name:        input.Name,
		Description: input.Description,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	uc.logger.Debug("Category created", zap.Int64("category_id", cat.ID), zap.String("name", cat.Name))
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperror.NotFound("category.Get", "category", id)
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	const op = "category.Update"
	if err := apperror.ValidateStruct(op, input); err != nil {
		return nil, err
	}

	cat, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperror.NotFound(op, "category", input.ID)
	}

	if input.ParentID != nil {
		if err := uc.requireParent(ctx, op, *input.ParentID); err != nil {
			return nil, err
		}
		all, err := uc.repo.FindAll(ctx, nil)
		if err != nil {
			return nil, err
		}
		if category.IsAncestorOrSelf(all, *input.ParentID, cat.ID) {
			return nil, apperror.Validation(op, "ParentID", "would make the category its own ancestor")
		}
	}

	cat.Name = input.Name
	cat.Description = input.Description
	cat.ParentID = input.ParentID
	cat.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *categoryUseCase) ResolvePath(ctx context.Context, id int64) (string, error) {
	all, err := uc.repo.FindAll(ctx, nil)
	if err != nil {
		return "", err
	}
	return category.ResolvePath(all, id), nil
}

func (uc *categoryUseCase) ListWithPaths(ctx context.Context) ([]model.CategoryNode, error) {
	all, counts, err := uc.loadHierarchy(ctx)
	if err != nil {
		return nil, err
	}
	return category.WithPaths(all, counts), nil
}

func (uc *categoryUseCase) Tree(ctx context.Context) ([]*model.CategoryNode, error) {
	all, counts, err := uc.loadHierarchy(ctx)
	if err != nil {
		return nil, err
	}
	return category.BuildTree(all, counts), nil
}

func (uc *categoryUseCase) loadHierarchy(ctx context.Context) ([]model.Category, map[int64]int, error) {
	all, err := uc.repo.FindAll(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	counts := map[int64]int{}
	if uc.products != nil {
		counts, err = uc.products.CountByCategory(ctx)
		if err != nil {
			return nil, nil, err
		}
	}
	return all, counts, nil
}

func (uc *categoryUseCase) requireParent(ctx context.Context, op string, parentID int64) error {
	parent, err := uc.repo.FindByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return apperror.Validation(op, "ParentID", "parent category does not exist")
	}
	return nil
}
