package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Iceblockp/mini-shop-pos/internal/apperror"
	"github.com/Iceblockp/mini-shop-pos/internal/category/dto"
	"github.com/Iceblockp/mini-shop-pos/internal/database"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (parent_id, name, description, created_at, updated_at)
        VALUES (:parent_id, :name, :description, :created_at, :updated_at)
    `
	res, err := r.DB.NamedExecContext(ctx, query, c)
	if err != nil {
		return mapWriteError("category.Create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperror.Storage("category.Create", err)
	}
	c.ID = id
	return nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	var category model.Category
	query := `SELECT * FROM categories WHERE id = ? LIMIT 1`
	err := r.DB.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Storage("category.FindByID", err)
	}
	return &category, nil
}

func (r *SQLiteRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f != nil {
		if f.RootsOnly {
			conditions = append(conditions, "parent_id IS NULL")
		} else if f.ParentID != nil {
			conditions = append(conditions, "parent_id = :parent_id")
			args["parent_id"] = *f.ParentID
		}
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}
	query := "SELECT * FROM categories" + whereClause + " ORDER BY id ASC"

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, apperror.Storage("category.FindAll", err)
	}
	defer nstmt.Close()

	categories := []model.Category{}
	if err := nstmt.SelectContext(ctx, &categories, args); err != nil {
		return nil, apperror.Storage("category.FindAll", err)
	}
	return categories, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET parent_id = :parent_id,
            name = :name,
            description = :description,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := r.DB.NamedExecContext(ctx, query, c)
	if err != nil {
		return mapWriteError("category.Update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Storage("category.Update", err)
	}
	if n == 0 {
		return apperror.NotFound("category.Update", "category", c.ID)
	}
	return nil
}

// Delete removes the row only. Children and products keep their dangling references.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return apperror.Storage("category.Delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Storage("category.Delete", err)
	}
	if n == 0 {
		return apperror.NotFound("category.Delete", "category", id)
	}
	return nil
}

func mapWriteError(op string, err error) error {
	if column, ok := database.IsUniqueViolation(err); ok {
		return apperror.DuplicateKey(op, "category", column, err)
	}
	return apperror.Storage(op, err)
}
