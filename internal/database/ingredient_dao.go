package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// IngredientDAO provides database access for Ingredient entities
type IngredientDAO struct {
	db *DB
}

// NewIngredientDAO creates a new IngredientDAO instance
func NewIngredientDAO(db *DB) *IngredientDAO {
	return &IngredientDAO{db: db}
}

// Create inserts a new ingredient into the database
func (dao *IngredientDAO) Create(ctx context.Context, ing *model.Ingredient) error {
	if err := ing.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, err := dao.db.ExecContext(ctx, `
		INSERT INTO ingredients (id, name, localized_name, type, unit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ing.ID.String(),
		ing.Name,
		ing.LocalizedName,
		ing.Type,
		ing.Unit,
		ing.CreatedAt,
		ing.UpdatedAt,
	)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to insert ingredient", err)
	}
	return nil
}

// Get retrieves an ingredient by ID
func (dao *IngredientDAO) Get(ctx context.Context, id types.ID) (*model.Ingredient, error) {
	ing := &model.Ingredient{}
	var idStr string

	err := dao.db.QueryRowContext(ctx, `
		SELECT id, name, localized_name, type, unit, created_at, updated_at
		FROM ingredients WHERE id = ?`, id.String()).Scan(
		&idStr,
		&ing.Name,
		&ing.LocalizedName,
		&ing.Type,
		&ing.Unit,
		&ing.CreatedAt,
		&ing.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(types.INGREDIENT_NOT_FOUND,
			fmt.Sprintf("ingredient not found: %s", id))
	}
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to scan ingredient", err)
	}

	ing.ID = types.ID(idStr)
	return ing, nil
}

// Update overwrites an ingredient's mutable fields
func (dao *IngredientDAO) Update(ctx context.Context, ing *model.Ingredient) error {
	if err := ing.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result, err := dao.db.ExecContext(ctx, `
		UPDATE ingredients SET name = ?, localized_name = ?, type = ?, unit = ?, updated_at = ?
		WHERE id = ?`,
		ing.Name,
		ing.LocalizedName,
		ing.Type,
		ing.Unit,
		time.Now().UTC(),
		ing.ID.String(),
	)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to update ingredient", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to read rows affected", err)
	}
	if affected == 0 {
		return types.NewError(types.INGREDIENT_NOT_FOUND,
			fmt.Sprintf("ingredient not found: %s", ing.ID))
	}
	return nil
}

// Delete removes an ingredient by ID
func (dao *IngredientDAO) Delete(ctx context.Context, id types.ID) error {
	result, err := dao.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id.String())
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to delete ingredient", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to read rows affected", err)
	}
	if affected == 0 {
		return types.NewError(types.INGREDIENT_NOT_FOUND,
			fmt.Sprintf("ingredient not found: %s", id))
	}
	return nil
}
