package database

import (
	"database/sql"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// RowScanner abstracts *sql.Row and *sql.Rows for the scan helpers below.
// External query builders select with SelectColumns and decode with Scan,
// so column order stays defined in exactly one place per entity.
type RowScanner interface {
	Scan(dest ...any) error
}

const userColumns = `
	id, email, first_name, last_name, avatar,
	chronic_diseases, dietary_preferences, allergies, booked_recipes,
	created_at, updated_at
`

const ingredientColumns = `
	id, name, localized_name, type, unit, created_at, updated_at
`

// SelectColumns returns the select list matching Scan's column order.
func (dao *RecipeDAO) SelectColumns() string { return recipeColumns }

// Scan decodes one recipe row selected with SelectColumns.
func (dao *RecipeDAO) Scan(row RowScanner) (*model.Recipe, error) {
	return dao.scanRow(row)
}

// SelectColumns returns the select list matching Scan's column order.
func (dao *UserDAO) SelectColumns() string { return userColumns }

// Scan decodes one user row selected with SelectColumns.
func (dao *UserDAO) Scan(row RowScanner) (*model.User, error) {
	return dao.scanRow(row)
}

// SelectColumns returns the select list matching Scan's column order.
func (dao *IngredientDAO) SelectColumns() string { return ingredientColumns }

// Scan decodes one ingredient row selected with SelectColumns.
func (dao *IngredientDAO) Scan(row RowScanner) (*model.Ingredient, error) {
	ing := &model.Ingredient{}
	var idStr string

	err := row.Scan(
		&idStr,
		&ing.Name,
		&ing.LocalizedName,
		&ing.Type,
		&ing.Unit,
		&ing.CreatedAt,
		&ing.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to scan ingredient", err)
	}

	ing.ID = types.ID(idStr)
	return ing, nil
}
