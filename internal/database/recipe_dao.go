package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// RecipeDAO provides database access for Recipe entities
type RecipeDAO struct {
	db *DB
}

// NewRecipeDAO creates a new RecipeDAO instance
func NewRecipeDAO(db *DB) *RecipeDAO {
	return &RecipeDAO{db: db}
}

const recipeColumns = `
	id, name, description, images, ingredients, preferred_meal_times,
	difficulty, cooking_time, rating, review_count, status, moderator_note,
	user_id, user_name, user_avatar,
	chronic_diseases, dietary_preferences, allergies,
	created_at, updated_at
`

// Create inserts a new recipe into the database
func (dao *RecipeDAO) Create(ctx context.Context, recipe *model.Recipe) error {
	if err := recipe.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	imagesJSON, err := json.Marshal(emptyIfNil(recipe.Images))
	if err != nil {
		return fmt.Errorf("failed to marshal images: %w", err)
	}
	ingredientsJSON, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	mealTimesJSON, err := json.Marshal(emptyIfNil(recipe.PreferredMealTimes))
	if err != nil {
		return fmt.Errorf("failed to marshal meal times: %w", err)
	}
	diseasesJSON, prefsJSON, allergiesJSON, err := marshalProfile(recipe.MedicalProfile)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO recipes (` + recipeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = dao.db.ExecContext(ctx, query,
		recipe.ID.String(),
		recipe.Name,
		recipe.Description,
		string(imagesJSON),
		string(ingredientsJSON),
		string(mealTimesJSON),
		string(recipe.Difficulty),
		recipe.CookingTimeMinutes,
		recipe.Rating,
		recipe.ReviewCount,
		recipe.Status.String(),
		recipe.ModeratorNote,
		recipe.User.ID.String(),
		recipe.User.Name,
		recipe.User.Avatar,
		diseasesJSON,
		prefsJSON,
		allergiesJSON,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to insert recipe", err)
	}

	return nil
}

// Get retrieves a recipe by ID
func (dao *RecipeDAO) Get(ctx context.Context, id types.ID) (*model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = ?`

	recipe, err := dao.scanRow(dao.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(types.RECIPE_NOT_FOUND,
			fmt.Sprintf("recipe not found: %s", id))
	}
	return recipe, err
}

// Update overwrites a recipe's mutable fields
func (dao *RecipeDAO) Update(ctx context.Context, recipe *model.Recipe) error {
	if err := recipe.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	imagesJSON, err := json.Marshal(emptyIfNil(recipe.Images))
	if err != nil {
		return fmt.Errorf("failed to marshal images: %w", err)
	}
	ingredientsJSON, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	mealTimesJSON, err := json.Marshal(emptyIfNil(recipe.PreferredMealTimes))
	if err != nil {
		return fmt.Errorf("failed to marshal meal times: %w", err)
	}
	diseasesJSON, prefsJSON, allergiesJSON, err := marshalProfile(recipe.MedicalProfile)
	if err != nil {
		return err
	}

	query := `
		UPDATE recipes SET
			name = ?, description = ?, images = ?, ingredients = ?,
			preferred_meal_times = ?, difficulty = ?, cooking_time = ?,
			rating = ?, review_count = ?, status = ?, moderator_note = ?,
			chronic_diseases = ?, dietary_preferences = ?, allergies = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := dao.db.ExecContext(ctx, query,
		recipe.Name,
		recipe.Description,
		string(imagesJSON),
		string(ingredientsJSON),
		string(mealTimesJSON),
		string(recipe.Difficulty),
		recipe.CookingTimeMinutes,
		recipe.Rating,
		recipe.ReviewCount,
		recipe.Status.String(),
		recipe.ModeratorNote,
		diseasesJSON,
		prefsJSON,
		allergiesJSON,
		time.Now().UTC(),
		recipe.ID.String(),
	)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to update recipe", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to read rows affected", err)
	}
	if affected == 0 {
		return types.NewError(types.RECIPE_NOT_FOUND,
			fmt.Sprintf("recipe not found: %s", recipe.ID))
	}

	return nil
}

// SetModeration records a moderation decision on a recipe.
func (dao *RecipeDAO) SetModeration(ctx context.Context, id types.ID, status model.RecipeStatus, note string) error {
	if !status.IsValid() {
		return types.NewError(types.ENTITY_INVALID,
			fmt.Sprintf("invalid recipe status: %q", status))
	}

	result, err := dao.db.ExecContext(ctx,
		`UPDATE recipes SET status = ?, moderator_note = ?, updated_at = ? WHERE id = ?`,
		status.String(), note, time.Now().UTC(), id.String())
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to update recipe status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to read rows affected", err)
	}
	if affected == 0 {
		return types.NewError(types.RECIPE_NOT_FOUND, fmt.Sprintf("recipe not found: %s", id))
	}
	return nil
}

// List returns all recipes ordered by creation time. Used by bulk seeding.
func (dao *RecipeDAO) List(ctx context.Context) ([]*model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes ORDER BY created_at`

	rows, err := dao.db.QueryContext(ctx, query)
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to list recipes", err)
	}
	defer rows.Close()

	var recipes []*model.Recipe
	for rows.Next() {
		recipe, err := dao.scanRow(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

// Delete removes a recipe by ID. Reviews cascade via the foreign key.
func (dao *RecipeDAO) Delete(ctx context.Context, id types.ID) error {
	result, err := dao.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id.String())
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to delete recipe", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to read rows affected", err)
	}
	if affected == 0 {
		return types.NewError(types.RECIPE_NOT_FOUND, fmt.Sprintf("recipe not found: %s", id))
	}
	return nil
}

// Exists reports whether a recipe with the given canonical id exists. Reads
// that federate auxiliary stores use this to drop ghost hits.
func (dao *RecipeDAO) Exists(ctx context.Context, id types.ID) (bool, error) {
	var one int
	err := dao.db.QueryRowContext(ctx,
		`SELECT 1 FROM recipes WHERE id = ?`, id.String()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, types.WrapError(types.DB_QUERY_FAILED, "failed to check recipe existence", err)
	}
	return true, nil
}

func (dao *RecipeDAO) scanRow(row rowScanner) (*model.Recipe, error) {
	recipe := &model.Recipe{}
	var (
		idStr, userIDStr                     string
		imagesJSON, ingredientsJSON          string
		mealTimesJSON                        string
		diseasesJSON, prefsJSON, allergyJSON string
		difficulty, status                   string
	)

	err := row.Scan(
		&idStr,
		&recipe.Name,
		&recipe.Description,
		&imagesJSON,
		&ingredientsJSON,
		&mealTimesJSON,
		&difficulty,
		&recipe.CookingTimeMinutes,
		&recipe.Rating,
		&recipe.ReviewCount,
		&status,
		&recipe.ModeratorNote,
		&userIDStr,
		&recipe.User.Name,
		&recipe.User.Avatar,
		&diseasesJSON,
		&prefsJSON,
		&allergyJSON,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to scan recipe", err)
	}

	recipe.ID = types.ID(idStr)
	recipe.User.ID = types.ID(userIDStr)
	recipe.Difficulty = model.Difficulty(difficulty)
	recipe.Status = model.RecipeStatus(status)

	if err := json.Unmarshal([]byte(imagesJSON), &recipe.Images); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to unmarshal images", err)
	}
	if err := json.Unmarshal([]byte(ingredientsJSON), &recipe.Ingredients); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to unmarshal ingredients", err)
	}
	if err := json.Unmarshal([]byte(mealTimesJSON), &recipe.PreferredMealTimes); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to unmarshal meal times", err)
	}

	profile, err := unmarshalProfile(diseasesJSON, prefsJSON, allergyJSON)
	if err != nil {
		return nil, err
	}
	recipe.MedicalProfile = profile

	return recipe, nil
}
