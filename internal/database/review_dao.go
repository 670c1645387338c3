package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// ReviewDAO provides database access for Review entities
type ReviewDAO struct {
	db *DB
}

// NewReviewDAO creates a new ReviewDAO instance
func NewReviewDAO(db *DB) *ReviewDAO {
	return &ReviewDAO{db: db}
}

// CreateWithAggregate durably records a review and folds it into the parent
// recipe's running-mean rating and review count in one transaction. The
// aggregate is computed in SQL against the row's current values, so
// concurrent reviews of the same recipe serialize on the row instead of
// losing updates. It returns the recipe with its already-updated aggregate
// fields, which is what the fan-out path mirrors into the auxiliary stores.
func (dao *ReviewDAO) CreateWithAggregate(ctx context.Context, review *model.Review) (*model.Recipe, error) {
	if err := review.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := dao.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE recipes
			SET rating = (rating * review_count + ?) / (review_count + 1),
			    review_count = review_count + 1
			WHERE id = ?`,
			review.Rating, review.RecipeID.String())
		if err != nil {
			return types.WrapError(types.DB_QUERY_FAILED, "failed to update recipe aggregates", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return types.WrapError(types.DB_QUERY_FAILED, "failed to check aggregate update", err)
		}
		if affected == 0 {
			return types.NewError(types.RECIPE_NOT_FOUND,
				fmt.Sprintf("recipe not found: %s", review.RecipeID))
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO reviews (id, recipe_id, user_id, user_name, user_avatar, rating, comment, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			review.ID.String(),
			review.RecipeID.String(),
			review.User.ID.String(),
			review.User.Name,
			review.User.Avatar,
			review.Rating,
			review.Comment,
			review.CreatedAt,
		)
		if err != nil {
			return types.WrapError(types.DB_QUERY_FAILED, "failed to insert review", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return NewRecipeDAO(dao.db).Get(ctx, review.RecipeID)
}

// ListByRecipe returns a recipe's reviews, newest first.
func (dao *ReviewDAO) ListByRecipe(ctx context.Context, recipeID types.ID, page model.Pagination) ([]*model.Review, error) {
	page = page.Normalize()
	query := `
		SELECT id, recipe_id, user_id, user_name, user_avatar, rating, comment, created_at
		FROM reviews
		WHERE recipe_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := dao.db.QueryContext(ctx, query, recipeID.String(), page.Limit, page.Skip)
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to list reviews", err)
	}
	defer rows.Close()

	return dao.collect(rows)
}

// List returns all reviews ordered by creation time. Used by bulk seeding.
func (dao *ReviewDAO) List(ctx context.Context) ([]*model.Review, error) {
	query := `
		SELECT id, recipe_id, user_id, user_name, user_avatar, rating, comment, created_at
		FROM reviews
		ORDER BY created_at
	`

	rows, err := dao.db.QueryContext(ctx, query)
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to list reviews", err)
	}
	defer rows.Close()

	return dao.collect(rows)
}

func (dao *ReviewDAO) collect(rows *sql.Rows) ([]*model.Review, error) {
	var reviews []*model.Review
	for rows.Next() {
		review := &model.Review{}
		var idStr, recipeIDStr, userIDStr string

		err := rows.Scan(
			&idStr,
			&recipeIDStr,
			&userIDStr,
			&review.User.Name,
			&review.User.Avatar,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to scan review", err)
		}

		review.ID = types.ID(idStr)
		review.RecipeID = types.ID(recipeIDStr)
		review.User.ID = types.ID(userIDStr)
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// Get retrieves a review by ID
func (dao *ReviewDAO) Get(ctx context.Context, id types.ID) (*model.Review, error) {
	review := &model.Review{}
	var idStr, recipeIDStr, userIDStr string

	err := dao.db.QueryRowContext(ctx, `
		SELECT id, recipe_id, user_id, user_name, user_avatar, rating, comment, created_at
		FROM reviews WHERE id = ?`, id.String()).Scan(
		&idStr,
		&recipeIDStr,
		&userIDStr,
		&review.User.Name,
		&review.User.Avatar,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(types.REVIEW_INVALID, fmt.Sprintf("review not found: %s", id))
	}
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to scan review", err)
	}

	review.ID = types.ID(idStr)
	review.RecipeID = types.ID(recipeIDStr)
	review.User.ID = types.ID(userIDStr)
	return review, nil
}
