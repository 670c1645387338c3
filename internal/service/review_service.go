package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/database"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/fanout"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// ReviewService records reviews. The review insert and the parent recipe's
// aggregate update land in one primary-store transaction; only after that
// commit is the REVIEWED edge and the projection refresh propagated.
type ReviewService struct {
	reviews *database.ReviewDAO
	sync    *fanout.Synchronizer
	logger  *slog.Logger
}

// NewReviewService creates a review service.
func NewReviewService(reviews *database.ReviewDAO, sync *fanout.Synchronizer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		sync:    sync,
		logger:  logger.With("component", "review_service"),
	}
}

// Create persists a review, updates the parent recipe's rating aggregate,
// and propagates both. The recipe returned carries the already-updated
// aggregate fields.
func (s *ReviewService) Create(ctx context.Context, review *model.Review) (*model.Recipe, error) {
	if review.ID.IsZero() {
		review.ID = types.NewID()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	recipe, err := s.reviews.CreateWithAggregate(ctx, review)
	if err != nil {
		return nil, err
	}

	s.sync.ReviewCreated(review, recipe)
	return recipe, nil
}

// Get retrieves a review by id.
func (s *ReviewService) Get(ctx context.Context, id types.ID) (*model.Review, error) {
	return s.reviews.Get(ctx, id)
}

// ListByRecipe returns a page of reviews for a recipe.
func (s *ReviewService) ListByRecipe(ctx context.Context, recipeID types.ID, page model.Pagination) ([]*model.Review, error) {
	return s.reviews.ListByRecipe(ctx, recipeID, page)
}
