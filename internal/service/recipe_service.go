package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/database"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/fanout"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/similarity"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// RecipeService owns the recipe lifecycle: creation, updates, moderation,
// deletion, and booking toggles. Moderation is the single gate through
// which a recipe enters the similarity store.
type RecipeService struct {
	recipes      *database.RecipeDAO
	users        *database.UserDAO
	similarities *similarity.Store
	sync         *fanout.Synchronizer
	logger       *slog.Logger
}

// NewRecipeService creates a recipe service.
func NewRecipeService(recipes *database.RecipeDAO, users *database.UserDAO, similarities *similarity.Store, sync *fanout.Synchronizer, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		recipes:      recipes,
		users:        users,
		similarities: similarities,
		sync:         sync,
		logger:       logger.With("component", "recipe_service"),
	}
}

// Create persists a new recipe. The author reference is denormalized from
// the canonical user record, and new recipes always start pending; only
// moderation can verify them.
func (s *RecipeService) Create(ctx context.Context, recipe *model.Recipe) error {
	author, err := s.users.Get(ctx, recipe.User.ID)
	if err != nil {
		return err
	}
	recipe.User = author.Ref()

	if recipe.ID.IsZero() {
		recipe.ID = types.NewID()
	}
	recipe.Status = model.RecipeStatusPending
	recipe.Rating = 0
	recipe.ReviewCount = 0
	now := time.Now().UTC()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	if err := s.recipes.Create(ctx, recipe); err != nil {
		return err
	}

	s.sync.RecipeCreated(recipe)
	return nil
}

// Get retrieves a recipe by id.
func (s *RecipeService) Get(ctx context.Context, id types.ID) (*model.Recipe, error) {
	return s.recipes.Get(ctx, id)
}

// Update overwrites a recipe's mutable fields and replaces its attribute
// edges and similarity projection.
func (s *RecipeService) Update(ctx context.Context, recipe *model.Recipe) error {
	recipe.UpdatedAt = time.Now().UTC()

	if err := s.recipes.Update(ctx, recipe); err != nil {
		return err
	}

	s.sync.RecipeUpdated(recipe)
	return nil
}

// Delete removes a recipe from the primary store and both projections.
func (s *RecipeService) Delete(ctx context.Context, id types.ID) error {
	if err := s.recipes.Delete(ctx, id); err != nil {
		return err
	}

	s.sync.RecipeDeleted(id)
	return nil
}

// Moderate records a moderation decision. On the transition to verified the
// recipe is embedded into the similarity store first, so the stored blob
// reflects the content the moderator approved; an embed failure is logged
// and never blocks the decision itself. Revoking verification removes the
// similarity record again, keeping the store verified-only.
func (s *RecipeService) Moderate(ctx context.Context, id types.ID, status model.RecipeStatus, note string) (*model.Recipe, error) {
	if status != model.RecipeStatusVerified && status != model.RecipeStatusRejected {
		return nil, types.NewError(types.ENTITY_INVALID,
			fmt.Sprintf("moderation status must be verified or rejected, got %q", status))
	}

	recipe, err := s.recipes.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == model.RecipeStatusVerified && !recipe.IsVerified() {
		if err := s.similarities.EmbedAndSave(ctx, recipe); err != nil {
			s.logger.Error("embed on verification failed",
				"recipe_id", id,
				"error", err)
		}
	}

	if err := s.recipes.SetModeration(ctx, id, status, note); err != nil {
		return nil, err
	}

	if status == model.RecipeStatusRejected && recipe.IsVerified() {
		if err := s.similarities.Remove(ctx, id); err != nil {
			s.logger.Error("similarity cleanup on rejection failed",
				"recipe_id", id,
				"error", err)
		}
	}

	recipe.Status = status
	recipe.ModeratorNote = note
	recipe.UpdatedAt = time.Now().UTC()

	s.sync.RecipeUpdated(recipe)
	return recipe, nil
}

// SetBooked toggles a user's booking of a recipe and mirrors the BOOKED
// edge. The updated user is returned.
func (s *RecipeService) SetBooked(ctx context.Context, userID, recipeID types.ID, booked bool) (*model.User, error) {
	exists, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, types.NewError(types.RECIPE_NOT_FOUND,
			fmt.Sprintf("recipe not found: %s", recipeID))
	}

	user, err := s.users.SetBooked(ctx, userID, recipeID, booked)
	if err != nil {
		return nil, err
	}

	s.sync.BookToggled(userID, recipeID, booked)
	return user, nil
}
