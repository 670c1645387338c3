package service

import (
	"context"
	"log/slog"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/database"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/relationship"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/search"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/similarity"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// RecipeCriteria is the attribute filter accepted by recipe search. Zero
// values mean "no predicate".
type RecipeCriteria struct {
	Name       string
	Difficulty model.Difficulty
	Status     model.RecipeStatus
	MealTimes  []string
	Profile    model.MedicalProfile
	SortBy     string
	SortDesc   bool
}

// UserCriteria is the attribute filter accepted by user search.
type UserCriteria struct {
	Name    string
	Email   string
	Profile model.MedicalProfile
}

// IngredientCriteria is the attribute filter accepted by ingredient search.
type IngredientCriteria struct {
	Name string
	Type string
	Unit string
}

// DiscoveryService answers the read-side queries: attribute search against
// the primary store, graph-scored recommendations, and vector similarity.
// The three sources stay separate; no blended cross-source rank exists.
//
// Every auxiliary hit is resolved against the primary store before it is
// returned, so deleted recipes whose projection records still linger are
// silently dropped.
type DiscoveryService struct {
	db            *database.DB
	recipes       *database.RecipeDAO
	relationships *relationship.Store
	similarities  *similarity.Store
	logger        *slog.Logger
}

// NewDiscoveryService creates a discovery service.
func NewDiscoveryService(db *database.DB, recipes *database.RecipeDAO, relationships *relationship.Store, similarities *similarity.Store, logger *slog.Logger) *DiscoveryService {
	return &DiscoveryService{
		db:            db,
		recipes:       recipes,
		relationships: relationships,
		similarities:  similarities,
		logger:        logger.With("component", "discovery"),
	}
}

// SearchRecipes runs an attribute search. page is 1-based.
func (s *DiscoveryService) SearchRecipes(ctx context.Context, criteria RecipeCriteria, page, pageSize int) ([]*model.Recipe, error) {
	q := search.Recipes(s.db)
	if criteria.Name != "" {
		q.ByName(criteria.Name)
	}
	if criteria.Difficulty != "" {
		q.Equals("difficulty", string(criteria.Difficulty))
	}
	if criteria.Status != "" {
		q.Equals("status", string(criteria.Status))
	}
	if len(criteria.MealTimes) > 0 {
		q.AnyOf("preferred_meal_times", criteria.MealTimes...)
	}
	q.MedicalProfile(criteria.Profile)
	if criteria.SortBy != "" {
		q.SortBy(criteria.SortBy, criteria.SortDesc)
	}
	return q.Execute(ctx, page, pageSize)
}

// SearchUsers runs an attribute search over users. page is 1-based.
func (s *DiscoveryService) SearchUsers(ctx context.Context, criteria UserCriteria, page, pageSize int) ([]*model.User, error) {
	q := search.Users(s.db)
	if criteria.Name != "" {
		q.ByName(criteria.Name)
	}
	if criteria.Email != "" {
		q.Equals("email", criteria.Email)
	}
	q.MedicalProfile(criteria.Profile)
	return q.Execute(ctx, page, pageSize)
}

// SearchIngredients runs an attribute search over ingredients. page is
// 1-based.
func (s *DiscoveryService) SearchIngredients(ctx context.Context, criteria IngredientCriteria, page, pageSize int) ([]*model.Ingredient, error) {
	q := search.Ingredients(s.db)
	if criteria.Name != "" {
		q.ByName(criteria.Name)
	}
	if criteria.Type != "" {
		q.Equals("type", criteria.Type)
	}
	if criteria.Unit != "" {
		q.Equals("unit", criteria.Unit)
	}
	return q.Execute(ctx, page, pageSize)
}

// Recommend returns graph-scored recipes for a user, filtered to a meal
// time ("all" bypasses the filter). Ghost hits for recipes no longer in
// the primary store are dropped, not surfaced.
func (s *DiscoveryService) Recommend(ctx context.Context, userID types.ID, mealTime string, page model.Pagination) ([]model.ScoredRecipe, error) {
	scored, err := s.relationships.Recommend(ctx, userID, mealTime, page)
	if err != nil {
		return nil, err
	}
	return s.dropGhosts(ctx, scored)
}

// Similar returns the nearest similarity-store neighbours of a recipe.
// The candidate must exist canonically; neighbours that no longer do are
// dropped. page is zero-based, matching the similarity adapter.
func (s *DiscoveryService) Similar(ctx context.Context, recipeID types.ID, page, pageSize int) ([]model.ScoredRecipe, error) {
	recipe, err := s.recipes.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	neighbors, err := s.similarities.NearestNeighbors(ctx, recipe, page, pageSize)
	if err != nil {
		return nil, err
	}
	return s.dropGhosts(ctx, neighbors)
}

// dropGhosts filters out auxiliary hits whose canonical recipe is gone.
func (s *DiscoveryService) dropGhosts(ctx context.Context, scored []model.ScoredRecipe) ([]model.ScoredRecipe, error) {
	kept := make([]model.ScoredRecipe, 0, len(scored))
	for _, item := range scored {
		exists, err := s.recipes.Exists(ctx, item.RecipeID)
		if err != nil {
			return nil, err
		}
		if !exists {
			s.logger.Debug("dropping ghost projection hit", "recipe_id", item.RecipeID)
			continue
		}
		kept = append(kept, item)
	}
	return kept, nil
}
