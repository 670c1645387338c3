// Package relationship maintains the property-graph projection of users,
// recipes, and reviews, and answers collaborative-filtering recommendation
// queries over it. The graph is an advisory mirror of the primary store: it
// may lag or miss entries, and it is never consulted as a source of truth.
package relationship

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/graph"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// Store is the relationship-store adapter. It translates domain events into
// idempotent merge/delete operations on the graph projection.
//
// Passive mode is resolved once at construction: when active, every mutation
// returns immediately without touching the backend and Recommend returns an
// empty page. The zero value is not usable; construct with NewStore.
type Store struct {
	client  graph.Client
	passive bool
	logger  *slog.Logger
}

// NewStore creates a relationship-store adapter over the given graph client.
// The client is shared process-wide and must be safe for concurrent use.
func NewStore(client graph.Client, passive bool, logger *slog.Logger) *Store {
	return &Store{
		client:  client,
		passive: passive,
		logger:  logger.With("component", "relationship"),
	}
}

// Passive reports whether the adapter is running with a stubbed backend.
func (s *Store) Passive() bool {
	return s.passive
}

// Health reports the graph backend's health, or healthy when passive.
func (s *Store) Health(ctx context.Context) types.HealthStatus {
	if s.passive {
		return types.Healthy("relationship store passive")
	}
	return s.client.Health(ctx)
}

// UpsertUser merges the user node and creates its attribute edges. Tags with
// the value "none" never reach the graph.
func (s *Store) UpsertUser(ctx context.Context, user *model.User) error {
	if s.passive {
		return nil
	}

	if _, err := s.client.Write(ctx, cypherMergeUser, map[string]any{
		"id":        user.ID.String(),
		"full_name": user.FullName(),
		"email":     user.Email,
	}); err != nil {
		return fmt.Errorf("merge user node: %w", err)
	}

	return s.mergeUserAttributeEdges(ctx, user)
}

// UpdateUser sets the user's scalar properties and replaces all attribute
// edges with the current tag set. Stale edges from a previous version never
// survive an update.
func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	if s.passive {
		return nil
	}

	if _, err := s.client.Write(ctx, cypherMergeUser, map[string]any{
		"id":        user.ID.String(),
		"full_name": user.FullName(),
		"email":     user.Email,
	}); err != nil {
		return fmt.Errorf("merge user node: %w", err)
	}

	if _, err := s.client.Write(ctx, cypherDeleteUserAttributeEdges, map[string]any{
		"id": user.ID.String(),
	}); err != nil {
		return fmt.Errorf("delete user attribute edges: %w", err)
	}

	return s.mergeUserAttributeEdges(ctx, user)
}

func (s *Store) mergeUserAttributeEdges(ctx context.Context, user *model.User) error {
	id := user.ID.String()
	profile := user.MedicalProfile

	steps := []struct {
		cypher string
		tags   []string
	}{
		{cypherMergeUserConditions, profile.ActiveChronicDiseases()},
		{cypherMergeUserPreferences, profile.ActiveDietaryPreferences()},
		{cypherMergeUserAllergies, profile.ActiveAllergies()},
	}

	for _, step := range steps {
		if len(step.tags) == 0 {
			continue
		}
		if _, err := s.client.Write(ctx, step.cypher, map[string]any{
			"id":   id,
			"tags": step.tags,
		}); err != nil {
			return fmt.Errorf("merge user attribute edges: %w", err)
		}
	}
	return nil
}

// UpsertRecipe merges the recipe node, its attribute edges, and the MERGED_BY
// edge to its author.
func (s *Store) UpsertRecipe(ctx context.Context, recipe *model.Recipe) error {
	if s.passive {
		return nil
	}

	if err := s.mergeRecipeNode(ctx, recipe); err != nil {
		return err
	}

	if _, err := s.client.Write(ctx, cypherMergeRecipeAuthor, map[string]any{
		"id":      recipe.ID.String(),
		"user_id": recipe.User.ID.String(),
	}); err != nil {
		return fmt.Errorf("merge recipe author edge: %w", err)
	}

	return s.mergeRecipeAttributeEdges(ctx, recipe)
}

// UpdateRecipe sets the recipe's scalar properties and replaces all attribute
// edges with the current sets, same discipline as UpdateUser.
func (s *Store) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	if s.passive {
		return nil
	}

	if err := s.mergeRecipeNode(ctx, recipe); err != nil {
		return err
	}

	if _, err := s.client.Write(ctx, cypherDeleteRecipeAttributeEdges, map[string]any{
		"id": recipe.ID.String(),
	}); err != nil {
		return fmt.Errorf("delete recipe attribute edges: %w", err)
	}

	return s.mergeRecipeAttributeEdges(ctx, recipe)
}

func (s *Store) mergeRecipeNode(ctx context.Context, recipe *model.Recipe) error {
	if _, err := s.client.Write(ctx, cypherMergeRecipe, map[string]any{
		"id":           recipe.ID.String(),
		"name":         recipe.Name,
		"description":  recipe.Description,
		"difficulty":   string(recipe.Difficulty),
		"cooking_time": recipe.CookingTimeMinutes,
		"rating":       recipe.Rating,
		"status":       recipe.Status.String(),
	}); err != nil {
		return fmt.Errorf("merge recipe node: %w", err)
	}
	return nil
}

func (s *Store) mergeRecipeAttributeEdges(ctx context.Context, recipe *model.Recipe) error {
	id := recipe.ID.String()

	if len(recipe.Ingredients) > 0 {
		ingredients := make([]map[string]any, 0, len(recipe.Ingredients))
		for _, ing := range recipe.Ingredients {
			ingredients = append(ingredients, map[string]any{
				"id":     ing.IngredientID.String(),
				"name":   ing.Name,
				"type":   ing.Type,
				"amount": ing.Amount,
			})
		}
		if _, err := s.client.Write(ctx, cypherMergeRecipeIngredients, map[string]any{
			"id":          id,
			"ingredients": ingredients,
		}); err != nil {
			return fmt.Errorf("merge recipe ingredient edges: %w", err)
		}
	}

	profile := recipe.MedicalProfile
	steps := []struct {
		cypher string
		tags   []string
	}{
		{cypherMergeRecipeMealTimes, recipe.PreferredMealTimes},
		{cypherMergeRecipeConditions, profile.ActiveChronicDiseases()},
		{cypherMergeRecipePreferences, profile.ActiveDietaryPreferences()},
		{cypherMergeRecipeAllergies, profile.ActiveAllergies()},
	}

	for _, step := range steps {
		if len(step.tags) == 0 {
			continue
		}
		if _, err := s.client.Write(ctx, step.cypher, map[string]any{
			"id":   id,
			"tags": step.tags,
		}); err != nil {
			return fmt.Errorf("merge recipe attribute edges: %w", err)
		}
	}
	return nil
}

// RemoveUser detach-deletes the user node and every edge hanging off it.
func (s *Store) RemoveUser(ctx context.Context, id types.ID) error {
	if s.passive {
		return nil
	}

	if _, err := s.client.Write(ctx, cypherDetachDeleteUser, map[string]any{
		"id": id.String(),
	}); err != nil {
		return fmt.Errorf("detach delete user: %w", err)
	}
	return nil
}

// RemoveRecipe detach-deletes the recipe node and every edge touching it.
func (s *Store) RemoveRecipe(ctx context.Context, id types.ID) error {
	if s.passive {
		return nil
	}

	if _, err := s.client.Write(ctx, cypherDetachDeleteRecipe, map[string]any{
		"id": id.String(),
	}); err != nil {
		return fmt.Errorf("detach delete recipe: %w", err)
	}
	return nil
}

// AddReview merges a REVIEWED edge between the user and the recipe. A user
// who reviews the same recipe twice accumulates two edges, mirroring the
// canonical store's own behavior.
func (s *Store) AddReview(ctx context.Context, review *model.Review) error {
	if s.passive {
		return nil
	}

	if _, err := s.client.Write(ctx, cypherMergeReview, map[string]any{
		"user_id":   review.User.ID.String(),
		"recipe_id": review.RecipeID.String(),
		"rating":    review.Rating,
		"comment":   review.Comment,
	}); err != nil {
		return fmt.Errorf("merge review edge: %w", err)
	}
	return nil
}

// AddBooked merges a BOOKED edge from the user to the recipe.
func (s *Store) AddBooked(ctx context.Context, userID, recipeID types.ID) error {
	if s.passive {
		return nil
	}

	if _, err := s.client.Write(ctx, cypherMergeBooked, map[string]any{
		"user_id":   userID.String(),
		"recipe_id": recipeID.String(),
	}); err != nil {
		return fmt.Errorf("merge booked edge: %w", err)
	}
	return nil
}

// RemoveBooked deletes the BOOKED edge from the user to the recipe.
func (s *Store) RemoveBooked(ctx context.Context, userID, recipeID types.ID) error {
	if s.passive {
		return nil
	}

	if _, err := s.client.Write(ctx, cypherDeleteBooked, map[string]any{
		"user_id":   userID.String(),
		"recipe_id": recipeID.String(),
	}); err != nil {
		return fmt.Errorf("delete booked edge: %w", err)
	}
	return nil
}

// BookedRecipes returns the ids of recipes the user has booked, as mirrored
// in the graph. Used to verify seeding round-trips.
func (s *Store) BookedRecipes(ctx context.Context, userID types.ID) ([]types.ID, error) {
	if s.passive {
		return nil, nil
	}

	result, err := s.client.Read(ctx, cypherBookedByUser, map[string]any{
		"user_id": userID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("query booked recipes: %w", err)
	}

	ids := make([]types.ID, 0, len(result.Records))
	for _, record := range result.Records {
		id, ok := record["id"].(string)
		if !ok {
			return nil, types.NewError(graph.ErrCodeGraphResultParsing,
				"booked recipe row missing id")
		}
		ids = append(ids, types.ID(id))
	}
	return ids, nil
}
