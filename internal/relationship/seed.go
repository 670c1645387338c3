package relationship

import (
	"context"
	"fmt"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
)

// Snapshot is the full canonical state handed to BulkSeed, in dependency
// order: users, then recipes, then reviews.
type Snapshot struct {
	Users   []*model.User
	Recipes []*model.Recipe
	Reviews []*model.Review
}

// BulkSeed rebuilds the graph projection from a canonical snapshot. Every
// operation is a merge, so seeding a partially-populated graph is safe and
// re-running it converges on the same state.
//
// Order matters: user and recipe nodes (with their attribute edges) are
// completed before review and booked edges, so no edge is ever created
// against a node that does not exist yet.
func (s *Store) BulkSeed(ctx context.Context, snapshot Snapshot) error {
	if s.passive {
		return nil
	}

	for _, user := range snapshot.Users {
		if err := s.UpsertUser(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", user.ID, err)
		}
	}

	for _, recipe := range snapshot.Recipes {
		if err := s.UpsertRecipe(ctx, recipe); err != nil {
			return fmt.Errorf("seed recipe %s: %w", recipe.ID, err)
		}
	}

	for _, review := range snapshot.Reviews {
		if err := s.AddReview(ctx, review); err != nil {
			return fmt.Errorf("seed review %s: %w", review.ID, err)
		}
	}

	for _, user := range snapshot.Users {
		for _, recipeID := range user.BookedRecipes {
			if err := s.AddBooked(ctx, user.ID, recipeID); err != nil {
				return fmt.Errorf("seed booked edge %s -> %s: %w", user.ID, recipeID, err)
			}
		}
	}

	s.logger.Info("graph projection seeded",
		"users", len(snapshot.Users),
		"recipes", len(snapshot.Recipes),
		"reviews", len(snapshot.Reviews))
	return nil
}
