package service

import (
	"context"
	"log/slog"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/database"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/relationship"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/similarity"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// SeedReport summarizes a bulk rebuild of the auxiliary projections.
type SeedReport struct {
	Users    int `json:"users"`
	Recipes  int `json:"recipes"`
	Reviews  int `json:"reviews"`
	Embedded int `json:"embedded"`
}

// SystemHealth is the per-store health report exposed to operators.
type SystemHealth struct {
	Database     types.HealthStatus `json:"database"`
	Relationship types.HealthStatus `json:"relationship"`
	Similarity   types.HealthStatus `json:"similarity"`
}

// Healthy reports whether every store answered healthy.
func (h SystemHealth) Healthy() bool {
	return h.Database.IsHealthy() && h.Relationship.IsHealthy() && h.Similarity.IsHealthy()
}

// AdminService holds the operator-facing maintenance operations: rebuilding
// the auxiliary projections from the canonical store and probing health.
type AdminService struct {
	db            *database.DB
	users         *database.UserDAO
	recipes       *database.RecipeDAO
	reviews       *database.ReviewDAO
	relationships *relationship.Store
	similarities  *similarity.Store
	logger        *slog.Logger
}

// NewAdminService creates an admin service.
func NewAdminService(db *database.DB, users *database.UserDAO, recipes *database.RecipeDAO, reviews *database.ReviewDAO, relationships *relationship.Store, similarities *similarity.Store, logger *slog.Logger) *AdminService {
	return &AdminService{
		db:            db,
		users:         users,
		recipes:       recipes,
		reviews:       reviews,
		relationships: relationships,
		similarities:  similarities,
		logger:        logger.With("component", "admin"),
	}
}

// Seed rebuilds both auxiliary projections from the canonical store. Graph
// seeding merges node-by-node in dependency order, and every verified
// recipe gains its similarity record if it does not have one yet. Re-running
// converges on the same state.
func (s *AdminService) Seed(ctx context.Context) (*SeedReport, error) {
	if err := s.similarities.EnsureCollection(ctx); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.List(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := relationship.Snapshot{
		Users:   users,
		Recipes: recipes,
		Reviews: reviews,
	}
	if err := s.relationships.BulkSeed(ctx, snapshot); err != nil {
		return nil, err
	}

	report := &SeedReport{
		Users:   len(users),
		Recipes: len(recipes),
		Reviews: len(reviews),
	}
	for _, recipe := range recipes {
		if recipe.Status != model.RecipeStatusVerified {
			continue
		}
		if err := s.similarities.EmbedAndSave(ctx, recipe); err != nil {
			return report, err
		}
		report.Embedded++
	}

	s.logger.Info("projection seed complete",
		"users", report.Users,
		"recipes", report.Recipes,
		"reviews", report.Reviews,
		"embedded", report.Embedded)
	return report, nil
}

// Health probes every store. Probes run even when earlier ones fail so the
// report always covers all three.
func (s *AdminService) Health(ctx context.Context) SystemHealth {
	return SystemHealth{
		Database:     s.db.Health(ctx),
		Relationship: s.relationships.Health(ctx),
		Similarity:   s.similarities.Health(ctx),
	}
}
