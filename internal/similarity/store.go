package similarity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/vector"
)

// Store projects verified recipes into the vector store and answers
// "more like this" queries. Records are keyed by a surrogate uuid; the
// canonical recipe id travels as the record ref, so canonical-side
// operations address records by ref only.
//
// In passive mode every mutation is a no-op and every read returns empty.
type Store struct {
	vectors  vector.VectorStore
	embedder vector.Embedder
	passive  bool
	logger   *slog.Logger
}

// NewStore creates a similarity store adapter.
func NewStore(vectors vector.VectorStore, embedder vector.Embedder, passive bool, logger *slog.Logger) *Store {
	return &Store{
		vectors:  vectors,
		embedder: embedder,
		passive:  passive,
		logger:   logger.With("component", "similarity"),
	}
}

// Passive reports whether the adapter is stubbed out.
func (s *Store) Passive() bool {
	return s.passive
}

// Health reports the health of the underlying vector store.
func (s *Store) Health(ctx context.Context) types.HealthStatus {
	if s.passive {
		return types.Healthy("similarity store passive")
	}
	return s.vectors.Health(ctx)
}

// EnsureCollection provisions the embedding-bearing collection. It checks
// presence only and never diffs schema, so calling it repeatedly is safe.
func (s *Store) EnsureCollection(ctx context.Context) error {
	if s.passive {
		return nil
	}

	// The sqlite and embedded backends create their collection on open;
	// presence reduces to the store answering a health probe.
	status := s.vectors.Health(ctx)
	if status.IsUnhealthy() {
		return types.NewError(vector.ErrCodeVectorStoreUnavailable,
			fmt.Sprintf("vector collection unavailable: %s", status.Message))
	}
	return nil
}

// EmbedAndSave inserts a similarity record for a recipe, once. If any
// record already exists for the canonical id the call is a no-op; later
// content changes flow through UpdateProjection instead. Callers invoke
// this only when a recipe transitions to verified.
func (s *Store) EmbedAndSave(ctx context.Context, recipe *model.Recipe) error {
	if s.passive {
		return nil
	}

	existing, err := s.vectors.ListByRef(ctx, recipe.ID.String())
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.logger.Debug("similarity record already present", "recipe_id", recipe.ID)
		return nil
	}

	blob := BuildBlob(recipe)
	embedding, err := s.embedder.Embed(ctx, blob)
	if err != nil {
		return err
	}

	record := vector.VectorRecord{
		ID:        uuid.New().String(),
		Ref:       recipe.ID.String(),
		Content:   blob,
		Embedding: embedding,
		Metadata:  recipeMetadata(recipe),
		CreatedAt: recipe.UpdatedAt,
	}
	if err := s.vectors.Store(ctx, record); err != nil {
		return err
	}

	s.logger.Info("recipe embedded", "recipe_id", recipe.ID, "model", s.embedder.Model())
	return nil
}

// UpdateProjection rebuilds the text blob for a recipe and overwrites the
// mutable fields of its existing records. When no record exists this is a
// silent no-op: records are created only through the verification path.
func (s *Store) UpdateProjection(ctx context.Context, recipe *model.Recipe) error {
	if s.passive {
		return nil
	}

	blob := BuildBlob(recipe)
	embedding, err := s.embedder.Embed(ctx, blob)
	if err != nil {
		return err
	}

	touched, err := s.vectors.Update(ctx, recipe.ID.String(), blob, embedding, recipeMetadata(recipe))
	if err != nil {
		return err
	}
	if touched == 0 {
		s.logger.Debug("no similarity record to update", "recipe_id", recipe.ID)
	}
	return nil
}

// Remove deletes every similarity record held for the canonical id. The
// surrogate key is not unique per recipe, so this is a delete-many.
func (s *Store) Remove(ctx context.Context, recipeID types.ID) error {
	if s.passive {
		return nil
	}
	return s.vectors.DeleteByRef(ctx, recipeID.String())
}

// NearestNeighbors searches against the candidate recipe's own blob,
// excluding the candidate itself. It over-fetches pageSize*(page+1)
// results and skips page*pageSize, keeping page boundaries stable across
// calls for the same page number. page is zero-based.
func (s *Store) NearestNeighbors(ctx context.Context, recipe *model.Recipe, page, pageSize int) ([]model.ScoredRecipe, error) {
	if s.passive {
		return []model.ScoredRecipe{}, nil
	}
	if page < 0 || pageSize <= 0 {
		return nil, types.NewError(types.SEARCH_INVALID_PAGE,
			fmt.Sprintf("invalid similarity page %d (size %d)", page, pageSize))
	}

	blob := BuildBlob(recipe)
	embedding, err := s.embedder.Embed(ctx, blob)
	if err != nil {
		return nil, types.WrapError(types.SIMILAR_QUERY_FAILED, "failed to embed candidate", err)
	}

	query := vector.VectorQuery{
		Embedding:   embedding,
		TopK:        pageSize * (page + 1),
		ExcludeRefs: []string{recipe.ID.String()},
	}
	results, err := s.vectors.Search(ctx, query)
	if err != nil {
		return nil, types.WrapError(types.SIMILAR_QUERY_FAILED, "similarity search failed", err)
	}

	skip := page * pageSize
	if skip >= len(results) {
		return []model.ScoredRecipe{}, nil
	}
	results = results[skip:]

	neighbors := make([]model.ScoredRecipe, 0, len(results))
	for _, res := range results {
		md := res.Record.Metadata
		neighbors = append(neighbors, model.ScoredRecipe{
			RecipeID:    types.ID(res.Record.Ref),
			Name:        metadataString(md, "name"),
			Description: metadataString(md, "description"),
			Images:      metadataStrings(md, "imgs"),
			Rating:      metadataFloat(md, "rating"),
			Score:       res.Score,
		})
	}
	return neighbors, nil
}

// recipeMetadata carries the display fields a similarity hit is rendered
// with, so neighbour lists never need a primary-store read per hit.
func recipeMetadata(recipe *model.Recipe) map[string]any {
	return map[string]any{
		"name":        recipe.Name,
		"description": recipe.Description,
		"imgs":        recipe.Images,
		"rating":      recipe.Rating,
		"status":      string(recipe.Status),
	}
}

func metadataString(metadata map[string]any, key string) string {
	if s, ok := metadata[key].(string); ok {
		return s
	}
	return ""
}

func metadataFloat(metadata map[string]any, key string) float64 {
	if f, ok := metadata[key].(float64); ok {
		return f
	}
	return 0
}

// metadataStrings accepts both the in-memory []string shape and the []any
// shape a JSON round-trip through the sqlite backend produces.
func metadataStrings(metadata map[string]any, key string) []string {
	switch v := metadata[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
