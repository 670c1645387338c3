package relationship

import (
	"context"
	"fmt"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/graph"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// Recommend runs the collaborative-filtering scoring query for the given
// user and returns recipes ordered by descending score, with skip/limit
// applied server-side by the graph store.
//
// mealTime filters candidates to one preferred meal time; model.MealTimeAll
// bypasses the predicate entirely. A user with no similar users gets an empty
// page, not an error. Recipes with zero reviews overall are excluded rather
// than scored as zero.
func (s *Store) Recommend(ctx context.Context, userID types.ID, mealTime string, page model.Pagination) ([]model.ScoredRecipe, error) {
	if mealTime != model.MealTimeAll && !model.IsMealTime(mealTime) {
		return nil, types.NewError(types.SEARCH_INVALID_CRITERIA,
			fmt.Sprintf("unknown meal time filter: %q", mealTime))
	}
	if s.passive {
		return []model.ScoredRecipe{}, nil
	}
	page = page.Normalize()

	result, err := s.client.Read(ctx, cypherRecommend, map[string]any{
		"user_id":   userID.String(),
		"meal_time": mealTime,
		"skip":      page.Skip,
		"limit":     page.Limit,
	})
	if err != nil {
		return nil, types.WrapError(types.RECOMMEND_QUERY_FAILED,
			"recommendation query failed", err)
	}

	scored := make([]model.ScoredRecipe, 0, len(result.Records))
	for _, record := range result.Records {
		row, err := parseScoredRow(record)
		if err != nil {
			return nil, err
		}
		scored = append(scored, row)
	}
	return scored, nil
}

func parseScoredRow(record map[string]any) (model.ScoredRecipe, error) {
	id, ok := record["id"].(string)
	if !ok {
		return model.ScoredRecipe{}, types.NewError(graph.ErrCodeGraphResultParsing,
			"scored row missing id")
	}

	name, _ := record["name"].(string)

	var score float64
	switch v := record["score"].(type) {
	case float64:
		score = v
	case int64:
		score = float64(v)
	default:
		return model.ScoredRecipe{}, types.NewError(graph.ErrCodeGraphResultParsing,
			fmt.Sprintf("scored row has non-numeric score for recipe %s", id))
	}

	return model.ScoredRecipe{
		RecipeID: types.ID(id),
		Name:     name,
		Score:    score,
	}, nil
}
