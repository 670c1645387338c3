package model

import "github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"

// Pagination is the skip/limit window applied server-side by the relationship
// and similarity stores.
type Pagination struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// DefaultPageSize bounds result pages when the caller does not say otherwise.
const DefaultPageSize = 10

// Normalize clamps the window to sane bounds. Negative skip becomes zero and
// a non-positive limit becomes DefaultPageSize.
func (p Pagination) Normalize() Pagination {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	return p
}

// ScoredRecipe pairs a recipe id with its score from an auxiliary store.
// The display fields are denormalized copies; similarity results carry all
// of them, graph recommendations only the name.
type ScoredRecipe struct {
	RecipeID    types.ID `json:"recipe_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"imgs,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Score       float64  `json:"score"`
}
