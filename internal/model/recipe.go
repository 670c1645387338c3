package model

import (
	"fmt"
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// IngredientItem is one entry of a recipe's ingredient list: a reference to
// the ingredient entity plus the amount used, with the ingredient's display
// fields denormalized for reads and for the similarity text blob.
type IngredientItem struct {
	IngredientID types.ID `json:"ingredient_id"`
	Name         string   `json:"name"`
	Type         string   `json:"type,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	Amount       float64  `json:"amount"`
}

// Recipe is the canonical recipe entity owned by the primary store.
type Recipe struct {
	ID                 types.ID         `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	Images             []string         `json:"imgs,omitempty"`
	Ingredients        []IngredientItem `json:"ingredients"`
	PreferredMealTimes []string         `json:"preferred_meal_time"`
	Difficulty         Difficulty       `json:"preparation_difficulty"`
	CookingTimeMinutes int              `json:"cooking_time"`
	Rating             float64          `json:"rating"`
	ReviewCount        int              `json:"total_reviews"`
	Status             RecipeStatus     `json:"status"`
	ModeratorNote      string           `json:"moderator_note,omitempty"`
	User               UserRef          `json:"user"`
	MedicalProfile     MedicalProfile   `json:"medical_condition"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// Validate checks the recipe's required fields, enumerated tags, and
// ingredient references.
func (r *Recipe) Validate() error {
	if err := r.ID.Validate(); err != nil {
		return types.WrapError(types.ENTITY_INVALID, "invalid recipe id", err)
	}
	if r.Name == "" {
		return types.NewError(types.ENTITY_INVALID, "recipe name cannot be empty")
	}
	if !r.Status.IsValid() {
		return types.NewError(types.ENTITY_INVALID,
			fmt.Sprintf("invalid recipe status: %q", r.Status))
	}
	if r.Difficulty != "" && !r.Difficulty.IsValid() {
		return types.NewError(types.ENTITY_INVALID,
			fmt.Sprintf("invalid preparation difficulty: %q", r.Difficulty))
	}
	for _, mt := range r.PreferredMealTimes {
		if !IsMealTime(mt) {
			return types.NewError(types.ENTITY_INVALID,
				fmt.Sprintf("unknown meal time tag: %q", mt))
		}
	}
	for i, ing := range r.Ingredients {
		if err := ing.IngredientID.Validate(); err != nil {
			return types.WrapError(types.ENTITY_INVALID,
				fmt.Sprintf("ingredient %d has invalid id", i), err)
		}
		if ing.Amount < 0 {
			return types.NewError(types.ENTITY_INVALID,
				fmt.Sprintf("ingredient %d has negative amount", i))
		}
	}
	if err := r.User.ID.Validate(); err != nil {
		return types.WrapError(types.ENTITY_INVALID, "invalid recipe owner id", err)
	}
	return r.MedicalProfile.Validate()
}

// IsVerified reports whether the recipe passed moderation.
func (r *Recipe) IsVerified() bool {
	return r.Status == RecipeStatusVerified
}

// ApplyReview folds a new review into the recipe's aggregate rating as a
// running mean and bumps the review count. The caller persists the result.
func (r *Recipe) ApplyReview(rating int) {
	total := r.Rating*float64(r.ReviewCount) + float64(rating)
	r.ReviewCount++
	r.Rating = total / float64(r.ReviewCount)
}
