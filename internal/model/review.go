package model

import (
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// Review is the canonical review entity. Creating one mutates the parent
// recipe's aggregate rating and review count; that mutation is mirrored into
// the auxiliary stores by the fan-out path, never by the review itself.
type Review struct {
	ID        types.ID  `json:"id"`
	RecipeID  types.ID  `json:"recipe_id"`
	User      UserRef   `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PositiveRatingThreshold splits review ratings into positive (>= 3) and
// negative (< 3) signals for collaborative-filtering counts.
const PositiveRatingThreshold = 3

// Validate checks the review's required fields and rating range.
func (rv *Review) Validate() error {
	if err := rv.ID.Validate(); err != nil {
		return types.WrapError(types.REVIEW_INVALID, "invalid review id", err)
	}
	if err := rv.RecipeID.Validate(); err != nil {
		return types.WrapError(types.REVIEW_INVALID, "invalid recipe reference", err)
	}
	if err := rv.User.ID.Validate(); err != nil {
		return types.WrapError(types.REVIEW_INVALID, "invalid user reference", err)
	}
	if rv.Rating < 1 || rv.Rating > 5 {
		return types.NewError(types.REVIEW_INVALID, "rating must be between 1 and 5")
	}
	return nil
}

// IsPositive reports whether the review counts as a positive signal.
func (rv *Review) IsPositive() bool {
	return rv.Rating >= PositiveRatingThreshold
}
