package model

import (
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// Ingredient is the canonical ingredient entity referenced by recipe
// ingredient lists and mirrored as a node in the graph projection.
type Ingredient struct {
	ID            types.ID  `json:"id"`
	Name          string    `json:"name"`
	LocalizedName string    `json:"localized_name,omitempty"`
	Type          string    `json:"type,omitempty"`
	Unit          string    `json:"unit_options,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate checks the ingredient's required fields.
func (i *Ingredient) Validate() error {
	if err := i.ID.Validate(); err != nil {
		return types.WrapError(types.ENTITY_INVALID, "invalid ingredient id", err)
	}
	if i.Name == "" {
		return types.NewError(types.ENTITY_INVALID, "ingredient name cannot be empty")
	}
	return nil
}
