package model

import (
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// User is the canonical account entity owned by the primary store.
// The graph projection mirrors its id, display fields, and medical profile.
type User struct {
	ID             types.ID       `json:"id"`
	Email          string         `json:"email"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Avatar         string         `json:"avatar,omitempty"`
	MedicalProfile MedicalProfile `json:"medical_condition"`
	BookedRecipes  []types.ID     `json:"booked_recipes"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Validate checks the user's required fields and medical profile tags.
func (u *User) Validate() error {
	if err := u.ID.Validate(); err != nil {
		return types.WrapError(types.ENTITY_INVALID, "invalid user id", err)
	}
	if u.Email == "" {
		return types.NewError(types.ENTITY_INVALID, "user email cannot be empty")
	}
	if u.FirstName == "" {
		return types.NewError(types.ENTITY_INVALID, "user first name cannot be empty")
	}
	return u.MedicalProfile.Validate()
}

// HasBooked reports whether the user has booked the given recipe.
func (u *User) HasBooked(recipeID types.ID) bool {
	for _, id := range u.BookedRecipes {
		if id == recipeID {
			return true
		}
	}
	return false
}

// UserRef is the denormalized owner projection embedded in recipes and
// reviews so list reads avoid a join on the primary store.
type UserRef struct {
	ID     types.ID `json:"id"`
	Name   string   `json:"full_name"`
	Avatar string   `json:"profile_img,omitempty"`
}

// Ref builds the user's projection for embedding in owned entities.
func (u *User) Ref() UserRef {
	return UserRef{
		ID:     u.ID,
		Name:   u.FullName(),
		Avatar: u.Avatar,
	}
}
