package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

func validRecipe() *Recipe {
	return &Recipe{
		ID:                 types.NewID(),
		Name:               "Misir Wot",
		Description:        "Spiced red lentil stew",
		PreferredMealTimes: []string{"dinner"},
		Difficulty:         DifficultyMedium,
		CookingTimeMinutes: 45,
		Status:             RecipeStatusPending,
		User:               UserRef{ID: types.NewID(), Name: "Abebe K"},
		Ingredients: []IngredientItem{
			{IngredientID: types.NewID(), Name: "red lentils", Amount: 2},
		},
		MedicalProfile: MedicalProfile{
			DietaryPreferences: []string{"vegan"},
			ChronicDiseases:    []string{TagNone},
			Allergies:          []string{TagNone},
		},
	}
}

func TestRecipe_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Recipe)
		wantErr bool
	}{
		{
			name:   "valid recipe",
			mutate: func(r *Recipe) {},
		},
		{
			name:    "empty name",
			mutate:  func(r *Recipe) { r.Name = "" },
			wantErr: true,
		},
		{
			name:    "invalid status",
			mutate:  func(r *Recipe) { r.Status = "archived" },
			wantErr: true,
		},
		{
			name:    "unknown meal time",
			mutate:  func(r *Recipe) { r.PreferredMealTimes = []string{"brunch"} },
			wantErr: true,
		},
		{
			name:    "unknown dietary preference",
			mutate:  func(r *Recipe) { r.MedicalProfile.DietaryPreferences = []string{"carnivore"} },
			wantErr: true,
		},
		{
			name:    "negative ingredient amount",
			mutate:  func(r *Recipe) { r.Ingredients[0].Amount = -1 },
			wantErr: true,
		},
		{
			name:    "missing owner",
			mutate:  func(r *Recipe) { r.User.ID = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecipe()
			tt.mutate(r)
			err := r.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecipe_ApplyReview(t *testing.T) {
	r := validRecipe()
	require.Zero(t, r.Rating)
	require.Zero(t, r.ReviewCount)

	r.ApplyReview(5)
	assert.Equal(t, 1, r.ReviewCount)
	assert.InDelta(t, 5.0, r.Rating, 1e-9)

	r.ApplyReview(2)
	assert.Equal(t, 2, r.ReviewCount)
	assert.InDelta(t, 3.5, r.Rating, 1e-9)

	r.ApplyReview(3)
	assert.Equal(t, 3, r.ReviewCount)
	assert.InDelta(t, 10.0/3.0, r.Rating, 1e-9)
}

func TestMedicalProfile_ActiveTags(t *testing.T) {
	p := MedicalProfile{
		ChronicDiseases:    []string{"diabetes", TagNone},
		DietaryPreferences: []string{TagNone},
		Allergies:          []string{"nuts", "dairy"},
	}

	assert.Equal(t, []string{"diabetes"}, p.ActiveChronicDiseases())
	assert.Empty(t, p.ActiveDietaryPreferences())
	assert.Equal(t, []string{"nuts", "dairy"}, p.ActiveAllergies())
}

func TestReview_Validate(t *testing.T) {
	rv := &Review{
		ID:       types.NewID(),
		RecipeID: types.NewID(),
		User:     UserRef{ID: types.NewID(), Name: "Sara T"},
		Rating:   4,
	}
	require.NoError(t, rv.Validate())
	assert.True(t, rv.IsPositive())

	rv.Rating = 2
	require.NoError(t, rv.Validate())
	assert.False(t, rv.IsPositive())

	rv.Rating = 0
	assert.Error(t, rv.Validate())

	rv.Rating = 6
	assert.Error(t, rv.Validate())
}
