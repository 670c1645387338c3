package search

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/database"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "agelgil-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedRecipes(t *testing.T, db *database.DB) {
	t.Helper()
	dao := database.NewRecipeDAO(db)
	ctx := context.Background()

	recipes := []struct {
		name       string
		difficulty model.Difficulty
		status     model.RecipeStatus
		mealTimes  []string
		prefs      []string
		cookTime   int
	}{
		{"Doro Wat", model.DifficultyHard, model.RecipeStatusVerified, []string{"dinner"}, []string{model.TagNone}, 120},
		{"Shiro Wat", model.DifficultyEasy, model.RecipeStatusVerified, []string{"lunch", "dinner"}, []string{"vegan"}, 40},
		{"Gomen", model.DifficultyEasy, model.RecipeStatusVerified, []string{"lunch"}, []string{"vegan"}, 30},
		{"Kitfo", model.DifficultyMedium, model.RecipeStatusPending, []string{"dinner"}, []string{model.TagNone}, 25},
	}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, r := range recipes {
		recipe := &model.Recipe{
			ID:                 types.NewID(),
			Name:               r.name,
			Description:        "test recipe",
			PreferredMealTimes: r.mealTimes,
			Difficulty:         r.difficulty,
			CookingTimeMinutes: r.cookTime,
			Status:             r.status,
			User:               model.UserRef{ID: types.NewID(), Name: "Mulu Alemu"},
			MedicalProfile: model.MedicalProfile{
				DietaryPreferences: r.prefs,
			},
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			UpdatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, dao.Create(ctx, recipe))
	}
}

func recipeNames(recipes []*model.Recipe) []string {
	names := make([]string, len(recipes))
	for i, r := range recipes {
		names[i] = r.Name
	}
	return names
}

func TestBuilder_ByName(t *testing.T) {
	db := openTestDB(t)
	seedRecipes(t, db)

	// Partial and case-insensitive.
	results, err := Recipes(db).ByName("WAT").Execute(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Doro Wat", "Shiro Wat"}, recipeNames(results))
}

func TestBuilder_EqualsAndAnyOf(t *testing.T) {
	db := openTestDB(t)
	seedRecipes(t, db)
	ctx := context.Background()

	results, err := Recipes(db).
		Equals("difficulty", string(model.DifficultyEasy)).
		Execute(ctx, 1, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Shiro Wat", "Gomen"}, recipeNames(results))

	// Tag membership is "any of".
	results, err = Recipes(db).
		AnyOf("preferred_meal_times", "lunch", "breakfast").
		Execute(ctx, 1, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Shiro Wat", "Gomen"}, recipeNames(results))

	// Predicates compose with AND.
	results, err = Recipes(db).
		Equals("status", string(model.RecipeStatusVerified)).
		AnyOf("dietary_preferences", "vegan").
		Equals("difficulty", string(model.DifficultyEasy)).
		Execute(ctx, 1, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Shiro Wat", "Gomen"}, recipeNames(results))
}

func TestBuilder_SortAndPaginate(t *testing.T) {
	db := openTestDB(t)
	seedRecipes(t, db)
	ctx := context.Background()

	results, err := Recipes(db).SortBy("cooking_time", false).Execute(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kitfo", "Gomen"}, recipeNames(results))

	page2, err := Recipes(db).SortBy("cooking_time", false).Execute(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shiro Wat", "Doro Wat"}, recipeNames(page2))

	// Same criteria, same page: identical result sets.
	again, err := Recipes(db).SortBy("cooking_time", false).Execute(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, recipeNames(results), recipeNames(again))

	// Past the last page.
	empty, err := Recipes(db).Execute(ctx, 9, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBuilder_InvalidInput(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := Recipes(db).Execute(ctx, 0, 10)
	require.Error(t, err)
	assert.Equal(t, types.SEARCH_INVALID_PAGE, types.CodeOf(err))

	_, err = Recipes(db).Execute(ctx, -3, 10)
	require.Error(t, err)
	assert.Equal(t, types.SEARCH_INVALID_PAGE, types.CodeOf(err))

	_, err = Recipes(db).Equals("sql_injection", 1).Execute(ctx, 1, 10)
	require.Error(t, err)
	assert.Equal(t, types.SEARCH_INVALID_CRITERIA, types.CodeOf(err))

	// Membership predicates only apply to tag-set fields.
	_, err = Recipes(db).AnyOf("difficulty", "easy").Execute(ctx, 1, 10)
	require.Error(t, err)
	assert.Equal(t, types.SEARCH_INVALID_CRITERIA, types.CodeOf(err))
}

func TestBuilder_MedicalProfile(t *testing.T) {
	db := openTestDB(t)
	seedRecipes(t, db)

	profile := model.MedicalProfile{
		DietaryPreferences: []string{"vegan", model.TagNone},
	}
	results, err := Recipes(db).MedicalProfile(profile).Execute(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Shiro Wat", "Gomen"}, recipeNames(results))

	// An all-"none" profile adds no predicates at all.
	none := model.MedicalProfile{
		ChronicDiseases:    []string{model.TagNone},
		DietaryPreferences: []string{model.TagNone},
		Allergies:          []string{model.TagNone},
	}
	results, err = Recipes(db).MedicalProfile(none).Execute(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestBuilder_UserSearchMatchesFullName(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	users := database.NewUserDAO(db)
	for _, u := range []struct{ first, last, email string }{
		{"Mulu", "Alemu", "mulu@example.com"},
		{"Hana", "Getachew", "hana@example.com"},
	} {
		require.NoError(t, users.Create(ctx, &model.User{
			ID:        types.NewID(),
			Email:     u.email,
			FirstName: u.first,
			LastName:  u.last,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}))
	}

	// Last name alone matches.
	found, err := Users(db).ByName("getachew").Execute(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "hana@example.com", found[0].Email)

	// A query spanning first and last name matches too.
	found, err = Users(db).ByName("hana get").Execute(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "hana@example.com", found[0].Email)

	found, err = Users(db).ByName("alemu").Execute(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "mulu@example.com", found[0].Email)
}

func TestBuilder_UsersAndIngredients(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	users := database.NewUserDAO(db)
	require.NoError(t, users.Create(ctx, &model.User{
		ID:        types.NewID(),
		Email:     "mulu@example.com",
		FirstName: "Mulu",
		LastName:  "Alemu",
		MedicalProfile: model.MedicalProfile{
			DietaryPreferences: []string{"vegetarian"},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}))

	found, err := Users(db).ByName("mul").Execute(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "mulu@example.com", found[0].Email)

	byPref, err := Users(db).AnyOf("dietary_preferences", "vegetarian").Execute(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, byPref, 1)

	ingredients := database.NewIngredientDAO(db)
	require.NoError(t, ingredients.Create(ctx, &model.Ingredient{
		ID:        types.NewID(),
		Name:      "Berbere",
		Type:      "spice",
		Unit:      "g",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}))

	spices, err := Ingredients(db).Equals("type", "spice").Execute(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, spices, 1)
	assert.Equal(t, "Berbere", spices[0].Name)
}
