package search

import (
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/database"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
)

// Preconfigured builders for the three searchable entities. The field maps
// define what the controller layer may filter and sort on; anything else is
// rejected as invalid criteria rather than passed through to SQL.

var recipeFields = map[string]Field{
	"name":                 {Column: "name"},
	"difficulty":           {Column: "difficulty"},
	"status":               {Column: "status"},
	"cooking_time":         {Column: "cooking_time"},
	"rating":               {Column: "rating"},
	"user_id":              {Column: "user_id"},
	"created_at":           {Column: "created_at"},
	"preferred_meal_times": {Column: "preferred_meal_times", JSONArray: true},
	"chronic_diseases":     {Column: "chronic_diseases", JSONArray: true},
	"dietary_preferences":  {Column: "dietary_preferences", JSONArray: true},
	"allergies":            {Column: "allergies", JSONArray: true},
}

var userFields = map[string]Field{
	"name":                {Column: "(first_name || ' ' || last_name)"},
	"email":               {Column: "email"},
	"created_at":          {Column: "created_at"},
	"chronic_diseases":    {Column: "chronic_diseases", JSONArray: true},
	"dietary_preferences": {Column: "dietary_preferences", JSONArray: true},
	"allergies":           {Column: "allergies", JSONArray: true},
}

var ingredientFields = map[string]Field{
	"name":       {Column: "name"},
	"type":       {Column: "type"},
	"unit":       {Column: "unit"},
	"created_at": {Column: "created_at"},
}

// Recipes creates a recipe query builder.
func Recipes(db *database.DB) *Builder[*model.Recipe] {
	dao := database.NewRecipeDAO(db)
	return New(db, "recipes", dao.SelectColumns(), recipeFields, dao.Scan)
}

// Users creates a user query builder.
func Users(db *database.DB) *Builder[*model.User] {
	dao := database.NewUserDAO(db)
	return New(db, "users", dao.SelectColumns(), userFields, dao.Scan)
}

// Ingredients creates an ingredient query builder.
func Ingredients(db *database.DB) *Builder[*model.Ingredient] {
	dao := database.NewIngredientDAO(db)
	return New(db, "ingredients", dao.SelectColumns(), ingredientFields, dao.Scan)
}
