package model

// TagNone is the sentinel tag value meaning "no restriction". It is valid in
// the canonical store but is never propagated into the graph projection.
const TagNone = "none"

// RecipeStatus represents the moderation status of a recipe.
type RecipeStatus string

const (
	RecipeStatusPending  RecipeStatus = "pending"
	RecipeStatusVerified RecipeStatus = "verified"
	RecipeStatusRejected RecipeStatus = "rejected"
)

// IsValid checks if the RecipeStatus is a valid value.
func (s RecipeStatus) IsValid() bool {
	switch s {
	case RecipeStatusPending, RecipeStatusVerified, RecipeStatusRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the RecipeStatus.
func (s RecipeStatus) String() string {
	return string(s)
}

// Difficulty represents the preparation difficulty of a recipe.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid checks if the Difficulty is a valid value.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// MealTimeAll is the wildcard meal-time filter accepted by recommendation
// queries. It bypasses the meal-time predicate entirely.
const MealTimeAll = "all"

// MealTimes is the closed set of preferred meal-time tags.
var MealTimes = []string{"breakfast", "lunch", "dinner", "snack", "dessert"}

// ChronicDiseases is the closed set of chronic-disease tags.
var ChronicDiseases = []string{
	"diabetes", "hypertension", "heart_disease", "kidney_disease",
	"liver_disease", "obesity", TagNone,
}

// DietaryPreferences is the closed set of dietary-preference tags.
var DietaryPreferences = []string{
	"vegan", "vegetarian", "pescatarian", "gluten_free", "keto",
	"low_carb", "low_sodium", TagNone,
}

// Allergies is the closed set of allergy tags.
var Allergies = []string{
	"nuts", "dairy", "eggs", "gluten", "shellfish", "soy", "fish",
	"sesame", TagNone,
}

// IsMealTime checks membership in the meal-time enumeration.
func IsMealTime(v string) bool { return contains(MealTimes, v) }

// IsChronicDisease checks membership in the chronic-disease enumeration.
func IsChronicDisease(v string) bool { return contains(ChronicDiseases, v) }

// IsDietaryPreference checks membership in the dietary-preference enumeration.
func IsDietaryPreference(v string) bool { return contains(DietaryPreferences, v) }

// IsAllergy checks membership in the allergy enumeration.
func IsAllergy(v string) bool { return contains(Allergies, v) }

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
