package similarity

import (
	"fmt"
	"strings"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
)

// BuildBlob denormalizes a recipe into the text form that gets embedded.
// Everything that should influence "recipes like this one" is flattened in:
// name, description, difficulty, meal times, ingredients, and the medical
// tags. "none" sentinels are excluded like everywhere else.
func BuildBlob(recipe *model.Recipe) string {
	var b strings.Builder

	writeField(&b, "name", recipe.Name)
	writeField(&b, "description", recipe.Description)
	writeField(&b, "difficulty", string(recipe.Difficulty))
	if recipe.CookingTimeMinutes > 0 {
		writeField(&b, "cooking time", fmt.Sprintf("%d minutes", recipe.CookingTimeMinutes))
	}
	writeField(&b, "meal times", strings.Join(recipe.PreferredMealTimes, ", "))

	if len(recipe.Ingredients) > 0 {
		names := make([]string, 0, len(recipe.Ingredients))
		for _, ing := range recipe.Ingredients {
			names = append(names, ing.Name)
		}
		writeField(&b, "ingredients", strings.Join(names, ", "))
	}

	writeField(&b, "suited for conditions", strings.Join(recipe.MedicalProfile.ActiveChronicDiseases(), ", "))
	writeField(&b, "dietary preferences", strings.Join(recipe.MedicalProfile.ActiveDietaryPreferences(), ", "))
	writeField(&b, "allergy safe for", strings.Join(recipe.MedicalProfile.ActiveAllergies(), ", "))

	return strings.TrimRight(b.String(), "\n")
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}
