package main

import (
	"github.com/spf13/cobra"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/service"
)

var (
	searchName       string
	searchDifficulty string
	searchStatus     string
	searchMealTimes  []string
	searchDiseases   []string
	searchDiets      []string
	searchAllergies  []string
	searchSortBy     string
	searchSortDesc   bool
	searchPage       int
	searchPageSize   int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search recipes in the primary store by attributes",
	Long: `Search filters recipes by name, difficulty, status, meal times, and
medical-profile tags. All predicates combine with AND; medical tags set to
"none" add no predicate at all.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		criteria := service.RecipeCriteria{
			Name:       searchName,
			Difficulty: model.Difficulty(searchDifficulty),
			Status:     model.RecipeStatus(searchStatus),
			MealTimes:  searchMealTimes,
			Profile: model.MedicalProfile{
				ChronicDiseases:    searchDiseases,
				DietaryPreferences: searchDiets,
				Allergies:          searchAllergies,
			},
			SortBy:   searchSortBy,
			SortDesc: searchSortDesc,
		}
		recipes, err := a.discovery.SearchRecipes(ctx, criteria, searchPage, searchPageSize)
		if err != nil {
			return err
		}
		return printJSON(recipes)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchName, "name", "", "Case-insensitive name substring")
	searchCmd.Flags().StringVar(&searchDifficulty, "difficulty", "", "Preparation difficulty (easy|medium|hard)")
	searchCmd.Flags().StringVar(&searchStatus, "status", "", "Moderation status (pending|verified|rejected)")
	searchCmd.Flags().StringSliceVar(&searchMealTimes, "meal-time", nil, "Preferred meal times (any match)")
	searchCmd.Flags().StringSliceVar(&searchDiseases, "chronic-disease", nil, "Chronic disease tags (any match)")
	searchCmd.Flags().StringSliceVar(&searchDiets, "dietary-preference", nil, "Dietary preference tags (any match)")
	searchCmd.Flags().StringSliceVar(&searchAllergies, "allergy", nil, "Allergy tags (any match)")
	searchCmd.Flags().StringVar(&searchSortBy, "sort-by", "", "Sort field (name|rating|cooking_time|created_at)")
	searchCmd.Flags().BoolVar(&searchSortDesc, "desc", false, "Sort descending")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Page number (1-based)")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", model.DefaultPageSize, "Results per page")
}
