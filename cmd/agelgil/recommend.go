package main

import (
	"github.com/spf13/cobra"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

var (
	recommendMealTime string
	recommendSkip     int
	recommendLimit    int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <user-id>",
	Short: "Recommend recipes for a user from the graph projection",
	Long: `Recommend scores recipes reviewed by users with an overlapping
medical profile and returns them ordered by score. In passive mode the
result is always empty. Hits whose recipe no longer exists in the primary
store are dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		scored, err := a.discovery.Recommend(ctx, types.ID(args[0]), recommendMealTime, model.Pagination{
			Skip:  recommendSkip,
			Limit: recommendLimit,
		})
		if err != nil {
			return err
		}
		return printJSON(scored)
	},
}

func init() {
	recommendCmd.Flags().StringVar(&recommendMealTime, "meal-time", model.MealTimeAll, "Meal time filter, or 'all'")
	recommendCmd.Flags().IntVar(&recommendSkip, "skip", 0, "Results to skip")
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", model.DefaultPageSize, "Maximum results")
}
