package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Rebuild the graph and vector projections from the primary store",
	Long: `Seed replays the canonical store into both auxiliary stores. Graph
writes are merges and vector inserts are skipped for recipes already
present, so re-running converges instead of duplicating.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		report, err := a.admin.Seed(ctx)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

// importFixture is the shape of the JSON file accepted by import.
type importFixture struct {
	Users   []*model.User   `json:"users"`
	Recipes []*model.Recipe `json:"recipes"`
	Reviews []*model.Review `json:"reviews"`
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import users, recipes, and reviews from a JSON fixture file",
	Long: `Import creates entities through the normal write path, so every
imported user and recipe is propagated to the auxiliary stores just as a
live mutation would be. Recipes enter as pending regardless of the status
in the file; use moderation to verify them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var fixture importFixture
		if err := json.Unmarshal(data, &fixture); err != nil {
			return err
		}

		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		for _, user := range fixture.Users {
			if err := a.users.Create(ctx, user); err != nil {
				return err
			}
		}
		for _, recipe := range fixture.Recipes {
			if err := a.recipes.Create(ctx, recipe); err != nil {
				return err
			}
		}
		for _, review := range fixture.Reviews {
			if _, err := a.reviews.Create(ctx, review); err != nil {
				return err
			}
		}

		return printJSON(map[string]int{
			"users":   len(fixture.Users),
			"recipes": len(fixture.Recipes),
			"reviews": len(fixture.Reviews),
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
