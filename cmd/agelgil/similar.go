package main

import (
	"github.com/spf13/cobra"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

var (
	similarPage     int
	similarPageSize int
)

var similarCmd = &cobra.Command{
	Use:   "similar <recipe-id>",
	Short: "Find recipes similar to a recipe via the vector projection",
	Long: `Similar embeds the candidate recipe's text projection and returns
its nearest verified neighbours by cosine similarity. The candidate itself
is always excluded. In passive mode the result is always empty.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		scored, err := a.discovery.Similar(ctx, types.ID(args[0]), similarPage, similarPageSize)
		if err != nil {
			return err
		}
		return printJSON(scored)
	},
}

func init() {
	similarCmd.Flags().IntVar(&similarPage, "page", 0, "Page number (0-based)")
	similarCmd.Flags().IntVar(&similarPageSize, "page-size", model.DefaultPageSize, "Results per page")
}
