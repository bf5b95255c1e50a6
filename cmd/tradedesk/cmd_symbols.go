package main

import (
	"github.com/spf13/cobra"

	"tradedesk/internal/feature/symbolcatalog/transport/http/dto"
)

func newSymbolsCmd(state *cliState) *cobra.Command {
	var (
		category   string
		query      string
		categories bool
	)
	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "List or search the symbol catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := state.container.Symbols
			if categories {
				return writeJSON(cmd.OutOrStdout(), dto.NewCategoryItems(uc.ListCategories(cmd.Context())))
			}

			symbols, err := uc.Search(cmd.Context(), category, query)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.NewSymbolItems(symbols))
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category key (us, tw, crypto); empty lists all")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Match code, name or keyword")
	cmd.Flags().BoolVar(&categories, "categories", false, "List the categories instead of symbols")
	return cmd
}
