package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/fogwall/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog <poster-list...>",
		Short: "Merge poster lists and print them in the catalog JSON format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			posters, err := catalog.LoadFiles(args...)
			if err != nil {
				return err
			}
			data, err := catalog.Export(posters)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
