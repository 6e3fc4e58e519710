package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/animeverse/animeverse/internal/client"
	"github.com/animeverse/animeverse/internal/config"
	"github.com/animeverse/animeverse/internal/render"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog and print the matches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jikan := client.NewClient(config.GetConfig())
		defer func() { _ = jikan.Close() }()

		results := jikan.Search(cmd.Context(), strings.Join(args, " "))
		out := cmd.OutOrStdout()
		if len(results) == 0 {
			_, _ = fmt.Fprintln(out, render.NoResults)
			return nil
		}
		for _, a := range results {
			_, _ = fmt.Fprintf(out, "%6d  %-50s  ⭐ %-5s  %s\n",
				a.ID, render.Truncate(a.Title, 50), render.Score(a.Score), render.GenreLabel(a.Genres))
		}
		return nil
	},
}
