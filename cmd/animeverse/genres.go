package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/animeverse/animeverse/internal/client"
	"github.com/animeverse/animeverse/internal/config"
	"github.com/animeverse/animeverse/internal/render"
)

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the genre taxonomy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		jikan := client.NewClient(config.GetConfig())
		defer func() { _ = jikan.Close() }()

		genres := jikan.Genres(cmd.Context())
		out := cmd.OutOrStdout()
		if len(genres) == 0 {
			_, _ = fmt.Fprintln(out, render.NoResults)
			return nil
		}
		for _, g := range genres {
			_, _ = fmt.Fprintf(out, "%4d  %-24s %d\n", g.ID, g.Name, g.Count)
		}
		return nil
	},
}
