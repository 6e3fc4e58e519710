package main

import (
	"github.com/spf13/cobra"
)

// rootCmd is the entry point of the animeverse binary. Without a subcommand
// it starts the web front-end.
var rootCmd = &cobra.Command{
	Use:           "animeverse",
	Short:         "Anime catalog front-end backed by the Jikan API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, searchCmd, genresCmd)
	addServeFlags(rootCmd)
}
