package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for mdflatten.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mdflatten",
		Short:         "Flatten vendor video/audio analysis results into unified timed tags",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Optional .env carries the result-service URL for --service.
			godotenv.Load()
		},
	}

	rootCmd.AddCommand(newFlattenCmd())
	rootCmd.AddCommand(newParsersCmd())

	return rootCmd
}
