package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "optimapped",
	Short: "Focus assessment and focus-map planner",
	Long:  "Optimapped: take a short focus assessment, turn the results into an editable focus map, and ask an AI for a technique that suits you.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides OPTIMAPPED_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(llmCmd)
}
