package commands

import (
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "playforge",
	Short:   "Prompt-to-game terminal",
	Long:    "Playforge turns a one-line description into a playable terminal game using the xAI API, and runs the generated code in a sandbox.",
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "xAI model to use for generation (e.g. grok-3, grok-3-mini)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(mcpCmd)
}

// modelFlag holds the --model flag value.
var modelFlag string

// ModelFlag returns the current --model flag value.
func ModelFlag() string {
	return modelFlag
}
