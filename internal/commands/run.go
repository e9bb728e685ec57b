package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/terminal"
)

var runDemoFlag bool

var runCmd = &cobra.Command{
	Use:   "run [name]",
	Short: "Run a saved game",
	Long:  "Evaluate a saved game from the library and mount it in the terminal. With --demo, runs the bundled snake game instead.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		sess := newSession(cfg)

		switch {
		case runDemoFlag:
			sess.stageDemo()
		case len(args) == 1:
			if err := sess.loadGame(args[0]); err != nil {
				terminal.Info("Use `playforge games` to list saved games.")
				return err
			}
		default:
			return fmt.Errorf("name a saved game or pass --demo")
		}

		return sess.runCurrent(cmd.Context())
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDemoFlag, "demo", false, "run the bundled snake demo")
}
