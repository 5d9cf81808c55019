package main

import (
	"fmt"
	"os"

	"go-advisory-contact/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "contactform",
	Short: "Fill in the advisory contact form from a terminal",
	Long: `contactform runs the contact form of the advisory site in a terminal.

Fields are validated as you leave them, the form is saved as a draft while
you type, and an unfinished message is kept for your next visit.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = zap.NewNop()
		if verbose {
			// stderr keeps log lines out of the prompts
			logger, err = newLogger("debug")
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline events to stderr")

	draftCmd.AddCommand(draftShowCmd, draftClearCmd)
	rootCmd.AddCommand(fillCmd, draftCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
