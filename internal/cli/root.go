// Package cli builds the colorbook command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/colorbook/internal/config"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand returns the colorbook command with all subcommands
// attached. Configuration is read from the environment before any
// subcommand runs; version skips it.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "colorbook",
		Short: "Coloring-page idea and image generator for children",
		Long: `colorbook serves a small web GUI that turns a topic into ten coloring-page
ideas and renders the chosen idea as black-and-white line drawings.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.AddCommand(
		newServeCommand(a),
		newTopicsCommand(a),
		newVersionCommand(),
	)

	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		return 1
	}
	return 0
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}
