// Package cli implements the farminvest command line: the store server and
// a terminal front end driving the optimistic manager.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/farminvest/internal/client"
	"github.com/sheikh-saqib/farminvest/internal/config"
	"github.com/sheikh-saqib/farminvest/internal/logging"
	"github.com/sheikh-saqib/farminvest/internal/optimistic"
)

// RootOptions holds global flags and what PersistentPreRunE derives from them.
type RootOptions struct {
	ConfigPath string
	EnvFile    string
	Verbose    bool
	Format     string // "text" | "json"

	Config config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "farminvest",
		Short:         "FarmInvest Lite - track agricultural investments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			var envFiles []string
			if opts.EnvFile != "" {
				envFiles = append(envFiles, opts.EnvFile)
			}
			cfg, err := config.Load(opts.ConfigPath, envFiles...)
			if err != nil {
				return err
			}
			if opts.Verbose {
				cfg.Logging.Level = "debug"
			}
			opts.Config = cfg
			opts.Logger = logging.New(logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file to load (default .env)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))

	return cmd
}

// newManager builds a manager talking to the configured store.
func (o *RootOptions) newManager() *optimistic.Manager {
	remote := client.New(o.Config.Client.BaseURL,
		client.WithTimeout(o.Config.Client.Timeout),
		client.WithLogger(o.Logger),
	)
	return optimistic.New(remote, optimistic.WithLogger(o.Logger))
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		os.Exit(1)
	}
}
