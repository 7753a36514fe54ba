package cli

import (
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all investments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := rootOpts.newManager()
			loadErr := m.Load(cmd.Context())

			if err := writeSnapshot(cmd.OutOrStdout(), rootOpts.Format, m.Snapshot()); err != nil {
				return err
			}
			return loadErr
		},
	}
}
