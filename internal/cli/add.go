package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/farminvest/internal/optimistic"
	"github.com/sheikh-saqib/farminvest/internal/validation"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Farmer string
	Crop   string
	Amount string
}

// NewAddCommand creates the add command. In text mode it prints the list
// as soon as the tentative entry is inserted and again once it settles.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new investment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Farmer, "farmer", "", "farmer name")
	cmd.Flags().StringVar(&opts.Crop, "crop", "", "crop")
	cmd.Flags().StringVar(&opts.Amount, "amount", "", "amount invested")

	return cmd
}

func runAdd(cmd *cobra.Command, opts *AddOptions) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	candidate := validation.Candidate{Owner: opts.Farmer, Category: opts.Crop, AmountText: opts.Amount}
	if _, err := validation.Validate(candidate); err != nil {
		return err
	}

	m := opts.newManager()
	if err := m.Load(ctx); err != nil {
		opts.Logger.Warn("could not load existing investments", "error", err)
	}

	if opts.Format == "text" {
		cancel := m.Subscribe(func(s optimistic.Snapshot) {
			if err := writeSnapshot(out, opts.Format, s); err != nil {
				opts.Logger.Error("render failed", "error", err)
			}
			fmt.Fprintln(out)
		})
		defer cancel()
	}

	err := m.Submit(ctx, candidate)
	if opts.Format == "json" {
		if werr := writeSnapshot(out, opts.Format, m.Snapshot()); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}

	if opts.Format == "text" {
		fmt.Fprintln(out, "Investment saved.")
	}
	return nil
}
