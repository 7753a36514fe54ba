package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/farminvest/internal/apperrors"
	"github.com/sheikh-saqib/farminvest/internal/optimistic"
	"github.com/sheikh-saqib/farminvest/internal/validation"
)

const shellHelp = `Commands:
  add      record a new investment (prompts for farmer, crop, amount)
  refresh  reload the list from the store
  list     show the list again
  help     show this help
  quit     leave
`

// NewShellCommand creates an interactive session around one manager. Every
// state change is rendered as it happens.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session: browse and add investments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, rootOpts)
		},
	}
}

func runShell(cmd *cobra.Command, opts *RootOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	m := opts.newManager()
	cancel := m.Subscribe(func(s optimistic.Snapshot) {
		// intermediate loading states are noise in a line-oriented shell
		if s.Phase == optimistic.PhaseLoading || s.Phase == optimistic.PhaseRefreshing {
			return
		}
		if err := writeSnapshot(out, opts.Format, s); err != nil {
			opts.Logger.Error("render failed", "error", err)
		}
	})
	defer cancel()

	_ = m.Load(ctx)
	fmt.Fprint(out, shellHelp)

	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}

		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "":
		case "add", "new", "+":
			c, ok := promptCandidate(in, out)
			if !ok {
				return in.Err()
			}
			if err := m.Submit(ctx, c); err != nil && apperrors.Is(err, apperrors.CodeValidation) {
				// nothing changed, so no snapshot was rendered
				fmt.Fprintln(out, "Error:", apperrors.Message(err))
			}
		case "refresh", "r":
			_ = m.Refresh(ctx)
		case "list", "ls":
			if err := writeSnapshot(out, opts.Format, m.Snapshot()); err != nil {
				return err
			}
		case "help", "?":
			fmt.Fprint(out, shellHelp)
		case "quit", "exit", "q":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q, try help\n", in.Text())
		}
	}
}

func promptCandidate(in *bufio.Scanner, out io.Writer) (validation.Candidate, bool) {
	var fields [3]string
	for i, label := range []string{"Farmer name", "Crop", "Amount"} {
		fmt.Fprintf(out, "%s: ", label)
		if !in.Scan() {
			return validation.Candidate{}, false
		}
		fields[i] = in.Text()
	}
	return validation.Candidate{Owner: fields[0], Category: fields[1], AmountText: fields[2]}, true
}
