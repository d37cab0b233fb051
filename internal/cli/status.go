package cli

import (
	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current check state",
		Long: `Show the current check state, the operation expected next, the last
recorded operation and the time elapsed since it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd)
		},
	}

	return cmd
}

func runStatus(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	count, err := s.reg.OperationCount(commandContext(cmd))
	if err != nil {
		return s.out.Fail(ExitFailure, ErrCodeQuery, "failed to count operations", err)
	}

	view := statusView{
		State:      string(s.reg.CurrentState()),
		Next:       string(s.reg.NextCheckOperation()),
		SinceMs:    s.reg.TimeSinceLastOperation(),
		Operations: count,
	}
	if last, ok := s.reg.LastCheckOperation(); ok {
		lv := newOperationView(last, s.cal.Location())
		view.Last = &lv
	}
	return s.out.Success(view)
}
