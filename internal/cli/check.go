package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/timetrack/internal/register"
)

// ManualOptions holds flags for the manual command.
type ManualOptions struct {
	*RootOptions
	At        string
	Operation string
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Record the next check operation now",
		Long: `Record the next check operation at the current time.

If you are checked out this checks you in, and the other way round.

Example:
  timetrack check
  timetrack check --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.reg.AutoCheck(commandContext(cmd))
	if err != nil {
		return s.out.Fail(ExitFailure, ErrCodePersistence, "failed to record check operation", err)
	}
	return s.out.Success(s.checkView(rec))
}

// NewManualCommand creates the manual command.
func NewManualCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ManualOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "manual",
		Short: "Record a check operation at a given time",
		Long: `Record a check operation at an explicit, past or present time.

The operation must be the one expected next and the time must not be in
the future.

Example:
  timetrack manual --at 2022-04-21T09:00:00Z --op check-in`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManual(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "", "time of the operation, RFC 3339 (required)")
	cmd.Flags().StringVar(&opts.Operation, "op", "", "operation: check-in or check-out (required)")
	_ = cmd.MarkFlagRequired("at")
	_ = cmd.MarkFlagRequired("op")

	return cmd
}

func runManual(opts *ManualOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)

	at, err := time.Parse(time.RFC3339, opts.At)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeBadArgument, fmt.Sprintf("invalid --at %q", opts.At), err)
	}
	op, err := register.ParseCheckOperation(opts.Operation)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeBadArgument, fmt.Sprintf("invalid --op %q", opts.Operation), err)
	}

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.reg.ManualCheck(commandContext(cmd), at.UnixMilli(), op)
	switch {
	case register.IsInvalidOperation(err):
		return s.out.Fail(ExitFailure, ErrCodeRejected, "check operation rejected", err)
	case err != nil:
		return s.out.Fail(ExitFailure, ErrCodePersistence, "failed to record check operation", err)
	}
	return s.out.Success(s.checkView(rec))
}

func (s *session) checkView(rec register.CheckEventRecord) checkView {
	return checkView{
		operationView: newOperationView(rec, s.cal.Location()),
		State:         string(rec.Operation.ResultingState()),
	}
}
