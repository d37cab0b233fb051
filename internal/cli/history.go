package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/timetrack/internal/register"
)

// FrameOptions holds the --frame flag shared by history and report.
type FrameOptions struct {
	*RootOptions
	Frame string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FrameOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded check operations",
		Long: `List the check operations recorded in a temporal frame.

Frames are today, week and month (the calendar period containing now,
using the configured locale's first day of the week) and all.

Example:
  timetrack history --frame week`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Frame, "frame", "f", string(register.Today), "temporal frame (today|week|month|all)")

	return cmd
}

func runHistory(opts *FrameOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	frame, err := register.ParseTemporalFrame(opts.Frame)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeBadArgument, fmt.Sprintf("invalid --frame %q", opts.Frame), err)
	}

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	window, err := s.windowView(frame)
	if err != nil {
		return s.out.Fail(ExitFailure, ErrCodeQuery, "failed to resolve frame", err)
	}
	recs, err := s.reg.FindOperations(commandContext(cmd), frame)
	if err != nil {
		return s.out.Fail(ExitFailure, ErrCodeQuery, "failed to find operations", err)
	}

	view := historyView{windowView: window, Operations: make([]operationView, 0, len(recs))}
	for _, rec := range recs {
		view.Operations = append(view.Operations, newOperationView(rec, s.cal.Location()))
	}
	return s.out.Success(view)
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FrameOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize worked time",
		Long: `Pair check-ins with check-outs in a temporal frame and sum the time
between them. A check-in still open is counted up to now.

Example:
  timetrack report --frame month --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Frame, "frame", "f", string(register.Today), "temporal frame (today|week|month|all)")

	return cmd
}

func runReport(opts *FrameOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	frame, err := register.ParseTemporalFrame(opts.Frame)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeBadArgument, fmt.Sprintf("invalid --frame %q", opts.Frame), err)
	}

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	window, err := s.windowView(frame)
	if err != nil {
		return s.out.Fail(ExitFailure, ErrCodeQuery, "failed to resolve frame", err)
	}
	report, err := s.reg.Worked(commandContext(cmd), frame)
	if err != nil {
		return s.out.Fail(ExitFailure, ErrCodeQuery, "failed to build report", err)
	}
	return s.out.Success(newReportView(report, window, s.cal.Location()))
}

func (s *session) windowView(frame register.TemporalFrame) (windowView, error) {
	if frame == register.All {
		return newWindowView(frame, nil, s.cal.Location()), nil
	}
	w, err := s.reg.Window(frame)
	if err != nil {
		return windowView{}, err
	}
	return newWindowView(frame, &w, s.cal.Location()), nil
}
