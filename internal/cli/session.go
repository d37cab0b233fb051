package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/timetrack/internal/calendar"
	"github.com/roach88/timetrack/internal/config"
	"github.com/roach88/timetrack/internal/register"
	"github.com/roach88/timetrack/internal/store"
)

// session is the state one command invocation works with: the resolved
// configuration, the open store and a register resumed from it.
type session struct {
	cfg    config.Config
	cal    *calendar.Calendar
	store  *store.Store[register.CheckEventRecord]
	reg    *register.Register
	clock  register.Clock
	logger zerolog.Logger
	out    *OutputFormatter
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

func newLogger(cfg config.Config, verbose bool, w io.Writer) zerolog.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = zerolog.WarnLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// openSession loads configuration, opens the store and resumes the register.
// Errors are already reported through the formatter; callers return them.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	out := newFormatter(opts, cmd)

	cfg, err := config.Load(opts.ConfigPath, opts.EnvFile)
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, "failed to load configuration", err)
	}
	logger := newLogger(cfg, opts.Verbose, cmd.ErrOrStderr())

	cal, err := cfg.Calendar()
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, "failed to build calendar", err)
	}

	path := cfg.StorePath()
	if opts.Database != "" {
		path = opts.Database
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeStoreOpen, "failed to create data directory", err)
	}

	ctx := commandContext(cmd)
	out.VerboseLog("Opening store %s", path)
	st, err := register.OpenStore(ctx, path)
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeStoreOpen, "failed to open store", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = register.SystemClock{}
	}
	reg := register.New(st,
		register.WithClock(clock),
		register.WithCalendar(cal),
		register.WithLogger(logger),
	)
	if err := reg.Resume(ctx); err != nil {
		st.Close()
		return nil, out.Fail(ExitCommandError, ErrCodeStoreOpen, "failed to resume from store", err)
	}

	return &session{
		cfg:    cfg,
		cal:    cal,
		store:  st,
		reg:    reg,
		clock:  clock,
		logger: logger,
		out:    out,
	}, nil
}

// Close closes the store, logging any error.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error().Err(err).Msg("error closing store")
	}
}

// commandContext returns the command's context, or Background when the
// command is executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
