package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/equipt/internal/config"
	"github.com/idilsaglam/equipt/internal/ledger"
	"github.com/idilsaglam/equipt/internal/logger"
	"github.com/idilsaglam/equipt/internal/model"
	"github.com/idilsaglam/equipt/internal/sites"
	"github.com/idilsaglam/equipt/internal/store/sqlitestore"
	"github.com/idilsaglam/equipt/internal/tui"
	"github.com/idilsaglam/equipt/internal/ui"
)

// Exit codes (0 ok, 1 error, 2 usage).
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// ExitErr carries an exit code up to Run.
type ExitErr struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitErr) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitErr) Unwrap() error { return e.Err }

func usageError(msg string) *ExitErr { return &ExitErr{Code: ExitUsage, Message: msg} }

// usageArgs reports a failed argument check as a usage error.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(err.Error())
		}
		return nil
	}
}

// exitCode maps an error from Execute to the process exit code.
func exitCode(err error) int {
	var ee *ExitErr
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ee):
		return ee.Code
	case errors.Is(err, ledger.ErrInvalidInput):
		return ExitUsage
	}
	return ExitError
}

// Options are the root flags; empty values defer to the environment.
type Options struct {
	EnvFile  string
	DBPath   string
	Theme    string
	Sites    string
	Currency string
	Verbose  bool
}

// Env is what the commands read from and write to.
type Env struct {
	Out, Err io.Writer
	Opener   sites.Opener
	// RunTUI starts the interactive screens; nil means tui.Run.
	RunTUI func(ctx context.Context, cfg tui.Config) error
}

// app is the per-invocation state shared by subcommands.
type app struct {
	env   Env
	opts  *Options
	cfg   *config.Config
	log   *zap.Logger
	store *sqlitestore.Store
	led   *ledger.Controller
	tui   bool
}

// Run executes the command line and returns the exit code.
func Run(args []string, env Env) int {
	if env.Out == nil {
		env.Out = os.Stdout
	}
	if env.Err == nil {
		env.Err = os.Stderr
	}
	if env.Opener == nil {
		env.Opener = sites.BrowserOpener{}
	}
	if env.RunTUI == nil {
		env.RunTUI = tui.Run
	}

	a := &app{env: env, opts: &Options{}}
	defer a.close()

	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	cmd.SetOut(env.Out)
	cmd.SetErr(env.Err)

	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		ui.Fail(env.Err, err.Error())
		if a.log != nil {
			a.log.Debug("command failed", zap.Error(err))
		}
	}
	return exitCode(err)
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equipt",
		Short: "equipt - track workout equipment costs",
		Long: "Record priced items, keep them in a local database and view the total.\n" +
			"Run without a subcommand for the interactive screens.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          usageArgs(cobra.NoArgs),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.tui = cmd.Name() == "equipt"
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err.Error())
	})

	f := cmd.PersistentFlags()
	f.StringVar(&a.opts.EnvFile, "env-file", "", "load environment from this file (default ./.env)")
	f.StringVar(&a.opts.DBPath, "db", "", "database file (env EQUIPT_DB)")
	f.StringVar(&a.opts.Theme, "theme", "", "classic | neon | mono (env EQUIPT_THEME)")
	f.StringVar(&a.opts.Sites, "sites", "", "JSON or YAML site list (env EQUIPT_SITES)")
	f.StringVar(&a.opts.Currency, "currency", "", "currency for totals (env EQUIPT_CURRENCY)")
	f.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newAddCommand(a),
		newListCommand(a),
		newTotalCommand(a),
		newClearCommand(a),
		newSitesCommand(a),
		newOpenCommand(a),
	)
	return cmd
}

// setup loads configuration and logging; the store opens lazily.
func (a *app) setup() error {
	cfg, err := config.Load(a.opts.EnvFile)
	if err != nil {
		return &ExitErr{Code: ExitUsage, Message: "config", Err: err}
	}
	if a.opts.DBPath != "" {
		cfg.DBPath = a.opts.DBPath
	}
	if a.opts.Theme != "" {
		cfg.Theme = a.opts.Theme
	}
	if a.opts.Sites != "" {
		cfg.SitesFile = a.opts.Sites
	}
	if a.opts.Currency != "" {
		cfg.Currency = a.opts.Currency
	}
	if a.opts.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return &ExitErr{Code: ExitUsage, Message: "config", Err: err}
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Quiet: a.tui})
	if err != nil {
		return &ExitErr{Code: ExitUsage, Message: "logger", Err: err}
	}
	a.log = log
	return nil
}

// ledger opens the store and loads the mirror on first use.
func (a *app) ledger(ctx context.Context) (*ledger.Controller, error) {
	if a.led != nil {
		return a.led, nil
	}
	if err := a.cfg.EnsureDBDir(); err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorageFailure, err)
	}
	st, err := sqlitestore.Open(a.cfg.DBPath, sqlitestore.WithLogger(logger.Named(a.log, "store")))
	if err != nil {
		a.log.Error("open store", zap.String("path", a.cfg.DBPath), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorageFailure, err)
	}
	a.store = st

	led := ledger.New(st, ledger.WithLogger(logger.Named(a.log, "ledger")))
	if err := led.Load(ctx); err != nil {
		return nil, err
	}
	a.led = led
	return led, nil
}

func (a *app) siteList() ([]model.Site, error) {
	list, err := sites.Load(a.cfg.SitesFile)
	if err != nil {
		return nil, &ExitErr{Code: ExitError, Message: "sites", Err: err}
	}
	return list, nil
}

func (a *app) runTUI(ctx context.Context) error {
	led, err := a.ledger(ctx)
	if err != nil {
		return err
	}
	list, err := a.siteList()
	if err != nil {
		return err
	}
	return a.env.RunTUI(ctx, tui.Config{
		Ledger:   led,
		Sites:    list,
		Opener:   a.env.Opener,
		Currency: a.cfg.Currency,
		Log:      logger.Named(a.log, "tui"),
	})
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.log != nil {
			a.log.Warn("close store", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
