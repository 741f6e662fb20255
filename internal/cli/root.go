package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/dshills/rewind/internal/config"
	"github.com/dshills/rewind/internal/engine"
	"github.com/dshills/rewind/internal/metrics"
	"github.com/dshills/rewind/internal/store"
)

// app carries state shared by all commands of one invocation.
type app struct {
	version     string
	configPath  string
	storePath   string
	showMetrics bool
	out         io.Writer
	errOut      io.Writer

	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Recorder
	store    Snapshots
	owned    *store.Store
}

// Snapshots is the snapshot storage commands read and write. *store.Store
// implements it.
type Snapshots interface {
	store.Saver
	Load(ctx context.Context, key string) (engine.Snapshot, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Option configures a CLI invocation.
type Option func(*app)

// WithOutput redirects command output and diagnostics.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *app) {
		a.out = out
		a.errOut = errOut
	}
}

// WithStore uses s instead of opening the configured store. s is not closed.
func WithStore(s Snapshots) Option {
	return func(a *app) {
		a.store = s
	}
}

// WithVersion sets the version reported by --version.
func WithVersion(v string) Option {
	return func(a *app) {
		a.version = v
	}
}

// Run executes the command line args and releases resources afterwards.
func Run(ctx context.Context, args []string, opts ...Option) error {
	a := &app{
		version: "dev",
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}

	root := a.newRoot()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)

	if a.showMetrics && a.registry != nil {
		if merr := a.writeMetrics(); merr != nil {
			err = errors.Join(err, merr)
		}
	}
	if a.owned != nil {
		if cerr := a.owned.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close store: %w", cerr))
		}
	}
	return err
}

func (a *app) newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:               "rewind",
		Short:             "Record, navigate and persist the edit history of JSON documents",
		Version:           a.version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a TOML or YAML config file")
	flags.StringVar(&a.storePath, "store", "", "snapshot store directory (overrides config)")
	flags.BoolVar(&a.showMetrics, "metrics", false, "print operation metrics to stderr on exit")

	root.AddCommand(
		a.initCommand(),
		a.setCommand(),
		a.patchCommand(),
		a.backCommand(),
		a.forwardCommand(),
		a.goCommand(),
		a.showCommand(),
		a.infoCommand(),
		a.historyCommand(),
		a.patchesCommand(),
		a.deleteCommand(),
		a.listCommand(),
		a.watchCommand(),
	)
	return root
}

// setup resolves configuration and opens the store before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.storePath != "" {
		cfg.Store.Path = a.storePath
		cfg.Store.InMemory = false
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger(a.errOut)
	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.New(a.registry)

	if a.store == nil {
		s, err := store.Open(cfg.Storage(a.logger))
		if err != nil {
			return err
		}
		a.store = s
		a.owned = s
	}
	a.logger.Debug("command starting", "command", cmd.Name(), "store", cfg.Store.Path)
	return nil
}

func (a *app) engineOptions(key string) []engine.Option {
	return append(a.cfg.EngineOptions(),
		engine.WithLogger(a.logger),
		engine.WithMetrics(a.metrics),
		engine.WithID(key),
	)
}

// load rebuilds the engine saved under key.
func (a *app) load(ctx context.Context, key string) (*engine.Engine, error) {
	snap, err := a.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return engine.FromSnapshot(snap, a.engineOptions(key)...)
}

// modify loads key, runs fn with autosave enabled and prints the resulting
// state. A failed save fails the command.
func (a *app) modify(ctx context.Context, key string, fn func(e *engine.Engine) error) error {
	e, err := a.load(ctx, key)
	if err != nil {
		return err
	}
	saver := store.Autosave(ctx, a.store, e, key)
	err = fn(e)
	if serr := saver.Stop(); err == nil {
		err = serr
	}
	if err != nil {
		return err
	}
	return a.printState(e)
}

func (a *app) writeMetrics() error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(a.errOut, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
