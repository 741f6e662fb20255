package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/dshills/rewind/internal/config/loader"
	"github.com/dshills/rewind/internal/engine"
	"github.com/dshills/rewind/internal/store"
	"github.com/dshills/rewind/internal/watch"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "REWIND_"

// Config is the resolved configuration.
type Config struct {
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
	Store   StoreConfig   `mapstructure:"store"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// HistoryConfig controls engine behavior.
type HistoryConfig struct {
	MaxHistory  int  `mapstructure:"max_history" validate:"gte=0"`
	AutoArchive bool `mapstructure:"auto_archive"`
	Mutable     bool `mapstructure:"mutable"`
}

// LoggingConfig controls the diagnostic logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// StoreConfig controls snapshot persistence.
type StoreConfig struct {
	Path       string `mapstructure:"path" validate:"required_unless=InMemory true"`
	InMemory   bool   `mapstructure:"in_memory"`
	SyncWrites bool   `mapstructure:"sync_writes"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{
			MaxHistory:  engine.DefaultMaxHistory,
			AutoArchive: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Path: ".rewind",
		},
		Watch: WatchConfig{
			Debounce: watch.DefaultDebounce,
		},
	}
}

// defaultMap is Default in the layered map form.
func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"history": map[string]any{
			"max_history":  d.History.MaxHistory,
			"auto_archive": d.History.AutoArchive,
			"mutable":      d.History.Mutable,
		},
		"logging": map[string]any{
			"level":  d.Logging.Level,
			"format": d.Logging.Format,
		},
		"store": map[string]any{
			"path":        d.Store.Path,
			"in_memory":   d.Store.InMemory,
			"sync_writes": d.Store.SyncWrites,
		},
		"watch": map[string]any{
			"debounce": d.Watch.Debounce.String(),
		},
	}
}

// Load resolves configuration from defaults, the file at path (if path is
// not empty) and REWIND_ environment variables, in increasing priority.
func Load(path string) (Config, error) {
	return LoadFS(loader.DefaultFS(), path)
}

// LoadFS is Load reading the file from fsys.
func LoadFS(fsys loader.FileSystem, path string) (Config, error) {
	merged := defaultMap()

	if path != "" {
		l, err := loader.ForPath(fsys, path)
		if err != nil {
			return Config{}, err
		}
		file, err := l.Load()
		if err != nil {
			return Config{}, err
		}
		if file == nil {
			return Config{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		merged = loader.DeepMerge(merged, file)
	}

	env, err := loader.NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, env)

	return Decode(merged)
}

// Decode converts a layered map into a validated Config.
func Decode(m map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q", ErrInvalidConfig, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// EngineOptions translates the history section into engine options.
func (c Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithMaxHistory(c.History.MaxHistory),
		engine.WithAutoArchive(c.History.AutoArchive),
		engine.WithMutable(c.History.Mutable),
	}
}

// Storage translates the store section into a store configuration.
func (c Config) Storage(logger *slog.Logger) store.Config {
	if c.Store.InMemory {
		cfg := store.InMemoryConfig()
		cfg.Logger = logger
		return cfg
	}
	cfg := store.DefaultConfig(c.Store.Path)
	cfg.SyncWrites = c.Store.SyncWrites
	cfg.Logger = logger
	return cfg
}
