// Package config loads the server configuration from flags, environment
// variables (prefixed BOOKSHELF_) and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"pollex.nl/bookshelf/internal/logging"
	"pollex.nl/bookshelf/store"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const EnvPrefix = "BOOKSHELF"

const (
	KeyAddr            = "addr"
	KeyStore           = "store"
	KeySQLiteDSN       = "sqlite-dsn"
	KeySeed            = "seed"
	KeyGraphiQL        = "graphiql"
	KeyLogLevel        = "log-level"
	KeyLogFormat       = "log-format"
	KeyShutdownTimeout = "shutdown-timeout"
)

type Config struct {
	Addr            string
	Store           string
	SQLiteDSN       string
	SeedFile        string
	GraphiQL        bool
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

func Default() Config {
	return Config{
		Addr:            ":5005",
		Store:           store.BackendMemory,
		SQLiteDSN:       store.DefaultSQLiteDSN,
		GraphiQL:        true,
		LogLevel:        "info",
		LogFormat:       logging.FormatText,
		ShutdownTimeout: 5 * time.Second,
	}
}

// RegisterFlags declares the configuration flags with their defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(KeyAddr, d.Addr, "address to listen on")
	fs.String(KeyStore, d.Store, "entity store backend (memory or sqlite)")
	fs.String(KeySQLiteDSN, d.SQLiteDSN, "sqlite data source name")
	fs.String(KeySeed, d.SeedFile, "YAML seed file replacing the built-in catalogue")
	fs.Bool(KeyGraphiQL, d.GraphiQL, "serve the GraphiQL console on GET /graphql")
	fs.String(KeyLogLevel, d.LogLevel, "log level (debug, info, warn, error)")
	fs.String(KeyLogFormat, d.LogFormat, "log format (text or json)")
	fs.Duration(KeyShutdownTimeout, d.ShutdownTimeout, "time allowed for in-flight requests on shutdown")
}

// New returns a viper instance bound to fs and the environment.
func New(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault(KeyAddr, d.Addr)
	v.SetDefault(KeyStore, d.Store)
	v.SetDefault(KeySQLiteDSN, d.SQLiteDSN)
	v.SetDefault(KeySeed, d.SeedFile)
	v.SetDefault(KeyGraphiQL, d.GraphiQL)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyShutdownTimeout, d.ShutdownTimeout)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	return v, nil
}

// Load reads the configuration out of v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Addr:            v.GetString(KeyAddr),
		Store:           strings.ToLower(v.GetString(KeyStore)),
		SQLiteDSN:       v.GetString(KeySQLiteDSN),
		SeedFile:        v.GetString(KeySeed),
		GraphiQL:        v.GetBool(KeyGraphiQL),
		LogLevel:        v.GetString(KeyLogLevel),
		LogFormat:       strings.ToLower(v.GetString(KeyLogFormat)),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}

	switch c.Store {
	case store.BackendMemory, store.BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	if c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("shutdown timeout must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
