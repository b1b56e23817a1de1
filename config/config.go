// Package config loads database aliases and runtime options from YAML and
// FORCEDFIELDS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/forcedfields/forcedfields/logger"
)

// EnvPrefix prefixes every environment override, so that
// FORCEDFIELDS_LOG_LEVEL sets log.level.
const EnvPrefix = "FORCEDFIELDS"

// ErrUnknownAlias is returned for a database alias missing from the
// configuration.
var ErrUnknownAlias = errors.New("unknown database alias")

type Config struct {
	Databases map[string]DatabaseConfig `mapstructure:"databases"`
	Log       LogConfig                 `mapstructure:"log"`
	Checks    ChecksConfig              `mapstructure:"checks"`
	Store     StoreConfig               `mapstructure:"store"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type LogConfig struct {
	// Backend is one of std, zap, zerolog, logrus or slog.
	Backend                   string        `mapstructure:"backend"`
	Level                     string        `mapstructure:"level"`
	SlowThreshold             time.Duration `mapstructure:"slow_threshold"`
	Colorful                  bool          `mapstructure:"colorful"`
	ParameterizedQueries      bool          `mapstructure:"parameterized_queries"`
	IgnoreRecordNotFoundError bool          `mapstructure:"ignore_record_not_found_error"`
}

type ChecksConfig struct {
	// Strict refuses to migrate schemas reporting serious issues.
	Strict bool `mapstructure:"strict"`
}

type StoreConfig struct {
	// EmulateAutoUpdate refreshes auto_update columns on save where the
	// backend cannot do it.
	EmulateAutoUpdate bool `mapstructure:"emulate_auto_update"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("databases.sqlite.driver", "sqlite")
	v.SetDefault("databases.sqlite.dsn", "file::memory:?cache=shared")
	v.SetDefault("databases.sqlite.max_open_conns", 1)
	v.SetDefault("log.backend", "std")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.slow_threshold", "200ms")
	v.SetDefault("log.colorful", false)
	v.SetDefault("log.parameterized_queries", false)
	v.SetDefault("log.ignore_record_not_found_error", false)
	v.SetDefault("checks.strict", false)
	v.SetDefault("store.emulate_auto_update", false)
}

// Load reads path, or ./forcedfields.yaml when path is empty. A missing
// default file is not an error; defaults and the environment still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("forcedfields")
		v.AddConfigPath(".")
	}

	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Database returns the settings of a database alias.
func (c *Config) Database(alias string) (DatabaseConfig, error) {
	db, ok := c.Databases[strings.ToLower(alias)]
	if !ok {
		return DatabaseConfig{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownAlias, alias, strings.Join(c.Aliases(), ", "))
	}
	if db.Driver == "" {
		return DatabaseConfig{}, fmt.Errorf("database %q: driver is required", alias)
	}
	return db, nil
}

// Aliases lists the configured database aliases, sorted.
func (c *Config) Aliases() []string {
	aliases := make([]string, 0, len(c.Databases))
	for alias := range c.Databases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

func (c LogConfig) loggerConfig() (logger.Config, error) {
	level, err := logger.ParseLevel(c.Level)
	if err != nil {
		return logger.Config{}, err
	}
	return logger.Config{
		SlowThreshold:             c.SlowThreshold,
		Colorful:                  c.Colorful,
		IgnoreRecordNotFoundError: c.IgnoreRecordNotFoundError,
		ParameterizedQueries:      c.ParameterizedQueries,
		LogLevel:                  level,
	}, nil
}

// NewLogger builds the configured logger backend writing to out.
func (c LogConfig) NewLogger(out io.Writer) (logger.Interface, error) {
	cfg, err := c.loggerConfig()
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(c.Backend) {
	case "", "std":
		return logger.New(log.New(out, "\r\n", log.LstdFlags), cfg), nil
	case "zap":
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(out),
			logger.ZapLevel(cfg.LogLevel),
		)
		return logger.NewZapLogger(zap.New(core), cfg), nil
	case "zerolog":
		if c.Colorful {
			return logger.NewZerologConsole(out, cfg), nil
		}
		zl := zerolog.New(out).Level(logger.ZerologLevel(cfg.LogLevel)).With().Timestamp().Logger()
		return logger.NewZerologLogger(zl, cfg), nil
	case "logrus":
		l := logrus.New()
		l.SetOutput(out)
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(logrus.TraceLevel)
		return logger.NewLogrusLogger(l, cfg), nil
	case "slog":
		return logger.NewSlogLogger(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})), cfg), nil
	}
	return nil, fmt.Errorf("unknown log backend %q", c.Backend)
}
