// Package config loads service settings from defaults, an optional TOML
// file, the environment and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAddr            = "127.0.0.1:8080"
	DefaultDatabase        = "todos"
	DefaultCollection      = "todos"
	DefaultRequestTimeout  = 3 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultConnectAttempts = 3
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"

	// ConfigFileEnv names the TOML file to load when -config is not given.
	ConfigFileEnv = "TODO_CONFIG"
)

var ErrMissingDBURL = errors.New("DB_URL (or MONGODB_URI) is required")

type Config struct {
	DBURL           string   `toml:"db_url"`
	Database        string   `toml:"database"`
	Collection      string   `toml:"collection"`
	Addr            string   `toml:"addr"`
	RequestTimeout  Duration `toml:"request_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	ConnectAttempts int      `toml:"connect_attempts"`
	LogLevel        string   `toml:"log_level"`
	LogFormat       string   `toml:"log_format"`
}

// Duration lets TOML files use "3s" style values.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Defaults() Config {
	return Config{
		Database:        DefaultDatabase,
		Collection:      DefaultCollection,
		Addr:            DefaultAddr,
		RequestTimeout:  Duration{DefaultRequestTimeout},
		ShutdownTimeout: Duration{DefaultShutdownTimeout},
		ConnectAttempts: DefaultConnectAttempts,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// Load builds the configuration. getenv is usually os.Getenv.
func Load(fs *flag.FlagSet, args []string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	var (
		configFile string
		flagged    Config
	)
	fs.StringVar(&configFile, "config", "", "path to a TOML config file (env "+ConfigFileEnv+")")
	fs.StringVar(&flagged.DBURL, "db-url", "", "storage connection string")
	fs.StringVar(&flagged.Database, "db-name", "", "database name")
	fs.StringVar(&flagged.Collection, "db-collection", "", "collection name")
	fs.StringVar(&flagged.Addr, "addr", "", "listen address")
	fs.DurationVar(&flagged.RequestTimeout.Duration, "request-timeout", 0, "per-request timeout")
	fs.DurationVar(&flagged.ShutdownTimeout.Duration, "shutdown-timeout", 0, "graceful shutdown timeout")
	fs.IntVar(&flagged.ConnectAttempts, "db-connect-attempts", 0, "storage connect attempts at startup")
	fs.StringVar(&flagged.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&flagged.LogFormat, "log-format", "", "log format: text, json, logfmt")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parsing flags: %w", err)
	}

	cfg := Defaults()

	if configFile == "" {
		configFile = getenv(ConfigFileEnv)
	}
	if configFile != "" {
		if _, err := toml.DecodeFile(configFile, &cfg); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	}

	if err := loadFromEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}
	overlay(&cfg, flagged)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("DB_URL"); v != "" {
		cfg.DBURL = v
	} else if v := getenv("MONGODB_URI"); v != "" {
		cfg.DBURL = v
	}
	if v := getenv("DB_NAME"); v != "" {
		cfg.Database = v
	}
	if v := getenv("DB_COLLECTION"); v != "" {
		cfg.Collection = v
	}
	if v := getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = Duration{d}
	}
	if v := getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = Duration{d}
	}
	if v := getenv("DB_CONNECT_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_CONNECT_ATTEMPTS: %w", err)
		}
		cfg.ConnectAttempts = n
	}
	return nil
}

// overlay copies every value that was set on the command line.
func overlay(cfg *Config, flagged Config) {
	if flagged.DBURL != "" {
		cfg.DBURL = flagged.DBURL
	}
	if flagged.Database != "" {
		cfg.Database = flagged.Database
	}
	if flagged.Collection != "" {
		cfg.Collection = flagged.Collection
	}
	if flagged.Addr != "" {
		cfg.Addr = flagged.Addr
	}
	if flagged.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = flagged.RequestTimeout
	}
	if flagged.ShutdownTimeout.Duration != 0 {
		cfg.ShutdownTimeout = flagged.ShutdownTimeout
	}
	if flagged.ConnectAttempts != 0 {
		cfg.ConnectAttempts = flagged.ConnectAttempts
	}
	if flagged.LogLevel != "" {
		cfg.LogLevel = flagged.LogLevel
	}
	if flagged.LogFormat != "" {
		cfg.LogFormat = flagged.LogFormat
	}
}

func (c Config) Validate() error {
	if c.DBURL == "" {
		return ErrMissingDBURL
	}
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.RequestTimeout.Duration <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.ShutdownTimeout.Duration <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	if c.ConnectAttempts < 1 {
		return errors.New("connect_attempts must be at least 1")
	}
	return nil
}
