// Package config resolves the cache client's connection settings once, at
// process bootstrap: explicit values win, then environment, then defaults.
// The resolved Config is immutable; cacheaside and store/redis only accept
// resolved values and never read the environment themselves.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Environment variables consulted by Resolve and Load.
const (
	EnvHost     = "REDIS_HOST"
	EnvPort     = "REDIS_PORT"
	EnvPassword = "REDIS_PASSWORD"
	EnvDB       = "REDIS_DB"
)

const (
	DefaultHost         = "redis"
	DefaultPort         = 6379
	DefaultDB           = 0
	DefaultTTL          = 3600 * time.Second
	DefaultDialTimeout  = 5 * time.Second
	DefaultReadTimeout  = 3 * time.Second
	DefaultWriteTimeout = 3 * time.Second
	DefaultPoolSize     = 10
	DefaultMaxRetries   = 3
	DefaultDialAttempts = 10
)

// Config is the resolved connection and policy configuration.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// DefaultTTL applies when a call site passes no TTL. Negative means entries
	// written with the default never expire.
	DefaultTTL time.Duration `mapstructure:"default_ttl"`

	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
	MaxRetries   int           `mapstructure:"max_retries"`
	// DialAttempts bounds connection-refused retries per dial. 0 or 1 disables retry.
	DialAttempts int `mapstructure:"dial_attempts"`
}

// Default returns the hard-coded defaults.
func Default() Config {
	return Config{
		Host:         DefaultHost,
		Port:         DefaultPort,
		DB:           DefaultDB,
		DefaultTTL:   DefaultTTL,
		DialTimeout:  DefaultDialTimeout,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		PoolSize:     DefaultPoolSize,
		MaxRetries:   DefaultMaxRetries,
		DialAttempts: DefaultDialAttempts,
	}
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate rejects configurations no client could use.
func (c Config) Validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("host is empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.DB < 0 {
		errs = append(errs, fmt.Errorf("db %d is negative", c.DB))
	}
	if c.DialAttempts < 0 {
		errs = append(errs, fmt.Errorf("dial_attempts %d is negative", c.DialAttempts))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Resolve fills every zero field of explicit from the environment, then from
// Default. Only REDIS_HOST, REDIS_PORT, REDIS_PASSWORD and REDIS_DB are read.
func Resolve(explicit Config) (Config, error) {
	return Load("", explicit)
}

// Load is Resolve with an optional config file (YAML, JSON or TOML by
// extension) layered between the environment and the defaults.
func Load(path string, explicit Config) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	for key, env := range map[string]string{
		"host":     EnvHost,
		"port":     EnvPort,
		"password": EnvPassword,
		"db":       EnvDB,
	} {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("config: bind %s: %w", env, err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg = overlay(cfg, explicit)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("host", d.Host)
	v.SetDefault("port", d.Port)
	v.SetDefault("password", d.Password)
	v.SetDefault("db", d.DB)
	v.SetDefault("default_ttl", d.DefaultTTL)
	v.SetDefault("dial_timeout", d.DialTimeout)
	v.SetDefault("read_timeout", d.ReadTimeout)
	v.SetDefault("write_timeout", d.WriteTimeout)
	v.SetDefault("pool_size", d.PoolSize)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("dial_attempts", d.DialAttempts)
}

// overlay copies every non-zero field of explicit onto base.
func overlay(base, explicit Config) Config {
	base.Host = pick(explicit.Host, base.Host)
	base.Port = pick(explicit.Port, base.Port)
	base.Password = pick(explicit.Password, base.Password)
	base.DB = pick(explicit.DB, base.DB)
	base.DefaultTTL = pick(explicit.DefaultTTL, base.DefaultTTL)
	base.DialTimeout = pick(explicit.DialTimeout, base.DialTimeout)
	base.ReadTimeout = pick(explicit.ReadTimeout, base.ReadTimeout)
	base.WriteTimeout = pick(explicit.WriteTimeout, base.WriteTimeout)
	base.PoolSize = pick(explicit.PoolSize, base.PoolSize)
	base.MaxRetries = pick(explicit.MaxRetries, base.MaxRetries)
	base.DialAttempts = pick(explicit.DialAttempts, base.DialAttempts)
	return base
}

func pick[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
