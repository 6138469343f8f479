// Package config assembles server configuration from defaults, FITTRACK_* environment
// variables, an optional YAML file and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Session backends.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
	SessionToken  = "token"
)

// Config captures runtime configuration of the server.
type Config struct {
	Addr    string `yaml:"addr"`
	OpsAddr string `yaml:"ops_addr"`

	Store string `yaml:"store"`
	DSN   string `yaml:"dsn"`

	Session Session `yaml:"session"`
	Redis   Redis   `yaml:"redis"`

	KafkaBrokers []string `yaml:"kafka_brokers"`

	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`

	SeedDemo     bool   `yaml:"seed_demo"`
	DemoPassword string `yaml:"demo_password"`

	Dev      bool   `yaml:"dev"`
	Timezone string `yaml:"timezone"`

	// Location is Timezone resolved by Load.
	Location *time.Location `yaml:"-"`
}

// Session selects and tunes the session ticket store.
type Session struct {
	Backend string        `yaml:"backend"`
	Key     string        `yaml:"key"`
	TTL     time.Duration `yaml:"ttl"`
}

// Redis holds connection settings for the redis session backend.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Load builds Config from env, the file named by -config (if any) and args.
func Load(args []string) (Config, error) {
	cfg := fromEnv()

	if path := configPath(args); path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	fs := flag.NewFlagSet("fittrack-server", flag.ContinueOnError)
	fs.String("config", "", "YAML config file")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "gRPC listen address")
	fs.StringVar(&cfg.OpsAddr, "ops-addr", cfg.OpsAddr, "metrics/health HTTP address (empty disables)")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "record store: memory|postgres")
	fs.StringVar(&cfg.DSN, "dsn", cfg.DSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.Session.Backend, "session", cfg.Session.Backend, "session store: memory|redis|token")
	fs.StringVar(&cfg.Session.Key, "session-key", cfg.Session.Key, "HS256 key for token sessions")
	fs.DurationVar(&cfg.Session.TTL, "session-ttl", cfg.Session.TTL, "session lifetime")
	fs.StringVar(&cfg.Redis.Addr, "redis-addr", cfg.Redis.Addr, "redis address")
	fs.StringVar(&cfg.Redis.Password, "redis-password", cfg.Redis.Password, "redis password")
	fs.IntVar(&cfg.Redis.DB, "redis-db", cfg.Redis.DB, "redis database")
	brokers := fs.String("kafka-brokers", strings.Join(cfg.KafkaBrokers, ","), "comma separated kafka brokers (empty disables events)")
	fs.StringVar(&cfg.TLSCert, "tls-cert", cfg.TLSCert, "TLS certificate (PEM)")
	fs.StringVar(&cfg.TLSKey, "tls-key", cfg.TLSKey, "TLS private key (PEM)")
	fs.BoolVar(&cfg.SeedDemo, "seed-demo", cfg.SeedDemo, "create the demo user on startup")
	fs.StringVar(&cfg.DemoPassword, "demo-password", cfg.DemoPassword, "password of the demo user")
	fs.BoolVar(&cfg.Dev, "dev", cfg.Dev, "development logging and server reflection")
	fs.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "IANA zone for calendar days and weeks")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.KafkaBrokers = splitAndTrim(*brokers)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromEnv() Config {
	return Config{
		Addr:    getEnv("FITTRACK_ADDR", ":8443"),
		OpsAddr: getEnv("FITTRACK_OPS_ADDR", ":9090"),
		Store:   getEnv("FITTRACK_STORE", StoreMemory),
		DSN:     getEnv("FITTRACK_DSN", ""),
		Session: Session{
			Backend: getEnv("FITTRACK_SESSION_BACKEND", SessionMemory),
			Key:     getEnv("FITTRACK_SESSION_KEY", ""),
			TTL:     getDurationEnv("FITTRACK_SESSION_TTL", 30*24*time.Hour),
		},
		Redis: Redis{
			Addr:     getEnv("FITTRACK_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("FITTRACK_REDIS_PASSWORD", ""),
			DB:       getIntEnv("FITTRACK_REDIS_DB", 0),
		},
		KafkaBrokers: splitAndTrim(getEnv("FITTRACK_KAFKA_BROKERS", "")),
		TLSCert:      getEnv("FITTRACK_TLS_CERT", ""),
		TLSKey:       getEnv("FITTRACK_TLS_KEY", ""),
		SeedDemo:     getBoolEnv("FITTRACK_SEED_DEMO", false),
		DemoPassword: getEnv("FITTRACK_DEMO_PASSWORD", ""),
		Dev:          getBoolEnv("FITTRACK_DEV", false),
		Timezone:     getEnv("FITTRACK_TIMEZONE", "Local"),
	}
}

// configPath finds -config/--config in args without parsing the rest.
func configPath(args []string) string {
	for i, a := range args {
		name, val, hasVal := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if !strings.HasPrefix(a, "-") || name != "config" {
			continue
		}
		if hasVal {
			return val
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func readFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	var errs []error
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DSN == "" {
			errs = append(errs, errors.New("postgres store requires -dsn"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}

	switch c.Session.Backend {
	case SessionMemory:
	case SessionRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis sessions require -redis-addr"))
		}
	case SessionToken:
		if c.Session.Key == "" {
			errs = append(errs, errors.New("token sessions require -session-key"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session backend %q", c.Session.Backend))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}

	if (c.TLSCert == "") != (c.TLSKey == "") {
		errs = append(errs, errors.New("tls cert and key must be set together"))
	}
	if c.SeedDemo && c.DemoPassword == "" {
		errs = append(errs, errors.New("-seed-demo requires -demo-password"))
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	c.Location = loc
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
