// Package config reads command line flags, falling back to environment
// variables that may come from a .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env files into the environment. Missing files are not an
// error.
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (p *Postgres) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&p.Host, "db-host", os.Getenv("POSTGRES_HOST"), "Database host")
	fs.StringVar(&p.Port, "db-port", envOr("POSTGRES_PORT", "5432"), "Database port")
	fs.StringVar(&p.User, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	fs.StringVar(&p.Password, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	fs.StringVar(&p.Name, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
}

func (p Postgres) Validate() error {
	if p.Host == "" || p.Name == "" {
		return errors.New("database host and name are required (use -db-host/-db-name or POSTGRES_HOST/POSTGRES_DB)")
	}
	return nil
}

func (p Postgres) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.Name)
}

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Server struct {
	Addr           string
	Store          string
	JWTSecret      string
	AllowedOrigins []string
	LogLevel       slog.Level
	Postgres       Postgres
}

func ParseServer(args []string) (Server, error) {
	var (
		cfg      Server
		origins  string
		logLevel string
	)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", envOr("ADDR", "0.0.0.0:8080"), "Listen address")
	fs.StringVar(&cfg.Store, "store", envOr("STORE", StorePostgres), "Storage backend (memory or postgres)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "Secret used to verify access tokens (prefer env)")
	fs.StringVar(&origins, "allowed-origins", os.Getenv("ALLOWED_ORIGINS"), "Comma separated CORS origins")
	fs.StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level")
	cfg.Postgres.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return Server{}, err
	}

	if cfg.JWTSecret == "" {
		return Server{}, errors.New("JWT_SECRET required")
	}

	switch cfg.Store {
	case StoreMemory:
	case StorePostgres:
		if err := cfg.Postgres.Validate(); err != nil {
			return Server{}, err
		}
	default:
		return Server{}, fmt.Errorf("unknown store %q", cfg.Store)
	}

	cfg.AllowedOrigins = splitList(origins)

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return Server{}, fmt.Errorf("invalid log level: %w", err)
	}

	return cfg, nil
}

type Client struct {
	APIURL    string
	Token     string
	JWTSecret string
	UserID    string
	Debounce  time.Duration
	Timeout   time.Duration
	Ordering  string
	LogLevel  slog.Level
}

func ParseClient(args []string) (Client, error) {
	var (
		cfg      Client
		logLevel string
	)

	debounce, err := envDuration("VOTE_DEBOUNCE", 500*time.Millisecond)
	if err != nil {
		return Client{}, err
	}
	timeout, err := envDuration("API_TIMEOUT", 10*time.Second)
	if err != nil {
		return Client{}, err
	}

	fs := flag.NewFlagSet("voteclient", flag.ContinueOnError)
	fs.StringVar(&cfg.APIURL, "api", envOr("API_URL", "http://localhost:8080"), "Vote API base URL")
	fs.StringVar(&cfg.Token, "token", os.Getenv("API_TOKEN"), "Access token")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "Secret to sign a development token when -token is empty")
	fs.StringVar(&cfg.UserID, "user", os.Getenv("USER_ID"), "User id for the development token")
	fs.DurationVar(&cfg.Debounce, "debounce", debounce, "Debounce window for vote clicks")
	fs.DurationVar(&cfg.Timeout, "timeout", timeout, "Request timeout")
	fs.StringVar(&cfg.Ordering, "ordering", os.Getenv("VOTE_ORDERING"), "last-response-wins or last-gesture-wins")
	fs.StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "Log level")

	if err := fs.Parse(args); err != nil {
		return Client{}, err
	}

	if cfg.Debounce <= 0 {
		return Client{}, errors.New("debounce must be positive")
	}
	if cfg.Token == "" && cfg.UserID != "" && cfg.JWTSecret == "" {
		return Client{}, errors.New("JWT_SECRET required to sign a development token")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return Client{}, fmt.Errorf("invalid log level: %w", err)
	}

	return cfg, nil
}

// ParseJob reads the database settings shared by the maintenance commands.
func ParseJob(name string, args []string) (Postgres, []string, error) {
	var cfg Postgres

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Postgres{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return Postgres{}, nil, err
	}
	return cfg, fs.Args(), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
