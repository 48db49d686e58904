package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Log      LogConfig      `yaml:"log"`
	DB       DBConfig       `yaml:"db"`
	Redis    RedisConfig    `yaml:"redis"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	HTTP     HTTPConfig     `yaml:"http"`
	Reveal   RevealConfig   `yaml:"reveal"`
	Feedback FeedbackConfig `yaml:"feedback"`
	Auth     AuthConfig     `yaml:"auth"`
}

type AppConfig struct {
	ENV string `yaml:"env"`
}

type LogConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	Component string `yaml:"component"`
	Source    bool   `yaml:"source"`
}

type DBConfig struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type GRPCConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type HTTPConfig struct {
	Host           string   `yaml:"host"`
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowedOrigins" split_words:"true"`
}

// RevealConfig describes the global weekly reveal: the window opens every
// Weekday at Hour:Minute in Timezone and stays open for Window.
type RevealConfig struct {
	Weekday  string        `yaml:"weekday"`
	Hour     int           `yaml:"hour"`
	Minute   int           `yaml:"minute"`
	Timezone string        `yaml:"timezone"`
	Window   time.Duration `yaml:"window"`
}

type FeedbackConfig struct {
	Cooldown time.Duration `yaml:"cooldown"`
}

type AuthConfig struct {
	BcryptCost int `yaml:"bcryptCost" split_words:"true"`
}

// Default returns the built-in configuration used before any file or
// environment overrides are applied.
func Default() *Config {
	cfg := &Config{}

	cfg.App.ENV = "development"

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Log.Component = "crush_server"

	cfg.DB.Driver = DriverMySQL
	cfg.DB.Host = "localhost"
	cfg.DB.Port = "3306"
	cfg.DB.User = "root"
	cfg.DB.Password = "root"
	cfg.DB.Name = "crush"

	cfg.Redis.Addr = "localhost:6379"

	cfg.GRPC.Host = "127.0.0.1"
	cfg.GRPC.Port = "50051"

	cfg.HTTP.Host = "0.0.0.0"
	cfg.HTTP.Port = "5000"
	cfg.HTTP.AllowedOrigins = []string{"http://localhost:5173"}

	cfg.Reveal.Weekday = "sunday"
	cfg.Reveal.Hour = 20
	cfg.Reveal.Minute = 0
	cfg.Reveal.Timezone = "UTC"
	cfg.Reveal.Window = 24 * time.Hour

	cfg.Feedback.Cooldown = time.Minute

	cfg.Auth.BcryptCost = 10

	return cfg
}

// Load builds the configuration in layers: .env file (if present), defaults,
// an optional YAML file, then environment variables such as LOG_LEVEL,
// DB_DSN or REVEAL_WEEKDAY.
//
// When file is empty, CONFIG_FILE is consulted.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if file == "" {
		file = strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	}
	if file != "" {
		buf, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if cfg.DB.DSN == "" {
		cfg.DB.DSN = cfg.DB.BuildDSN()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuildDSN composes a driver specific DSN from the discrete connection fields.
func (d DBConfig) BuildDSN() string {
	switch d.Driver {
	case DriverPostgres:
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			d.Host, d.Port, d.User, d.Password, d.Name,
		)
	case DriverSQLite:
		return d.Name + ".db"
	default:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			d.User, d.Password, d.Host, d.Port, d.Name,
		)
	}
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}

	for name, port := range map[string]string{"grpc": c.GRPC.Port, "http": c.HTTP.Port} {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return fmt.Errorf("invalid %s port %q", name, port)
		}
	}

	if c.Feedback.Cooldown < 0 {
		return fmt.Errorf("feedback cooldown must not be negative")
	}
	return nil
}

// GRPCAddr returns host:port for the gRPC listener.
func (c *Config) GRPCAddr() string { return c.GRPC.Host + ":" + c.GRPC.Port }

// HTTPAddr returns host:port for the HTTP listener.
func (c *Config) HTTPAddr() string { return c.HTTP.Host + ":" + c.HTTP.Port }

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.ENV, "development")
}
