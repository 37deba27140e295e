package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/rpggio/projectboard/internal/domain/project"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Transport  TransportConfig  `yaml:"transport"`
	DB         DBConfig         `yaml:"db"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	Events     EventsConfig     `yaml:"events"`
	Validation ValidationConfig `yaml:"validation"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransportConfig selects how the MCP server is exposed: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// DBConfig points at the SQLite journal. An empty path keeps the board in memory.
type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// EventsConfig enables NATS publication when NATSURL is set.
type EventsConfig struct {
	NATSURL       string `yaml:"nats_url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// ValidationConfig holds the project form bounds. Bounds are exclusive.
type ValidationConfig struct {
	TitleMinLength       int `yaml:"title_min_length"`
	DescriptionMinLength int `yaml:"description_min_length"`
	PeopleMin            int `yaml:"people_min"`
	PeopleMax            int `yaml:"people_max"`
}

// Rules converts the validation section to project form rules.
func (v ValidationConfig) Rules() project.Rules {
	return project.Rules{
		TitleMinLength:       v.TitleMinLength,
		DescriptionMinLength: v.DescriptionMinLength,
		PeopleMin:            v.PeopleMin,
		PeopleMax:            v.PeopleMax,
	}
}

// Default returns the built-in configuration.
func Default() Config {
	rules := project.DefaultRules()
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		DB: DBConfig{
			Path: "projectboard.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Events: EventsConfig{
			SubjectPrefix: "projects",
		},
		Validation: ValidationConfig{
			TitleMinLength:       rules.TitleMinLength,
			DescriptionMinLength: rules.DescriptionMinLength,
			PeopleMin:            rules.PeopleMin,
			PeopleMax:            rules.PeopleMax,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("PROJECTBOARD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q: want stdio or http", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	// Stored projects must have at least one person.
	if c.Validation.PeopleMin < 0 {
		return fmt.Errorf("validation.people_min (%d) must not be negative", c.Validation.PeopleMin)
	}
	if c.Validation.TitleMinLength < 0 || c.Validation.DescriptionMinLength < 0 {
		return fmt.Errorf("validation min lengths must not be negative")
	}
	if c.Validation.PeopleMin >= c.Validation.PeopleMax {
		return fmt.Errorf("validation.people_min (%d) must be below people_max (%d)", c.Validation.PeopleMin, c.Validation.PeopleMax)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("PROJECTBOARD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PROJECTBOARD_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid PROJECTBOARD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("PROJECTBOARD_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath, ok := os.LookupEnv("PROJECTBOARD_DB_PATH"); ok {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("PROJECTBOARD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("PROJECTBOARD_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if authStr := os.Getenv("PROJECTBOARD_AUTH_ENABLED"); authStr != "" {
		enabled, err := strconv.ParseBool(authStr)
		if err != nil {
			return fmt.Errorf("invalid PROJECTBOARD_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if url := os.Getenv("PROJECTBOARD_NATS_URL"); url != "" {
		cfg.Events.NATSURL = url
	}
	if prefix := os.Getenv("PROJECTBOARD_NATS_SUBJECT_PREFIX"); prefix != "" {
		cfg.Events.SubjectPrefix = prefix
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
