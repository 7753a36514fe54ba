// Package config loads settings for the server and the CLI.
//
// Sources, later ones winning: built-in defaults, an optional YAML file,
// .env files (which never override variables already set), environment
// variables. The result is checked with struct validation tags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Client  ClientConfig  `yaml:"client"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" validate:"oneof=memory postgres sqlite"`
	// DSN is a postgres connection string or a sqlite file path.
	DSN string `yaml:"dsn" validate:"required_unless=Driver memory"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" validate:"dive,hostname_port"`
}

type ClientConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":3000",
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{Driver: "memory"},
		Client: ClientConfig{
			BaseURL: "http://localhost:3000/api",
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration. path may be empty; envFiles default to
// ".env", and missing .env files are ignored.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its validation tags.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	setString(&cfg.Server.Addr, "FARMINVEST_ADDR")
	setString(&cfg.Storage.Driver, "FARMINVEST_STORAGE_DRIVER")
	setString(&cfg.Storage.DSN, "DATABASE_URL")
	setString(&cfg.Storage.DSN, "FARMINVEST_STORAGE_DSN")
	setString(&cfg.Client.BaseURL, "FARMINVEST_API_URL")
	setString(&cfg.Logging.Level, "FARMINVEST_LOG_LEVEL")
	setString(&cfg.Logging.Format, "FARMINVEST_LOG_FORMAT")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = nil
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}

	if err := setDuration(&cfg.Client.Timeout, "FARMINVEST_CLIENT_TIMEOUT"); err != nil {
		return err
	}
	return setDuration(&cfg.Server.ShutdownTimeout, "FARMINVEST_SHUTDOWN_TIMEOUT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
