package cmd

import (
	"errors"
	"fmt"
	"os"

	"orderstate/internal/pkg/errs"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080" validate:"required,numeric"`

	Store      string `env:"STORE" envDefault:"memory" validate:"oneof=memory postgres"`
	DBHost     string `env:"DB_HOST" validate:"required_if=Store postgres"`
	DBPort     string `env:"DB_PORT" envDefault:"5432" validate:"omitempty,numeric"`
	DBUser     string `env:"DB_USER" validate:"required_if=Store postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" validate:"required_if=Store postgres"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`

	KafkaBrokers           []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaOrderChangedTopic string   `env:"KAFKA_ORDER_CHANGED_TOPIC" validate:"required_with=KafkaBrokers"`

	TransitionsFile string `env:"TRANSITIONS_FILE" validate:"omitempty,file"`
	TracingExporter string `env:"TRACING_EXPORTER" envDefault:"none" validate:"oneof=none stdout"`
	ReportSchedule  string `env:"REPORT_SCHEDULE" envDefault:"0 * * * * *"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

// LoadConfig loads envFile when it exists, then parses and validates the environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errs.NewConfigurationIsInvalidErrorWithCause("environment", err)
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field requirements.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return errs.NewConfigurationIsInvalidErrorWithCause("environment", err)
	}
	return nil
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaEnabled reports whether status changes are published.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
