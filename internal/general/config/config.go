package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"ride-booking/internal/domain/fare"
)

type Config struct {
	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Name     string // YAML key: "database"
	}
	RabbitMQ struct {
		Host     string
		Port     int
		User     string
		Password string
	}
	Service struct {
		Port          int
		MaxConcurrent int
	}
	Pricing struct {
		BaseFare               decimal.Decimal
		PerMileRate            decimal.Decimal
		TaxRate                decimal.Decimal
		DriverShare            decimal.Decimal
		AverageSpeedMPH        int64
		MinimumMinutes         int
		DefaultStartingBalance decimal.Decimal
	}
}

// LoadFromFile loads config from a YAML file, applies defaults, and
// validates required fields.
func LoadFromFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := parseYAML(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Rates exposes the pricing section as the fare domain type.
func (c *Config) Rates() fare.Rates {
	return fare.Rates{
		BaseFare:        c.Pricing.BaseFare,
		PerMileRate:     c.Pricing.PerMileRate,
		TaxRate:         c.Pricing.TaxRate,
		DriverShare:     c.Pricing.DriverShare,
		AverageSpeedMPH: c.Pricing.AverageSpeedMPH,
		MinimumMinutes:  c.Pricing.MinimumMinutes,
	}
}

// applyDefaults sets safe defaults for omitted fields. The pricing defaults
// are the numbers the original deployment ran with.
func applyDefaults(cfg *Config) {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}

	if cfg.RabbitMQ.Host == "" {
		cfg.RabbitMQ.Host = "localhost"
	}
	if cfg.RabbitMQ.Port == 0 {
		cfg.RabbitMQ.Port = 5672
	}

	if cfg.Service.Port == 0 {
		cfg.Service.Port = 3000
	}
	if cfg.Service.MaxConcurrent == 0 {
		cfg.Service.MaxConcurrent = 100
	}

	defaults := fare.Default()
	if cfg.Pricing.BaseFare.IsZero() {
		cfg.Pricing.BaseFare = defaults.BaseFare
	}
	if cfg.Pricing.PerMileRate.IsZero() {
		cfg.Pricing.PerMileRate = defaults.PerMileRate
	}
	if cfg.Pricing.TaxRate.IsZero() {
		cfg.Pricing.TaxRate = defaults.TaxRate
	}
	if cfg.Pricing.DriverShare.IsZero() {
		cfg.Pricing.DriverShare = defaults.DriverShare
	}
	if cfg.Pricing.AverageSpeedMPH == 0 {
		cfg.Pricing.AverageSpeedMPH = defaults.AverageSpeedMPH
	}
	if cfg.Pricing.MinimumMinutes == 0 {
		cfg.Pricing.MinimumMinutes = defaults.MinimumMinutes
	}
	if cfg.Pricing.DefaultStartingBalance.IsZero() {
		cfg.Pricing.DefaultStartingBalance = decimal.RequireFromString("100.00")
	}
}

// validate checks required fields and basic ranges.
func (c *Config) validate() error {
	var problems []string

	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		problems = append(problems, "database.port must be in 1..65535")
	}
	if c.Database.User == "" {
		problems = append(problems, "database.user is required")
	}
	if c.Database.Password == "" {
		problems = append(problems, "database.password is required")
	}
	if c.Database.Name == "" {
		problems = append(problems, "database.name is required")
	}

	if c.RabbitMQ.Port <= 0 || c.RabbitMQ.Port > 65535 {
		problems = append(problems, "rabbitmq.port must be in 1..65535")
	}
	if c.RabbitMQ.User == "" {
		problems = append(problems, "rabbitmq.user is required")
	}
	if c.RabbitMQ.Password == "" {
		problems = append(problems, "rabbitmq.password is required")
	}

	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		problems = append(problems, "service.port must be in 1..65535")
	}
	if c.Service.MaxConcurrent < 1 {
		problems = append(problems, "service.max_concurrent must be >= 1")
	}

	if err := c.Rates().Validate(); err != nil {
		problems = append(problems, "pricing: "+err.Error())
	}
	if c.Pricing.DefaultStartingBalance.IsNegative() {
		problems = append(problems, "pricing.default_starting_balance must not be negative")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
