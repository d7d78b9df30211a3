package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// parseYAML parses the specific two-level mapping used by config.yaml
func parseYAML(r io.Reader, cfg *Config) error {
	type section int
	const (
		none section = iota
		db
		rm
		sv
		pr
	)

	scanner := bufio.NewScanner(r)
	var cur section

	lineNo := 0
	seenTop := map[section]bool{}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()

		// strip comments
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			raw = raw[:i]
		}

		line := strings.TrimRight(raw, " \t\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		// top-level section? (no leading spaces)
		if line[0] != ' ' && line[0] != '\t' {
			var next section
			switch strings.TrimSpace(line) {
			case "database:":
				next = db
			case "rabbitmq:":
				next = rm
			case "service:":
				next = sv
			case "pricing:":
				next = pr
			default:
				return fmt.Errorf("line %d: unknown top-level key %q", lineNo, strings.TrimSuffix(strings.TrimSpace(line), ":"))
			}
			if seenTop[next] {
				return fmt.Errorf("line %d: duplicate %q section", lineNo, strings.TrimSuffix(strings.TrimSpace(line), ":"))
			}
			seenTop[next] = true
			cur = next
			continue
		}

		// expect indented "key: value"
		if cur == none {
			return fmt.Errorf("line %d: key without a section", lineNo)
		}
		trim := strings.TrimSpace(line)
		colon := strings.IndexByte(trim, ':')
		if colon <= 0 {
			return fmt.Errorf("line %d: expected 'key: value'", lineNo)
		}
		key := strings.TrimSpace(trim[:colon])
		val := resolveScalar(trim[colon+1:])

		var err error
		switch cur {
		case db:
			err = setDatabaseKey(cfg, key, val)
		case rm:
			err = setRabbitKey(cfg, key, val)
		case sv:
			err = setServiceKey(cfg, key, val)
		case pr:
			err = setPricingKey(cfg, key, val)
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	return scanner.Err()
}

func setDatabaseKey(cfg *Config, key, val string) error {
	switch key {
	case "host":
		cfg.Database.Host = val
	case "port":
		p, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("database.port must be int: %v", err)
		}
		cfg.Database.Port = p
	case "user":
		cfg.Database.User = val
	case "password":
		cfg.Database.Password = val
	case "database":
		cfg.Database.Name = val
	default:
		return fmt.Errorf("unknown key in database: %q", key)
	}
	return nil
}

func setRabbitKey(cfg *Config, key, val string) error {
	switch key {
	case "host":
		cfg.RabbitMQ.Host = val
	case "port":
		p, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("rabbitmq.port must be int: %v", err)
		}
		cfg.RabbitMQ.Port = p
	case "user":
		cfg.RabbitMQ.User = val
	case "password":
		cfg.RabbitMQ.Password = val
	default:
		return fmt.Errorf("unknown key in rabbitmq: %q", key)
	}
	return nil
}

func setServiceKey(cfg *Config, key, val string) error {
	switch key {
	case "port":
		p, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("service.port must be int: %v", err)
		}
		cfg.Service.Port = p
	case "max_concurrent":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("service.max_concurrent must be int: %v", err)
		}
		cfg.Service.MaxConcurrent = n
	default:
		return fmt.Errorf("unknown key in service: %q", key)
	}
	return nil
}

func setPricingKey(cfg *Config, key, val string) error {
	// monetary values are kept as decimal strings in the file, e.g. "2.50"
	dec := func(name string) (decimal.Decimal, error) {
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero, fmt.Errorf("pricing.%s must be a decimal number: %v", name, err)
		}
		return d, nil
	}

	var err error
	switch key {
	case "base_fare":
		cfg.Pricing.BaseFare, err = dec(key)
	case "per_mile_rate":
		cfg.Pricing.PerMileRate, err = dec(key)
	case "tax_rate":
		cfg.Pricing.TaxRate, err = dec(key)
	case "driver_share":
		cfg.Pricing.DriverShare, err = dec(key)
	case "default_starting_balance":
		cfg.Pricing.DefaultStartingBalance, err = dec(key)
	case "average_speed_mph":
		n, convErr := strconv.ParseInt(val, 10, 64)
		if convErr != nil {
			return fmt.Errorf("pricing.average_speed_mph must be int: %v", convErr)
		}
		cfg.Pricing.AverageSpeedMPH = n
	case "minimum_minutes":
		n, convErr := strconv.Atoi(val)
		if convErr != nil {
			return fmt.Errorf("pricing.minimum_minutes must be int: %v", convErr)
		}
		cfg.Pricing.MinimumMinutes = n
	default:
		return fmt.Errorf("unknown key in pricing: %q", key)
	}
	return err
}

// resolveScalar trims whitespace and removes surrounding quotes from
// YAML-like scalars, so values like "localhost" and 'secret' are stored
// without the quotes.
func resolveScalar(s string) string {
	s = strings.TrimSpace(s)

	n := len(s)
	if n >= 2 {
		if (s[0] == '"' && s[n-1] == '"') || (s[0] == '\'' && s[n-1] == '\'') {
			if unq, err := strconv.Unquote(s); err == nil {
				return unq
			}
			return s[1 : n-1]
		}
	}

	return s
}
