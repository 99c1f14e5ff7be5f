package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Persistence
	DataBackend  string // "jsonfile" or "sqlite"
	DataDir      string
	SQLiteDBPath string

	// AMQP (optional; reports are generated synchronously without it)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Report generation
	ReportModel    string
	ReportCacheTTL time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8082"),

		DataBackend:  getEnv("DATA_BACKEND", "jsonfile"),
		DataDir:      getEnv("DATA_DIR", "./data"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/wealthgrows.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "wealthgrows"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_requests"),

		ReportModel:    getEnv("REPORT_MODEL", "gemini-2.5-flash"),
		ReportCacheTTL: getEnvDuration("REPORT_CACHE_TTL", 10*time.Minute),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "jsonfile":
		if c.DataDir == "" {
			problems = append(problems, "data directory cannot be empty when using jsonfile backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of [jsonfile sqlite]", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ReportModel == "" {
		problems = append(problems, "report model cannot be empty")
	}
	if c.ReportCacheTTL < time.Second {
		problems = append(problems, fmt.Sprintf("invalid report cache TTL %v: must be at least 1 second", c.ReportCacheTTL))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
