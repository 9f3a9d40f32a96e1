package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	SQLite    SQLiteConfig
	Inventory InventoryConfig
	Report    ReportConfig
}

type ServerConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	GRPCPort    string `envconfig:"GRPC_PORT" default:":8082"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`
}

type LoggerConfig struct {
	Level             string `envconfig:"LOGGER_LEVEL" default:"debug"`
	Encoding          string `envconfig:"LOGGER_ENCODING" default:"console"`
	DisableCaller     bool   `envconfig:"LOGGER_DISABLE_CALLER" default:"false"`
	DisableStacktrace bool   `envconfig:"LOGGER_DISABLE_STACKTRACE" default:"true"`
}

type SQLiteConfig struct {
	Path            string        `envconfig:"SQLITE_PATH" default:"posdb.sqlite"`
	BusyTimeout     time.Duration `envconfig:"SQLITE_BUSY_TIMEOUT" default:"5s"`
	JournalMode     string        `envconfig:"SQLITE_JOURNAL_MODE" default:"WAL"`
	MaxOpenConns    int           `envconfig:"SQLITE_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"SQLITE_MAX_IDLE_CONNS" default:"1"`
	ConnMaxIdleTime time.Duration `envconfig:"SQLITE_CONN_MAX_IDLE_TIME" default:"0"`
}

type InventoryConfig struct {
	LowStockThreshold  int  `envconfig:"INVENTORY_LOW_STOCK_THRESHOLD" default:"10"`
	AllowNegativeStock bool `envconfig:"INVENTORY_ALLOW_NEGATIVE_STOCK" default:"false"`
	AlertBuffer        int  `envconfig:"INVENTORY_ALERT_BUFFER" default:"64"`
}

type ReportConfig struct {
	Timezone string `envconfig:"REPORT_TIMEZONE" default:"Local"`
}

// LoadEnv reads an optional .env file and then the process environment.
func LoadEnv() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	for section, target := range map[string]any{
		"server":    &cfg.Server,
		"logger":    &cfg.Logger,
		"sqlite":    &cfg.SQLite,
		"inventory": &cfg.Inventory,
		"report":    &cfg.Report,
	} {
		if err := envconfig.Process("", target); err != nil {
			return nil, fmt.Errorf("config: %s: %w", section, err)
		}
	}
	if cfg.Inventory.LowStockThreshold < 0 {
		return nil, fmt.Errorf("config: INVENTORY_LOW_STOCK_THRESHOLD must be >= 0")
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c != nil && (c.Server.AppEnv == "dev" || c.Server.AppEnv == "development")
}

// Location resolves the report timezone, falling back to the local zone.
func (c ReportConfig) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DSN builds the modernc sqlite connection string with per-connection pragmas.
func (c SQLiteConfig) DSN() string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", c.BusyTimeout.Milliseconds()))
	if c.JournalMode != "" {
		q.Add("_pragma", fmt.Sprintf("journal_mode(%s)", c.JournalMode))
	}
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Add("_txlock", "immediate")
	// Timestamps are written UTC in one layout so range filters compare as text.
	q.Add("_time_format", "sqlite")
	return "file:" + c.Path + "?" + q.Encode()
}
