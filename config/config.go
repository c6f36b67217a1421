package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig
	Import   ImportConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	AppEnv string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type DatabaseConfig struct {
	Driver string // "postgres" or "sqlite"
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type SQLiteConfig struct {
	Path string
}

type ImportConfig struct {
	Encoding        string
	BatchSize       int
	SkippedDir      string
	DryRun          bool
	DefaultCategory string
	DefaultBrand    string
}

type MetricsConfig struct {
	PushgatewayURL string
	JobName        string
}

var defaults = map[string]any{
	"APP_ENV": "dev",

	"LOGGER_LEVEL":              "debug",
	"LOGGER_ENCODING":           "console",
	"LOGGER_DISABLE_CALLER":     false,
	"LOGGER_DISABLE_STACKTRACE": true,

	"DB_DRIVER": "postgres",

	"POSTGRES_HOST":               "localhost",
	"POSTGRES_PORT":               "5433",
	"POSTGRES_USER":               "omnipos",
	"POSTGRES_PASSWORD":           "omnipos",
	"POSTGRES_DB":                 "omnipos_inventory",
	"POSTGRES_SSLMODE":            "disable",
	"POSTGRES_MAX_OPEN_CONNS":     10,
	"POSTGRES_MAX_IDLE_CONNS":     5,
	"POSTGRES_CONN_MAX_LIFETIME":  300,
	"POSTGRES_CONN_MAX_IDLE_TIME": 60,

	"SQLITE_PATH": "inventario.db",

	"IMPORT_ENCODING":         "latin1",
	"IMPORT_BATCH_SIZE":       1000,
	"IMPORT_SKIPPED_DIR":      "",
	"IMPORT_DRY_RUN":          false,
	"IMPORT_DEFAULT_CATEGORY": "Sin categoría",
	"IMPORT_DEFAULT_BRAND":    "Sin marca",

	"METRICS_PUSHGATEWAY_URL": "",
	"METRICS_JOB_NAME":        "inventory_import",
}

// LoadEnv reads configuration from the process environment. Call godotenv.Load
// first if a .env file should be honoured.
func LoadEnv() *Config {
	return Load(viper.New())
}

// Load reads configuration through v. Tests pass a fresh instance with Set calls.
func Load(v *viper.Viper) *Config {
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	return &Config{
		Server: ServerConfig{
			AppEnv: v.GetString("APP_ENV"),
		},
		Logger: LoggerConfig{
			Level:             v.GetString("LOGGER_LEVEL"),
			Encoding:          v.GetString("LOGGER_ENCODING"),
			DisableCaller:     v.GetBool("LOGGER_DISABLE_CALLER"),
			DisableStacktrace: v.GetBool("LOGGER_DISABLE_STACKTRACE"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
		},
		Postgres: PostgresConfig{
			Host:            v.GetString("POSTGRES_HOST"),
			Port:            v.GetString("POSTGRES_PORT"),
			User:            v.GetString("POSTGRES_USER"),
			Password:        v.GetString("POSTGRES_PASSWORD"),
			DBName:          v.GetString("POSTGRES_DB"),
			SSLMode:         v.GetString("POSTGRES_SSLMODE"),
			MaxOpenConns:    v.GetInt("POSTGRES_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("POSTGRES_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetInt("POSTGRES_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetInt("POSTGRES_CONN_MAX_IDLE_TIME"),
		},
		SQLite: SQLiteConfig{
			Path: v.GetString("SQLITE_PATH"),
		},
		Import: ImportConfig{
			Encoding:        v.GetString("IMPORT_ENCODING"),
			BatchSize:       v.GetInt("IMPORT_BATCH_SIZE"),
			SkippedDir:      v.GetString("IMPORT_SKIPPED_DIR"),
			DryRun:          v.GetBool("IMPORT_DRY_RUN"),
			DefaultCategory: v.GetString("IMPORT_DEFAULT_CATEGORY"),
			DefaultBrand:    v.GetString("IMPORT_DEFAULT_BRAND"),
		},
		Metrics: MetricsConfig{
			PushgatewayURL: v.GetString("METRICS_PUSHGATEWAY_URL"),
			JobName:        v.GetString("METRICS_JOB_NAME"),
		},
	}
}
