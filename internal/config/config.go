package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr string
	LogLevel string

	// DefaultTimezone applies when a request carries no usable
	// User-Timezone header.
	DefaultTimezone string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
}

// Load reads configuration from an optional wellnest.yaml, the environment
// and a .env file. Environment variables win over file values.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("wellnest")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_service", "wellnest")
	v.SetDefault("app_version", "0.1.0")
	v.SetDefault("environment", "development")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("default_timezone", "UTC")

	v.SetDefault("database_type", "postgres")
	v.SetDefault("database_host", "localhost")
	v.SetDefault("database_port", "5432")
	v.SetDefault("database_name", "wellnest")
	v.SetDefault("database_user", "postgres")
	v.SetDefault("database_password", "")
	v.SetDefault("database_sslmode", "disable")
	v.SetDefault("database_max_idle_conn", 5)
	v.SetDefault("database_max_open_conn", 25)
	v.SetDefault("database_conn_max_lifetime", 300)

	_ = v.ReadInConfig()

	return Config{
		AppName:     v.GetString("app_service"),
		AppVersion:  v.GetString("app_version"),
		Environment: v.GetString("environment"),

		HTTPAddr: v.GetString("http_addr"),
		LogLevel: v.GetString("log_level"),

		DefaultTimezone: strings.TrimSpace(v.GetString("default_timezone")),

		DBType:            v.GetString("database_type"),
		DBHost:            v.GetString("database_host"),
		DBPort:            v.GetString("database_port"),
		DBName:            v.GetString("database_name"),
		DBUser:            v.GetString("database_user"),
		DBPassword:        v.GetString("database_password"),
		DBSSLMode:         v.GetString("database_sslmode"),
		DBMaxIdleConn:     v.GetInt("database_max_idle_conn"),
		DBMaxOpenConn:     v.GetInt("database_max_open_conn"),
		DBConnMaxLifetime: v.GetInt("database_conn_max_lifetime"),
	}
}
