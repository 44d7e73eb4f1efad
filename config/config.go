package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	Language string `mapstructure:"LANGUAGE"`

	// Telegram bot configuration.
	BotToken      string  `mapstructure:"BOT_TOKEN"`
	ProviderToken string  `mapstructure:"PROVIDER_TOKEN"`
	Currency      string  `mapstructure:"CURRENCY"`
	ManagersChat  int64   `mapstructure:"MANAGERS_CHAT"`
	RefundPercent float64 `mapstructure:"REFUND_PERCENT"`

	// MySQL configuration.
	DBName     string `mapstructure:"MYSQL_DATABASE"`
	DBHost     string `mapstructure:"MYSQL_HOST"`
	DBPort     int    `mapstructure:"MYSQL_PORT"`
	DBUser     string `mapstructure:"MYSQL_USER"`
	DBPassword string `mapstructure:"MYSQL_PASSWORD"`

	// File storage.
	UploadBase string `mapstructure:"UPLOAD_BASE"`
	StateFile  string `mapstructure:"STATE_FILE"`

	// Resource list pagination.
	RecordsPerPage int `mapstructure:"RECORDS_PER_PAGE"`
	RecordsPerRow  int `mapstructure:"RECORDS_PER_ROW"`

	// Admin HTTP API.
	AdminPort         string `mapstructure:"ADMIN_PORT"`
	AdminUser         string `mapstructure:"ADMIN_USER"`
	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LANGUAGE", "en")
	viper.SetDefault("CURRENCY", "RUB")
	viper.SetDefault("REFUND_PERCENT", 1.0)
	viper.SetDefault("MYSQL_HOST", "localhost")
	viper.SetDefault("MYSQL_PORT", 3306)
	viper.SetDefault("UPLOAD_BASE", "images")
	viper.SetDefault("STATE_FILE", "states.json")
	viper.SetDefault("RECORDS_PER_PAGE", 6)
	viper.SetDefault("RECORDS_PER_ROW", 2)
	viper.SetDefault("ADMIN_PORT", "8080")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// DSN builds the MySQL connection string used by the store adapter.
func DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		AppConfig.DBUser, AppConfig.DBPassword, AppConfig.DBHost, AppConfig.DBPort, AppConfig.DBName)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
