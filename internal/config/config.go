package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"port" validate:"required,numeric"`

	DBDriver   string `mapstructure:"db_driver" validate:"oneof=postgres sqlite"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_sslmode"`
	// DBDSN overrides the DSN assembled from the DB_* fields. For sqlite it is the file path.
	DBDSN string `mapstructure:"db_dsn"`

	JWTSecret       string        `mapstructure:"jwt_secret" validate:"required,min=8"`
	TokenTTL        time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
	RedisURL        string        `mapstructure:"redis_url" validate:"omitempty,url"`
	BlacklistPurge  string        `mapstructure:"blacklist_purge_spec" validate:"required"`
	PageSizeDefault int           `mapstructure:"page_size_default" validate:"gte=1"`
	PageSizeMax     int           `mapstructure:"page_size_max" validate:"gtefield=PageSizeDefault"`

	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=text json"`

	CORSOrigins     []string      `mapstructure:"cors_origins"`
	AuthorCacheSize int           `mapstructure:"author_cache_size" validate:"gte=0"`
	AuthorCacheTTL  time.Duration `mapstructure:"author_cache_ttl"`
}

// Load reads .env (if present), then the environment, on top of the defaults below.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "discussion_board")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_dsn", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl_minutes", 30)
	v.SetDefault("redis_url", "")
	v.SetDefault("blacklist_purge_spec", "@every 30m")
	v.SetDefault("page_size_default", 5)
	v.SetDefault("page_size_max", 100)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("author_cache_size", 512)
	v.SetDefault("author_cache_ttl", "1m")
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:            v.GetString("port"),
		DBDriver:        strings.ToLower(v.GetString("db_driver")),
		DBHost:          v.GetString("db_host"),
		DBPort:          v.GetString("db_port"),
		DBUser:          v.GetString("db_user"),
		DBPassword:      v.GetString("db_password"),
		DBName:          v.GetString("db_name"),
		DBSSLMode:       v.GetString("db_sslmode"),
		DBDSN:           v.GetString("db_dsn"),
		JWTSecret:       v.GetString("jwt_secret"),
		TokenTTL:        time.Duration(v.GetInt("token_ttl_minutes")) * time.Minute,
		RedisURL:        v.GetString("redis_url"),
		BlacklistPurge:  v.GetString("blacklist_purge_spec"),
		PageSizeDefault: v.GetInt("page_size_default"),
		PageSizeMax:     v.GetInt("page_size_max"),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		LogFormat:       strings.ToLower(v.GetString("log_format")),
		CORSOrigins:     splitList(v.GetString("cors_origins")),
		AuthorCacheSize: v.GetInt("author_cache_size"),
		AuthorCacheTTL:  v.GetDuration("author_cache_ttl"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints declared in the struct tags.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// PostgresDSN builds the connection string the same way for every entry point.
func (c Config) PostgresDSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
