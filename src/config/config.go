package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Service         ServiceConfig        `mapstructure:"service"`
	Databases       DatabasesConfig      `mapstructure:"databases"`
	Auth            AuthConfig           `mapstructure:"auth"`
	Logging         LoggingConfig        `mapstructure:"logging"`
	Purchase        PurchaseConfig       `mapstructure:"purchase"`
	Worker          WorkerConfig         `mapstructure:"worker"`
	ExternalClients ExternalClientConfig `mapstructure:"externalClients"`
	Secrets         SecretsConfig        `mapstructure:"secrets"`
}

type ServiceType string

const (
	API    ServiceType = "API"
	WORKER ServiceType = "WORKER"
)

type ServiceConfig struct {
	Type ServiceType `mapstructure:"type"`
	Port string      `mapstructure:"port"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Driver           string `mapstructure:"driver"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
	MaxConns         int32  `mapstructure:"max_conns"`
}

// RedisConfig configures the shared scheme catalog cache. CacheTTL bounds how
// long a cached catalog is served.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Database int           `mapstructure:"database"`
	TLS      bool          `mapstructure:"tls"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	ToFile   bool   `mapstructure:"to_file"`
	FilePath string `mapstructure:"file_path"`
}

// PurchaseConfig holds business knobs of the purchase engine. MinimumAmount is
// kept as a string so it is parsed once, exactly, into a decimal.
type PurchaseConfig struct {
	MinimumAmount string `mapstructure:"minimum_amount"`
}

type WorkerConfig struct {
	NAVSyncCron  string `mapstructure:"nav_sync_cron"`
	SnapshotCron string `mapstructure:"snapshot_cron"`
}

type ExternalClientConfig struct {
	NAVFeed NAVFeedConfig `mapstructure:"navFeed"`
}

type NAVFeedConfig struct {
	BaseURL string `mapstructure:"baseUrl"`
}

type SecretsConfig struct {
	AWSRegion          string `mapstructure:"awsRegion"`
	JWTSecretID        string `mapstructure:"jwtSecretId"`
	DBPasswordSecretID string `mapstructure:"dbPasswordSecretId"`
}

const DefaultMinimumPurchaseAmount = "100.00"

// MinimumPurchaseAmount returns the configured investment floor, falling back
// to the default when the value is empty or not a decimal.
func (c *Config) MinimumPurchaseAmount() decimal.Decimal {
	if c != nil && c.Purchase.MinimumAmount != "" {
		if d, err := decimal.NewFromString(c.Purchase.MinimumAmount); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(DefaultMinimumPurchaseAmount)
}

// LoadConfig reads appsettings.yaml from path and, if env is set, merges
// appsettings.<env>.yaml on top of it. Environment variables prefixed with
// APP_ win over both files.
func LoadConfig(path string, env string) (*Config, error) {
	var cfg Config

	// A missing .env is the normal case outside local development.
	_ = godotenv.Load(filepath.Join(path, ".env"))

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	if env != "" {
		v.SetConfigName("appsettings." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.type", string(API))
	v.SetDefault("service.port", "8000")
	v.SetDefault("databases.sql.max_conns", 10)
	v.SetDefault("databases.redis.cache_ttl", "5m")
	v.SetDefault("logging.level", "info")
	v.SetDefault("purchase.minimum_amount", DefaultMinimumPurchaseAmount)
	v.SetDefault("worker.nav_sync_cron", "0 22 * * *")
	v.SetDefault("worker.snapshot_cron", "30 23 * * *")
}

// Env returns the ENV environment variable used to pick the settings overlay.
func Env() string {
	return os.Getenv("ENV")
}
