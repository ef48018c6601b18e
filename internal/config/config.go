package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Firebase  FirebaseConfig `mapstructure:"firebase"`
	Auth      AuthConfig     `mapstructure:"auth"`
	Store     StoreConfig    `mapstructure:"store"`
	Database  DatabaseConfig
	Redis     RedisConfig
	Cron      CronConfig      `mapstructure:"cron"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// FirebaseConfig 服务账号凭据，private_key 为 base64 编码的 PEM
type FirebaseConfig struct {
	ProjectID   string `mapstructure:"project_id"`
	ClientEmail string `mapstructure:"client_email"`
	PrivateKey  string `mapstructure:"private_key"`
}

// AuthConfig mode 取 full（拉取公钥验签）或 light（仅校验声明）
type AuthConfig struct {
	Mode string `mapstructure:"mode"`
}

// StoreConfig backend 取 rest / sdk / sql / memory
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CronConfig 定时任务端点的共享密钥
type CronConfig struct {
	Secret string `mapstructure:"secret"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("FINSTAR")
	viper.AutomaticEnv()

	// Firebase
	viper.BindEnv("firebase.project_id", "FIREBASE_PROJECT_ID")
	viper.BindEnv("firebase.client_email", "FIREBASE_CLIENT_EMAIL")
	viper.BindEnv("firebase.private_key", "FIREBASE_PRIVATE_KEY")

	// Auth / Store
	viper.BindEnv("auth.mode", "AUTH_MODE")
	viper.BindEnv("store.backend", "STORE_BACKEND")

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Cron
	viper.BindEnv("cron.secret", "CRON_SECRET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "rest"
	}
	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = "full"
	}

	// 批量端点依赖该密钥做鉴权，生产环境必须配置
	if cfg.Server.Mode == "release" && cfg.Cron.Secret == "" {
		return nil, fmt.Errorf("cron secret must be set in release mode")
	}

	return &cfg, nil
}
