package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Env is the whole runtime configuration. Values come from config.yaml when
// present; environment variables always win.
type Env struct {
	App     App     `yaml:"app"`
	HTTP    HTTP    `yaml:"http"`
	Log     Log     `yaml:"log"`
	MySQL   MySQL   `yaml:"mysql"`
	Redis   Redis   `yaml:"redis"`
	Kafka   Kafka   `yaml:"kafka"`
	Auth    Auth    `yaml:"auth"`
	Gemini  Gemini  `yaml:"gemini"`
	Alerts  Alerts  `yaml:"alerts"`
	Tracing Tracing `yaml:"tracing"`
	Flights Flights `yaml:"flights"`
}

type App struct {
	Name    string `yaml:"name" env:"APP_NAME" env-default:"utrippin-api"`
	Version string `yaml:"version" env:"APP_VERSION" env-default:"1.0.0"`
}

type HTTP struct {
	AppAddr        string        `yaml:"addr" env:"APP_ADDR" env-default:":8080"`
	GinMode        string        `yaml:"gin_mode" env:"GIN_MODE"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"20s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://localhost:5173,http://127.0.0.1:5173"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type MySQL struct {
	Host     string `yaml:"host" env:"MYSQL_HOST" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"MYSQL_PORT" env-default:"3306"`
	User     string `yaml:"user" env:"MYSQL_USER" env-default:"root"`
	Password string `yaml:"password" env:"MYSQL_PASSWORD"`
	DBName   string `yaml:"dbname" env:"MYSQL_DB" env-default:"utrippin"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Kafka struct {
	Brokers     []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	AlertsTopic string   `yaml:"alerts_topic" env:"KAFKA_ALERTS_TOPIC" env-default:"usage-alerts"`
	Enabled     bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
	Required  bool   `yaml:"required" env:"AUTH_REQUIRED" env-default:"false"`
}

type Gemini struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"GEMINI_MODEL" env-default:"gemini-2.0-flash"`
}

type Alerts struct {
	Interval time.Duration `yaml:"interval" env:"ALERTS_INTERVAL" env-default:"15m"`
	Cooldown time.Duration `yaml:"cooldown" env:"ALERTS_COOLDOWN" env-default:"24h"`
	Enabled  bool          `yaml:"enabled" env:"ALERTS_ENABLED" env-default:"true"`
}

type Tracing struct {
	Enabled  bool   `yaml:"enabled" env:"TRACING_ENABLED" env-default:"false"`
	Endpoint string `yaml:"endpoint" env:"OTLP_ENDPOINT" env-default:"localhost:4318"`
}

type Flights struct {
	CatalogPath string        `yaml:"catalog_path" env:"FLIGHT_CATALOG_PATH"`
	SearchTTL   time.Duration `yaml:"search_ttl" env:"FLIGHT_SEARCH_TTL" env-default:"30m"`
}

// LoadEnv reads config.yaml (or CONFIG_PATH) and then the environment.
func LoadEnv() (Env, error) {
	var env Env

	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if path == "" {
		path = "config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &env); err != nil {
			return env, fmt.Errorf("read config %s: %w", path, err)
		}
		return env, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return env, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := cleanenv.ReadEnv(&env); err != nil {
		return env, fmt.Errorf("config error: %w", err)
	}
	return env, nil
}

// DSN builds the go-sql-driver/mysql data source name. clientFoundRows makes
// RowsAffected count matched rows, so no-op updates are not reported as missing.
func (m MySQL) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4&clientFoundRows=true&timeout=5s&readTimeout=30s&writeTimeout=30s",
		m.User, m.Password, m.Host, m.Port, m.DBName)
}
