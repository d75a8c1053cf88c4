package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Session store backends.
const (
	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"
)

// Config holds the application, database, session, Redis, Kafka and MinIO settings.
type Config struct {
	App        App
	Postgres   Postgres
	Session    Session
	Redis      Redis
	Kafka      Kafka
	Minio      Minio
	Migrations Migrations
}

type App struct {
	Host      string `env:"APP_HOST" env-default:"localhost"`
	Port      string `env:"APP_PORT" env-default:"8080"`
	LogLevel  string `env:"APP_LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"APP_LOG_FORMAT" env-default:"json" env-description:"json or console"`
}

type Postgres struct {
	Host         string `env:"POSTGRES_HOST" env-default:"localhost"`
	Port         int    `env:"POSTGRES_PORT" env-default:"5432"`
	User         string `env:"POSTGRES_USER" env-default:"user"`
	Password     string `env:"POSTGRES_PASSWORD" env-default:"password"`
	DB           string `env:"POSTGRES_DB" env-default:"inventory"`
	MaxOpenConns int    `env:"POSTGRES_MAX_OPEN_CONNS" env-default:"16"`
	MaxIdleConns int    `env:"POSTGRES_MAX_IDLE_CONNS" env-default:"8"`
}

// DSN returns the pgx connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.DB)
}

type Session struct {
	Store      string        `env:"SESSION_STORE" env-default:"cookie" env-description:"cookie or redis"`
	Secret     string        `env:"SESSION_SECRET" env-default:"my_super_secret_key"`
	TTL        time.Duration `env:"SESSION_TTL" env-default:"24h"`
	CookieName string        `env:"SESSION_COOKIE_NAME" env-default:"session_id"`
	Secure     bool          `env:"SESSION_COOKIE_SECURE" env-default:"false"`
}

type Redis struct {
	Host         string `env:"REDIS_HOST" env-default:"localhost"`
	Port         int    `env:"REDIS_PORT" env-default:"6379"`
	DB           int    `env:"REDIS_DB" env-default:"0"`
	Password     string `env:"REDIS_PASSWORD" env-default:""`
	PoolSize     int    `env:"REDIS_POOL_SIZE" env-default:"10"`
	MinIdleConns int    `env:"REDIS_MIN_IDLE_CONNS" env-default:"2"`
}

// Addr returns host:port.
func (r Redis) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Kafka publishing is disabled when Brokers is empty.
type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `env:"KAFKA_TOPIC" env-default:"inventory.events"`
}

// Minio image uploads are disabled when Endpoint is empty.
type Minio struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" env-default:"inventory-images"`
	UseSSL    bool   `env:"MINIO_USE_SSL" env-default:"false"`
	PublicURL string `env:"MINIO_PUBLIC_URL" env-description:"base URL images are served from"`
}

type Migrations struct {
	Auto bool `env:"MIGRATIONS_AUTO" env-default:"true"`
}

// Load reads the optional env file at path into the process environment and
// then fills Config from the environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(path)

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	switch cfg.Session.Store {
	case SessionStoreCookie, SessionStoreRedis:
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", cfg.Session.TTL)
	}

	return &cfg, nil
}
