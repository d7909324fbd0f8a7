package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "SALSHELI"

type Config struct {
	App     AppConfig
	DB      DBConfig
	Meili   MeiliConfig
	Compare CompareConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"SALSHELI_APP_ENV" default:"dev"`
	Port     string `envconfig:"SALSHELI_APP_PORT" default:"8080"`
	LogLevel string `envconfig:"SALSHELI_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "dev")
}

type DBConfig struct {
	DSN string `envconfig:"SALSHELI_DB_DSN"`

	Host     string `envconfig:"SALSHELI_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"SALSHELI_DB_PORT" default:"5432"`
	User     string `envconfig:"SALSHELI_DB_USER" default:"postgres"`
	Password string `envconfig:"SALSHELI_DB_PASSWORD"`
	Name     string `envconfig:"SALSHELI_DB_NAME" default:"salsheli"`
	SSLMode  string `envconfig:"SALSHELI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SALSHELI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SALSHELI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SALSHELI_DB_CONN_MAX_LIFETIME" default:"1h"`
}

type MeiliConfig struct {
	URL       string `envconfig:"SALSHELI_MEILI_URL" default:"http://127.0.0.1:7700"`
	APIKey    string `envconfig:"SALSHELI_MEILI_API_KEY"`
	IndexName string `envconfig:"SALSHELI_MEILI_INDEX" default:"products"`
}

type CompareConfig struct {
	LookupConcurrency int           `envconfig:"SALSHELI_COMPARE_LOOKUP_CONCURRENCY" default:"8"`
	LookupTimeout     time.Duration `envconfig:"SALSHELI_COMPARE_LOOKUP_TIMEOUT" default:"5s"`
	CandidateLimit    int           `envconfig:"SALSHELI_COMPARE_CANDIDATE_LIMIT" default:"200"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Host == "" || db.User == "" || db.Name == "" {
		return fmt.Errorf("either SALSHELI_DB_DSN or SALSHELI_DB_HOST, SALSHELI_DB_USER, SALSHELI_DB_NAME are required")
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
