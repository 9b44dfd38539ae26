package config

import (
	"time"

	pkgconfig "github.com/Skotchmaster/job_board/pkg/config"
)

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type Config struct {
	ServiceName    string
	ServerPort     string
	DatabaseURL    string
	JWTSecret      []byte
	APIKey         string
	LogLevel       string
	DBQueryTimeout time.Duration
	JobListLimit   int
	FrontendURL    string
	CORSOrigins    []string

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RedisAddr      string
	RedisPassword  string
	ResetRateLimit time.Duration

	SMTP SMTP
}

// Load reads the environment. Missing DATABASE_URL or JWT_SECRET is fatal.
func Load() *Config {
	cfg := &Config{
		ServiceName:    pkgconfig.EnvDefault("SERVICE_NAME", "job_board"),
		ServerPort:     pkgconfig.EnvDefault("SERVER_PORT", "8080"),
		DatabaseURL:    pkgconfig.EnvDefault("DATABASE_URL", ""),
		JWTSecret:      []byte(pkgconfig.EnvDefault("JWT_SECRET", "")),
		APIKey:         pkgconfig.EnvDefault("API_KEY", ""),
		LogLevel:       pkgconfig.EnvDefault("LOG_LEVEL", "info"),
		DBQueryTimeout: pkgconfig.EnvDurationDefault("DB_QUERY_TIMEOUT", 5*time.Second),
		JobListLimit:   pkgconfig.EnvIntDefault("JOB_LIST_LIMIT", 100),
		FrontendURL:    pkgconfig.EnvDefault("FRONTEND_URL", "http://localhost:3000"),
		CORSOrigins:    pkgconfig.CSV(pkgconfig.EnvDefault("CORS_ORIGINS", "*")),

		KafkaBrokers: pkgconfig.CSV(pkgconfig.EnvDefault("KAFKA_BROKERS", "")),
		KafkaTopic:   pkgconfig.EnvDefault("KAFKA_TOPIC", "job_board_events"),

		ESURL:      pkgconfig.EnvDefault("ES_URL", ""),
		ESUser:     pkgconfig.EnvDefault("ES_USER", ""),
		ESPassword: pkgconfig.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    pkgconfig.EnvDefault("ES_INDEX", "jobs"),

		RedisAddr:      pkgconfig.EnvDefault("REDIS_ADDR", ""),
		RedisPassword:  pkgconfig.EnvDefault("REDIS_PASSWORD", ""),
		ResetRateLimit: pkgconfig.EnvDurationDefault("RESET_RATE_LIMIT", time.Minute),

		SMTP: SMTP{
			Host:     pkgconfig.EnvDefault("SMTP_HOST", ""),
			Port:     pkgconfig.EnvIntDefault("SMTP_PORT", 587),
			User:     pkgconfig.EnvDefault("SMTP_USER", ""),
			Password: pkgconfig.EnvDefault("SMTP_PASSWORD", ""),
			From:     pkgconfig.EnvDefault("SMTP_FROM", ""),
		},
	}

	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	pkgconfig.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	return cfg
}
