package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Env struct {
	AppAddr            string
	GinMode            string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	APIBaseURL         string
	APITimeout         time.Duration
	JWTSecret          string
	CORSAllowedOrigins []string
	Timezone           string
	PageSize           int
	SessionTTL         time.Duration
	LogLevel           string
	LogFormat          string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "fleet_move")
	v.SetDefault("API_BASE_URL", "http://127.0.0.1:8080/api")
	v.SetDefault("API_TIMEOUT", "10s")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault("APP_TIMEZONE", "Asia/Manila")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// NewViper returns a viper instance reading the process environment, after
// loading .env when one exists in the working directory.
func NewViper() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return v
}

// LoadEnv reads configuration from the environment.
func LoadEnv() Env {
	return EnvFrom(NewViper())
}

// EnvFrom builds Env from an already prepared viper (flags may be bound to it).
func EnvFrom(v *viper.Viper) Env {
	pageSize := v.GetInt("PAGE_SIZE")
	if pageSize < 1 {
		pageSize = 10
	}

	apiTimeout := v.GetDuration("API_TIMEOUT")
	if apiTimeout <= 0 {
		apiTimeout = 10 * time.Second
	}

	sessionTTL := v.GetDuration("SESSION_TTL")
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}

	origins := []string{}
	for _, o := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Env{
		AppAddr:            strings.TrimSpace(v.GetString("APP_ADDR")),
		GinMode:            strings.TrimSpace(v.GetString("GIN_MODE")),
		DBHost:             strings.TrimSpace(v.GetString("DB_HOST")),
		DBPort:             strings.TrimSpace(v.GetString("DB_PORT")),
		DBUser:             strings.TrimSpace(v.GetString("DB_USER")),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             strings.TrimSpace(v.GetString("DB_NAME")),
		APIBaseURL:         strings.TrimRight(strings.TrimSpace(v.GetString("API_BASE_URL")), "/"),
		APITimeout:         apiTimeout,
		JWTSecret:          v.GetString("JWT_SECRET"),
		CORSAllowedOrigins: origins,
		Timezone:           strings.TrimSpace(v.GetString("APP_TIMEZONE")),
		PageSize:           pageSize,
		SessionTTL:         sessionTTL,
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
	}
}
