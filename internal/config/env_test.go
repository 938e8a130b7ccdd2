package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestEnvFromDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	env := EnvFrom(v)
	assert.Equal(t, ":8080", env.AppAddr)
	assert.Equal(t, "http://127.0.0.1:8080/api", env.APIBaseURL)
	assert.Equal(t, 10, env.PageSize)
	assert.Equal(t, 30*time.Minute, env.SessionTTL)
	assert.Contains(t, env.CORSAllowedOrigins, "http://localhost:5173")
}

func TestEnvFromOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("API_BASE_URL", " http://api.internal/api/ ")
	v.Set("PAGE_SIZE", 0)
	v.Set("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	v.Set("SESSION_TTL", "5m")

	env := EnvFrom(v)
	assert.Equal(t, "http://api.internal/api", env.APIBaseURL)
	assert.Equal(t, 10, env.PageSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.CORSAllowedOrigins)
	assert.Equal(t, 5*time.Minute, env.SessionTTL)
}

func TestDSNIncludesParseTime(t *testing.T) {
	env := Env{DBUser: "fleet", DBPassword: "pw", DBHost: "db", DBPort: "3306", DBName: "fleet_move"}
	dsn := DSN(env)
	assert.Contains(t, dsn, "fleet:pw@tcp(db:3306)/fleet_move")
	assert.Contains(t, dsn, "parseTime=true")
}
