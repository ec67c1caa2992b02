package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("DATABASE_URL", "")

	cfg := FromEnv()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "newhill_session", cfg.SessionCookie)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.ShiprocketConfigured())
}

func TestDSN(t *testing.T) {
	t.Run("database url wins", func(t *testing.T) {
		cfg := &Config{DatabaseURL: "postgres://u:p@db:5432/x"}
		assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DSN())
	})

	t.Run("built from parts", func(t *testing.T) {
		cfg := &Config{DBHost: "h", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5433", DBTimeZone: "Asia/Kolkata"}
		assert.Equal(t, "host=h user=u password=p dbname=n port=5433 sslmode=disable TimeZone=Asia/Kolkata", cfg.DSN())
	})
}

func TestInvalidIntFallsBack(t *testing.T) {
	t.Setenv("JWT_TTL_HOURS", "soon")
	assert.Equal(t, 24*time.Hour, FromEnv().JWTTTL)
}
