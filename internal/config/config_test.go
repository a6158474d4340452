package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_HOST", "localhost")
	v.Set("DB_USER", "collab")
	v.Set("DB_NAME", "collabswipe")
	v.Set("JWT_ACCESS_SECRET", "0123456789abcdef0123456789abcdef")
	return v
}

func TestFromViperAppliesDefaults(t *testing.T) {
	cfg := fromViper(newTestViper())

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 20, cfg.Redis.PoolSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 15*time.Minute, cfg.Storage.PresignTTL)
	assert.Equal(t, 10*time.Minute, cfg.Scheduler.ReconcileInterval)
	assert.Equal(t, 32, cfg.Realtime.SubscriberBuffer)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.SessionTTL())
}

func TestValidateRejectsShortSecret(t *testing.T) {
	v := newTestViper()
	v.Set("JWT_ACCESS_SECRET", "short")

	err := fromViper(v).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessSecret")
}

func TestValidateRequiresDatabase(t *testing.T) {
	v := newTestViper()
	v.Set("DB_HOST", "")

	assert.Error(t, fromViper(v).Validate())
}

func TestValidateRejectsTinyReconcileInterval(t *testing.T) {
	v := newTestViper()
	v.Set("RECONCILE_INTERVAL", "5s")

	assert.EqualError(t, fromViper(v).Validate(), "reconcile interval must be at least 1m")
}

func TestSplitListTrimsEntries(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		splitList(" https://a.example, ,https://b.example "))
	assert.Empty(t, splitList(""))
}

func TestDSNAndAddr(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", db.GetDSN())

	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.GetAddr())
}
