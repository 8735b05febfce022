package configs

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaybot/internal/app/store"
)

// clearEnv blanks every key LoadConfig reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "BOT_TOKEN", "OPS_PORT", "STORE_DRIVER", "DATABASE_URL", "MONGO_URI", "MONGO_DATABASE",
		"ROSTER_REFRESH_INTERVAL", "RATE_WINDOW", "RATE_MAX_MESSAGES", "RATE_TIMEOUT", "RATE_WARNING_SCOPE",
		"SLOW_HOURS_TZ", "SLOW_HOURS_START", "SLOW_HOURS_END", "SEND_RATE", "SEND_BURST",
	} {
		t.Setenv(key, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8081, cfg.OpsPort)
	assert.Equal(t, store.DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, devDatabaseDSN, cfg.DatabaseDSN)
	assert.Equal(t, "vb_db", cfg.MongoDatabase)
	assert.Equal(t, 60*time.Second, cfg.RosterRefreshInterval)
	assert.Equal(t, 30*time.Second, cfg.RateWindow)
	assert.Equal(t, 10, cfg.RateMaxMessages)
	assert.Equal(t, 60*time.Second, cfg.RateTimeout)
	assert.Equal(t, "global", cfg.RateWarningScope)
	assert.Equal(t, "Asia/Singapore", cfg.SlowHoursTZ)
	assert.Equal(t, 23, cfg.SlowHoursStart)
	assert.Equal(t, 6, cfg.SlowHoursEnd)
	assert.Equal(t, 25.0, cfg.SendRate)
	assert.Equal(t, 5, cfg.SendBurst)
}

func TestLoadConfig_RequiresBotToken(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "BOT_TOKEN")
}

func TestLoadConfig_ProductionRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ENVIRONMENT", "production")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadConfig_MongoDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "MONGO_URI")

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, store.DriverMongo, cfg.StoreDriver)
	assert.Empty(t, cfg.DatabaseDSN)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("RATE_WINDOW", "10s")
	t.Setenv("RATE_MAX_MESSAGES", "3")
	t.Setenv("RATE_WARNING_SCOPE", "per_user")
	t.Setenv("SEND_RATE", "0.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.RateWindow)
	assert.Equal(t, 3, cfg.RateMaxMessages)
	assert.Equal(t, "per_user", cfg.RateWarningScope)
	assert.Equal(t, 0.5, cfg.SendRate)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"privileged port", "OPS_PORT", "80"},
		{"unparsable window", "RATE_WINDOW", "thirty"},
		{"zero window", "RATE_WINDOW", "0s"},
		{"zero max messages", "RATE_MAX_MESSAGES", "0"},
		{"negative timeout", "RATE_TIMEOUT", "-1m"},
		{"zero timeout", "RATE_TIMEOUT", "0s"},
		{"zero send rate", "SEND_RATE", "0"},
		{"unparsable burst", "SEND_BURST", "many"},
		{"zero burst", "SEND_BURST", "0"},
		{"unknown driver", "STORE_DRIVER", "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("BOT_TOKEN", "123:abc")
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestLoadConfig_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is present, even when empty.
	require.NoError(t, os.Unsetenv("BOT_TOKEN"))
	require.NoError(t, os.Unsetenv("OPS_PORT"))
	require.NoError(t, os.WriteFile(".env", []byte("BOT_TOKEN=from-dotenv\nOPS_PORT=9090\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.BotToken)
	assert.Equal(t, 9090, cfg.OpsPort)
}
