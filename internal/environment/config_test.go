package environment_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/programme-lv/judge/internal/environment"
	"github.com/stretchr/testify/require"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/7")
	cfg, err := environment.FromLookup(lookupMap(nil))
	require.NoError(t, err)
	require.Equal(t, "/run/user/7/judge/workspaces", cfg.WorkspaceRoot)
	require.Equal(t, 1000, cfg.MaxOutput)
	require.Equal(t, 2.0, cfg.DefaultTimeLimitSeconds)
	require.Equal(t, 256, cfg.DefaultMemoryLimitMb)
	require.Equal(t, "eu-central-1", cfg.AwsRegion)
	require.Equal(t, "judge.results", cfg.NatsSubject)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel)
	require.Empty(t, cfg.RedisAddr)
	require.Empty(t, cfg.StatusKeyPrefix)
	require.Zero(t, cfg.StatusTTL)
}

func TestOverrides(t *testing.T) {
	cfg, err := environment.FromLookup(lookupMap(map[string]string{
		"JUDGE_WORKSPACE_ROOT":       "/srv/ws",
		"JUDGE_MAX_OUTPUT":           "64",
		"JUDGE_DEFAULT_TIME_LIMIT":   "0.5",
		"JUDGE_DEFAULT_MEMORY_LIMIT": "512",
		"REDIS_ADDR":                 "localhost:6379",
		"JUDGE_STATUS_PREFIX":        "contest:7:",
		"JUDGE_STATUS_TTL":           "72h",
		"LOG_LEVEL":                  "warn",
	}))
	require.NoError(t, err)
	require.Equal(t, "/srv/ws", cfg.WorkspaceRoot)
	require.Equal(t, 64, cfg.MaxOutput)
	require.Equal(t, 0.5, cfg.DefaultTimeLimitSeconds)
	require.Equal(t, 512, cfg.DefaultMemoryLimitMb)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, "contest:7:", cfg.StatusKeyPrefix)
	require.Equal(t, 72*time.Hour, cfg.StatusTTL)
	require.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestInvalidNumbers(t *testing.T) {
	_, err := environment.FromLookup(lookupMap(map[string]string{"JUDGE_MAX_OUTPUT": "many"}))
	require.ErrorContains(t, err, "JUDGE_MAX_OUTPUT")

	_, err = environment.FromLookup(lookupMap(map[string]string{"JUDGE_STATUS_TTL": "a week"}))
	require.ErrorContains(t, err, "JUDGE_STATUS_TTL")

	_, err = environment.FromLookup(lookupMap(map[string]string{"LOG_LEVEL": "loud"}))
	require.ErrorContains(t, err, "LOG_LEVEL")
}

func TestReadEnvConfigLoadsDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NATS_SUBJECT=custom.subject\n"), 0o644))
	t.Setenv("NATS_SUBJECT", "")
	os.Unsetenv("NATS_SUBJECT")

	cfg, err := environment.ReadEnvConfig(path)
	require.NoError(t, err)
	require.Equal(t, "custom.subject", cfg.NatsSubject)
	os.Unsetenv("NATS_SUBJECT")

}

func TestReadEnvConfigMissingFile(t *testing.T) {
	_, err := environment.ReadEnvConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorContains(t, err, "failed to load env file")

	t.Chdir(t.TempDir())
	_, err = environment.ReadEnvConfig()
	require.NoError(t, err)
}
