package environment

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/engine"
	"github.com/programme-lv/judge/internal/xdg"
)

const appName = "judge"

type EnvConfig struct {
	WorkspaceRoot string
	LanguagesFile string
	SandboxPath   string

	MaxOutput               int
	DefaultTimeLimitSeconds float64
	DefaultMemoryLimitMb    int

	RedisAddr          string
	StatusKeyPrefix    string
	StatusTTL          time.Duration
	SubmissionQueueUrl string
	ResultQueueUrl     string
	NatsUrl            string
	NatsSubject        string
	AwsRegion          string

	LogLevel slog.Level
}

// ReadEnvConfig loads the given .env files and reads the process
// environment. Without explicit files the working directory's .env is loaded
// if it exists; a named file that is missing is an error.
func ReadEnvConfig(envFiles ...string) (*EnvConfig, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (*EnvConfig, error) {
	dirs := xdg.New()
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &EnvConfig{
		WorkspaceRoot:      get("JUDGE_WORKSPACE_ROOT", dirs.WorkspaceRoot(appName)),
		LanguagesFile:      get("JUDGE_LANGUAGES_FILE", dirs.LanguagesFile(appName)),
		SandboxPath:        get("JUDGE_SANDBOX_PATH", ""),
		RedisAddr:          get("REDIS_ADDR", ""),
		StatusKeyPrefix:    get("JUDGE_STATUS_PREFIX", ""),
		SubmissionQueueUrl: get("SUBMISSION_QUEUE_URL", ""),
		ResultQueueUrl:     get("RESULT_QUEUE_URL", ""),
		NatsUrl:            get("NATS_URL", ""),
		NatsSubject:        get("NATS_SUBJECT", "judge.results"),
		AwsRegion:          get("AWS_REGION", "eu-central-1"),
	}

	var err error
	if cfg.MaxOutput, err = strconv.Atoi(get("JUDGE_MAX_OUTPUT", strconv.Itoa(engine.DefaultMaxOutput))); err != nil {
		return nil, fmt.Errorf("invalid JUDGE_MAX_OUTPUT: %w", err)
	}
	if cfg.DefaultTimeLimitSeconds, err = strconv.ParseFloat(get("JUDGE_DEFAULT_TIME_LIMIT", "2"), 64); err != nil {
		return nil, fmt.Errorf("invalid JUDGE_DEFAULT_TIME_LIMIT: %w", err)
	}
	if cfg.DefaultMemoryLimitMb, err = strconv.Atoi(get("JUDGE_DEFAULT_MEMORY_LIMIT", strconv.Itoa(api.DefaultMemoryLimitMb))); err != nil {
		return nil, fmt.Errorf("invalid JUDGE_DEFAULT_MEMORY_LIMIT: %w", err)
	}
	if cfg.StatusTTL, err = time.ParseDuration(get("JUDGE_STATUS_TTL", "0s")); err != nil {
		return nil, fmt.Errorf("invalid JUDGE_STATUS_TTL: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "DEBUG"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return cfg, nil
}
