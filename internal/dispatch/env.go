package dispatch

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/programme-lv/judge/api"
)

// Variables through which a dispatched instance receives its submission.
const (
	EnvSubmissionId   = "SUBMISSION_ID"
	EnvSourceCode     = "SOURCE_CODE"
	EnvLanguage       = "LANGUAGE"
	EnvInput          = "INPUT"
	EnvExpectedOutput = "EXPECTED_OUTPUT"
	EnvCallbackURL    = "CALLBACK_URL"
	EnvTimeLimit      = "TIME_LIMIT_SECONDS"
	EnvMemoryLimit    = "MEMORY_LIMIT_MB"
	EnvResultQueueURL = "RESULT_QUEUE_URL"
)

var ErrMissingVar = errors.New("missing required environment variable")

// ToEnv encodes a submission as KEY=VALUE pairs.
func ToEnv(subm api.Submission) []string {
	env := []string{
		EnvSubmissionId + "=" + subm.SubmissionId,
		EnvSourceCode + "=" + subm.SourceCode,
		EnvLanguage + "=" + subm.Language,
		EnvInput + "=" + subm.Stdin,
		EnvExpectedOutput + "=" + subm.ExpectedOutput,
	}
	if subm.CallbackTarget != nil {
		env = append(env, EnvCallbackURL+"="+*subm.CallbackTarget)
	}
	if subm.TimeLimitSeconds > 0 {
		env = append(env, EnvTimeLimit+"="+strconv.FormatFloat(subm.TimeLimitSeconds, 'f', -1, 64))
	}
	if subm.MemoryLimitMb > 0 {
		env = append(env, EnvMemoryLimit+"="+strconv.Itoa(subm.MemoryLimitMb))
	}
	return env
}

// FromEnv decodes the submission an instance was started for.
func FromEnv(lookup func(string) (string, bool)) (*api.Submission, error) {
	subm := &api.Submission{}
	required := []struct {
		name string
		dst  *string
	}{
		{EnvSubmissionId, &subm.SubmissionId},
		{EnvSourceCode, &subm.SourceCode},
		{EnvLanguage, &subm.Language},
	}
	for _, r := range required {
		v, ok := lookup(r.name)
		if !ok || v == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingVar, r.name)
		}
		*r.dst = v
	}

	subm.Stdin, _ = lookup(EnvInput)
	subm.ExpectedOutput, _ = lookup(EnvExpectedOutput)
	if cb, ok := lookup(EnvCallbackURL); ok && cb != "" {
		subm.CallbackTarget = &cb
	}

	if v, ok := lookup(EnvTimeLimit); ok && v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvTimeLimit, v, err)
		}
		subm.TimeLimitSeconds = secs
	}
	if v, ok := lookup(EnvMemoryLimit); ok && v != "" {
		mb, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvMemoryLimit, v, err)
		}
		subm.MemoryLimitMb = mb
	}
	return subm, nil
}
