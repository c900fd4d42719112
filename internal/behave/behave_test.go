package behave_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/behave"
	"github.com/stretchr/testify/require"
)

const scenarios = `
language = "python"

[[scenarios]]
description = "sum of two numbers"
code = """
a, b = map(int, input().split())
print(a + b)
"""
stdin = "1 2\n"
expected_output = "3\n"
expect = "AC"

[[scenarios]]
description = "unsupported language"
language = "brainfuck"
code = "+++"
expect = "RE"
expect_output = "brainfuck"

[[scenarios]]
code = "while True: pass"
time_limit_seconds = 0.5
memory_limit_mb = 64
expect = "TLE"
`

func TestParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "behave.toml")
	require.NoError(t, os.WriteFile(path, []byte(scenarios), 0o644))

	cases, err := behave.Parse(path)
	require.NoError(t, err)
	require.Len(t, cases, 3)

	require.Equal(t, "sum of two numbers", cases[0].Name)
	require.Equal(t, "python", cases[0].Submission.Language)
	require.Equal(t, "1 2\n", cases[0].Submission.Stdin)
	require.Equal(t, api.Accepted, cases[0].Expect)
	require.NotEmpty(t, cases[0].Submission.SubmissionId)

	require.Equal(t, "brainfuck", cases[1].Submission.Language)
	require.Equal(t, "scenario 3", cases[2].Name)
	require.Equal(t, 0.5, cases[2].Submission.TimeLimitSeconds)
	require.Equal(t, 64, cases[2].Submission.MemoryLimitMb)
	require.NotEqual(t, cases[0].Submission.SubmissionId, cases[2].Submission.SubmissionId)
}

func TestParseRejectsUnknownVerdict(t *testing.T) {
	_, err := behave.ParseBytes([]byte("[[scenarios]]\nlanguage = \"py\"\nexpect = \"OK\"\n"))
	require.ErrorContains(t, err, "OK")

	_, err = behave.ParseBytes([]byte("[[scenarios]]\nexpect = \"AC\"\n"))
	require.ErrorContains(t, err, "language is required")
}

type scriptedJudge map[string]*api.Result

func (s scriptedJudge) Judge(_ context.Context, subm api.Submission) *api.Result {
	return s[subm.Language]
}

func TestRunComparesVerdictAndOutput(t *testing.T) {
	cases, err := behave.ParseBytes([]byte(scenarios))
	require.NoError(t, err)

	j := scriptedJudge{
		"python":    {Verdict: api.Accepted, Output: "3"},
		"brainfuck": {Verdict: api.RuntimeError, Output: "Unsupported language: brainfuck"},
	}
	outcomes := behave.Run(context.Background(), j, cases[:2])
	require.True(t, outcomes[0].Passed())
	require.True(t, outcomes[1].Passed())

	j["brainfuck"] = &api.Result{Verdict: api.RuntimeError, Output: "something else"}
	outcomes = behave.Run(context.Background(), j, cases[:2])
	require.False(t, outcomes[1].Passed())
}

func TestRunStopsAfterCancel(t *testing.T) {
	cases, err := behave.ParseBytes([]byte(scenarios))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j := scriptedJudge{"python": {Verdict: api.Accepted, Output: "3"}}
	require.Empty(t, behave.Run(ctx, j, cases))
}
