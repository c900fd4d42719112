package behave

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/judge/api"
)

// specScenario is one [[scenarios]] entry of a behaviour file.
type specScenario struct {
	Description    string  `toml:"description"`
	Language       string  `toml:"language"`
	Code           string  `toml:"code"`
	Stdin          string  `toml:"stdin"`
	ExpectedOutput string  `toml:"expected_output"`
	TimeLimitSecs  float64 `toml:"time_limit_seconds"`
	MemoryLimitMb  int     `toml:"memory_limit_mb"`
	Expect         string  `toml:"expect"`
	// ExpectOutput, when set, must be contained in the result output.
	ExpectOutput string `toml:"expect_output"`
}

type specRoot struct {
	// Defaults applied to scenarios that leave the field empty.
	Language  string         `toml:"language"`
	Scenarios []specScenario `toml:"scenarios"`
}

// Case is a runnable scenario converted from TOML.
type Case struct {
	Name         string
	Submission   api.Submission
	Expect       api.Verdict
	ExpectOutput string
}

// Parse reads a behaviour TOML file.
func Parse(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read behaviour file: %w", err)
	}
	return ParseBytes(data)
}

func ParseBytes(data []byte) ([]Case, error) {
	var root specRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cases := make([]Case, 0, len(root.Scenarios))
	for i, sc := range root.Scenarios {
		name := sc.Description
		if name == "" {
			name = fmt.Sprintf("scenario %d", i+1)
		}
		lang := sc.Language
		if lang == "" {
			lang = root.Language
		}
		if lang == "" {
			return nil, fmt.Errorf("%s: language is required", name)
		}
		expect := api.Verdict(sc.Expect)
		if !expect.Valid() {
			return nil, fmt.Errorf("%s: unknown expected verdict %q", name, sc.Expect)
		}

		cases = append(cases, Case{
			Name: name,
			Submission: api.Submission{
				SubmissionId:     uuid.NewString(),
				Language:         lang,
				SourceCode:       sc.Code,
				Stdin:            sc.Stdin,
				ExpectedOutput:   sc.ExpectedOutput,
				TimeLimitSeconds: sc.TimeLimitSecs,
				MemoryLimitMb:    sc.MemoryLimitMb,
			},
			Expect:       expect,
			ExpectOutput: sc.ExpectOutput,
		})
	}
	return cases, nil
}

// Judge is what scenarios are run against.
type Judge interface {
	Judge(ctx context.Context, subm api.Submission) *api.Result
}

// Outcome pairs a case with what the engine decided.
type Outcome struct {
	Case   Case
	Result *api.Result
}

func (o Outcome) Passed() bool {
	if o.Result.Verdict != o.Case.Expect {
		return false
	}
	return o.Case.ExpectOutput == "" || containsOutput(o.Result.Output, o.Case.ExpectOutput)
}

// Run judges every case in order, stopping before the next case once ctx is
// cancelled.
func Run(ctx context.Context, j Judge, cases []Case) []Outcome {
	outcomes := make([]Outcome, 0, len(cases))
	for _, c := range cases {
		if ctx.Err() != nil {
			break
		}
		outcomes = append(outcomes, Outcome{Case: c, Result: j.Judge(ctx, c.Submission)})
	}
	return outcomes
}
