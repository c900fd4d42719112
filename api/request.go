package api

import "time"

// Defaults applied to optional submission fields.
const (
	DefaultTimeLimitSeconds = 2.0
	DefaultMemoryLimitMb    = 256
)

// Submission is the descriptor of one program to judge.
type Submission struct {
	SubmissionId   string `json:"submissionId"`
	Language       string `json:"language"`
	SourceCode     string `json:"sourceCode"`
	Stdin          string `json:"stdin,omitempty"`
	ExpectedOutput string `json:"expectedOutput,omitempty"`

	TimeLimitSeconds float64 `json:"timeLimitSeconds,omitempty"`
	MemoryLimitMb    int     `json:"memoryLimitMb,omitempty"`

	CallbackTarget *string `json:"callbackTarget,omitempty"`
}

// WithDefaults returns a copy with zero limits replaced by the given defaults.
func (s Submission) WithDefaults(timeLimitSeconds float64, memoryLimitMb int) Submission {
	if s.TimeLimitSeconds <= 0 {
		s.TimeLimitSeconds = timeLimitSeconds
	}
	if s.MemoryLimitMb <= 0 {
		s.MemoryLimitMb = memoryLimitMb
	}
	return s
}

func (s Submission) TimeLimit() time.Duration {
	return time.Duration(s.TimeLimitSeconds * float64(time.Second))
}
