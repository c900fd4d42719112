package api

// Verdict is the terminal classification of a judged submission.
type Verdict string

const (
	Accepted            Verdict = "AC"
	WrongAnswer         Verdict = "WA"
	RuntimeError        Verdict = "RE"
	CompilationError    Verdict = "CE"
	TimeLimitExceeded   Verdict = "TLE"
	MemoryLimitExceeded Verdict = "MLE"
)

func (v Verdict) Valid() bool {
	switch v {
	case Accepted, WrongAnswer, RuntimeError, CompilationError, TimeLimitExceeded, MemoryLimitExceeded:
		return true
	}
	return false
}

// Result is what the engine emits for every submission it accepts.
type Result struct {
	SubmissionId   string  `json:"submissionId"`
	Verdict        Verdict `json:"verdict"`
	Output         string  `json:"output"`
	CallbackTarget *string `json:"callbackTarget,omitempty"`
}
