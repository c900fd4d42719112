package statuses

import "github.com/programme-lv/judge/api"

type Status string

const (
	Pending    Status = "PENDING"
	Processing Status = "PROCESSING"

	Accepted            Status = Status(api.Accepted)
	WrongAnswer         Status = Status(api.WrongAnswer)
	RuntimeError        Status = Status(api.RuntimeError)
	CompilationError    Status = Status(api.CompilationError)
	TimeLimitExceeded   Status = Status(api.TimeLimitExceeded)
	MemoryLimitExceeded Status = Status(api.MemoryLimitExceeded)
)

// FromVerdict maps a verdict onto its terminal status.
func FromVerdict(v api.Verdict) Status {
	return Status(v)
}

// Terminal reports whether no further transition follows s.
func (s Status) Terminal() bool {
	return s != Pending && s != Processing && api.Verdict(s).Valid()
}
