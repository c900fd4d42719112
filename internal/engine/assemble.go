package engine

import (
	"unicode/utf8"

	"github.com/programme-lv/judge/api"
)

func assemble(subm api.Submission, v api.Verdict, output string, maxOutput int) *api.Result {
	return &api.Result{
		SubmissionId:   subm.SubmissionId,
		Verdict:        v,
		Output:         truncate(output, maxOutput),
		CallbackTarget: subm.CallbackTarget,
	}
}

// truncate cuts s to at most max runes.
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
