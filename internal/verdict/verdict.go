package verdict

import (
	"strings"

	"github.com/programme-lv/judge/api"
)

// Resolve compares program output with the expected answer. Only leading and
// trailing whitespace is ignored. An empty expected answer means there is
// nothing to compare against and any output is accepted.
func Resolve(actual string, expected string) api.Verdict {
	if expected == "" {
		return api.Accepted
	}
	if strings.TrimSpace(actual) == strings.TrimSpace(expected) {
		return api.Accepted
	}
	return api.WrongAnswer
}

// Settle applies Resolve to a provisional verdict. Anything other than a
// provisional accept is returned unchanged.
func Settle(provisional api.Verdict, output string, expected string) (api.Verdict, string) {
	if provisional != api.Accepted {
		return provisional, output
	}
	return Resolve(output, expected), strings.TrimSpace(output)
}
