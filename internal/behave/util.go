package behave

import "strings"

func containsOutput(output, want string) bool {
	return strings.Contains(output, strings.TrimSpace(want))
}
