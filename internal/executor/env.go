package executor

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

const DefaultSandboxPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin:/opt/bin"

// allowedBase is every variable a child may receive apart from the ones an
// adapter asks for explicitly.
var allowedBase = mapset.NewSet("PATH", "LANG", "LC_ALL")

// Environ builds a child environment from scratch. Nothing is inherited from
// the judging process.
func Environ(path string, extra map[string]string) []string {
	if path == "" {
		path = DefaultSandboxPath
	}
	vars := map[string]string{
		"PATH":   path,
		"LANG":   "C.UTF-8",
		"LC_ALL": "C.UTF-8",
	}
	for k, v := range extra {
		if allowedBase.Contains(k) {
			continue
		}
		vars[k] = v
	}

	env := make([]string, 0, len(vars))
	for k, v := range vars {
		env = append(env, k+"="+v)
	}
	slices.Sort(env)
	return env
}

// LookPath resolves tool the way a child started with PATH=path would.
func LookPath(tool string, path string) (string, error) {
	if path == "" {
		path = DefaultSandboxPath
	}
	if strings.Contains(tool, "/") {
		return exec.LookPath(tool)
	}
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			continue
		}
		if found, err := exec.LookPath(filepath.Join(dir, tool)); err == nil {
			return found, nil
		}
	}
	return "", fmt.Errorf("%s not found in %s", tool, path)
}
