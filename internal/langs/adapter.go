package langs

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Placeholders expanded in commands and env values.
const (
	HeapPlaceholder      = "{heap_mb}"
	WorkspacePlaceholder = "{workspace}"
)

// Adapter is the build/run recipe of one language.
type Adapter struct {
	ID   string
	Name string

	SourceFname string

	// CompileCmd is nil for languages that run from source.
	CompileCmd     []string
	CompileTimeout time.Duration

	RunCmd []string

	// Managed runtimes get HeapPlaceholder substituted with
	// memoryLimit - HeapOverheadMb, never less than MinHeapMb.
	HeapOverheadMb int
	MinHeapMb      int

	// AddressSpaceHeadroomMb is added on top of the memory limit when
	// computing the OS address space ceiling. VMs reserve far more virtual
	// memory than they touch.
	AddressSpaceHeadroomMb int

	Env map[string]string
}

func (a *Adapter) Compiled() bool {
	return len(a.CompileCmd) > 0
}

// HeapMb is the managed heap budget for the given memory limit.
func (a *Adapter) HeapMb(memoryLimitMb int) int {
	heap := memoryLimitMb - a.HeapOverheadMb
	if heap < a.MinHeapMb {
		heap = a.MinHeapMb
	}
	return heap
}

// CompileArgv returns the compile command with placeholders expanded.
func (a *Adapter) CompileArgv(workDir string) []string {
	return a.expand(a.CompileCmd, workDir, 0)
}

// RunArgv returns the run command narrowed to the given memory budget.
func (a *Adapter) RunArgv(workDir string, memoryLimitMb int) []string {
	return a.expand(a.RunCmd, workDir, a.HeapMb(memoryLimitMb))
}

// Environ returns the adapter's extra environment for a workspace.
func (a *Adapter) Environ(workDir string) map[string]string {
	env := make(map[string]string, len(a.Env))
	for k, v := range a.Env {
		env[k] = strings.ReplaceAll(v, WorkspacePlaceholder, workDir)
	}
	return env
}

func (a *Adapter) expand(argv []string, workDir string, heapMb int) []string {
	res := make([]string, len(argv))
	for i, arg := range argv {
		arg = strings.ReplaceAll(arg, WorkspacePlaceholder, workDir)
		arg = strings.ReplaceAll(arg, HeapPlaceholder, strconv.Itoa(heapMb))
		res[i] = arg
	}
	return res
}

func (a *Adapter) validate() error {
	if a.ID == "" {
		return fmt.Errorf("language id is required")
	}
	if a.SourceFname == "" {
		return fmt.Errorf("language %s: source file name is required", a.ID)
	}
	if strings.ContainsRune(a.SourceFname, '/') {
		return fmt.Errorf("language %s: source file name must not contain a path", a.ID)
	}
	if len(a.RunCmd) == 0 {
		return fmt.Errorf("language %s: run command is required", a.ID)
	}
	if a.Compiled() && a.CompileTimeout <= 0 {
		return fmt.Errorf("language %s: compile timeout must be positive", a.ID)
	}
	return nil
}

func (a Adapter) clone() Adapter {
	a.CompileCmd = slices.Clone(a.CompileCmd)
	a.RunCmd = slices.Clone(a.RunCmd)
	a.Env = maps.Clone(a.Env)
	return a
}
