package executor

import (
	"fmt"
	"time"
)

// Constraints bound a single child process.
type Constraints struct {
	WallTime time.Duration

	// MemoryLimitMb plus AddressSpaceHeadroomMb becomes the virtual address
	// space ceiling. Zero disables the ceiling.
	MemoryLimitMb          int
	AddressSpaceHeadroomMb int

	// MaxOutputBytes caps how much of each stream is kept in memory.
	MaxOutputBytes int
}

const (
	DefaultMaxOutputBytes = 64 << 20
	shellPath             = "/bin/sh"
)

func (c *Constraints) AddressSpaceKiB() int {
	if c.MemoryLimitMb <= 0 {
		return 0
	}
	return (c.MemoryLimitMb + c.AddressSpaceHeadroomMb) * 1024
}

// wrap prefixes argv with a shell that applies the address space ceiling and
// then execs the target in place, so the pid we wait on is the program's.
// Going through the shell also resolves argv[0] against the child's PATH
// rather than ours.
func (c *Constraints) wrap(argv []string) []string {
	script := `exec "$0" "$@"`
	if kib := c.AddressSpaceKiB(); kib > 0 {
		script = fmt.Sprintf("ulimit -v %d || exit 125; %s", kib, script)
	}
	return append([]string{shellPath, "-c", script}, argv...)
}

func (c *Constraints) outputCap() int {
	if c.MaxOutputBytes <= 0 {
		return DefaultMaxOutputBytes
	}
	return c.MaxOutputBytes
}
