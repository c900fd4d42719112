package workspace_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/programme-lv/judge/internal/workspace"
	"github.com/stretchr/testify/require"
)

func TestAcquireWritesSourceAndReleaseRemoves(t *testing.T) {
	m, err := workspace.NewManager(t.TempDir())
	require.NoError(t, err)

	ws, err := m.Acquire("solution.py", "print(42)\n")
	require.NoError(t, err)
	require.Equal(t, m.Root(), filepath.Dir(ws.Dir()))
	require.Equal(t, ws.ID(), filepath.Base(ws.Dir()))

	content, err := os.ReadFile(filepath.Join(ws.Dir(), "solution.py"))
	require.NoError(t, err)
	require.Equal(t, "print(42)\n", string(content))

	// artifacts produced later are removed too
	require.NoError(t, os.MkdirAll(filepath.Join(ws.Dir(), ".cache", "x"), 0o755))
	require.NoError(t, ws.AddFile("solution", []byte{0x7f}))

	m.Release(ws)
	_, err = os.Stat(ws.Dir())
	require.True(t, os.IsNotExist(err))

	// releasing twice or releasing nil is harmless
	m.Release(ws)
	m.Release(nil)
}

func TestConcurrentAcquireNeverSharesPath(t *testing.T) {
	m, err := workspace.NewManager(t.TempDir())
	require.NoError(t, err)

	const n = 32
	dirs := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ws, err := m.Acquire("main.go", "package main")
			if err != nil {
				return
			}
			dirs[i] = ws.Dir()
			m.Release(ws)
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, d := range dirs {
		require.NotEmpty(t, d)
		require.False(t, seen[d], "workspace %s handed out twice", d)
		seen[d] = true
	}

	entries, err := os.ReadDir(m.Root())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestAcquireRejectsPathInFileName(t *testing.T) {
	m, err := workspace.NewManager(t.TempDir())
	require.NoError(t, err)

	_, err = m.Acquire("../escape.py", "x")
	require.Error(t, err)

	entries, err := os.ReadDir(m.Root())
	require.NoError(t, err)
	require.Empty(t, entries)
}
