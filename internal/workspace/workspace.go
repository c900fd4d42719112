package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Manager hands out exclusive, ephemeral directories under a root.
type Manager struct {
	root string
}

// Workspace is one judge operation's scratch directory.
type Workspace struct {
	id  string
	dir string
}

func NewManager(root string) (*Manager, error) {
	if root == "" {
		root = os.TempDir()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace root: %w", err)
	}
	return &Manager{root: abs}, nil
}

func (m *Manager) Root() string {
	return m.root
}

// Acquire creates a fresh directory named by a random id and writes the
// source file into it. The id is unrelated to the submission so that the same
// submission can be judged twice at once.
func (m *Manager) Acquire(sourceFname string, sourceCode string) (*Workspace, error) {
	ws := &Workspace{id: uuid.NewString()}
	ws.dir = filepath.Join(m.root, ws.id)

	if err := os.Mkdir(ws.dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	if err := ws.AddFile(sourceFname, []byte(sourceCode)); err != nil {
		m.Release(ws)
		return nil, err
	}
	return ws, nil
}

// Release removes the workspace recursively. Failures are logged only.
func (m *Manager) Release(ws *Workspace) {
	if ws == nil {
		return
	}
	if err := os.RemoveAll(ws.dir); err != nil {
		slog.Error("failed to remove workspace", "workspace", ws.dir, "error", err)
		return
	}
	slog.Debug("removed workspace", "workspace", ws.dir)
}

func (ws *Workspace) ID() string {
	return ws.id
}

func (ws *Workspace) Dir() string {
	return ws.dir
}

// AddFile writes content to a file directly inside the workspace.
func (ws *Workspace) AddFile(name string, content []byte) error {
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("invalid workspace file name %q", name)
	}
	err := os.WriteFile(filepath.Join(ws.dir, name), content, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
