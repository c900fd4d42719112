package xdg

import (
	"os"
	"path/filepath"
)

// Dirs resolves the XDG base directories the judge uses.
type Dirs struct {
	configHome string
	runtimeDir string
}

func New() *Dirs {
	d := &Dirs{}

	d.configHome = os.Getenv("XDG_CONFIG_HOME")
	if d.configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			d.configHome = filepath.Join(home, ".config")
		}
	}

	// XDG_RUNTIME_DIR is usually a tmpfs, which suits throwaway workspaces.
	d.runtimeDir = os.Getenv("XDG_RUNTIME_DIR")
	if d.runtimeDir == "" {
		d.runtimeDir = os.TempDir()
	}
	return d
}

// WorkspaceRoot is where per-submission workspaces are created by default.
func (d *Dirs) WorkspaceRoot(app string) string {
	return filepath.Join(d.runtimeDir, app, "workspaces")
}

// LanguagesFile is the default location of the language table override. It
// returns "" when there is no config home or the file does not exist.
func (d *Dirs) LanguagesFile(app string) string {
	if d.configHome == "" {
		return ""
	}
	path := filepath.Join(d.configHome, app, "languages.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
