package internal

import (
	"os"
	"path/filepath"
)

const workspaceDir = ".synapse"

// Workspace is the on-disk layout of one library: a vault of markdown notes
// with a .synapse directory holding the vector store, search index, config,
// and git metadata.
type Workspace struct {
	Root string
}

func (w Workspace) SynapseDir() string {
	return filepath.Join(w.Root, workspaceDir)
}

func (w Workspace) NotesPath() string {
	return filepath.Join(w.Root, "notes")
}

func (w Workspace) DBPath() string {
	return filepath.Join(w.SynapseDir(), "vectors.db")
}

func (w Workspace) IndexPath() string {
	return filepath.Join(w.SynapseDir(), "index")
}

func (w Workspace) ConfigPath() string {
	return filepath.Join(w.SynapseDir(), "config.yaml")
}

func (w Workspace) GitDir() string {
	return filepath.Join(w.SynapseDir(), "git")
}

func (w Workspace) Exists() bool {
	info, err := os.Stat(w.SynapseDir())
	return err == nil && info.IsDir()
}

// ResolveWorkspace locates the library root: an explicit path wins, then
// SYNAPSE_VAULT, then the nearest ancestor of the working directory holding
// a .synapse directory, then ~/Synapse.
func ResolveWorkspace(explicit string) Workspace {
	if explicit != "" {
		return Workspace{Root: explicit}
	}

	if env := os.Getenv("SYNAPSE_VAULT"); env != "" {
		return Workspace{Root: env}
	}

	if cwd, err := os.Getwd(); err == nil {
		if ws, ok := findWorkspace(cwd); ok {
			return ws
		}
	}

	home, _ := os.UserHomeDir()
	return Workspace{Root: filepath.Join(home, "Synapse")}
}

func findWorkspace(dir string) (Workspace, bool) {
	for {
		ws := Workspace{Root: dir}
		if ws.Exists() {
			return ws, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Workspace{}, false
		}
		dir = parent
	}
}
