package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveWorkspaceExplicit(t *testing.T) {
	ws := ResolveWorkspace("/some/path")
	if ws.Root != "/some/path" {
		t.Errorf("expected explicit path, got %q", ws.Root)
	}
}

func TestResolveWorkspaceEnv(t *testing.T) {
	t.Setenv("SYNAPSE_VAULT", "/env/path")
	ws := ResolveWorkspace("")
	if ws.Root != "/env/path" {
		t.Errorf("expected env path, got %q", ws.Root)
	}

	// Explicit still wins over the env var.
	ws = ResolveWorkspace("/explicit")
	if ws.Root != "/explicit" {
		t.Errorf("expected explicit path, got %q", ws.Root)
	}
}

func TestResolveWorkspaceUpwardSearch(t *testing.T) {
	t.Setenv("SYNAPSE_VAULT", "")

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".synapse"), 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "notes", "articles")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(cwd) })

	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}

	ws := ResolveWorkspace("")
	// TempDir may involve symlinks on some platforms; compare resolved paths.
	wantRoot, _ := filepath.EvalSymlinks(root)
	gotRoot, _ := filepath.EvalSymlinks(ws.Root)
	if gotRoot != wantRoot {
		t.Errorf("expected %q, got %q", wantRoot, gotRoot)
	}
}

func TestWorkspacePaths(t *testing.T) {
	ws := Workspace{Root: "/lib"}

	cases := map[string]string{
		ws.DBPath():     "/lib/.synapse/vectors.db",
		ws.IndexPath():  "/lib/.synapse/index",
		ws.ConfigPath(): "/lib/.synapse/config.yaml",
		ws.GitDir():     "/lib/.synapse/git",
		ws.NotesPath():  "/lib/notes",
	}
	for got, want := range cases {
		if got != filepath.FromSlash(want) {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestWorkspaceExists(t *testing.T) {
	ws := Workspace{Root: t.TempDir()}
	if ws.Exists() {
		t.Error("expected Exists()=false before init")
	}

	if err := os.MkdirAll(ws.SynapseDir(), 0755); err != nil {
		t.Fatal(err)
	}
	if !ws.Exists() {
		t.Error("expected Exists()=true after creating .synapse")
	}
}
