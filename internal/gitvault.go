package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	DefaultBranch = "main"
	DefaultAuthor = "synapse"
	DefaultEmail  = "synapse@local"
)

// Revision is one vault commit.
type Revision struct {
	Hash      string
	Message   string
	Author    string
	Timestamp time.Time
}

// VaultHistory versions the vault's markdown notes in a git repository whose
// object store lives under .synapse/git, keeping the vault itself free of a
// visible .git directory.
type VaultHistory struct {
	repo     *git.Repository
	worktree *git.Worktree
	rootPath string
}

// InitVaultHistory creates the vault repository and its initial commit.
func InitVaultHistory(gitDir, rootPath string) error {
	if err := os.MkdirAll(gitDir, 0755); err != nil {
		return fmt.Errorf("create git directory: %w", err)
	}

	fs := osfs.New(gitDir)
	storage := filesystem.NewStorage(fs, cache.NewObjectLRUDefault())
	wt := osfs.New(rootPath)

	repo, err := git.Init(storage, wt)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		return fmt.Errorf("get config: %w", err)
	}
	cfg.Init.DefaultBranch = DefaultBranch
	if err := repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("set config: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}

	markerPath := filepath.Join(rootPath, ".synapse-init")
	if err := os.WriteFile(markerPath, []byte("synapse vault initialized\n"), 0644); err != nil {
		return fmt.Errorf("write init file: %w", err)
	}

	if _, err := worktree.Add(".synapse-init"); err != nil {
		return fmt.Errorf("stage init file: %w", err)
	}

	_, err = worktree.Commit("init: initialize synapse vault", &git.CommitOptions{
		Author: &object.Signature{
			Name:  DefaultAuthor,
			Email: DefaultEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	return nil
}

func OpenVaultHistory(gitDir, rootPath string) (*VaultHistory, error) {
	if _, err := os.Stat(gitDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("vault not initialized: %s", gitDir)
	}

	fs := osfs.New(gitDir)
	storage := filesystem.NewStorage(fs, cache.NewObjectLRUDefault())
	wt := osfs.New(rootPath)

	repo, err := git.Open(storage, wt)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}

	return &VaultHistory{
		repo:     repo,
		worktree: worktree,
		rootPath: rootPath,
	}, nil
}

// CommitAll stages every change under the vault and commits it. A clean tree
// is not an error; it returns an empty revision.
func (h *VaultHistory) CommitAll(ctx context.Context, message string) (*Revision, error) {
	status, err := h.worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	if status.IsClean() {
		return &Revision{}, nil
	}

	if err := h.worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return nil, fmt.Errorf("stage changes: %w", err)
	}

	hash, err := h.worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  DefaultAuthor,
			Email: DefaultEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	commit, err := h.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get commit: %w", err)
	}

	return toRevision(commit), nil
}

func (h *VaultHistory) Log(ctx context.Context, limit int) ([]*Revision, error) {
	iter, err := h.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	defer iter.Close()

	var revisions []*Revision
	count := 0

	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && count >= limit {
			return io.EOF
		}
		revisions = append(revisions, toRevision(c))
		count++
		return nil
	})
	if err != nil && err != io.EOF {
		return nil, err
	}

	return revisions, nil
}

// DiffNote renders a readable diff of one note between a past revision and
// the current worktree.
func (h *VaultHistory) DiffNote(ctx context.Context, ref, locator string) (string, error) {
	notePath := locator + ".md"

	resolved, err := h.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", fmt.Errorf("resolve ref: %w", err)
	}

	commit, err := h.repo.CommitObject(*resolved)
	if err != nil {
		return "", fmt.Errorf("get commit: %w", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("get tree: %w", err)
	}

	var oldContent string
	if f, treeErr := tree.File(notePath); treeErr == nil {
		oldContent, err = f.Contents()
		if err != nil {
			return "", fmt.Errorf("read old content: %w", err)
		}
	}

	var newContent string
	if data, readErr := os.ReadFile(filepath.Join(h.rootPath, notePath)); readErr == nil {
		newContent = string(data)
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldContent, newContent, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	return renderDiff(diffs), nil
}

// Revert hard-resets the vault to a past revision.
func (h *VaultHistory) Revert(ctx context.Context, ref string) error {
	resolved, err := h.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return fmt.Errorf("resolve ref: %w", err)
	}

	if err := h.worktree.Reset(&git.ResetOptions{
		Commit: *resolved,
		Mode:   git.HardReset,
	}); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	return nil
}

func renderDiff(diffs []diffmatchpatch.Diff) string {
	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			for _, line := range strings.Split(strings.TrimRight(d.Text, "\n"), "\n") {
				fmt.Fprintf(&sb, "+%s\n", line)
			}
		case diffmatchpatch.DiffDelete:
			for _, line := range strings.Split(strings.TrimRight(d.Text, "\n"), "\n") {
				fmt.Fprintf(&sb, "-%s\n", line)
			}
		case diffmatchpatch.DiffEqual:
			// Context is noise for note-sized diffs; keep only changes.
		}
	}
	return sb.String()
}

func toRevision(c *object.Commit) *Revision {
	return &Revision{
		Hash:      c.Hash.String(),
		Message:   strings.TrimSpace(c.Message),
		Author:    c.Author.Name,
		Timestamp: c.Author.When,
	}
}
