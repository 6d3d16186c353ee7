package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/lunarhue/synapse/internal"
	"go.uber.org/zap"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx := context.Background()

	rootCmd := NewRootCmd(version, &app{})
	if err := fang.Execute(ctx, rootCmd); err != nil {
		os.Exit(1)
	}
}

// app wires a command invocation to an opened library. Everything is opened
// lazily because most commands only need a subset.
type app struct{}

// session is one opened library: the workspace paths, config, and the store.
type session struct {
	workspace internal.Workspace
	config    *internal.Config
	store     internal.VectorStore
	logger    *zap.Logger
}

func (a *app) open(vaultFlag string, debug bool) (*session, error) {
	ws := internal.ResolveWorkspace(vaultFlag)
	if !ws.Exists() {
		return nil, fmt.Errorf("library not initialized at %s (run 'synapse init')", ws.Root)
	}

	cfg, err := internal.LoadConfig(ws.ConfigPath())
	if err != nil {
		return nil, err
	}

	store, err := internal.NewSQLiteStore(ws.DBPath(), cfg.Embeddings.Dimension)
	if err != nil {
		return nil, err
	}

	logger, err := internal.NewLogger(debug)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &session{
		workspace: ws,
		config:    cfg,
		store:     store,
		logger:    logger,
	}, nil
}

func (s *session) Close() error {
	if s.logger != nil {
		_ = s.logger.Sync()
	}
	return s.store.Close()
}

func (s *session) embedder() *internal.RemoteEmbedder {
	e := s.config.Embeddings
	return internal.NewRemoteEmbedder(e.BaseURL, e.APIKey, e.Model, e.Dimension)
}

// summarizer returns nil when no provider is configured; callers treat that
// as "skip narration". A provider name that does not resolve is an error,
// not a silent downgrade.
func (s *session) summarizer(ctx context.Context, providerName string) (*internal.Summarizer, error) {
	fc, err := s.config.ProviderFor(providerName)
	if errors.Is(err, internal.ErrNoProvider) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	provider, err := internal.NewFantasyProvider(ctx, fc)
	if err != nil {
		return nil, err
	}

	return internal.NewSummarizer(provider), nil
}

func (s *session) finder(narrator internal.Narrator) *internal.ConnectionFinder {
	return internal.NewConnectionFinder(s.store, narrator, s.config.Connections)
}

func (s *session) graph() *internal.GraphBuilder {
	return internal.NewGraphBuilder(s.store)
}

func (s *session) vault() *internal.Vault {
	return internal.NewVault(s.workspace.Root)
}

func (s *session) history() (*internal.VaultHistory, error) {
	return internal.OpenVaultHistory(s.workspace.GitDir(), s.workspace.Root)
}

func (s *session) index() (*internal.AnnoyIndex, error) {
	idx, err := internal.NewAnnoyIndex(s.workspace.IndexPath(), s.config.Embeddings.Dimension)
	if err != nil {
		return nil, err
	}
	if err := idx.Load(context.Background()); err != nil {
		return nil, err
	}
	return idx, nil
}

func formatAge(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
