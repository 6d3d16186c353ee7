package internal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// IngestRequest is one piece of content to fold into the library.
type IngestRequest struct {
	Type   ContentType
	Title  string
	Body   string
	Source string
}

// IngestResult reports what the pipeline produced.
type IngestResult struct {
	ID          string
	Title       string
	Locator     string
	Connections []Connection
	Revision    *Revision
}

// Pipeline runs the full ingest flow: summarize, embed, connect, write the
// note, persist the vector, commit the vault.
type Pipeline struct {
	store      VectorStore
	embedder   Embedder
	summarizer *Summarizer
	finder     *ConnectionFinder
	vault      *Vault
	history    *VaultHistory
	logger     *zap.Logger
}

func NewPipeline(store VectorStore, embedder Embedder, summarizer *Summarizer, finder *ConnectionFinder, vault *Vault, history *VaultHistory, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		store:      store,
		embedder:   embedder,
		summarizer: summarizer,
		finder:     finder,
		vault:      vault,
		history:    history,
		logger:     logger,
	}
}

func (p *Pipeline) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("body is required")
	}

	summary, err := p.summarize(ctx, req)
	if err != nil {
		return nil, err
	}

	embedding, err := p.embedder.Embed(ctx, summary.Title+"\n\n"+summary.Overview)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	source := req.Source
	if source == "" {
		source = req.Title
	}
	id := DeriveID(req.Type, source)

	connections, err := p.finder.FindWithDescriptions(ctx, id, summary.Overview, embedding)
	if err != nil {
		// A failed store scan returns no connections at all and is fatal.
		// Narration failure returns the base list; those links still land
		// in the note.
		if connections == nil {
			return nil, fmt.Errorf("find connections: %w", err)
		}
		p.logger.Warn("connection narration failed",
			zap.String("id", id),
			zap.Error(err))
	}

	p.logger.Info("found connections",
		zap.String("id", id),
		zap.Int("count", len(connections)))

	locator, err := p.vault.SaveContent(req.Type, summary, req.Source, connections)
	if err != nil {
		return nil, fmt.Errorf("save note: %w", err)
	}

	rec := ContentVector{
		ID:        id,
		Type:      req.Type,
		Title:     summary.Title,
		Locator:   locator,
		Summary:   summary.Overview,
		Embedding: embedding,
		CreatedAt: time.Now(),
	}
	if err := p.store.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("store vector: %w", err)
	}

	result := &IngestResult{
		ID:          id,
		Title:       summary.Title,
		Locator:     locator,
		Connections: connections,
	}

	if p.history != nil {
		rev, err := p.history.CommitAll(ctx, fmt.Sprintf("ingest %s: %s", req.Type, summary.Title))
		if err != nil {
			p.logger.Warn("vault commit failed", zap.Error(err))
		} else {
			result.Revision = rev
		}
	}

	return result, nil
}

// summarize runs the provider summary, falling back to a trivial summary
// built from the raw body when no provider is configured.
func (p *Pipeline) summarize(ctx context.Context, req IngestRequest) (*ContentSummary, error) {
	if p.summarizer == nil {
		return &ContentSummary{
			Title:    req.Title,
			Overview: truncate(strings.TrimSpace(req.Body), 500),
		}, nil
	}

	summary, err := p.summarizer.SummarizeContent(ctx, req.Type, req.Title, req.Body)
	if err != nil {
		return nil, fmt.Errorf("summarize content: %w", err)
	}
	return summary, nil
}

// Remove deletes a piece of content from the store and its note from the
// vault, then commits. A missing record is not an error.
func (p *Pipeline) Remove(ctx context.Context, id string) (bool, error) {
	rec, err := p.store.Get(ctx, id)
	if err != nil {
		return false, err
	}

	deleted, err := p.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if rec != nil && p.vault != nil {
		if err := p.vault.Delete(rec.Locator); err != nil {
			p.logger.Warn("note removal failed",
				zap.String("locator", rec.Locator),
				zap.Error(err))
		}
	}

	if deleted && p.history != nil {
		if _, err := p.history.CommitAll(ctx, fmt.Sprintf("remove %s", id)); err != nil {
			p.logger.Warn("vault commit failed", zap.Error(err))
		}
	}

	return deleted, nil
}
