package internal

import (
	"context"
	"fmt"
)

// ConnectionConfig holds the four similarity tunables. The narrated and
// plain paths deliberately carry independent defaults; they are configurable
// so call sites never hardcode diverging values.
type ConnectionConfig struct {
	TopK                 int     `yaml:"top_k"`
	MinSimilarity        float64 `yaml:"min_similarity"`
	NarrateTopK          int     `yaml:"narrate_top_k"`
	NarrateMinSimilarity float64 `yaml:"narrate_min_similarity"`
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		TopK:                 5,
		MinSimilarity:        0.4,
		NarrateTopK:          3,
		NarrateMinSimilarity: 0.5,
	}
}

// ConnectionFinder turns a new item's embedding into a ranked, thresholded
// list of related existing content. It holds no state beyond its
// collaborators; every call re-reads the store.
type ConnectionFinder struct {
	store    VectorStore
	narrator Narrator
	cfg      ConnectionConfig
}

func NewConnectionFinder(store VectorStore, narrator Narrator, cfg ConnectionConfig) *ConnectionFinder {
	if cfg.TopK == 0 && cfg.NarrateTopK == 0 {
		cfg = DefaultConnectionConfig()
	}
	return &ConnectionFinder{store: store, narrator: narrator, cfg: cfg}
}

// Find returns connections above the configured similarity threshold, in
// descending score order, at most TopK. An empty store yields an empty list.
func (f *ConnectionFinder) Find(ctx context.Context, contentID string, embedding []float32) ([]Connection, error) {
	return f.findAbove(ctx, contentID, embedding, f.cfg.TopK, f.cfg.MinSimilarity)
}

func (f *ConnectionFinder) findAbove(ctx context.Context, contentID string, embedding []float32, topK int, minSimilarity float64) ([]Connection, error) {
	similar, err := f.store.FindSimilar(ctx, embedding, topK, SimilarFilter{ExcludeID: contentID})
	if err != nil {
		return nil, fmt.Errorf("find similar: %w", err)
	}

	var connections []Connection
	for _, s := range similar {
		if s.Score < minSimilarity {
			continue
		}
		connections = append(connections, Connection{
			SourceID:      contentID,
			TargetID:      s.Record.ID,
			TargetTitle:   s.Record.Title,
			TargetLocator: s.Record.Locator,
			Score:         s.Score,
		})
	}

	return connections, nil
}

// FindWithDescriptions computes connections with the narrated defaults and
// asks the narrator for one description per connection in a single batch
// call. Descriptions attach positionally; a short batch leaves the tail
// undecorated. When narration fails, the already-computed base connections
// are returned alongside the error so callers can fall back to undecorated
// rendering.
func (f *ConnectionFinder) FindWithDescriptions(ctx context.Context, contentID, summary string, embedding []float32) ([]Connection, error) {
	connections, err := f.findAbove(ctx, contentID, embedding, f.cfg.NarrateTopK, f.cfg.NarrateMinSimilarity)
	if err != nil {
		return nil, err
	}
	if len(connections) == 0 || f.narrator == nil {
		return connections, nil
	}

	related := make([]RelatedItem, 0, len(connections))
	for _, conn := range connections {
		rec, err := f.store.Get(ctx, conn.TargetID)
		if err != nil {
			return connections, fmt.Errorf("load target %s: %w", conn.TargetID, err)
		}
		if rec == nil {
			related = append(related, RelatedItem{Title: conn.TargetTitle, Locator: conn.TargetLocator})
			continue
		}
		related = append(related, RelatedItem{Title: rec.Title, Summary: rec.Summary, Locator: rec.Locator})
	}

	descriptions, err := f.narrator.DescribeRelations(ctx, summary, related)
	if err != nil {
		return connections, fmt.Errorf("describe relations: %w", err)
	}

	for i := range connections {
		if i < len(descriptions) {
			connections[i].Description = descriptions[i]
		}
	}

	return connections, nil
}

// FormatForDisplay renders connections as vault-ready lines. Pure mapping,
// no side effects.
func FormatForDisplay(connections []Connection) []string {
	lines := make([]string, 0, len(connections))
	for _, conn := range connections {
		if conn.Description != "" {
			lines = append(lines, fmt.Sprintf("%s - %s", conn.Description, conn.Wikilink()))
		} else {
			lines = append(lines, fmt.Sprintf("Related: %s (similarity: %.0f%%)", conn.Wikilink(), conn.Score*100))
		}
	}
	return lines
}
