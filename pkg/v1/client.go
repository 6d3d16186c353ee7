package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/lunarhue/synapse/internal"
)

// Client provides programmatic access to a vector library.
type Client struct {
	store  internal.VectorStore
	finder *internal.ConnectionFinder
	graph  *internal.GraphBuilder
}

// New opens (or creates) the vector store behind a Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		dimension: 384,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	path := cfg.path
	if path == "" {
		ws := internal.ResolveWorkspace("")
		path = ws.DBPath()
	}

	store, err := internal.NewSQLiteStore(path, cfg.dimension)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &Client{
		store:  store,
		finder: internal.NewConnectionFinder(store, nil, internal.DefaultConnectionConfig()),
		graph:  internal.NewGraphBuilder(store),
	}, nil
}

// Insert creates or updates a record.
func (c *Client) Insert(ctx context.Context, rec Record) error {
	contentType, err := internal.ParseContentType(rec.Type)
	if err != nil {
		return err
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return c.store.Upsert(ctx, internal.ContentVector{
		ID:        rec.ID,
		Type:      contentType,
		Title:     rec.Title,
		Locator:   rec.Locator,
		Summary:   rec.Summary,
		Embedding: rec.Embedding,
		CreatedAt: createdAt,
	})
}

// Get retrieves a record by id; a miss returns (nil, nil).
func (c *Client) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := c.store.Get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	out := toRecord(*rec)
	return &out, nil
}

// Delete removes a record, reporting whether it existed.
func (c *Client) Delete(ctx context.Context, id string) (bool, error) {
	return c.store.Delete(ctx, id)
}

// Count returns the number of stored records.
func (c *Client) Count(ctx context.Context) (int, error) {
	return c.store.Count(ctx)
}

// FindConnections returns content similar to the given embedding, excluding
// the record itself.
func (c *Client) FindConnections(ctx context.Context, id string, embedding []float32) ([]Connection, error) {
	connections, err := c.finder.Find(ctx, id, embedding)
	if err != nil {
		return nil, fmt.Errorf("find connections: %w", err)
	}

	out := make([]Connection, 0, len(connections))
	for _, conn := range connections {
		out = append(out, Connection{
			SourceID: conn.SourceID,
			TargetID: conn.TargetID,
			Title:    conn.TargetTitle,
			Locator:  conn.TargetLocator,
			Score:    conn.Score,
		})
	}
	return out, nil
}

// MostConnected ranks records by strong-neighbor count.
func (c *Client) MostConnected(ctx context.Context, topK int) ([]Ranked, error) {
	ranked, err := c.graph.MostConnected(ctx, topK)
	if err != nil {
		return nil, fmt.Errorf("most connected: %w", err)
	}

	out := make([]Ranked, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, Ranked{Record: toRecord(r.Record), Neighbors: r.Neighbors})
	}
	return out, nil
}

// Clusters groups the library into connected components of the similarity
// graph, largest first.
func (c *Client) Clusters(ctx context.Context, threshold float64) ([][]Record, error) {
	clusters, err := c.graph.Clusters(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("clusters: %w", err)
	}

	out := make([][]Record, 0, len(clusters))
	for _, cluster := range clusters {
		members := make([]Record, 0, len(cluster))
		for _, rec := range cluster {
			members = append(members, toRecord(rec))
		}
		out = append(out, members)
	}
	return out, nil
}

// Close releases the underlying store.
func (c *Client) Close() error {
	return c.store.Close()
}

func toRecord(rec internal.ContentVector) Record {
	return Record{
		ID:        rec.ID,
		Type:      string(rec.Type),
		Title:     rec.Title,
		Locator:   rec.Locator,
		Summary:   rec.Summary,
		Embedding: rec.Embedding,
		CreatedAt: rec.CreatedAt,
	}
}
