package internal

import "context"

// Embedder maps text to a fixed-length vector. Implementations are network
// clients or local models; failures propagate to the caller and are never
// substituted with a zero vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	Close() error
}

// Provider is a text-generation backend.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	GenerateObject(ctx context.Context, prompt string, target any) error
	Stream(ctx context.Context, prompt string) (<-chan string, error)
}

// RelatedItem is what the narrator sees about an existing content item.
type RelatedItem struct {
	Title   string
	Summary string
	Locator string
}

// Narrator phrases how a new piece of content relates to existing ones. It
// may return fewer descriptions than related items; that is not an error.
type Narrator interface {
	DescribeRelations(ctx context.Context, newSummary string, related []RelatedItem) ([]string, error)
}

// Structured output types for provider calls.

type ContentSummary struct {
	Title     string   `json:"title"`
	Overview  string   `json:"overview"`
	KeyPoints []string `json:"key_points"`
	Tags      []string `json:"tags"`
}

type RelationSet struct {
	Descriptions []string `json:"descriptions"`
}

type DigestReport struct {
	Summary     string   `json:"summary"`
	Themes      []string `json:"themes"`
	Connections []string `json:"connections"`
}
