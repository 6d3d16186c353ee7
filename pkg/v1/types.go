package v1

import "time"

// Record is one stored piece of content.
type Record struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Locator   string    `json:"locator"`
	Summary   string    `json:"summary,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Connection is one semantic link between two records.
type Connection struct {
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	Title    string  `json:"title"`
	Locator  string  `json:"locator"`
	Score    float64 `json:"score"`
}

// Ranked pairs a record with its strong-neighbor count.
type Ranked struct {
	Record    Record `json:"record"`
	Neighbors int    `json:"neighbors"`
}
