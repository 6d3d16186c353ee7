package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrNoIndex           = errors.New("no search index available")
	ErrInvalidType       = errors.New("invalid content type")
	ErrNoProvider        = errors.New("no provider configured")
)

type ContentType string

const (
	TypePodcast ContentType = "podcast"
	TypeArticle ContentType = "article"
	TypeThread  ContentType = "thread"
	TypeNote    ContentType = "note"
	TypeInsight ContentType = "insight"
)

func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case TypePodcast, TypeArticle, TypeThread, TypeNote, TypeInsight:
		return ContentType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// ContentVector is one embedded content item. The embedding is what similarity
// operates on; Summary is display text only. Locator is an opaque reference to
// the full content (a vault-relative markdown path in practice) and is never
// interpreted by the store.
type ContentVector struct {
	ID        string
	Type      ContentType
	Title     string
	Locator   string
	Summary   string
	Embedding []float32
	CreatedAt time.Time
}

// DeriveID returns the stable content-derived identifier for a piece of
// content: the content type and the first 8 hex chars of the SHA-256 of its
// source reference (URL, or title when there is no source).
func DeriveID(contentType ContentType, source string) string {
	sum := sha256.Sum256([]byte(source))
	return fmt.Sprintf("%s-%s", contentType, hex.EncodeToString(sum[:])[:8])
}

// Connection is a derived link between two content items. It is computed
// fresh on each query and never persisted.
type Connection struct {
	SourceID      string
	TargetID      string
	TargetTitle   string
	TargetLocator string
	Score         float64
	Description   string
}

// Wikilink renders the connection target as an Obsidian-style link.
func (c Connection) Wikilink() string {
	return fmt.Sprintf("[[%s|%s]]", c.TargetLocator, c.TargetTitle)
}
