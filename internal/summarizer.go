package internal

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// summaryInputLimit caps how much raw content goes into a summarization
// prompt.
const summaryInputLimit = 50000

// narrationSummaryLimit caps per-item summary text inside the narration
// prompt.
const narrationSummaryLimit = 300

var _ Narrator = (*Summarizer)(nil)

// Summarizer wraps a Provider with the structured prompts the pipeline
// needs: content summaries, relation narration, and the daily digest.
type Summarizer struct {
	provider Provider
}

func NewSummarizer(provider Provider) *Summarizer {
	return &Summarizer{provider: provider}
}

// SummarizeContent produces a structured summary of one piece of extracted
// content.
func (s *Summarizer) SummarizeContent(ctx context.Context, contentType ContentType, title, body string) (*ContentSummary, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("provider not available")
	}

	body = truncate(body, summaryInputLimit)

	prompt := fmt.Sprintf(`Summarize this %s for a personal knowledge library.

TITLE: %s

CONTENT:
%s

Provide a title, a 2-3 paragraph overview, the key points, and 3-5 topic tags.`,
		contentType, title, body)

	var summary ContentSummary
	if err := s.provider.GenerateObject(ctx, prompt, &summary); err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}
	if summary.Title == "" {
		summary.Title = title
	}

	return &summary, nil
}

// DescribeRelations asks the provider for one description per related item
// in a single batch call. A short answer is passed through as-is; the caller
// attaches descriptions positionally.
func (s *Summarizer) DescribeRelations(ctx context.Context, newSummary string, related []RelatedItem) ([]string, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("provider not available")
	}
	if len(related) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	for _, item := range related {
		fmt.Fprintf(&sb, "**%s**: %s\n\n", item.Title, truncate(item.Summary, narrationSummaryLimit))
	}

	prompt := fmt.Sprintf(`Given this new content and similar past content, describe the meaningful connections between them.

NEW CONTENT:
%s

SIMILAR PAST CONTENT:
%s
Provide one short description per past item, in order, showing how the ideas relate, build on each other, or contrast. Focus on intellectual connections, shared themes, or complementary perspectives.`,
		newSummary, sb.String())

	var relations RelationSet
	if err := s.provider.GenerateObject(ctx, prompt, &relations); err != nil {
		return nil, fmt.Errorf("generate relations: %w", err)
	}

	return relations.Descriptions, nil
}

// DigestItem is one day's-content entry fed into the digest prompt.
type DigestItem struct {
	Type    ContentType
	Title   string
	Summary string
}

// GenerateDigest summarizes a day's content into a single report.
func (s *Summarizer) GenerateDigest(ctx context.Context, items []DigestItem, dateStr string) (*DigestReport, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("provider not available")
	}
	if len(items) == 0 {
		return &DigestReport{Summary: "No content was processed today."}, nil
	}

	var sb strings.Builder
	for _, item := range items {
		fmt.Fprintf(&sb, "**%s: %s**\n%s\n\n", strings.ToUpper(string(item.Type)), item.Title, item.Summary)
	}

	prompt := fmt.Sprintf(`Generate a daily digest for %s based on the content consumed:

%s
Provide:
1. A cohesive summary of what was learned today (2-3 paragraphs)
2. Key themes that emerged across the content
3. Notable connections or patterns between different pieces`,
		dateStr, sb.String())

	var report DigestReport
	if err := s.provider.GenerateObject(ctx, prompt, &report); err != nil {
		return nil, fmt.Errorf("generate digest: %w", err)
	}

	return &report, nil
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
