package internal

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// digestWindow is how far back a digest looks.
const digestWindow = 24 * time.Hour

// DigestService builds the daily digest from recently ingested content.
type DigestService struct {
	store      VectorStore
	summarizer *Summarizer
	vault      *Vault
	history    *VaultHistory
	logger     *zap.Logger
}

func NewDigestService(store VectorStore, summarizer *Summarizer, vault *Vault, history *VaultHistory, logger *zap.Logger) *DigestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DigestService{
		store:      store,
		summarizer: summarizer,
		vault:      vault,
		history:    history,
		logger:     logger,
	}
}

// Generate writes the digest note for a date and returns its locator. With no
// recent content it still writes a short placeholder note.
func (d *DigestService) Generate(ctx context.Context, date time.Time) (string, error) {
	recent, err := d.store.GetRecent(ctx, digestWindow)
	if err != nil {
		return "", fmt.Errorf("load recent content: %w", err)
	}

	items := make([]DigestItem, 0, len(recent))
	for _, rec := range recent {
		items = append(items, DigestItem{
			Type:    rec.Type,
			Title:   rec.Title,
			Summary: rec.Summary,
		})
	}

	d.logger.Info("generating digest",
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("items", len(items)))

	var report *DigestReport
	if len(items) == 0 || d.summarizer == nil {
		report = &DigestReport{Summary: "No content was processed today."}
	} else {
		report, err = d.summarizer.GenerateDigest(ctx, items, date.Format("January 2, 2006"))
		if err != nil {
			return "", fmt.Errorf("generate digest: %w", err)
		}
	}

	locator, err := d.vault.SaveDigest(date, report)
	if err != nil {
		return "", fmt.Errorf("save digest: %w", err)
	}

	if d.history != nil {
		if _, err := d.history.CommitAll(ctx, fmt.Sprintf("digest %s", date.Format("2006-01-02"))); err != nil {
			d.logger.Warn("vault commit failed", zap.Error(err))
		}
	}

	return locator, nil
}
