// Package audit writes a per-run report of messages no extraction rule
// matched, so each one stays individually retrievable for diagnosis.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arjunmk/mailspend/internal/logger"
	"github.com/arjunmk/mailspend/internal/pipeline"
)

// Reporter writes unmatched reports under a local directory and, when a
// bucket is configured, mirrors them to GCS.
type Reporter struct {
	dir    string
	bucket string
}

// NewReporter builds a Reporter. bucket may be empty to skip uploads.
func NewReporter(dir, bucket string) *Reporter {
	return &Reporter{dir: dir, bucket: bucket}
}

// Write persists the unmatched messages of one run as JSON.
func (r *Reporter) Write(ctx context.Context, runID string, unmatched []pipeline.UnmatchedMessage) error {
	data, err := json.MarshalIndent(unmatched, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal unmatched report: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create audit dir %q: %w", r.dir, err)
	}

	name := fmt.Sprintf("unmatched-%s.json", runID)
	path := filepath.Join(r.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write unmatched report %q: %w", path, err)
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("path", path).
		Int("messages", len(unmatched)).
		Msg("Wrote unmatched report")

	if r.bucket != "" {
		if err := upload(ctx, r.bucket, name, data); err != nil {
			return fmt.Errorf("upload unmatched report: %w", err)
		}
	}

	return nil
}
