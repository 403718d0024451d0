package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/arjunmk/mailspend/internal/dedupe"
	"github.com/arjunmk/mailspend/internal/domain"
	"github.com/arjunmk/mailspend/internal/extract"
	"github.com/arjunmk/mailspend/internal/logger"
)

// MessageSource supplies the batch input, ordered by arrival.
type MessageSource interface {
	Fetch(ctx context.Context, since time.Time) ([]domain.RawMessage, error)
}

// Extractor turns one message into a transaction or extract.ErrNoMatch.
type Extractor interface {
	Extract(body, subject string, ts time.Time) (*domain.Transaction, error)
}

// Categorizer assigns a category; total by contract.
type Categorizer interface {
	Categorize(ctx context.Context, tx *domain.Transaction) string
}

// Sink receives the final deduplicated batch.
type Sink interface {
	Name() string
	Write(ctx context.Context, txs []domain.CategorizedTransaction) (int, error)
}

// AuditWriter records the unmatched messages of a run.
type AuditWriter interface {
	Write(ctx context.Context, runID string, unmatched []UnmatchedMessage) error
}

const unmatchedExcerptLen = 200

// FetchStep pulls messages from the source.
type FetchStep struct {
	Source MessageSource
}

func (s *FetchStep) Execute(ctx context.Context, state *State) error {
	msgs, err := s.Source.Fetch(ctx, state.Since)
	if err != nil {
		return err
	}
	state.Messages = msgs
	return nil
}

// ExtractStep runs the extractor over every message. A message that
// matches no rule is recorded as unmatched and the batch continues; no
// single message aborts the run.
type ExtractStep struct {
	Extractor Extractor
}

func (s *ExtractStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)

	for _, msg := range state.Messages {
		tx, err := s.Extractor.Extract(msg.Body, msg.Subject, msg.Timestamp)
		if err != nil {
			if !errors.Is(err, extract.ErrNoMatch) {
				log.Warn().Err(err).Str("sender", msg.Sender).Msg("Extraction failed")
			}
			state.Unmatched = append(state.Unmatched, UnmatchedMessage{
				Sender:      msg.Sender,
				Subject:     msg.Subject,
				BodyExcerpt: truncate(msg.Body, unmatchedExcerptLen),
				Timestamp:   msg.Timestamp,
			})
			continue
		}
		state.Extracted = append(state.Extracted, *tx)
	}

	log.Info().
		Int("extracted", len(state.Extracted)).
		Int("unmatched", len(state.Unmatched)).
		Msg("Extraction finished")
	return nil
}

// CategorizeStep annotates every extracted transaction with a category.
type CategorizeStep struct {
	Categorizer Categorizer
}

func (s *CategorizeStep) Execute(ctx context.Context, state *State) error {
	for i := range state.Extracted {
		tx := state.Extracted[i]
		state.Categorized = append(state.Categorized, domain.CategorizedTransaction{
			Transaction: tx,
			Category:    s.Categorizer.Categorize(ctx, &tx),
		})
	}
	return nil
}

// DedupeStep collapses near-duplicate notifications.
type DedupeStep struct{}

func (s *DedupeStep) Execute(ctx context.Context, state *State) error {
	state.Deduplicated = dedupe.Deduplicate(state.Categorized)

	if dropped := len(state.Categorized) - len(state.Deduplicated); dropped > 0 {
		log := logger.FromContext(ctx)
		log.Info().Int("dropped", dropped).Msg("Removed duplicate transactions")
	}
	return nil
}

// AuditStep writes the unmatched-message report. Best effort: an audit
// failure is logged and never blocks the sink write.
type AuditStep struct {
	Audit AuditWriter
}

func (s *AuditStep) Execute(ctx context.Context, state *State) error {
	if s.Audit == nil || len(state.Unmatched) == 0 {
		return nil
	}
	if err := s.Audit.Write(ctx, state.RunID, state.Unmatched); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("Failed to write unmatched report")
	}
	return nil
}

// SinkStep writes the final batch to every configured sink. The first
// sink is the primary; its written count lands in the state. Failures
// from one sink do not stop the others; all errors are joined and
// surfaced to the caller.
type SinkStep struct {
	Sinks []Sink
}

func (s *SinkStep) Execute(ctx context.Context, state *State) error {
	if len(state.Deduplicated) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)
	var errs []error

	for i, sink := range s.Sinks {
		written, err := sink.Write(ctx, state.Deduplicated)
		if err != nil {
			log.Error().Err(err).Str("sink", sink.Name()).Msg("Sink write failed")
			errs = append(errs, err)
			continue
		}
		if i == 0 {
			state.Written = written
		}
		log.Info().Str("sink", sink.Name()).Int("written", written).Msg("Sink write finished")
	}

	return errors.Join(errs...)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
