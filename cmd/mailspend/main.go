package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/arjunmk/mailspend/internal/archive"
	"github.com/arjunmk/mailspend/internal/audit"
	"github.com/arjunmk/mailspend/internal/catcache"
	"github.com/arjunmk/mailspend/internal/categorize"
	"github.com/arjunmk/mailspend/internal/config"
	"github.com/arjunmk/mailspend/internal/domain"
	"github.com/arjunmk/mailspend/internal/extract"
	"github.com/arjunmk/mailspend/internal/logger"
	"github.com/arjunmk/mailspend/internal/mail"
	"github.com/arjunmk/mailspend/internal/notion"
	"github.com/arjunmk/mailspend/internal/pipeline"
	"github.com/arjunmk/mailspend/internal/rules"
	"github.com/arjunmk/mailspend/internal/sheets"
)

func main() {
	_ = config.LoadDotEnv(".env")
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration error")
	}

	// One batch is a few hundred messages at most; if a run takes this
	// long something is stuck, not slow.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Run failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	since := time.Now().Add(-cfg.Lookback)
	state := pipeline.NewState(since)

	log.Info().Str("run_id", state.RunID).Time("since", since).Msg("Starting batch run")

	cache, closeCache, err := openCache(cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	tables := categorize.DefaultTables()

	gemini, err := categorize.NewGeminiClassifier(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, tables.Categories)
	if err != nil {
		return err
	}
	classifier := timeoutClassifier{inner: gemini, timeout: cfg.ClassifyTimeout}
	categorizer := categorize.New(tables, cache, classifier, log)

	writer, err := sheets.NewWriter(ctx, []byte(cfg.ServiceAccountJSON), cfg.SpreadsheetID)
	if err != nil {
		return err
	}

	sinks := []pipeline.Sink{writer}
	if cfg.BigQueryProject != "" {
		sinks = append(sinks, archive.New(cfg.BigQueryProject, cfg.BigQueryDataset, state.RunID))
	}
	if cfg.NotionToken != "" && cfg.NotionDatabaseID != "" {
		sinks = append(sinks, notion.NewSink(cfg.NotionToken, cfg.NotionDatabaseID))
	}

	fetcher := mail.NewFetcher(cfg.EmailAddress, cfg.EmailPassword, cfg.IMAPServer, cfg.IMAPPort, rules.BankSenders)

	p := pipeline.NewPipeline(
		&pipeline.FetchStep{Source: fetcher},
		&pipeline.ExtractStep{Extractor: extract.New()},
		&pipeline.CategorizeStep{Categorizer: categorizer},
		&pipeline.DedupeStep{},
		&pipeline.AuditStep{Audit: audit.NewReporter(cfg.AuditDir, cfg.AuditGCSBucket)},
		&pipeline.SinkStep{Sinks: sinks},
	)

	runErr := p.Execute(ctx, state)
	logReport(log, pipeline.BuildReport(state))
	return runErr
}

func openCache(cfg *config.Config, log zerolog.Logger) (catcache.Store, func(), error) {
	if cfg.CacheBackend == "sqlite" {
		store, err := catcache.NewSQLiteStore(cfg.CachePath, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return catcache.NewFileStore(cfg.CachePath, log), func() {}, nil
}

func logReport(log zerolog.Logger, r *pipeline.Report) {
	log.Info().
		Str("run_id", r.RunID).
		Int("fetched", r.Fetched).
		Int("extracted", r.Extracted).
		Int("unmatched", r.Unmatched).
		Int("after_dedup", r.AfterDedup).
		Int("written", r.Written).
		Msg("Run summary")

	for category, count := range r.ByCategory {
		log.Info().Str("category", category).Int("count", count).Msg("Category breakdown")
	}

	log.Info().
		Str("total_debit", r.TotalDebit.StringFixed(2)).
		Str("total_credit", r.TotalCredit.StringFixed(2)).
		Str("net", r.Net().StringFixed(2)).
		Msg("Totals")
}

// timeoutClassifier caps each classification call; a timeout surfaces
// as a call failure and the categorizer coerces it to the catch-all.
type timeoutClassifier struct {
	inner   categorize.Classifier
	timeout time.Duration
}

func (t timeoutClassifier) Classify(ctx context.Context, tx *domain.Transaction) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Classify(ctx, tx)
}
