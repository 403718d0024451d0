package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arjunmk/mailspend/internal/domain"
	"github.com/arjunmk/mailspend/internal/extract"
	"github.com/arjunmk/mailspend/internal/pipeline"
)

type mockSource struct {
	messages []domain.RawMessage
	err      error
}

func (m *mockSource) Fetch(ctx context.Context, since time.Time) ([]domain.RawMessage, error) {
	return m.messages, m.err
}

// mockExtractor parses bodies of the form "amount merchant"; anything
// else is unmatched.
type mockExtractor struct{}

func (m *mockExtractor) Extract(body, subject string, ts time.Time) (*domain.Transaction, error) {
	fields := strings.SplitN(body, " ", 2)
	amount, err := decimal.NewFromString(fields[0])
	if err != nil {
		return nil, extract.ErrNoMatch
	}
	merchant := ""
	if len(fields) == 2 {
		merchant = fields[1]
	}
	return &domain.Transaction{
		Amount:    amount,
		Direction: domain.DirectionDebit,
		Channel:   domain.ChannelUPI,
		Merchant:  merchant,
		Timestamp: ts,
	}, nil
}

type mockCategorizer struct {
	category string
	calls    int
}

func (m *mockCategorizer) Categorize(ctx context.Context, tx *domain.Transaction) string {
	m.calls++
	return m.category
}

type mockSink struct {
	name     string
	received []domain.CategorizedTransaction
	err      error
}

func (m *mockSink) Name() string { return m.name }

func (m *mockSink) Write(ctx context.Context, txs []domain.CategorizedTransaction) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.received = txs
	return len(txs), nil
}

type mockAudit struct {
	runID     string
	unmatched []pipeline.UnmatchedMessage
	err       error
}

func (m *mockAudit) Write(ctx context.Context, runID string, unmatched []pipeline.UnmatchedMessage) error {
	m.runID = runID
	m.unmatched = unmatched
	return m.err
}

func msg(body string, ts time.Time) domain.RawMessage {
	return domain.RawMessage{
		Sender:    "alerts@hdfcbank.net",
		Subject:   "Transaction alert",
		Body:      body,
		Timestamp: ts,
	}
}

func TestPipeline_FullRun(t *testing.T) {
	base := time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC)

	source := &mockSource{messages: []domain.RawMessage{
		msg("500 SWIGGY", base),
		msg("500 SWIGGY", base.Add(10*time.Minute)), // duplicate notification
		msg("1200 AMAZON", base),
		msg("your OTP is 482910", base), // unmatched
	}}
	categorizer := &mockCategorizer{category: "Other"}
	sink := &mockSink{name: "primary"}
	audit := &mockAudit{}

	state := pipeline.NewState(base.Add(-24 * time.Hour))
	p := pipeline.NewPipeline(
		&pipeline.FetchStep{Source: source},
		&pipeline.ExtractStep{Extractor: &mockExtractor{}},
		&pipeline.CategorizeStep{Categorizer: categorizer},
		&pipeline.DedupeStep{},
		&pipeline.AuditStep{Audit: audit},
		&pipeline.SinkStep{Sinks: []pipeline.Sink{sink}},
	)

	if err := p.Execute(context.Background(), state); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(state.Extracted) != 3 {
		t.Errorf("Extracted = %d, want 3", len(state.Extracted))
	}
	if len(state.Unmatched) != 1 {
		t.Errorf("Unmatched = %d, want 1", len(state.Unmatched))
	}
	if categorizer.calls != 3 {
		t.Errorf("categorizer calls = %d, want 3", categorizer.calls)
	}
	if len(state.Deduplicated) != 2 {
		t.Errorf("Deduplicated = %d, want 2", len(state.Deduplicated))
	}
	if state.Written != 2 {
		t.Errorf("Written = %d, want 2", state.Written)
	}
	if len(sink.received) != 2 {
		t.Errorf("sink received %d, want 2", len(sink.received))
	}

	if audit.runID != state.RunID {
		t.Errorf("audit runID = %q, want %q", audit.runID, state.RunID)
	}
	if len(audit.unmatched) != 1 {
		t.Fatalf("audit unmatched = %d, want 1", len(audit.unmatched))
	}
	if audit.unmatched[0].Sender != "alerts@hdfcbank.net" {
		t.Errorf("unmatched sender = %q", audit.unmatched[0].Sender)
	}
}

func TestPipeline_FetchErrorAborts(t *testing.T) {
	fetchErr := errors.New("imap login failed")
	sink := &mockSink{name: "primary"}

	state := pipeline.NewState(time.Now())
	p := pipeline.NewPipeline(
		&pipeline.FetchStep{Source: &mockSource{err: fetchErr}},
		&pipeline.SinkStep{Sinks: []pipeline.Sink{sink}},
	)

	err := p.Execute(context.Background(), state)
	if !errors.Is(err, fetchErr) {
		t.Fatalf("Execute error = %v, want wrapped fetch error", err)
	}
	if sink.received != nil {
		t.Error("sink must not be written after a fetch failure")
	}
}

// One failing sink must not stop the others, and the failure still
// surfaces to the caller.
func TestPipeline_SinkFailureDoesNotBlockOthers(t *testing.T) {
	base := time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC)
	sinkErr := errors.New("quota exceeded")

	failing := &mockSink{name: "primary", err: sinkErr}
	secondary := &mockSink{name: "secondary"}

	state := pipeline.NewState(base)
	p := pipeline.NewPipeline(
		&pipeline.FetchStep{Source: &mockSource{messages: []domain.RawMessage{msg("500 SWIGGY", base)}}},
		&pipeline.ExtractStep{Extractor: &mockExtractor{}},
		&pipeline.CategorizeStep{Categorizer: &mockCategorizer{category: "Other"}},
		&pipeline.DedupeStep{},
		&pipeline.SinkStep{Sinks: []pipeline.Sink{failing, secondary}},
	)

	err := p.Execute(context.Background(), state)
	if !errors.Is(err, sinkErr) {
		t.Fatalf("Execute error = %v, want wrapped sink error", err)
	}
	if len(secondary.received) != 1 {
		t.Errorf("secondary sink received %d, want 1", len(secondary.received))
	}
}

// An audit failure is best effort and must not fail the run.
func TestPipeline_AuditFailureIsNonFatal(t *testing.T) {
	base := time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC)

	sink := &mockSink{name: "primary"}
	state := pipeline.NewState(base)
	p := pipeline.NewPipeline(
		&pipeline.FetchStep{Source: &mockSource{messages: []domain.RawMessage{
			msg("500 SWIGGY", base),
			msg("not a transaction", base),
		}}},
		&pipeline.ExtractStep{Extractor: &mockExtractor{}},
		&pipeline.CategorizeStep{Categorizer: &mockCategorizer{category: "Other"}},
		&pipeline.DedupeStep{},
		&pipeline.AuditStep{Audit: &mockAudit{err: errors.New("disk full")}},
		&pipeline.SinkStep{Sinks: []pipeline.Sink{sink}},
	)

	if err := p.Execute(context.Background(), state); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if state.Written != 1 {
		t.Errorf("Written = %d, want 1", state.Written)
	}
}

func TestPipeline_EmptyBatchSkipsSinks(t *testing.T) {
	sink := &mockSink{name: "primary"}
	state := pipeline.NewState(time.Now())
	p := pipeline.NewPipeline(
		&pipeline.FetchStep{Source: &mockSource{}},
		&pipeline.ExtractStep{Extractor: &mockExtractor{}},
		&pipeline.CategorizeStep{Categorizer: &mockCategorizer{category: "Other"}},
		&pipeline.DedupeStep{},
		&pipeline.SinkStep{Sinks: []pipeline.Sink{sink}},
	)

	if err := p.Execute(context.Background(), state); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if sink.received != nil {
		t.Error("sink must not be called for an empty batch")
	}
}

func TestBuildReport(t *testing.T) {
	base := time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC)

	state := pipeline.NewState(base)
	state.Messages = make([]domain.RawMessage, 4)
	state.Unmatched = make([]pipeline.UnmatchedMessage, 1)
	state.Extracted = make([]domain.Transaction, 3)
	state.Deduplicated = []domain.CategorizedTransaction{
		{
			Transaction: domain.Transaction{Amount: decimal.NewFromInt(500), Direction: domain.DirectionDebit, Timestamp: base},
			Category:    "Food & Dining",
		},
		{
			Transaction: domain.Transaction{Amount: decimal.NewFromInt(1200), Direction: domain.DirectionDebit, Timestamp: base},
			Category:    "Shopping",
		},
		{
			Transaction: domain.Transaction{Amount: decimal.NewFromInt(75000), Direction: domain.DirectionCredit, Timestamp: base},
			Category:    "Salary",
		},
	}
	state.Written = 3

	r := pipeline.BuildReport(state)

	if r.Fetched != 4 || r.Extracted != 3 || r.Unmatched != 1 || r.AfterDedup != 3 || r.Written != 3 {
		t.Errorf("counts = %+v", r)
	}
	if got := r.TotalDebit.String(); got != "1700" {
		t.Errorf("TotalDebit = %s, want 1700", got)
	}
	if got := r.TotalCredit.String(); got != "75000" {
		t.Errorf("TotalCredit = %s, want 75000", got)
	}
	if got := r.Net().String(); got != "73300" {
		t.Errorf("Net = %s, want 73300", got)
	}
	if r.ByCategory["Food & Dining"] != 1 || r.ByCategory["Salary"] != 1 {
		t.Errorf("ByCategory = %v", r.ByCategory)
	}
}
