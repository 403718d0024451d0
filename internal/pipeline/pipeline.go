// Package pipeline sequences a batch run: fetch messages, extract
// transactions, categorize, deduplicate, audit the leftovers and write
// the survivors to the configured sinks.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arjunmk/mailspend/internal/domain"
)

// Step represents a single step in the batch pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps.
type State struct {
	RunID string
	Since time.Time

	Messages     []domain.RawMessage
	Extracted    []domain.Transaction
	Unmatched    []UnmatchedMessage
	Categorized  []domain.CategorizedTransaction
	Deduplicated []domain.CategorizedTransaction
	Written      int
}

// UnmatchedMessage records a message no extraction rule matched, with
// enough context to diagnose it individually.
type UnmatchedMessage struct {
	Sender      string    `json:"sender"`
	Subject     string    `json:"subject"`
	BodyExcerpt string    `json:"body_excerpt"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewState returns a State for a fresh run with a unique run ID.
func NewState(since time.Time) *State {
	return &State{RunID: uuid.NewString(), Since: since}
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first error.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}
