package categorize

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/arjunmk/mailspend/internal/domain"
)

// GeminiClassifier is the concrete Classifier backed by Gemini.
type GeminiClassifier struct {
	client     *genai.Client
	model      string
	categories []string
}

// NewGeminiClassifier creates a classifier using the given API key and
// model name.
func NewGeminiClassifier(ctx context.Context, apiKey, model string, categories []string) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClassifier{client: client, model: model, categories: categories}, nil
}

// Classify asks the model for a single category name for tx. The reply
// is cleaned of fences and quoting but not validated here; coercion into
// the category set is the categorizer's job.
func (g *GeminiClassifier) Classify(ctx context.Context, tx *domain.Transaction) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt(g.categories, tx)},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return cleanModelReply(raw), nil
}

// buildPrompt lists the allowed categories and the transaction facts.
func buildPrompt(categories []string, tx *domain.Transaction) string {
	merchant := tx.Merchant
	if merchant == "" {
		merchant = "Unknown"
	}

	var b strings.Builder
	b.WriteString("Categorize this Indian transaction into exactly one category.\n\n")
	b.WriteString("Categories: ")
	b.WriteString(strings.Join(categories, ", "))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Transaction: %q, ₹%s, %s\n\n", merchant, tx.Amount.String(), tx.Direction)
	b.WriteString("Reply with just the category name.")
	return b.String()
}

// cleanModelReply strips Markdown fences and quoting the model may wrap
// around the category name despite instructions, and keeps only the
// first line.
func cleanModelReply(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		s = s[:idx]
	}

	return strings.Trim(strings.TrimSpace(s), `"'`)
}
