// Package categorize assigns a spending category to each extracted
// transaction through a layered resolution: deterministic keyword rules,
// then the persisted cache, then a generative classifier whose reply is
// coerced into the fixed category set.
package categorize

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arjunmk/mailspend/internal/catcache"
	"github.com/arjunmk/mailspend/internal/domain"
)

const cacheKeyMaxLen = 50

// Classifier is the generative fallback. Implementations may fail; the
// categorizer absorbs every failure into the catch-all category.
type Classifier interface {
	Classify(ctx context.Context, tx *domain.Transaction) (string, error)
}

// Categorizer resolves categories. Categorize is total: it always
// returns a member of the configured category set.
type Categorizer struct {
	tables     Tables
	categories map[string]bool
	cache      catcache.Store
	classifier Classifier
	log        zerolog.Logger
}

// New builds a Categorizer from its tables, cache store and classifier.
func New(tables Tables, cache catcache.Store, classifier Classifier, log zerolog.Logger) *Categorizer {
	set := make(map[string]bool, len(tables.Categories))
	for _, c := range tables.Categories {
		set[c] = true
	}
	return &Categorizer{
		tables:     tables,
		categories: set,
		cache:      cache,
		classifier: classifier,
		log:        log,
	}
}

// Categorize resolves the category for tx. Resolution order: credit
// special-casing, keyword rules, cache, generative fallback. The
// resolved value from the fallback is written through to the cache
// immediately, catch-all coercions included, so a persistently bad
// merchant does not trigger repeated failing calls.
func (c *Categorizer) Categorize(ctx context.Context, tx *domain.Transaction) string {
	if tx.Direction == domain.DirectionCredit {
		if cat, ok := c.creditCategory(tx); ok {
			return cat
		}
	}

	if cat, ok := c.ruleCategory(tx.Merchant); ok {
		return cat
	}

	key := cacheKey(tx.Merchant)
	if cat, ok := c.cache.Get(key); ok {
		c.log.Debug().Str("merchant", tx.Merchant).Str("category", cat).Msg("Category cache hit")
		return cat
	}

	cat := c.classify(ctx, tx)

	c.cache.Put(key, cat)
	if err := c.cache.Flush(); err != nil {
		c.log.Warn().Err(err).Msg("Failed to persist category cache")
	}

	return cat
}

// creditCategory handles the credit-only special cases: salary-sized
// amounts, salary keywords, and refunds. Refunds consult only the
// keyword rules and then fall to the catch-all, never the cache or the
// model; a refund is either mirrored from a known merchant rule or left
// unclassified rather than guessed.
func (c *Categorizer) creditCategory(tx *domain.Transaction) (string, bool) {
	if tx.Amount.GreaterThanOrEqual(c.tables.SalaryThreshold) {
		return "Salary", true
	}

	if tx.Merchant == "" {
		return "", false
	}

	lower := strings.ToLower(tx.Merchant)
	if containsAny(lower, "salary", "payroll", "employer") {
		return "Salary", true
	}
	if containsAny(lower, "refund", "return") {
		if cat, ok := c.ruleCategory(tx.Merchant); ok {
			return cat, true
		}
		return c.tables.CatchAll, true
	}

	return "", false
}

// ruleCategory scans the ordered keyword rules; a keyword matches as a
// substring of the lowercased merchant text.
func (c *Categorizer) ruleCategory(merchant string) (string, bool) {
	if merchant == "" {
		return "", false
	}
	lower := strings.ToLower(merchant)
	for _, rule := range c.tables.MerchantRules {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Category, true
		}
	}
	return "", false
}

// classify invokes the generative fallback and coerces the result into
// the category set. Every failure mode lands on the catch-all.
func (c *Categorizer) classify(ctx context.Context, tx *domain.Transaction) string {
	cat, err := c.classifier.Classify(ctx, tx)
	if err != nil {
		c.log.Error().Err(err).Str("merchant", tx.Merchant).Msg("Classifier call failed")
		return c.tables.CatchAll
	}

	cat = strings.TrimSpace(cat)
	if !c.categories[cat] {
		c.log.Warn().Str("merchant", tx.Merchant).Str("reply", cat).Msg("Classifier returned unknown category")
		return c.tables.CatchAll
	}
	return cat
}

// cacheKey normalizes a merchant to its cache key: lowercased, capped at
// 50 chars, with a sentinel for absent merchants.
func cacheKey(merchant string) string {
	if merchant == "" {
		return "unknown"
	}
	key := strings.ToLower(merchant)
	runes := []rune(key)
	if len(runes) > cacheKeyMaxLen {
		key = string(runes[:cacheKeyMaxLen])
	}
	return key
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
