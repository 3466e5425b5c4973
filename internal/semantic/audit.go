package semantic

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dreamgen/internal/ai"
	"dreamgen/internal/words"
)

// AuditOptions controls the word-list similarity audit.
type AuditOptions struct {
	Threshold           float32
	BatchSize           int
	MaxPairsPerCategory int
}

// Validate rejects out-of-range options.
func (o AuditOptions) Validate() error {
	if o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("threshold must be between 0.0 and 1.0")
	}
	if o.BatchSize < 1 {
		return fmt.Errorf("batch size must be >= 1")
	}
	if o.MaxPairsPerCategory < 1 {
		return fmt.Errorf("max pairs must be >= 1")
	}
	return nil
}

// PairReport summarizes the matches for one comparison section.
type PairReport struct {
	FlaggedPairs  int           `json:"flagged_pairs"`
	ReportedPairs int           `json:"reported_pairs"`
	Truncated     bool          `json:"truncated"`
	Pairs         []SimilarPair `json:"pairs"`
}

// CategoryReport covers within-category similarity for one word list.
type CategoryReport struct {
	Category   string `json:"category"`
	TotalWords int    `json:"total_words"`
	PairReport
}

// CrossCategoryReport covers similarity between two word lists.
type CrossCategoryReport struct {
	LeftCategory  string `json:"left_category"`
	RightCategory string `json:"right_category"`
	PairReport
}

// AuditReport is the full machine-readable audit result.
type AuditReport struct {
	Threshold     float32               `json:"threshold"`
	BatchSize     int                   `json:"batch_size"`
	Categories    []CategoryReport      `json:"categories"`
	CrossCategory []CrossCategoryReport `json:"cross_category"`
}

type category struct {
	name  string
	words []string
}

// Audit embeds every catalog word (deduplicated case-insensitively
// across categories, batched per request) and reports word pairs whose
// cosine similarity reaches the threshold, within each category and
// across each category pair.
func Audit(ctx context.Context, embedder ai.Embedder, catalog *words.Catalog, opts AuditOptions, logger *zap.Logger) (*AuditReport, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	categories := []category{
		{name: "objects", words: catalog.Objects},
		{name: "gerunds", words: catalog.Gerunds},
		{name: "concepts", words: catalog.Concepts},
	}

	unique := collectUniqueWords(categories)
	logger.Info("embedding catalog words",
		zap.Int("unique_words", len(unique)),
		zap.Int("batch_size", opts.BatchSize))

	embeddings, err := embedAll(ctx, embedder, unique, opts.BatchSize)
	if err != nil {
		return nil, err
	}

	vectors := make([][][]float32, len(categories))
	for i, cat := range categories {
		vectors[i], err = resolveVectors(cat.words, embeddings)
		if err != nil {
			return nil, err
		}
	}

	report := &AuditReport{Threshold: opts.Threshold, BatchSize: opts.BatchSize}

	for i, cat := range categories {
		pairs, err := FindSimilarPairs(cat.words, vectors[i], opts.Threshold)
		if err != nil {
			return nil, err
		}
		report.Categories = append(report.Categories, CategoryReport{
			Category:   cat.name,
			TotalWords: len(cat.words),
			PairReport: buildPairReport(pairs, opts.MaxPairsPerCategory),
		})
	}

	for i := 0; i < len(categories); i++ {
		for j := i + 1; j < len(categories); j++ {
			pairs, err := FindSimilarPairsBetween(
				categories[i].words, vectors[i],
				categories[j].words, vectors[j],
				opts.Threshold)
			if err != nil {
				return nil, err
			}
			report.CrossCategory = append(report.CrossCategory, CrossCategoryReport{
				LeftCategory:  categories[i].name,
				RightCategory: categories[j].name,
				PairReport:    buildPairReport(pairs, opts.MaxPairsPerCategory),
			})
		}
	}

	return report, nil
}

func canonicalWordKey(word string) string {
	return strings.ToLower(word)
}

// collectUniqueWords dedupes words across categories so each word is
// embedded once, preserving first-seen order.
func collectUniqueWords(categories []category) []string {
	seen := make(map[string]struct{})
	var unique []string
	for _, cat := range categories {
		for _, word := range cat.words {
			key := canonicalWordKey(word)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			unique = append(unique, word)
		}
	}
	return unique
}

// embedAll embeds the unique word list in batches and indexes vectors by
// canonical word key.
func embedAll(ctx context.Context, embedder ai.Embedder, unique []string, batchSize int) (map[string][]float32, error) {
	out := make(map[string][]float32, len(unique))
	for start := 0; start < len(unique); start += batchSize {
		end := start + batchSize
		if end > len(unique) {
			end = len(unique)
		}
		batch := unique[start:end]

		vectors, err := embedder.EmbedBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embed batch starting at %d: %w", start, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embed batch starting at %d: expected %d vectors, got %d",
				start, len(batch), len(vectors))
		}
		for i, word := range batch {
			out[canonicalWordKey(word)] = vectors[i]
		}
	}
	return out, nil
}

func resolveVectors(list []string, embeddings map[string][]float32) ([][]float32, error) {
	vectors := make([][]float32, len(list))
	for i, word := range list {
		vec, ok := embeddings[canonicalWordKey(word)]
		if !ok {
			return nil, fmt.Errorf("missing embedding for word %q", word)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func buildPairReport(pairs []SimilarPair, maxPairs int) PairReport {
	flagged := len(pairs)
	truncated := flagged > maxPairs
	if truncated {
		pairs = pairs[:maxPairs]
	}
	return PairReport{
		FlaggedPairs:  flagged,
		ReportedPairs: len(pairs),
		Truncated:     truncated,
		Pairs:         pairs,
	}
}
