// Package semantic provides the cosine-similarity helpers behind the
// word-list audit tooling.
package semantic

import (
	"fmt"
	"math"
	"sort"
)

// SimilarPair is one word pair whose embeddings scored at or above the
// audit threshold.
type SimilarPair struct {
	Left       string  `json:"left"`
	Right      string  `json:"right"`
	Similarity float32 `json:"similarity"`
}

// CosineSimilarity computes the cosine similarity of two embedding
// vectors. The boolean result is false when the vectors have different
// lengths, are empty, contain non-finite values, or either has zero
// magnitude.
func CosineSimilarity(a, b []float32) (float32, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if math.IsInf(dot, 0) || math.IsNaN(dot) || math.IsInf(normA, 0) || math.IsInf(normB, 0) {
		return 0, false
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB))), true
}

// collectPairs enumerates pairs for both within-group and cross-group
// modes. With sameGroup, comparisons start at i+1 to avoid duplicate and
// self pairs.
func collectPairs(leftWords []string, leftEmbeddings [][]float32, rightWords []string, rightEmbeddings [][]float32, threshold float32, sameGroup bool) []SimilarPair {
	var out []SimilarPair

	for i := range leftWords {
		jStart := 0
		if sameGroup {
			jStart = i + 1
		}
		for j := jStart; j < len(rightWords); j++ {
			similarity, ok := CosineSimilarity(leftEmbeddings[i], rightEmbeddings[j])
			if !ok || similarity < threshold {
				continue
			}
			out = append(out, SimilarPair{
				Left:       leftWords[i],
				Right:      rightWords[j],
				Similarity: similarity,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	return out
}

// FindSimilarPairs returns all unique word pairs within one group whose
// similarity is at or above threshold, sorted descending. Pairs whose
// similarity cannot be computed are skipped. O(n^2) over the word count.
func FindSimilarPairs(words []string, embeddings [][]float32, threshold float32) ([]SimilarPair, error) {
	if len(words) != len(embeddings) {
		return nil, fmt.Errorf("words/embeddings length mismatch: words=%d, embeddings=%d",
			len(words), len(embeddings))
	}
	return collectPairs(words, embeddings, words, embeddings, threshold, true), nil
}

// FindSimilarPairsBetween returns similar pairs across two word groups.
func FindSimilarPairsBetween(leftWords []string, leftEmbeddings [][]float32, rightWords []string, rightEmbeddings [][]float32, threshold float32) ([]SimilarPair, error) {
	if len(leftWords) != len(leftEmbeddings) {
		return nil, fmt.Errorf("left words/embeddings length mismatch: words=%d, embeddings=%d",
			len(leftWords), len(leftEmbeddings))
	}
	if len(rightWords) != len(rightEmbeddings) {
		return nil, fmt.Errorf("right words/embeddings length mismatch: words=%d, embeddings=%d",
			len(rightWords), len(rightEmbeddings))
	}
	return collectPairs(leftWords, leftEmbeddings, rightWords, rightEmbeddings, threshold, false), nil
}
