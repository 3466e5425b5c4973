package semantic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
		ok   bool
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1, true},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0, true},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1, true},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0, false},
		{"empty", nil, nil, 0, false},
		{"zero magnitude", []float32{0, 0}, []float32{1, 0}, 0, false},
		{"non-finite", []float32{float32(math.Inf(1)), 0}, []float32{1, 0}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CosineSimilarity(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-5)
			}
		})
	}
}

func TestFindSimilarPairs(t *testing.T) {
	words := []string{"boat", "ship", "cloud"}
	embeddings := [][]float32{
		{1, 0},
		{0.95, 0.05},
		{0, 1},
	}

	pairs, err := FindSimilarPairs(words, embeddings, 0.9)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "boat", pairs[0].Left)
	assert.Equal(t, "ship", pairs[0].Right)
	assert.Greater(t, pairs[0].Similarity, float32(0.9))
}

func TestFindSimilarPairsSortedDescending(t *testing.T) {
	words := []string{"a", "b", "c"}
	embeddings := [][]float32{
		{1, 0},
		{0.99, 0.01},
		{0.9, 0.1},
	}

	pairs, err := FindSimilarPairs(words, embeddings, 0.5)
	require.NoError(t, err)
	require.True(t, len(pairs) >= 2)
	for i := 1; i < len(pairs); i++ {
		assert.GreaterOrEqual(t, pairs[i-1].Similarity, pairs[i].Similarity)
	}
}

func TestFindSimilarPairsLengthMismatch(t *testing.T) {
	_, err := FindSimilarPairs([]string{"a", "b"}, [][]float32{{1}}, 0.5)
	assert.Error(t, err)
}

func TestFindSimilarPairsSkipsUncomputable(t *testing.T) {
	words := []string{"a", "b"}
	embeddings := [][]float32{
		{0, 0}, // zero magnitude, skipped
		{1, 0},
	}

	pairs, err := FindSimilarPairs(words, embeddings, 0.0)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestFindSimilarPairsBetween(t *testing.T) {
	left := []string{"boat"}
	right := []string{"ship", "cloud"}
	leftEmb := [][]float32{{1, 0}}
	rightEmb := [][]float32{{0.97, 0.03}, {0, 1}}

	pairs, err := FindSimilarPairsBetween(left, leftEmb, right, rightEmb, 0.9)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "boat", pairs[0].Left)
	assert.Equal(t, "ship", pairs[0].Right)
}
