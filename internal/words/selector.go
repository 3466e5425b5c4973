package words

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"dreamgen/internal/types"
)

const maxSelectionAttempts = 100

// ErrSelectionExhausted is returned when no globally unique selection was
// found within the attempt budget.
var ErrSelectionExhausted = errors.New("could not generate unique words after 100 attempts")

// ErrInsufficientWords is returned when a category list is too short for
// its largest per-difficulty draw.
var ErrInsufficientWords = errors.New("insufficient words in category list")

// Sets holds the selected words for each difficulty of one generation run.
type Sets struct {
	Easy     []types.Word
	Medium   []types.Word
	Hard     []types.Word
	Dreaming []types.Word
}

// All iterates every selected word across the four difficulties.
func (s *Sets) All() []types.Word {
	all := make([]types.Word, 0, len(s.Easy)+len(s.Medium)+len(s.Hard)+len(s.Dreaming))
	all = append(all, s.Easy...)
	all = append(all, s.Medium...)
	all = append(all, s.Hard...)
	all = append(all, s.Dreaming...)
	return all
}

// Selector draws random word sets from a catalog while enforcing
// case-insensitive uniqueness across all four difficulties of a day.
type Selector struct {
	catalog *Catalog
	rng     *rand.Rand
	logger  *zap.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithRand overrides the random source, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) { s.rng = rng }
}

// NewSelector builds a selector over catalog.
func NewSelector(catalog *Catalog, logger *zap.Logger, opts ...Option) *Selector {
	s := &Selector{catalog: catalog, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select produces one complete set of easy/medium/hard/dreaming words.
//
// Collisions between independently drawn groups are rare but legitimate
// (a word may be drawn for two difficulties), so selection is rejection
// sampled: draw, check global uniqueness, repeat up to the attempt budget.
func (s *Selector) Select() (*Sets, error) {
	if err := s.checkCounts(); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxSelectionAttempts; attempt++ {
		sets, err := s.draw()
		if err != nil {
			return nil, err
		}
		if allWordsUnique(sets) {
			return sets, nil
		}
		s.logger.Debug("rejecting word selection with duplicates",
			zap.Int("attempt", attempt))
	}

	return nil, ErrSelectionExhausted
}

// checkCounts verifies every category can serve its largest single draw:
// easy needs 3 objects, hard needs 2 gerunds, dreaming needs 1 concept.
func (s *Selector) checkCounts() error {
	checks := []struct {
		category string
		have     int
		need     int
	}{
		{"objects", len(s.catalog.Objects), 3},
		{"gerunds", len(s.catalog.Gerunds), 2},
		{"concepts", len(s.catalog.Concepts), 1},
	}
	for _, c := range checks {
		if c.have < c.need {
			return fmt.Errorf("%w: %s has %d entries, need at least %d",
				ErrInsufficientWords, c.category, c.have, c.need)
		}
	}
	return nil
}

func (s *Selector) draw() (*Sets, error) {
	easy, err := s.sample(s.catalog.Objects, 3, types.WordTypeObject)
	if err != nil {
		return nil, err
	}

	medium, err := s.sample(s.catalog.Objects, 2, types.WordTypeObject)
	if err != nil {
		return nil, err
	}
	mediumGerund, err := s.sample(s.catalog.Gerunds, 1, types.WordTypeGerund)
	if err != nil {
		return nil, err
	}
	medium = append(medium, mediumGerund...)

	hard, err := s.sample(s.catalog.Objects, 1, types.WordTypeObject)
	if err != nil {
		return nil, err
	}
	hardGerunds, err := s.sample(s.catalog.Gerunds, 2, types.WordTypeGerund)
	if err != nil {
		return nil, err
	}
	hard = append(hard, hardGerunds...)

	dreaming := make([]types.Word, 0, 3)
	for _, part := range []struct {
		list     []string
		wordType types.WordType
	}{
		{s.catalog.Objects, types.WordTypeObject},
		{s.catalog.Gerunds, types.WordTypeGerund},
		{s.catalog.Concepts, types.WordTypeConcept},
	} {
		drawn, err := s.sample(part.list, 1, part.wordType)
		if err != nil {
			return nil, err
		}
		dreaming = append(dreaming, drawn...)
	}

	return &Sets{Easy: easy, Medium: medium, Hard: hard, Dreaming: dreaming}, nil
}

// sample draws count distinct words from list without replacement.
func (s *Selector) sample(list []string, count int, wordType types.WordType) ([]types.Word, error) {
	if len(list) < count {
		return nil, fmt.Errorf("%w: %s list has %d entries, need %d",
			ErrInsufficientWords, wordType, len(list), count)
	}

	perm := s.perm(len(list))
	selected := make([]types.Word, 0, count)
	for _, idx := range perm[:count] {
		selected = append(selected, types.Word{Word: list[idx], Type: wordType})
	}
	return selected, nil
}

func (s *Selector) perm(n int) []int {
	if s.rng != nil {
		return s.rng.Perm(n)
	}
	return rand.Perm(n)
}

func allWordsUnique(sets *Sets) bool {
	seen := make(map[string]struct{})
	for _, word := range sets.All() {
		key := strings.ToLower(word.Word)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}
