// Package types defines the shared data model for daily challenge
// generation: words, challenges, the published day record, and the
// date-to-id index that keeps day identifiers stable across re-runs.
package types

import "encoding/json"

// WordType categorizes a word by its grammatical role in a challenge.
type WordType string

const (
	WordTypeObject  WordType = "object"
	WordTypeGerund  WordType = "gerund"
	WordTypeConcept WordType = "concept"
)

// Difficulty is one of the four fixed tiers generated per day.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyMedium   Difficulty = "medium"
	DifficultyHard     Difficulty = "hard"
	DifficultyDreaming Difficulty = "dreaming"
)

// Difficulties returns the four tiers in publication order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyDreaming}
}

// Word is a single selected word. Immutable once selected.
type Word struct {
	Word string   `json:"word"`
	Type WordType `json:"type"`
}

// Challenge is the published unit for one difficulty. It is constructed
// once by the pipeline and never mutated afterwards.
type Challenge struct {
	Words        []Word `json:"words"`
	ImagePath    string `json:"image_path"`
	ImageURLJPG  string `json:"image_url_jpg"`
	ImageURLWebP string `json:"image_url_webp"`
	Prompt       string `json:"prompt"`
}

// Challenges holds the four per-difficulty challenges of a day.
type Challenges struct {
	Easy     Challenge `json:"easy"`
	Medium   Challenge `json:"medium"`
	Hard     Challenge `json:"hard"`
	Dreaming Challenge `json:"dreaming"`
}

// Day is the full published record for one calendar date.
type Day struct {
	Date       string     `json:"date"` // YYYY-MM-DD
	ID         uint32     `json:"id"`
	Challenges Challenges `json:"challenges"`
}

// DateEntry maps one date to its stable day ID.
type DateEntry struct {
	Date string `json:"date"`
	ID   uint32 `json:"id"`
}

// Days is the append-only date index. Each date appears at most once.
type Days struct {
	Days []DateEntry `json:"days"`
}

// NewDays returns an empty index.
func NewDays() *Days {
	return &Days{Days: []DateEntry{}}
}

// ParseDays decodes an index from its JSON representation.
func ParseDays(data []byte) (*Days, error) {
	var days Days
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, err
	}
	if days.Days == nil {
		days.Days = []DateEntry{}
	}
	return &days, nil
}

// AddDay appends an entry for date with the given id.
func (d *Days) AddDay(date string, id uint32) {
	d.Days = append(d.Days, DateEntry{Date: date, ID: id})
}

// FindByDate returns the entry for date, or nil when absent.
func (d *Days) FindByDate(date string) *DateEntry {
	for i := range d.Days {
		if d.Days[i].Date == date {
			return &d.Days[i]
		}
	}
	return nil
}

// MaxID returns the largest assigned ID, or 0 for an empty index.
func (d *Days) MaxID() uint32 {
	var max uint32
	for _, entry := range d.Days {
		if entry.ID > max {
			max = entry.ID
		}
	}
	return max
}
