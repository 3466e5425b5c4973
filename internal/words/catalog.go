// Package words selects the per-day word groups for all four
// difficulties from categorized word lists.
package words

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Catalog holds the three category word lists, loaded once at startup.
type Catalog struct {
	Objects  []string
	Gerunds  []string
	Concepts []string
}

// LoadWordList reads a single JSON word-list file (an array of strings).
func LoadWordList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word list %s: %w", path, err)
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse word list %s: %w", path, err)
	}
	return list, nil
}

// LoadCatalog loads objects.json, gerunds.json and concepts.json from dataDir.
func LoadCatalog(dataDir string) (*Catalog, error) {
	objects, err := LoadWordList(filepath.Join(dataDir, "objects.json"))
	if err != nil {
		return nil, err
	}
	gerunds, err := LoadWordList(filepath.Join(dataDir, "gerunds.json"))
	if err != nil {
		return nil, err
	}
	concepts, err := LoadWordList(filepath.Join(dataDir, "concepts.json"))
	if err != nil {
		return nil, err
	}
	return &Catalog{Objects: objects, Gerunds: gerunds, Concepts: concepts}, nil
}
