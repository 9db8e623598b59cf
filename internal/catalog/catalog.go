package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"ai-garden-planner/internal/plant"
)

//go:embed plants.json
var plantsFS embed.FS

// Store is the read-only, in-memory catalog of curated plant records. It is
// loaded once at startup and never mutated afterwards; lookups never perform
// I/O.
type Store struct {
	plants map[string]plant.Record
}

// Load parses the embedded dataset and builds the catalog. Every record is
// validated; a broken dataset is a build artifact problem and fails loudly.
func Load() (*Store, error) {
	data, err := plantsFS.ReadFile("plants.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded plant dataset: %w", err)
	}

	var records []plant.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse plant dataset: %w", err)
	}

	plants := make(map[string]plant.Record, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog record: %w", err)
		}
		plants[rec.Key()] = rec
	}

	return &Store{plants: plants}, nil
}

// Get returns the catalog record for a name, keyed by normalized name.
func (s *Store) Get(name string) (plant.Record, bool) {
	rec, ok := s.plants[plant.NormalizeName(name)]
	return rec, ok
}

// All returns every catalog record ordered by name.
func (s *Store) All() []plant.Record {
	out := make([]plant.Record, 0, len(s.plants))
	for _, rec := range s.plants {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Len returns the number of catalog records.
func (s *Store) Len() int {
	return len(s.plants)
}
