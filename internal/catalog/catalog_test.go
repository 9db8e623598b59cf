package catalog

import (
	"testing"

	"ai-garden-planner/internal/plant"
)

func TestLoad(t *testing.T) {
	store, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if store.Len() == 0 {
		t.Fatal("Expected catalog to contain records, got 0")
	}
}

func TestGet(t *testing.T) {
	store, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	t.Run("CaseInsensitive", func(t *testing.T) {
		for _, name := range []string{"Tomato", "tomato", "  TOMATO  "} {
			rec, ok := store.Get(name)
			if !ok {
				t.Fatalf("Expected to find %q in catalog", name)
			}
			if rec.Name != "Tomato" {
				t.Errorf("Expected record name 'Tomato', got %q", rec.Name)
			}
			if rec.DaysToHarvest != 75 {
				t.Errorf("Expected 75 days to harvest for tomato, got %d", rec.DaysToHarvest)
			}
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, ok := store.Get("durian"); ok {
			t.Error("Did not expect to find durian in the curated catalog")
		}
	})
}

func TestAllSortedAndValid(t *testing.T) {
	store, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	all := store.All()
	if len(all) != store.Len() {
		t.Fatalf("All returned %d records, Len reports %d", len(all), store.Len())
	}
	for i, rec := range all {
		if err := rec.Validate(); err != nil {
			t.Errorf("Catalog record %q is invalid: %v", rec.Name, err)
		}
		if i > 0 && plant.NormalizeName(all[i-1].Name) > plant.NormalizeName(rec.Name) {
			t.Errorf("Catalog records out of order at index %d (%q after %q)", i, rec.Name, all[i-1].Name)
		}
	}
}
