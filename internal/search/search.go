package search

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"ai-garden-planner/internal/plant"
	"ai-garden-planner/internal/resolver"
)

const defaultLimit = 20

// Result is one ranked search hit, tagged with the tier that produced it
// and how long the search had been running when the hit was produced.
type Result struct {
	Record  plant.Record  `json:"record"`
	Source  plant.Source  `json:"source"`
	Elapsed time.Duration `json:"elapsed"`
}

// Catalog is the read-only curated tier of the index.
type Catalog interface {
	All() []plant.Record
}

// CacheSearcher walks the durable cache for substring matches.
type CacheSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]plant.Record, error)
}

// Generator is the optional fall-through used when nothing matches; it is
// satisfied by *resolver.Resolver.
type Generator interface {
	Resolve(ctx context.Context, name string, allowGeneration bool) (resolver.Resolution, error)
}

// Index provides ranked free-text lookup over catalog and cache. Exact
// name matches rank first, then prefix matches, then substring matches;
// ties break catalog-before-cache, then alphabetically.
type Index struct {
	catalog   Catalog
	cache     CacheSearcher
	generator Generator
}

// NewIndex builds an index. The generator may be nil, which disables the
// generation fall-through regardless of the includeGenerated flag.
func NewIndex(catalog Catalog, cache CacheSearcher, generator Generator) *Index {
	return &Index{catalog: catalog, cache: cache, generator: generator}
}

type rankedResult struct {
	Result
	rank       int
	sourceRank int
	key        string
}

// Search runs a ranked lookup. It returns an empty list, never an error,
// when nothing matches and generation is disallowed or fails.
func (ix *Index) Search(ctx context.Context, query string, includeGenerated bool, limit int) []Result {
	start := time.Now()
	q := plant.NormalizeName(query)
	if q == "" {
		return []Result{}
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	var ranked []rankedResult
	seen := make(map[string]bool)

	for _, rec := range ix.catalog.All() {
		if r, ok := rankMatch(rec, q); ok {
			r.Source = plant.SourceCatalog
			r.sourceRank = 0
			ranked = append(ranked, r)
			seen[r.key] = true
		}
	}

	// A cache fault degrades search to the catalog tier instead of
	// failing the whole query.
	cached, err := ix.cache.Search(ctx, q, limit*2)
	if err != nil {
		log.Printf("Warning: cache search for %q failed, using catalog only: %v", q, err)
	}
	for _, rec := range cached {
		if seen[rec.Key()] {
			continue
		}
		if r, ok := rankMatch(rec, q); ok {
			r.Source = plant.SourceCache
			r.sourceRank = 1
			ranked = append(ranked, r)
			seen[r.key] = true
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].rank != ranked[j].rank {
			return ranked[i].rank < ranked[j].rank
		}
		if ranked[i].sourceRank != ranked[j].sourceRank {
			return ranked[i].sourceRank < ranked[j].sourceRank
		}
		return ranked[i].key < ranked[j].key
	})

	elapsed := time.Since(start)
	results := make([]Result, 0, len(ranked))
	for _, r := range ranked {
		if len(results) == limit {
			break
		}
		r.Result.Elapsed = elapsed
		results = append(results, r.Result)
	}

	if len(results) == 0 && includeGenerated && ix.generator != nil {
		res, err := ix.generator.Resolve(ctx, q, true)
		if err == nil {
			results = append(results, Result{
				Record:  res.Record,
				Source:  res.Source,
				Elapsed: time.Since(start),
			})
		} else {
			log.Printf("Search fall-through generation for %q produced nothing: %v", q, err)
		}
	}

	return results
}

// rankMatch scores a record against a normalized query: 0 exact, 1 prefix,
// 2 substring. Non-matching records are rejected.
func rankMatch(rec plant.Record, q string) (rankedResult, bool) {
	key := rec.Key()
	var rank int
	switch {
	case key == q:
		rank = 0
	case strings.HasPrefix(key, q):
		rank = 1
	case strings.Contains(key, q):
		rank = 2
	default:
		return rankedResult{}, false
	}
	return rankedResult{
		Result: Result{Record: rec},
		rank:   rank,
		key:    key,
	}, true
}
