package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"ai-garden-planner/internal/llm"
	"ai-garden-planner/internal/plant"
	"ai-garden-planner/internal/shared"
)

// ErrNotFound reports that a name resolved through no tier. It is an
// explicit absence value, not a fault; callers check it with errors.Is.
var ErrNotFound = errors.New("plant not found")

// Outcome labels for generation metrics and logs. Timeouts and malformed
// responses both surface as ErrNotFound but are recorded distinctly.
const (
	OutcomeOK        = "ok"
	OutcomeTimeout   = "timeout"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)

// Resolution is the tagged result of a tiered lookup: the record plus the
// tier that produced it.
type Resolution struct {
	Record plant.Record
	Source plant.Source
}

// Catalog is the read-only curated tier.
type Catalog interface {
	Get(name string) (plant.Record, bool)
}

// Cache is the durable tier. Get returns (nil, nil) for absent names.
type Cache interface {
	Get(ctx context.Context, name string) (*plant.Record, error)
	Put(ctx context.Context, rec plant.Record, model string) error
	IncrementUsage(ctx context.Context, name string)
}

// MetricsRecorder receives one record per generation attempt.
type MetricsRecorder interface {
	RecordGeneration(meta shared.GenerationMeta) error
}

// inflightEntry is a coalescing handle for a single in-flight generation.
// It is resolved exactly once and then removed from the map.
type inflightEntry struct {
	done chan struct{}
	rec  plant.Record
	err  error
}

// Resolver orchestrates the three-tier lookup: catalog, durable cache, then
// on-demand generation. Concurrent requests for the same normalized name
// share one generation call through the coalescing map.
type Resolver struct {
	catalog Catalog
	cache   Cache
	textGen llm.TextGenerator
	timeout time.Duration
	metrics MetricsRecorder

	mu       sync.Mutex
	inflight map[string]*inflightEntry
}

// NewResolver creates a Resolver. The timeout bounds each generation call.
func NewResolver(catalog Catalog, cache Cache, textGen llm.TextGenerator, timeout time.Duration) *Resolver {
	return &Resolver{
		catalog:  catalog,
		cache:    cache,
		textGen:  textGen,
		timeout:  timeout,
		inflight: make(map[string]*inflightEntry),
	}
}

// SetMetricsRecorder attaches an optional recorder for generation metrics.
func (r *Resolver) SetMetricsRecorder(m MetricsRecorder) {
	r.metrics = m
}

// Resolve looks a plant up through the tiers. Catalog hits never perform
// I/O. When allowGeneration is false, a miss in both static tiers returns
// ErrNotFound without touching the generation client.
func (r *Resolver) Resolve(ctx context.Context, name string, allowGeneration bool) (Resolution, error) {
	key := plant.NormalizeName(name)
	if key == "" {
		return Resolution{}, ErrNotFound
	}

	if rec, ok := r.catalog.Get(key); ok {
		return Resolution{Record: rec, Source: plant.SourceCatalog}, nil
	}

	cached, err := r.cache.Get(ctx, key)
	if err != nil {
		return Resolution{}, fmt.Errorf("cache lookup for %q failed: %w", key, err)
	}
	if cached != nil {
		r.cache.IncrementUsage(ctx, key)
		return Resolution{Record: *cached, Source: plant.SourceCache}, nil
	}

	if !allowGeneration {
		return Resolution{}, ErrNotFound
	}

	entry, leader := r.acquire(key)
	if leader {
		r.generate(key, entry)
	}

	select {
	case <-entry.done:
	case <-ctx.Done():
		// Only this waiter gives up; the in-flight generation keeps
		// running for the others.
		return Resolution{}, ctx.Err()
	}

	if entry.err != nil {
		return Resolution{}, entry.err
	}
	return Resolution{Record: entry.rec, Source: plant.SourceGenerated}, nil
}

// acquire returns the coalescing entry for key, creating it if absent. The
// second return value reports whether the caller is the leader responsible
// for running the generation.
func (r *Resolver) acquire(key string) (*inflightEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.inflight[key]; ok {
		return entry, false
	}
	entry := &inflightEntry{done: make(chan struct{})}
	r.inflight[key] = entry
	return entry, true
}

// generate runs the single generation call for key and publishes the result
// to every waiter. The entry is removed from the map before done is closed,
// so a later call starts a fresh generation - failed names are never
// negatively cached.
func (r *Resolver) generate(key string, entry *inflightEntry) {
	defer func() {
		r.mu.Lock()
		delete(r.inflight, key)
		r.mu.Unlock()
		close(entry.done)
	}()

	// The generation runs on its own deadline, detached from any single
	// caller: waiters that hang up must not cancel the shared call.
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	resp, err := r.textGen.GenerateContent(ctx, buildPlantPrompt(key))
	latency := time.Since(start)

	if err != nil {
		outcome := OutcomeError
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			outcome = OutcomeTimeout
			log.Printf("Generation for %q timed out after %v", key, r.timeout)
		} else {
			log.Printf("Generation for %q failed: %v", key, err)
		}
		r.record(key, outcome, resp.Usage, latency)
		entry.err = ErrNotFound
		return
	}

	rec, err := plant.ParseGenerated(key, resp.Content)
	if err != nil {
		log.Printf("Generation for %q returned malformed data: %v", key, err)
		r.record(key, OutcomeMalformed, resp.Usage, latency)
		entry.err = ErrNotFound
		return
	}

	// Upsert before releasing the entry so waiters observing success can
	// rely on the cache tier from here on. A failed write degrades to
	// generation-only behavior and is not fatal.
	if err := r.cache.Put(ctx, rec, resp.Usage.Model); err != nil {
		log.Printf("Warning: failed to cache generated record for %q: %v", key, err)
	}

	r.record(key, OutcomeOK, resp.Usage, latency)
	entry.rec = rec
}

func (r *Resolver) record(key, outcome string, usage shared.TokenUsage, latency time.Duration) {
	if r.metrics == nil {
		return
	}
	err := r.metrics.RecordGeneration(shared.GenerationMeta{
		PlantName: key,
		Outcome:   outcome,
		Usage:     usage,
		Latency:   latency,
	})
	if err != nil {
		log.Printf("Warning: failed to record generation metric for %q: %v", key, err)
	}
}

// buildPlantPrompt asks the model for the exact JSON attribute set that
// plant.ParseGenerated understands.
func buildPlantPrompt(name string) string {
	return fmt.Sprintf(`
You are an expert gardener and botanist. Provide detailed growing information for the plant: "%s"

Respond with ONLY a valid JSON object that matches this exact structure:
{
  "name": "%s",
  "scientific_name": "Scientific name if known, or null",
  "plant_type": "vegetable, herb, fruit, or flower",
  "days_to_harvest": 60,
  "spacing_inches": 12,
  "planting_depth_inches": 0.5,
  "sun_requirements": "full sun, partial shade, or shade",
  "water_requirements": "low, moderate, or high",
  "soil_ph_range": "6.0-7.0",
  "companion_plants": ["plant1", "plant2", "plant3"],
  "avoid_planting_with": ["plant1", "plant2"]
}

Requirements:
- Use realistic growing data based on standard gardening practices
- Include 3-5 companion plants that actually grow well together
- Include plants to avoid if any (can be empty array)
- Use only these sun_requirements values: "full sun", "partial shade", "shade"
- Use only these water_requirements values: "low", "moderate", "high"
- Provide soil pH as a range like "6.0-7.0"
- If the plant does not exist or you are unsure, return null

Plant to research: %s
`, name, name, name)
}
