package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"ai-garden-planner/internal/llm"
	"ai-garden-planner/internal/location"
	"ai-garden-planner/internal/plant"
	"ai-garden-planner/internal/resolver"
	"ai-garden-planner/internal/schedule"
)

// ErrTooManyPlants reports a request over the configured plant limit.
var ErrTooManyPlants = errors.New("too many plants requested")

// ErrNoPlantsRequested reports an empty selection after de-duplication.
var ErrNoPlantsRequested = errors.New("no plants requested")

// ErrNoPlantsResolved reports that no requested name resolved through any
// tier, so there is nothing to plan.
var ErrNoPlantsResolved = errors.New("no plants could be resolved")

// PlantResolver is the tiered lookup the synthesizer composes plans from.
type PlantResolver interface {
	Resolve(ctx context.Context, name string, allowGeneration bool) (resolver.Resolution, error)
}

// PlanStore persists finished plans. A nil store skips persistence.
type PlanStore interface {
	Save(ctx context.Context, plan *GardenPlan) error
}

// Options controls one synthesize call.
type Options struct {
	// IncludeGenerated allows on-demand generation for names missing
	// from catalog and cache.
	IncludeGenerated bool
	// EnrichInstructions runs the best-effort model pass over the
	// deterministic instruction templates.
	EnrichInstructions bool
}

// Synthesizer composes resolved plants, schedules, instructions, and layout
// advice into immutable garden plans.
type Synthesizer struct {
	resolver  PlantResolver
	textGen   llm.TextGenerator
	store     PlanStore
	maxPlants int
}

// NewSynthesizer creates a Synthesizer. textGen may be nil to disable
// instruction enrichment; store may be nil to skip persistence.
func NewSynthesizer(res PlantResolver, textGen llm.TextGenerator, store PlanStore, maxPlants int) *Synthesizer {
	return &Synthesizer{
		resolver:  res,
		textGen:   textGen,
		store:     store,
		maxPlants: maxPlants,
	}
}

type resolveOutcome struct {
	res resolver.Resolution
	err error
}

// Synthesize builds a plan for the requested plants at the given location.
// Names that fail to resolve are dropped from every derived section and
// listed under Unresolved; the call fails only when nothing resolves at all.
func (s *Synthesizer) Synthesize(ctx context.Context, loc location.Profile, requestedNames []string, opts Options) (*GardenPlan, error) {
	names := dedupeNames(requestedNames)
	if len(names) == 0 {
		return nil, ErrNoPlantsRequested
	}
	if len(names) > s.maxPlants {
		return nil, fmt.Errorf("%w: %d requested, limit is %d", ErrTooManyPlants, len(names), s.maxPlants)
	}
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid location profile: %w", err)
	}

	// Distinct names resolve in parallel; outcome slots keep the
	// caller's requested order regardless of completion order.
	outcomes := make([]resolveOutcome, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			res, err := s.resolver.Resolve(ctx, name, opts.IncludeGenerated)
			outcomes[i] = resolveOutcome{res: res, err: err}
		}(i, name)
	}
	wg.Wait()

	plan := &GardenPlan{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Location:  loc,
	}
	for i, name := range names {
		if err := outcomes[i].err; err != nil {
			if !errors.Is(err, resolver.ErrNotFound) {
				log.Printf("Warning: resolving %q failed: %v", name, err)
			}
			plan.Unresolved = append(plan.Unresolved, name)
			continue
		}
		res := outcomes[i].res
		entry := PlantEntry{
			Record:   res.Record,
			Source:   res.Source,
			Schedule: schedule.Compute(res.Record, loc),
		}
		entry.Instructions = buildInstructions(entry.Record, entry.Schedule, loc)
		if opts.EnrichInstructions && s.textGen != nil {
			entry.Instructions = enrichInstructions(ctx, s.textGen, entry.Record, loc, entry.Instructions)
		}
		plan.PlantNames = append(plan.PlantNames, res.Record.Name)
		plan.Plants = append(plan.Plants, entry)
	}

	if len(plan.Plants) == 0 {
		return nil, fmt.Errorf("%w: %d name(s) requested", ErrNoPlantsResolved, len(names))
	}

	plan.Layout = buildLayout(plan.Plants)
	plan.GeneralTips = buildGeneralTips(plan.Plants, loc)

	if s.store != nil {
		if err := s.store.Save(ctx, plan); err != nil {
			return nil, fmt.Errorf("failed to save plan %s: %w", plan.ID, err)
		}
	}
	return plan, nil
}

// dedupeNames drops blanks and duplicates, preserving first-occurrence
// order. Duplicates are compared by normalized name.
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		key := plant.NormalizeName(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}
