// Package gen is the procedural task generator framework. One Generator
// per archetype, all registered in one explicitly built Registry.
// Registration never happens as an import-time side effect, so partial
// imports cannot drop or duplicate archetypes.
package gen

import (
	"fmt"
	"sort"

	"github.com/soupgym/soupgym/internal/domain"
)

// Generator produces TaskInstances for one archetype. Generate must be
// a pure function of the seed: identical seeds yield byte-identical
// instances across processes and runs.
type Generator interface {
	ID() string
	// OptimalCalls is the weighted tool budget below which the
	// efficiency multiplier stays at 1.0.
	OptimalCalls() float64
	Generate(seed uint64) (*domain.TaskInstance, error)
}

// Registry maps archetype ids to generators. Built once at startup.
type Registry struct {
	byID map[string]Generator
	ids  []string
}

// NewRegistry builds the static archetype table. Duplicate ids are a
// programming error and fail construction.
func NewRegistry(gens ...Generator) (*Registry, error) {
	r := &Registry{byID: make(map[string]Generator, len(gens))}
	for _, g := range gens {
		id := g.ID()
		if _, dup := r.byID[id]; dup {
			return nil, fmt.Errorf("archetype %q registered twice", id)
		}
		r.byID[id] = g
		r.ids = append(r.ids, id)
	}
	sort.Strings(r.ids)
	return r, nil
}

// IDs returns the registered archetype ids in sorted order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Lookup returns the generator for an archetype id.
func (r *Registry) Lookup(archetypeID string) (Generator, error) {
	g, ok := r.byID[archetypeID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownArchetype, archetypeID)
	}
	return g, nil
}

// Generate produces the instance for (archetypeID, seed) and verifies
// the archetype contract before releasing it. A contract violation is a
// generator bug and fails loudly instead of reaching the grader.
func (r *Registry) Generate(archetypeID string, seed uint64) (*domain.TaskInstance, error) {
	g, err := r.Lookup(archetypeID)
	if err != nil {
		return nil, err
	}
	task, err := g.Generate(seed)
	if err != nil {
		return nil, fmt.Errorf("archetype %q: %w", archetypeID, err)
	}
	if err := CheckConsistency(task); err != nil {
		return nil, fmt.Errorf("archetype %q seed %d: %w", archetypeID, seed, err)
	}
	if task.ArchetypeID != archetypeID || task.Seed != seed {
		return nil, fmt.Errorf("archetype %q seed %d: instance labeled (%q, %d): %w",
			archetypeID, seed, task.ArchetypeID, task.Seed, domain.ErrTaskInconsistent)
	}
	if task.OptimalCalls <= 0 {
		task.OptimalCalls = g.OptimalCalls()
	}
	return task, nil
}

// LimitReasons returns the union of abstention reasons any registered
// archetype can require, sorted. This is the vocabulary exposed to
// agents; it deliberately does not reveal which instances are solvable.
func (r *Registry) LimitReasons() []string {
	seen := map[string]bool{}
	for _, g := range r.byID {
		// Reasons are declared per instance; probe with seed 0. Safe
		// because generators are pure and the reason set is fixed per
		// archetype, not per seed.
		t, err := g.Generate(0)
		if err != nil || t.Limitation == nil {
			continue
		}
		for _, lr := range t.Limitation.Reasons {
			seen[lr.Reason] = true
		}
	}
	out := make([]string, 0, len(seen))
	for reason := range seen {
		out = append(out, reason)
	}
	sort.Strings(out)
	return out
}

// CheckConsistency enforces the archetype contract on a generated
// instance: solvable tasks carry a ground truth matching their schema,
// unsolvable tasks carry a limitation spec whose every evidence
// signature provably occurs in the artifact.
func CheckConsistency(t *domain.TaskInstance) error {
	if t.Artifact == "" {
		return fmt.Errorf("empty artifact: %w", domain.ErrTaskInconsistent)
	}
	if t.Solvable {
		if t.GroundTruth == nil {
			return domain.ErrMissingGroundTruth
		}
		if t.Limitation != nil {
			return fmt.Errorf("solvable task carries a limitation spec: %w", domain.ErrTaskInconsistent)
		}
		if err := checkGroundTruthShape(t); err != nil {
			return err
		}
		return nil
	}

	if t.GroundTruth != nil {
		return fmt.Errorf("unsolvable task carries a ground truth: %w", domain.ErrTaskInconsistent)
	}
	if t.Limitation == nil || len(t.Limitation.Reasons) == 0 {
		return domain.ErrMissingLimitation
	}
	for _, lr := range t.Limitation.Reasons {
		if lr.Reason == "" || len(lr.Signatures) == 0 {
			return fmt.Errorf("limitation reason without signatures: %w", domain.ErrTaskInconsistent)
		}
		for _, sig := range lr.Signatures {
			present, err := sig.PresentIn(t.Artifact)
			if err != nil {
				return fmt.Errorf("signature for %q: %w", lr.Reason, err)
			}
			if !present {
				return fmt.Errorf("reason %q: %w", lr.Reason, domain.ErrEvidenceNotInArtifact)
			}
		}
	}
	return nil
}

func checkGroundTruthShape(t *domain.TaskInstance) error {
	switch t.AnswerSchema.Kind {
	case domain.SchemaString:
		if _, ok := t.GroundTruth.(string); !ok {
			return fmt.Errorf("ground truth is not a string: %w", domain.ErrTaskInconsistent)
		}
	case domain.SchemaList:
		if _, ok := t.GroundTruth.([]string); !ok {
			return fmt.Errorf("ground truth is not a string list: %w", domain.ErrTaskInconsistent)
		}
	case domain.SchemaRecord:
		m, ok := t.GroundTruth.(map[string]string)
		if !ok {
			return fmt.Errorf("ground truth is not a record: %w", domain.ErrTaskInconsistent)
		}
		if len(m) != len(t.AnswerSchema.Fields) {
			return fmt.Errorf("ground truth fields do not match schema: %w", domain.ErrTaskInconsistent)
		}
		for _, f := range t.AnswerSchema.Fields {
			if _, ok := m[f.Name]; !ok {
				return fmt.Errorf("ground truth missing field %q: %w", f.Name, domain.ErrTaskInconsistent)
			}
		}
	default:
		return fmt.Errorf("unknown schema kind %q: %w", t.AnswerSchema.Kind, domain.ErrTaskInconsistent)
	}
	return nil
}
