// Package plan joins metadata records against the source index, producing
// the immutable job list the executor drains. Every destination path is a
// pure function of the record's own fields, so the resulting filesystem
// state does not depend on job order or worker count.
package plan

import (
	"path/filepath"
	"sort"

	"curator/internal/metadata"
	"curator/internal/slug"
	"curator/internal/sourceindex"
)

// Job is one fully resolved transfer instruction.
type Job struct {
	Source      string
	Destination string
}

// Pair is one normalized (base model, effective model) taxonomy node.
type Pair struct {
	BaseModel      string
	EffectiveModel string
}

// Plan is the finished output of the planning pass.
type Plan struct {
	OutputRoot string
	Jobs       []Job
	Skipped    []string // filenames absent from the source index
	pairs      map[Pair]struct{}
}

// Planner accumulates records into a Plan.
type Planner struct {
	outputRoot string
	index      *sourceindex.Index
	plan       *Plan
}

// NewPlanner constructs a planner targeting outputRoot.
func NewPlanner(outputRoot string, index *sourceindex.Index) *Planner {
	return &Planner{
		outputRoot: outputRoot,
		index:      index,
		plan: &Plan{
			OutputRoot: outputRoot,
			pairs:      make(map[Pair]struct{}),
		},
	}
}

// Add resolves one record into either a job or a skipped entry. The taxonomy
// pair is recorded either way so directory creation matches the metadata,
// not just the resolvable subset.
func (p *Planner) Add(record metadata.Record) {
	pair := Pair{
		BaseModel:      slug.Normalize(record.BaseModel),
		EffectiveModel: slug.Normalize(record.EffectiveModel()),
	}

	p.plan.pairs[pair] = struct{}{}

	source, ok := p.index.Lookup(record.Filename)
	if !ok {
		p.plan.Skipped = append(p.plan.Skipped, record.Filename)
		return
	}

	p.plan.Jobs = append(p.plan.Jobs, Job{
		Source:      source,
		Destination: filepath.Join(p.outputRoot, pair.BaseModel, pair.EffectiveModel, record.Filename),
	})
}

// Plan returns the accumulated plan.
func (p *Planner) Plan() *Plan {
	return p.plan
}

// Pairs returns the distinct taxonomy nodes in deterministic order.
func (pl *Plan) Pairs() []Pair {
	pairs := make([]Pair, 0, len(pl.pairs))
	for pair := range pl.pairs {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].BaseModel != pairs[j].BaseModel {
			return pairs[i].BaseModel < pairs[j].BaseModel
		}
		return pairs[i].EffectiveModel < pairs[j].EffectiveModel
	})
	return pairs
}

// Directories returns the destination directory for every taxonomy node.
func (pl *Plan) Directories() []string {
	pairs := pl.Pairs()
	dirs := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		dirs = append(dirs, filepath.Join(pl.OutputRoot, pair.BaseModel, pair.EffectiveModel))
	}
	return dirs
}

// Resolved returns the number of jobs in the plan.
func (pl *Plan) Resolved() int {
	return len(pl.Jobs)
}

// SkippedCount returns the number of unresolved records.
func (pl *Plan) SkippedCount() int {
	return len(pl.Skipped)
}
