package aggregate

import (
	"context"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/store"
)

type stageKind string

const (
	stageFilter stageKind = "filter"
	stageJoin   stageKind = "join"
	stageSort   stageKind = "sort"
)

type stage struct {
	kind stageKind
	name string
	run  func(ctx context.Context, st *state) error
}

// row is one candidate root. edge is the record that led to the root, if any
// (a like for liked videos, a membership for playlist members). extra holds
// keys that live on neither, such as a history position.
type row struct {
	rec   model.Record
	edge  model.Record
	extra map[string]any
	view  any
}

func (r *row) id() string { return r.rec.RecordID() }

// key looks column up on extra, then the edge, then the root record.
func (r *row) key(column string) any {
	if v, ok := r.extra[column]; ok {
		return v
	}
	if r.edge != nil {
		if v, ok := r.edge.Field(column); ok {
			return v
		}
	}
	v, _ := r.rec.Field(column)
	return v
}

// state is private to one query execution.
type state struct {
	q    Query
	pred store.Predicate

	// ids restricts the root scan once idsSet; an empty restriction skips it.
	ids    []string
	idsSet bool

	// edges and positions are attached to the loaded rows by root id.
	edges     map[string]model.Record
	positions map[string]int64

	root   model.Record
	rows   []*row
	header any
	// items, when set, replaces the row views as the result.
	items []any
}

// restrict narrows the candidate set to ids. Successive calls intersect.
func (st *state) restrict(ids []string) {
	if !st.idsSet {
		st.ids, st.idsSet = dedupe(ids), true
		return
	}
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	out := st.ids[:0]
	for _, id := range st.ids {
		if _, ok := keep[id]; ok {
			out = append(out, id)
		}
	}
	st.ids = out
}

// pipeline is the validated, ordered stage list of one query.
type pipeline struct {
	intent Intent
	depth  int
	sort   sortSpec
	stages []stage
}

// StageNames lists the stages as "kind:name", in execution order.
func (p *pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = string(s.kind) + ":" + s.name
	}
	return names
}

func (p *pipeline) run(ctx context.Context, q Query) (*state, error) {
	st := &state{q: q}
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.run(ctx, st); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (p *pipeline) add(kind stageKind, name string, run func(ctx context.Context, st *state) error) {
	p.stages = append(p.stages, stage{kind: kind, name: name, run: run})
}

func (p *pipeline) filter(name string, run func(ctx context.Context, st *state) error) {
	p.add(stageFilter, name, run)
}

// where adds a filter stage contributing one condition to the root predicate.
func (p *pipeline) where(name string, c store.Cond) {
	p.filter(name, func(_ context.Context, st *state) error {
		st.pred = st.pred.And(c)
		return nil
	})
}

func (p *pipeline) join(name string, run func(ctx context.Context, st *state) error) {
	p.add(stageJoin, name, run)
}

func (p *pipeline) sorted() {
	spec := p.sort
	p.add(stageSort, spec.String(), func(_ context.Context, st *state) error {
		sortRows(st.rows, spec)
		return nil
	})
}

// build validates q and lays out its stages. Nothing touches the store here;
// every client-fault error is raised before the first stage runs.
func (e *Engine) build(q Query) (*pipeline, error) {
	if err := q.validateIDs(); err != nil {
		return nil, err
	}
	if err := q.validateText(); err != nil {
		return nil, err
	}
	def, ok := intents[q.Intent]
	if !ok {
		return nil, errno.InvalidQueryErr.WithMessage("unknown intent: " + string(q.Intent))
	}
	spec, err := resolveSort(def.root, q.Sort)
	if err != nil {
		return nil, err
	}
	p := &pipeline{intent: q.Intent, depth: def.depth, sort: spec}
	if err := def.build(e, p, q); err != nil {
		return nil, err
	}
	return p, nil
}
