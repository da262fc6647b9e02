// Package aggregate computes viewer-relative views over the entity store and
// returns them as stable pages. Each query is validated into a fixed sequence
// of filter, join and sort stages, then windowed.
package aggregate

import (
	"context"

	"VidTube.com/pkg/constants"
	"VidTube.com/pkg/history"
	"VidTube.com/pkg/store"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// TextIndex resolves free text to matching video ids; order is ignored.
type TextIndex interface {
	Search(ctx context.Context, text string) ([]string, error)
}

type Engine struct {
	store    store.Reader
	history  history.Log
	index    TextIndex
	resolver *Resolver
	composer *composer

	defaultPageSize int
	maxPageSize     int
}

type Option func(*Engine)

func WithHistory(h history.Log) Option {
	return func(e *Engine) { e.history = h }
}

func WithTextIndex(ix TextIndex) Option {
	return func(e *Engine) { e.index = ix }
}

func WithPageSizes(defaultSize, maxSize int) Option {
	return func(e *Engine) {
		e.defaultPageSize, e.maxPageSize = defaultSize, maxSize
	}
}

func NewEngine(r store.Reader, opts ...Option) *Engine {
	e := &Engine{
		store:           r,
		resolver:        NewResolver(r),
		defaultPageSize: constants.DefaultLimit,
		maxPageSize:     constants.MaxLimit,
	}
	e.composer = &composer{store: r, resolver: e.resolver}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Query runs one intent. Client faults come back as errno InvalidQuery,
// InvalidReference or NotFound; store failures as the upstream kind.
func (e *Engine) Query(ctx context.Context, q Query) (*Page, error) {
	p, err := e.build(q)
	if err != nil {
		return nil, err
	}
	st, err := p.run(ctx, q)
	if err != nil {
		hlog.CtxDebugf(ctx, "aggregate: %s aborted: %v", q.Intent, err)
		return nil, err
	}

	items := st.items
	if items == nil {
		items = make([]any, len(st.rows))
		for i, r := range st.rows {
			items[i] = r.view
		}
	}
	page, size := NormalizePage(q.Page, q.PageSize, e.defaultPageSize, e.maxPageSize)
	out := Paginate(items, page, size)
	out.Root = st.header
	return out, nil
}

// Stages reports the stage sequence q would run, without running it.
func (e *Engine) Stages(q Query) ([]string, error) {
	p, err := e.build(q)
	if err != nil {
		return nil, err
	}
	return p.StageNames(), nil
}
