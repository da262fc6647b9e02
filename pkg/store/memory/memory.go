// Package memory is an in-process entity store. A single RWMutex makes every
// primitive atomic, which also serializes concurrent ToggleEdge calls on the
// same pair.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/store"
)

type Store struct {
	mu   sync.RWMutex
	data map[model.Collection]map[string]model.Record
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	s := &Store{data: make(map[model.Collection]map[string]model.Record)}
	for _, c := range model.All() {
		s.data[c] = make(map[string]model.Record)
	}
	return s
}

func (s *Store) table(c model.Collection) (map[string]model.Record, error) {
	t, ok := s.data[c]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownCollection, c)
	}
	return t, nil
}

// Scan returns clones ordered by id so callers never observe map order.
func (s *Store) Scan(ctx context.Context, c model.Collection, p store.Predicate) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.table(c)
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, 0)
	for _, rec := range t {
		if p.Matches(rec) {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordID() < out[j].RecordID() })
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, c model.Collection, id string) (model.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.table(c)
	if err != nil {
		return nil, false, err
	}
	rec, ok := t[id]
	if !ok {
		return nil, false, nil
	}
	return rec.Clone(), true, nil
}

func (s *Store) CountWhere(ctx context.Context, c model.Collection, p store.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.table(c)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, rec := range t {
		if p.Matches(rec) {
			n++
		}
	}
	return n, nil
}

func (s *Store) Insert(ctx context.Context, rec model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(rec.Collection())
	if err != nil {
		return err
	}
	if _, dup := t[rec.RecordID()]; dup {
		return fmt.Errorf("memory: duplicate id %s in %s", rec.RecordID(), rec.Collection())
	}
	t[rec.RecordID()] = rec.Clone()
	return nil
}

func (s *Store) InsertIfAbsent(ctx context.Context, e model.Edge) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(e.Collection())
	if err != nil {
		return false, err
	}
	if findPair(t, e) != "" {
		return false, nil
	}
	t[e.RecordID()] = e.Clone()
	return true, nil
}

func (s *Store) ToggleEdge(ctx context.Context, e model.Edge) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(e.Collection())
	if err != nil {
		return false, err
	}
	if id := findPair(t, e); id != "" {
		delete(t, id)
		return false, nil
	}
	t[e.RecordID()] = e.Clone()
	return true, nil
}

func findPair(t map[string]model.Record, e model.Edge) string {
	p := store.PairPredicate(e)
	for id, rec := range t {
		if p.Matches(rec) {
			return id
		}
	}
	return ""
}

func (s *Store) Update(ctx context.Context, c model.Collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(c)
	if err != nil {
		return err
	}
	rec, ok := t[id]
	if !ok {
		return fmt.Errorf("memory: %s %s not found", c, id)
	}
	next := rec.Clone()
	for f, v := range fields {
		if err := setField(next, f, v); err != nil {
			return err
		}
	}
	t[id] = next
	return nil
}

func (s *Store) Increment(ctx context.Context, c model.Collection, id, field string, delta int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(c)
	if err != nil {
		return err
	}
	rec, ok := t[id]
	if !ok {
		return fmt.Errorf("memory: %s %s not found", c, id)
	}
	cur, ok := rec.Field(field)
	n, isInt := cur.(int64)
	if !ok || !isInt {
		return fmt.Errorf("memory: %s.%s is not a counter", c, field)
	}
	next := rec.Clone()
	if err := setField(next, field, n+delta); err != nil {
		return err
	}
	t[id] = next
	return nil
}

func (s *Store) DeleteWhere(ctx context.Context, c model.Collection, p store.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(c)
	if err != nil {
		return 0, err
	}
	var n int64
	for id, rec := range t {
		if p.Matches(rec) {
			delete(t, id)
			n++
		}
	}
	return n, nil
}

// setField covers the columns the mutation service writes.
func setField(rec model.Record, field string, value any) error {
	bad := fmt.Errorf("memory: cannot set %s.%s to %T", rec.Collection(), field, value)
	switch r := rec.(type) {
	case *model.Video:
		switch field {
		case "views":
			v, ok := value.(int64)
			if !ok {
				return bad
			}
			r.Views = v
		case "is_published":
			v, ok := value.(bool)
			if !ok {
				return bad
			}
			r.IsPublished = v
		case "title":
			v, ok := value.(string)
			if !ok {
				return bad
			}
			r.Title = v
		case "description":
			v, ok := value.(string)
			if !ok {
				return bad
			}
			r.Description = v
		case "updated_at":
			v, ok := value.(time.Time)
			if !ok {
				return bad
			}
			r.UpdatedAt = v
		default:
			return bad
		}
	case *model.Playlist:
		switch field {
		case "name":
			v, ok := value.(string)
			if !ok {
				return bad
			}
			r.Name = v
		case "description":
			v, ok := value.(string)
			if !ok {
				return bad
			}
			r.Description = v
		case "updated_at":
			v, ok := value.(time.Time)
			if !ok {
				return bad
			}
			r.UpdatedAt = v
		default:
			return bad
		}
	default:
		return bad
	}
	return nil
}
