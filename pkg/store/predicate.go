package store

import (
	"sort"
	"strings"

	"VidTube.com/cmd/model"
)

type Op int

const (
	OpEq Op = iota
	OpIn
	OpMatch
)

// Cond is one condition of a conjunctive predicate. OpMatch is a
// case-insensitive substring test over Fields, true if any field matches.
type Cond struct {
	Op     Op
	Field  string
	Fields []string
	Value  any
	Values []string
}

// Predicate is a conjunction; the empty predicate matches every record.
type Predicate []Cond

func Eq(field string, value any) Cond {
	return Cond{Op: OpEq, Field: field, Value: value}
}

func In(field string, values []string) Cond {
	return Cond{Op: OpIn, Field: field, Values: values}
}

func Match(text string, fields ...string) Cond {
	return Cond{Op: OpMatch, Fields: fields, Value: text}
}

func Where(conds ...Cond) Predicate {
	return Predicate(conds)
}

// And returns a new predicate with conds appended.
func (p Predicate) And(conds ...Cond) Predicate {
	out := make(Predicate, 0, len(p)+len(conds))
	out = append(out, p...)
	return append(out, conds...)
}

// PairPredicate builds the predicate selecting e's unique pair.
func PairPredicate(e model.Edge) Predicate {
	key := e.PairKey()
	fields := make([]string, 0, len(key))
	for f := range key {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	p := make(Predicate, 0, len(fields))
	for _, f := range fields {
		p = append(p, Eq(f, key[f]))
	}
	return p
}

// Matches evaluates p against rec. Unknown fields never match.
func (p Predicate) Matches(rec model.Record) bool {
	for _, c := range p {
		if !c.matches(rec) {
			return false
		}
	}
	return true
}

func (c Cond) matches(rec model.Record) bool {
	switch c.Op {
	case OpEq:
		v, ok := rec.Field(c.Field)
		return ok && v == c.Value
	case OpIn:
		v, ok := rec.Field(c.Field)
		if !ok {
			return false
		}
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, want := range c.Values {
			if s == want {
				return true
			}
		}
		return false
	case OpMatch:
		text, _ := c.Value.(string)
		needle := strings.ToLower(strings.TrimSpace(text))
		for _, f := range c.Fields {
			v, ok := rec.Field(f)
			if !ok {
				continue
			}
			if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
				return true
			}
		}
		return false
	}
	return false
}
