package aggregate

import (
	"sort"
	"strings"
	"time"

	"VidTube.com/pkg/errno"
)

type rootKind int

const (
	rootVideos rootKind = iota
	rootComments
	rootTweets
	rootPlaylists
	rootSubscriptions
	rootMembers
	rootHistory
)

// sortable maps the public sort field names of each root kind to columns.
var sortable = map[rootKind]map[string]string{
	rootVideos: {
		"createdAt": "created_at",
		"views":     "views",
		"duration":  "duration",
		"title":     "title",
	},
	rootComments:      {"createdAt": "created_at"},
	rootTweets:        {"createdAt": "created_at"},
	rootPlaylists:     {"createdAt": "created_at", "updatedAt": "updated_at", "name": "name"},
	rootSubscriptions: {"createdAt": "created_at"},
	rootMembers: {
		"createdAt": "created_at",
		"views":     "views",
		"duration":  "duration",
		"title":     "title",
		"position":  "position",
	},
	rootHistory: {
		"createdAt": "created_at",
		"views":     "views",
		"duration":  "duration",
		"title":     "title",
		"position":  "position",
	},
}

type sortSpec struct {
	column string
	desc   bool
}

func (s sortSpec) String() string {
	if s.desc {
		return s.column + " desc"
	}
	return s.column + " asc"
}

// resolveSort applies the defaults independently: a missing field means
// createdAt and a missing direction means desc.
func resolveSort(kind rootKind, s Sort) (sortSpec, error) {
	field := strings.TrimSpace(s.Field)
	if field == "" {
		field = "createdAt"
	}
	column, ok := sortable[kind][field]
	if !ok {
		return sortSpec{}, errno.InvalidQueryErr.WithMessage("unsupported sort field: " + field)
	}
	switch strings.ToLower(strings.TrimSpace(s.Direction)) {
	case "", "desc":
		return sortSpec{column: column, desc: true}, nil
	case "asc":
		return sortSpec{column: column}, nil
	}
	return sortSpec{}, errno.InvalidQueryErr.WithMessage("unsupported sort direction: " + s.Direction)
}

// sortRows orders rows by spec and breaks ties by id ascending.
func sortRows(rows []*row, spec sortSpec) {
	sort.SliceStable(rows, func(i, j int) bool {
		c := compareValues(rows[i].key(spec.column), rows[j].key(spec.column))
		if spec.desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return rows[i].id() < rows[j].id()
	})
}

// compareValues orders values of the same dynamic type. A missing value sorts
// first.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmpOrdered(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			return cmpOrdered(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmpOrdered(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	return 0
}

func cmpOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
