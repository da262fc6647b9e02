package db

import (
	"fmt"
	"strings"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildWhere translates a store predicate into gorm clause expressions.
// Columns are checked against the record's known fields so a predicate can
// never name an arbitrary column.
func buildWhere(c model.Collection, p store.Predicate) ([]clause.Expression, error) {
	probe := model.New(c)
	if probe == nil {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownCollection, c)
	}
	column := func(name string) (clause.Column, error) {
		if _, ok := probe.Field(name); !ok {
			return clause.Column{}, fmt.Errorf("unknown column %s.%s", c, name)
		}
		return clause.Column{Name: name}, nil
	}

	exprs := make([]clause.Expression, 0, len(p))
	for _, cond := range p {
		switch cond.Op {
		case store.OpEq:
			col, err := column(cond.Field)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, clause.Eq{Column: col, Value: cond.Value})
		case store.OpIn:
			col, err := column(cond.Field)
			if err != nil {
				return nil, err
			}
			values := make([]interface{}, len(cond.Values))
			for i, v := range cond.Values {
				values[i] = v
			}
			exprs = append(exprs, clause.IN{Column: col, Values: values})
		case store.OpMatch:
			text, _ := cond.Value.(string)
			pattern := "%" + likeEscaper.Replace(strings.TrimSpace(text)) + "%"
			ors := make([]clause.Expression, 0, len(cond.Fields))
			for _, f := range cond.Fields {
				col, err := column(f)
				if err != nil {
					return nil, err
				}
				ors = append(ors, clause.Like{Column: col, Value: pattern})
			}
			exprs = append(exprs, clause.Or(ors...))
		default:
			return nil, fmt.Errorf("unsupported predicate op %d", cond.Op)
		}
	}
	return exprs, nil
}

func applyWhere(tx *gorm.DB, c model.Collection, p store.Predicate) (*gorm.DB, error) {
	exprs, err := buildWhere(c, p)
	if err != nil {
		return nil, err
	}
	if len(exprs) == 0 {
		return tx, nil
	}
	return tx.Clauses(clause.Where{Exprs: exprs}), nil
}
