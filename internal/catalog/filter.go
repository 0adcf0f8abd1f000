package catalog

import (
	"fmt"
	"strings"
)

// View names the shape of a listing query.
type View string

const (
	ViewAll     View = "all"
	ViewOut     View = "out"
	ViewOverdue View = "overdue"
)

// ParseView maps the url-level view parameter to a View. An empty value
// defaults to "all"; anything unrecognized is a validation error.
func ParseView(s string) (View, error) {
	switch s {
	case "", string(ViewAll):
		return ViewAll, nil
	case string(ViewOut):
		return ViewOut, nil
	case string(ViewOverdue):
		return ViewOverdue, nil
	default:
		return "", NewValidationError("view", fmt.Sprintf("unknown view %q", s))
	}
}

type PredicateKind string

const (
	// PredicateBeginsWith requires a column value to start with the search string.
	PredicateBeginsWith PredicateKind = "begins-with"
)

// Predicate is one active column filter. Column holds the url-level column
// name (e.g. "last-name"); the Ruleset maps it to a database column.
type Predicate struct {
	Column string        `json:"column"`
	Kind   PredicateKind `json:"kind"`
	Value  string        `json:"value"`
}

// State is the per-view, per-session filter state: active column predicates
// in the order they were applied, the sort key and the page offset. It is
// serialized into the session between requests; it must never be shared
// across sessions.
type State struct {
	Order      string      `json:"order"`
	Offset     int         `json:"offset"`
	PageSize   int         `json:"page_size"`
	Predicates []Predicate `json:"predicates,omitempty"`
}

// Directive carries the optional search/sort/page parameters of one request.
type Directive struct {
	Offset    *int
	Order     string
	SearchOff bool
	SearchOn  string
	Search    string
}

// Ruleset defines the sortable and searchable columns of one listing.
type Ruleset struct {
	DefaultOrder string
	// Orders maps url-level sort keys to ORDER BY expressions.
	Orders map[string]string
	// Columns maps url-level column names to qualified database columns.
	Columns map[string]string
}

// NewState returns the default filter state for this ruleset.
func (r Ruleset) NewState() State {
	return State{Order: r.DefaultOrder, PageSize: PageSize}
}

// OrderClause returns the ORDER BY expression for the state's sort key.
func (r Ruleset) OrderClause(key string) string {
	if expr, ok := r.Orders[key]; ok {
		return expr
	}
	return r.Orders[r.DefaultOrder]
}

// Apply folds one request's directives into the state, in the fixed order:
// offset, sort key, then search. Offsets are not clamped; an out-of-range
// offset yields an empty page. Unknown sort keys and search columns are
// rejected rather than forwarded to the store.
func (s *State) Apply(d Directive, rules Ruleset) error {
	if d.Offset != nil {
		s.Offset = *d.Offset
	}
	if d.Order != "" {
		if _, ok := rules.Orders[d.Order]; !ok {
			return NewValidationError("order", fmt.Sprintf("unknown sort key %q", d.Order))
		}
		s.Order = d.Order
	}
	if d.SearchOff {
		s.Predicates = nil
		return nil
	}
	if d.SearchOn != "" && d.Search != "" {
		if _, ok := rules.Columns[d.SearchOn]; !ok {
			return NewValidationError("search_on", fmt.Sprintf("unknown search column %q", d.SearchOn))
		}
		s.setPredicate(d.SearchOn, d.Search)
	}
	return nil
}

// setPredicate replaces the predicate for the column if one is already
// active, otherwise appends it. Predicates on other columns are untouched,
// so consecutive searches on different columns AND together.
func (s *State) setPredicate(column, value string) {
	for i := range s.Predicates {
		if s.Predicates[i].Column == column {
			s.Predicates[i].Value = value
			return
		}
	}
	s.Predicates = append(s.Predicates, Predicate{
		Column: column,
		Kind:   PredicateBeginsWith,
		Value:  value,
	})
}

// Description renders the active filters for display, in application order:
// "WHERE last-name begins with Sm AND title begins with Du". Empty when no
// filter is active.
func (s *State) Description() string {
	if len(s.Predicates) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range s.Predicates {
		if i == 0 {
			b.WriteString("WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(p.Column)
		b.WriteString(" begins with ")
		b.WriteString(p.Value)
	}
	return b.String()
}
