package database

import (
	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/catalog"
)

// Filtered applies the state's active prefix predicates as LIKE conditions.
// Column names pass through the ruleset whitelist; the raw url-level name is
// never interpolated into SQL.
func Filtered(state catalog.State, rules catalog.Ruleset) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		for _, p := range state.Predicates {
			column, ok := rules.Columns[p.Column]
			if !ok {
				continue
			}
			q = q.Where(column+" LIKE ?", p.Value+"%")
		}
		return q
	}
}

// Paged applies the state's sort order, offset and page size. The offset is
// taken as-is; an out-of-range offset produces an empty page.
func Paged(state catalog.State, rules catalog.Ruleset) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		size := state.PageSize
		if size <= 0 {
			size = catalog.PageSize
		}
		return q.Order(rules.OrderClause(state.Order)).Offset(state.Offset).Limit(size)
	}
}
