package models

import (
	"github.com/warin-dev/sis-api/internal/query"
)

// SubjectGroupRow is the flat database representation of a subject group.
// Subject groups are a small lookup table keyed by integer id.
type SubjectGroupRow struct {
	ID     int     `db:"id"`
	NameTH string  `db:"name_th"`
	NameEN *string `db:"name_en"`
}

// SubjectGroupIDOnly exposes nothing beyond the identifier.
type SubjectGroupIDOnly struct {
	ID int `json:"id"`
}

// SubjectGroupCompact is the full lookup-table payload; there is nothing
// deeper to expose, so the three richer levels share one shape.
type SubjectGroupCompact struct {
	ID   int              `json:"id"`
	Name *MultiLangString `json:"name,omitempty"`
}

// SubjectGroup is the top-level model over the fetch variants.
type SubjectGroup struct {
	Level    FetchLevel
	IDOnly   *SubjectGroupIDOnly
	Compact  *SubjectGroupCompact
	Default  *SubjectGroupCompact
	Detailed *SubjectGroupCompact
}

func (m SubjectGroup) MarshalJSON() ([]byte, error) {
	return marshalByLevel(m.Level, m.IDOnly, m.Compact, m.Default, m.Detailed)
}

// SubjectGroupFilter is the subject-group Queryable.
type SubjectGroupFilter struct {
	Q *string
}

// WhereClause converts the filter into a parameterized WHERE fragment.
func (f *SubjectGroupFilter) WhereClause() *query.Clause {
	c := query.Where()
	if f == nil {
		return c
	}
	query.If(c, f.Q, func(c *query.Clause, q string) {
		c.PushSQL("(g.name_th ILIKE concat('%', ")
		c.PushParam(q)
		c.PushSQL(", '%') OR g.name_en ILIKE concat('%', ")
		c.PushPrevParam()
		c.PushSQL(", '%'))")
	})
	return c
}

// SubjectGroupSortColumns whitelists the subject-group Sortable keys.
var SubjectGroupSortColumns = map[string]string{
	"id":      "g.id",
	"name_th": "g.name_th",
}
