package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/warin-dev/sis-api/internal/query"
)

// ClassroomRow is the flat database representation of a classroom.
type ClassroomRow struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Number    int       `db:"number"`
	Year      int       `db:"year"`
	MainRoom  *string   `db:"main_room"`
}

// ClassroomIDOnly exposes nothing beyond the identifier.
type ClassroomIDOnly struct {
	ID uuid.UUID `json:"id"`
}

// ClassroomCompact is the display summary.
type ClassroomCompact struct {
	ID     uuid.UUID `json:"id"`
	Number int       `json:"number"`
	Year   int       `json:"year"`
}

// ClassroomDefault resolves advisors, students, and contacts.
type ClassroomDefault struct {
	ClassroomCompact
	MainRoom *string    `json:"main_room,omitempty"`
	Advisors []*Teacher `json:"class_advisors"`
	Students []*Student `json:"students"`
	Contacts []*Contact `json:"contacts"`
}

// ClassroomDetailed matches Default; classrooms carry no extra sensitive
// fields but keep the level for a uniform protocol.
type ClassroomDetailed struct {
	ClassroomDefault
	StudentCount int `json:"student_count"`
}

// Classroom is the top-level model over the four fetch variants.
type Classroom struct {
	Level    FetchLevel
	IDOnly   *ClassroomIDOnly
	Compact  *ClassroomCompact
	Default  *ClassroomDefault
	Detailed *ClassroomDetailed
}

func (m Classroom) MarshalJSON() ([]byte, error) {
	return marshalByLevel(m.Level, m.IDOnly, m.Compact, m.Default, m.Detailed)
}

// ClassroomFilter is the classroom Queryable.
type ClassroomFilter struct {
	IDs    []uuid.UUID
	Number *int
	Year   *int
}

// WhereClause converts the filter into a parameterized WHERE fragment.
func (f *ClassroomFilter) WhereClause() *query.Clause {
	c := query.Where()
	if f == nil {
		return c
	}
	query.IfSlice(c, f.IDs, func(c *query.Clause, ids []uuid.UUID) {
		c.PushSQL("c.id = ANY(")
		c.PushParam(pq.Array(ids))
		c.PushSQL(")")
	})
	query.If(c, f.Number, func(c *query.Clause, n int) {
		c.PushSQL("c.number = ")
		c.PushParam(n)
	})
	query.If(c, f.Year, func(c *query.Clause, y int) {
		c.PushSQL("c.year = ")
		c.PushParam(y)
	})
	return c
}

// ClassroomSortColumns whitelists the classroom Sortable keys.
var ClassroomSortColumns = map[string]string{
	"number":     "c.number",
	"year":       "c.year",
	"created_at": "c.created_at",
}
