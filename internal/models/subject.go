package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/warin-dev/sis-api/internal/query"
)

// SubjectRow is the flat database representation of a subject.
type SubjectRow struct {
	ID             uuid.UUID `db:"id"`
	CreatedAt      time.Time `db:"created_at"`
	CodeTH         string    `db:"code_th"`
	CodeEN         *string   `db:"code_en"`
	NameTH         string    `db:"name_th"`
	NameEN         *string   `db:"name_en"`
	ShortNameTH    *string   `db:"short_name_th"`
	ShortNameEN    *string   `db:"short_name_en"`
	Type           *string   `db:"type"`
	Credit         float64   `db:"credit"`
	Semester       int       `db:"semester"`
	SubjectGroupID int       `db:"subject_group_id"`
	SyllabusURL    *string   `db:"syllabus"`
}

// SubjectIDOnly exposes nothing beyond the identifier.
type SubjectIDOnly struct {
	ID uuid.UUID `json:"id"`
}

// SubjectCompact is the display summary.
type SubjectCompact struct {
	ID        uuid.UUID        `json:"id"`
	Code      *MultiLangString `json:"code,omitempty"`
	Name      *MultiLangString `json:"name,omitempty"`
	ShortName *MultiLangString `json:"short_name,omitempty"`
}

// SubjectDefault adds academic fields and resolved relationships.
type SubjectDefault struct {
	SubjectCompact
	Type         *string       `json:"type,omitempty"`
	Credit       float64       `json:"credit"`
	Semester     int           `json:"semester"`
	SubjectGroup *SubjectGroup `json:"subject_group,omitempty"`
	Teachers     []*Teacher    `json:"teachers"`
	CoTeachers   []*Teacher    `json:"co_teachers"`
}

// SubjectDetailed adds the syllabus reference.
type SubjectDetailed struct {
	SubjectDefault
	SyllabusURL *string `json:"syllabus,omitempty"`
}

// Subject is the top-level model over the four fetch variants.
type Subject struct {
	Level    FetchLevel
	IDOnly   *SubjectIDOnly
	Compact  *SubjectCompact
	Default  *SubjectDefault
	Detailed *SubjectDetailed
}

func (m Subject) MarshalJSON() ([]byte, error) {
	return marshalByLevel(m.Level, m.IDOnly, m.Compact, m.Default, m.Detailed)
}

// SubjectFilter is the subject Queryable.
type SubjectFilter struct {
	IDs            []uuid.UUID
	Q              *string
	SubjectGroupID *int
	Semester       *int
	TeacherID      *uuid.UUID
}

// WhereClause converts the filter into a parameterized WHERE fragment.
func (f *SubjectFilter) WhereClause() *query.Clause {
	c := query.Where()
	if f == nil {
		return c
	}
	query.IfSlice(c, f.IDs, func(c *query.Clause, ids []uuid.UUID) {
		c.PushSQL("sj.id = ANY(")
		c.PushParam(pq.Array(ids))
		c.PushSQL(")")
	})
	query.If(c, f.Q, func(c *query.Clause, q string) {
		c.PushSQL("(sj.name_th ILIKE concat('%', ")
		c.PushParam(q)
		c.PushSQL(", '%') OR sj.name_en ILIKE concat('%', ")
		c.PushPrevParam()
		c.PushSQL(", '%') OR sj.code_th ILIKE concat('%', ")
		c.PushPrevParam()
		c.PushSQL(", '%') OR sj.code_en ILIKE concat('%', ")
		c.PushPrevParam()
		c.PushSQL(", '%'))")
	})
	query.If(c, f.SubjectGroupID, func(c *query.Clause, id int) {
		c.PushSQL("sj.subject_group_id = ")
		c.PushParam(id)
	})
	query.If(c, f.Semester, func(c *query.Clause, s int) {
		c.PushSQL("sj.semester = ")
		c.PushParam(s)
	})
	query.If(c, f.TeacherID, func(c *query.Clause, id uuid.UUID) {
		c.PushSQL("EXISTS (SELECT 1 FROM subject_teachers st WHERE st.subject_id = sj.id AND st.teacher_id = ")
		c.PushParam(id)
		c.PushSQL(")")
	})
	return c
}

// SubjectSortColumns whitelists the subject Sortable keys.
var SubjectSortColumns = map[string]string{
	"code_th":    "sj.code_th",
	"name_th":    "sj.name_th",
	"semester":   "sj.semester",
	"credit":     "sj.credit",
	"created_at": "sj.created_at",
}
