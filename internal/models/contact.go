package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/warin-dev/sis-api/internal/query"
)

// ContactRow is the flat database representation of a contact. Ownership
// (person, classroom, club, or none) lives in join tables and is resolved
// through the authz directory, not embedded here.
type ContactRow struct {
	ID              uuid.UUID   `db:"id"`
	CreatedAt       time.Time   `db:"created_at"`
	Type            ContactType `db:"type"`
	Value           string      `db:"value"`
	NameTH          *string     `db:"name_th"`
	NameEN          *string     `db:"name_en"`
	IncludeStudents *bool       `db:"include_students"`
	IncludeTeachers *bool       `db:"include_teachers"`
	IncludeParents  *bool       `db:"include_parents"`
}

// ContactIDOnly exposes nothing beyond the identifier.
type ContactIDOnly struct {
	ID uuid.UUID `json:"id"`
}

// ContactCompact is the display summary.
type ContactCompact struct {
	ID    uuid.UUID   `json:"id"`
	Type  ContactType `json:"type"`
	Value string      `json:"value"`
}

// ContactDefault adds the contact's label and audience flags. Contacts are
// leaves; no relationships resolve from here.
type ContactDefault struct {
	ContactCompact
	Name            *MultiLangString `json:"name,omitempty"`
	IncludeStudents *bool            `json:"include_students,omitempty"`
	IncludeTeachers *bool            `json:"include_teachers,omitempty"`
	IncludeParents  *bool            `json:"include_parents,omitempty"`
}

// ContactDetailed matches Default.
type ContactDetailed struct {
	ContactDefault
}

// Contact is the top-level model over the four fetch variants.
type Contact struct {
	Level    FetchLevel
	IDOnly   *ContactIDOnly
	Compact  *ContactCompact
	Default  *ContactDefault
	Detailed *ContactDetailed
}

func (m Contact) MarshalJSON() ([]byte, error) {
	return marshalByLevel(m.Level, m.IDOnly, m.Compact, m.Default, m.Detailed)
}

// ContactFilter is the contact Queryable.
type ContactFilter struct {
	IDs  []uuid.UUID
	Type *ContactType
}

// WhereClause converts the filter into a parameterized WHERE fragment.
func (f *ContactFilter) WhereClause() *query.Clause {
	c := query.Where()
	if f == nil {
		return c
	}
	query.IfSlice(c, f.IDs, func(c *query.Clause, ids []uuid.UUID) {
		c.PushSQL("ct.id = ANY(")
		c.PushParam(pq.Array(ids))
		c.PushSQL(")")
	})
	query.If(c, f.Type, func(c *query.Clause, t ContactType) {
		c.PushSQL("ct.type = ")
		c.PushParam(t)
	})
	return c
}

// ContactSortColumns whitelists the contact Sortable keys.
var ContactSortColumns = map[string]string{
	"type":       "ct.type",
	"created_at": "ct.created_at",
}
