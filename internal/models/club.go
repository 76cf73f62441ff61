package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/warin-dev/sis-api/internal/query"
)

// ClubRow is the flat database representation of a club.
type ClubRow struct {
	ID            uuid.UUID `db:"id"`
	CreatedAt     time.Time `db:"created_at"`
	NameTH        string    `db:"name_th"`
	NameEN        *string   `db:"name_en"`
	DescriptionTH *string   `db:"description_th"`
	DescriptionEN *string   `db:"description_en"`
	LogoURL       *string   `db:"logo"`
	AccentColor   *string   `db:"accent_color"`
	House         *string   `db:"house"`
	MainRoom      *string   `db:"main_room"`
}

// ClubIDOnly exposes nothing beyond the identifier.
type ClubIDOnly struct {
	ID uuid.UUID `json:"id"`
}

// ClubCompact is the display summary.
type ClubCompact struct {
	ID          uuid.UUID        `json:"id"`
	Name        *MultiLangString `json:"name,omitempty"`
	LogoURL     *string          `json:"logo,omitempty"`
	AccentColor *string          `json:"accent_color,omitempty"`
	House       *string          `json:"house,omitempty"`
}

// ClubDefault adds descriptive fields and contacts.
type ClubDefault struct {
	ClubCompact
	Description *MultiLangString `json:"description,omitempty"`
	MainRoom    *string          `json:"main_room,omitempty"`
	Contacts    []*Contact       `json:"contacts"`
}

// ClubDetailed resolves the full staff and member lists.
type ClubDetailed struct {
	ClubDefault
	Staffs  []*Student `json:"staffs"`
	Members []*Student `json:"members"`
}

// Club is the top-level model over the four fetch variants.
type Club struct {
	Level    FetchLevel
	IDOnly   *ClubIDOnly
	Compact  *ClubCompact
	Default  *ClubDefault
	Detailed *ClubDetailed
}

func (m Club) MarshalJSON() ([]byte, error) {
	return marshalByLevel(m.Level, m.IDOnly, m.Compact, m.Default, m.Detailed)
}

// ClubFilter is the club Queryable.
type ClubFilter struct {
	IDs   []uuid.UUID
	Q     *string
	House *string
}

// WhereClause converts the filter into a parameterized WHERE fragment.
func (f *ClubFilter) WhereClause() *query.Clause {
	c := query.Where()
	if f == nil {
		return c
	}
	query.IfSlice(c, f.IDs, func(c *query.Clause, ids []uuid.UUID) {
		c.PushSQL("cl.id = ANY(")
		c.PushParam(pq.Array(ids))
		c.PushSQL(")")
	})
	query.If(c, f.Q, func(c *query.Clause, q string) {
		c.PushSQL("(cl.name_th ILIKE concat('%', ")
		c.PushParam(q)
		c.PushSQL(", '%') OR cl.name_en ILIKE concat('%', ")
		c.PushPrevParam()
		c.PushSQL(", '%'))")
	})
	query.If(c, f.House, func(c *query.Clause, h string) {
		c.PushSQL("cl.house = ")
		c.PushParam(h)
	})
	return c
}

// ClubSortColumns whitelists the club Sortable keys.
var ClubSortColumns = map[string]string{
	"name_th":    "cl.name_th",
	"house":      "cl.house",
	"created_at": "cl.created_at",
}
