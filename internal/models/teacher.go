package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/warin-dev/sis-api/internal/query"
)

// TeacherRow is the flat database representation of a teacher joined with
// its person row and advisor placement.
type TeacherRow struct {
	ID             uuid.UUID   `db:"id"`
	CreatedAt      time.Time   `db:"created_at"`
	TeacherCode    string      `db:"teacher_code"`
	PersonID       uuid.UUID   `db:"person_id"`
	PrefixTH       *string     `db:"prefix_th"`
	PrefixEN       *string     `db:"prefix_en"`
	FirstNameTH    *string     `db:"first_name_th"`
	FirstNameEN    *string     `db:"first_name_en"`
	MiddleNameTH   *string     `db:"middle_name_th"`
	MiddleNameEN   *string     `db:"middle_name_en"`
	LastNameTH     *string     `db:"last_name_th"`
	LastNameEN     *string     `db:"last_name_en"`
	NicknameTH     *string     `db:"nickname_th"`
	NicknameEN     *string     `db:"nickname_en"`
	BirthDate      *time.Time  `db:"birthdate"`
	Sex            *string     `db:"sex"`
	CitizenID      *string     `db:"citizen_id"`
	BloodGroup     *BloodGroup `db:"blood_group"`
	ShirtSize      *ShirtSize  `db:"shirt_size"`
	ProfileURL     *string     `db:"profile"`
	SubjectGroupID *int        `db:"subject_group_id"`
	AdvisorAtID    *uuid.UUID  `db:"advisor_at_id"`
	UserID         *uuid.UUID  `db:"user_id"`
}

// TeacherIDOnly exposes nothing beyond the identifier.
type TeacherIDOnly struct {
	ID uuid.UUID `json:"id"`
}

// TeacherCompact is the denormalized display summary.
type TeacherCompact struct {
	ID          uuid.UUID        `json:"id"`
	TeacherCode string           `json:"teacher_code"`
	Prefix      *MultiLangString `json:"prefix,omitempty"`
	Name        *MultiLangString `json:"name,omitempty"`
	LastName    *MultiLangString `json:"last_name,omitempty"`
	Nickname    *MultiLangString `json:"nickname,omitempty"`
	ProfileURL  *string          `json:"profile,omitempty"`
}

// TeacherDefault adds user-facing fields and resolved relationships.
type TeacherDefault struct {
	TeacherCompact
	BirthDate        *time.Time    `json:"birthdate,omitempty"`
	Sex              *string       `json:"sex,omitempty"`
	SubjectGroup     *SubjectGroup `json:"subject_group,omitempty"`
	AdvisorAt        *Classroom    `json:"advisor_at,omitempty"`
	Contacts         []*Contact    `json:"contacts"`
	SubjectsInCharge []*Subject    `json:"subjects_in_charge"`
}

// TeacherDetailed adds sensitive fields.
type TeacherDetailed struct {
	TeacherDefault
	CitizenID  *string     `json:"citizen_id,omitempty"`
	BloodGroup *BloodGroup `json:"blood_group,omitempty"`
	ShirtSize  *ShirtSize  `json:"shirt_size,omitempty"`
}

// Teacher is the top-level model over the four fetch variants.
type Teacher struct {
	Level    FetchLevel
	IDOnly   *TeacherIDOnly
	Compact  *TeacherCompact
	Default  *TeacherDefault
	Detailed *TeacherDetailed
}

func (m Teacher) MarshalJSON() ([]byte, error) {
	return marshalByLevel(m.Level, m.IDOnly, m.Compact, m.Default, m.Detailed)
}

// TeacherFilter is the teacher Queryable.
type TeacherFilter struct {
	IDs            []uuid.UUID
	Q              *string
	SubjectGroupID *int
	TeacherCode    *string
}

// WhereClause converts the filter into a parameterized WHERE fragment.
func (f *TeacherFilter) WhereClause() *query.Clause {
	c := query.Where()
	if f == nil {
		return c
	}
	query.IfSlice(c, f.IDs, func(c *query.Clause, ids []uuid.UUID) {
		c.PushSQL("t.id = ANY(")
		c.PushParam(pq.Array(ids))
		c.PushSQL(")")
	})
	query.If(c, f.Q, func(c *query.Clause, q string) {
		c.PushSQL("(p.first_name_th ILIKE concat('%', ")
		c.PushParam(q)
		c.PushSQL(", '%') OR p.last_name_th ILIKE concat('%', ")
		c.PushPrevParam()
		c.PushSQL(", '%') OR p.first_name_en ILIKE concat('%', ")
		c.PushPrevParam()
		c.PushSQL(", '%') OR p.last_name_en ILIKE concat('%', ")
		c.PushPrevParam()
		c.PushSQL(", '%') OR t.teacher_code ILIKE concat('%', ")
		c.PushPrevParam()
		c.PushSQL(", '%'))")
	})
	query.If(c, f.SubjectGroupID, func(c *query.Clause, id int) {
		c.PushSQL("t.subject_group_id = ")
		c.PushParam(id)
	})
	query.If(c, f.TeacherCode, func(c *query.Clause, code string) {
		c.PushSQL("t.teacher_code = ")
		c.PushParam(code)
	})
	return c
}

// TeacherSortColumns whitelists the teacher Sortable keys.
var TeacherSortColumns = map[string]string{
	"teacher_code":  "t.teacher_code",
	"first_name_th": "p.first_name_th",
	"last_name_th":  "p.last_name_th",
	"created_at":    "t.created_at",
}
