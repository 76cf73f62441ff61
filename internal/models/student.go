package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/warin-dev/sis-api/internal/query"
)

// StudentRow is the flat database representation of a student: the students
// table joined with its person row and current classroom placement. Related
// entities appear only as foreign-key identifiers.
type StudentRow struct {
	ID           uuid.UUID   `db:"id"`
	CreatedAt    time.Time   `db:"created_at"`
	StudentCode  string      `db:"student_code"`
	PersonID     uuid.UUID   `db:"person_id"`
	PrefixTH     *string     `db:"prefix_th"`
	PrefixEN     *string     `db:"prefix_en"`
	FirstNameTH  *string     `db:"first_name_th"`
	FirstNameEN  *string     `db:"first_name_en"`
	MiddleNameTH *string     `db:"middle_name_th"`
	MiddleNameEN *string     `db:"middle_name_en"`
	LastNameTH   *string     `db:"last_name_th"`
	LastNameEN   *string     `db:"last_name_en"`
	NicknameTH   *string     `db:"nickname_th"`
	NicknameEN   *string     `db:"nickname_en"`
	BirthDate    *time.Time  `db:"birthdate"`
	Sex          *string     `db:"sex"`
	CitizenID    *string     `db:"citizen_id"`
	BloodGroup   *BloodGroup `db:"blood_group"`
	ShirtSize    *ShirtSize  `db:"shirt_size"`
	PantsSize    *string     `db:"pants_size"`
	ProfileURL   *string     `db:"profile"`
	ClassroomID  *uuid.UUID  `db:"classroom_id"`
	ClassNo      *int        `db:"class_no"`
	UserID       *uuid.UUID  `db:"user_id"`
}

// StudentIDOnly exposes nothing beyond the identifier.
type StudentIDOnly struct {
	ID uuid.UUID `json:"id"`
}

// StudentCompact is the denormalized display summary.
type StudentCompact struct {
	ID          uuid.UUID        `json:"id"`
	StudentCode string           `json:"student_code"`
	Prefix      *MultiLangString `json:"prefix,omitempty"`
	Name        *MultiLangString `json:"name,omitempty"`
	LastName    *MultiLangString `json:"last_name,omitempty"`
	Nickname    *MultiLangString `json:"nickname,omitempty"`
	ClassNo     *int             `json:"class_no,omitempty"`
	ProfileURL  *string          `json:"profile,omitempty"`
}

// StudentDefault adds user-facing fields and resolved relationships.
type StudentDefault struct {
	StudentCompact
	BirthDate *time.Time `json:"birthdate,omitempty"`
	Sex       *string    `json:"sex,omitempty"`
	Classroom *Classroom `json:"classroom,omitempty"`
	Contacts  []*Contact `json:"contacts"`
}

// StudentDetailed adds sensitive fields and the full relationship set.
type StudentDetailed struct {
	StudentDefault
	CitizenID    *string        `json:"citizen_id,omitempty"`
	BloodGroup   *BloodGroup    `json:"blood_group,omitempty"`
	ShirtSize    *ShirtSize     `json:"shirt_size,omitempty"`
	PantsSize    *string        `json:"pants_size,omitempty"`
	Certificates []*Certificate `json:"certificates"`
}

// Student is the top-level model: a tagged union over the four fetch
// variants. Serialization delegates to whichever variant is present.
type Student struct {
	Level    FetchLevel
	IDOnly   *StudentIDOnly
	Compact  *StudentCompact
	Default  *StudentDefault
	Detailed *StudentDetailed
}

func (m Student) MarshalJSON() ([]byte, error) {
	return marshalByLevel(m.Level, m.IDOnly, m.Compact, m.Default, m.Detailed)
}

// StudentFilter is the student Queryable.
type StudentFilter struct {
	IDs         []uuid.UUID
	Q           *string
	ClassroomID *uuid.UUID
	ClassNo     *int
	StudentCode *string
}

// WhereClause converts the filter into a parameterized WHERE fragment.
func (f *StudentFilter) WhereClause() *query.Clause {
	c := query.Where()
	if f == nil {
		return c
	}
	query.IfSlice(c, f.IDs, func(c *query.Clause, ids []uuid.UUID) {
		c.PushSQL("s.id = ANY(")
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
		c.PushSQL(", '%') OR s.student_code ILIKE concat('%', ")
		c.PushPrevParam()
		c.PushSQL(", '%'))")
	})
	query.If(c, f.ClassroomID, func(c *query.Clause, id uuid.UUID) {
		c.PushSQL("cs.classroom_id = ")
		c.PushParam(id)
	})
	query.If(c, f.ClassNo, func(c *query.Clause, n int) {
		c.PushSQL("cs.class_no = ")
		c.PushParam(n)
	})
	query.If(c, f.StudentCode, func(c *query.Clause, code string) {
		c.PushSQL("s.student_code = ")
		c.PushParam(code)
	})
	return c
}

// StudentSortColumns whitelists the student Sortable keys.
var StudentSortColumns = map[string]string{
	"student_code":  "s.student_code",
	"first_name_th": "p.first_name_th",
	"last_name_th":  "p.last_name_th",
	"class_no":      "cs.class_no",
	"created_at":    "s.created_at",
}
