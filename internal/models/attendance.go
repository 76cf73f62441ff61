package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/warin-dev/sis-api/internal/query"
)

// AttendanceRow is the flat database representation of one student's
// attendance record for one date and event.
type AttendanceRow struct {
	ID            uuid.UUID    `db:"id"`
	CreatedAt     time.Time    `db:"created_at"`
	StudentID     uuid.UUID    `db:"student_id"`
	Date          time.Time    `db:"date"`
	Event         string       `db:"event"`
	IsPresent     bool         `db:"is_present"`
	AbsenceType   *AbsenceType `db:"absence_type"`
	AbsenceReason *string      `db:"absence_reason"`
}

// Attendance check-in events.
const (
	AttendanceEventAssembly = "assembly"
	AttendanceEventHomeroom = "homeroom"
)

// AttendanceIDOnly exposes nothing beyond the identifier.
type AttendanceIDOnly struct {
	ID uuid.UUID `json:"id"`
}

// AttendanceCompact is the summary without the student relationship.
type AttendanceCompact struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"date"`
	Event     string    `json:"event"`
	IsPresent bool      `json:"is_present"`
}

// AttendanceDefault resolves the student relationship and absence detail.
type AttendanceDefault struct {
	AttendanceCompact
	AbsenceType   *AbsenceType `json:"absence_type,omitempty"`
	AbsenceReason *string      `json:"absence_reason,omitempty"`
	Student       *Student     `json:"student,omitempty"`
}

// AttendanceDetailed matches Default.
type AttendanceDetailed struct {
	AttendanceDefault
}

// Attendance is the top-level model over the four fetch variants.
type Attendance struct {
	Level    FetchLevel
	IDOnly   *AttendanceIDOnly
	Compact  *AttendanceCompact
	Default  *AttendanceDefault
	Detailed *AttendanceDetailed
}

func (m Attendance) MarshalJSON() ([]byte, error) {
	return marshalByLevel(m.Level, m.IDOnly, m.Compact, m.Default, m.Detailed)
}

// AttendanceFilter is the attendance Queryable.
type AttendanceFilter struct {
	IDs         []uuid.UUID
	StudentID   *uuid.UUID
	ClassroomID *uuid.UUID
	Event       *string
	OnDate      *time.Time
	After       *time.Time
	Before      *time.Time
}

// WhereClause converts the filter into a parameterized WHERE fragment.
func (f *AttendanceFilter) WhereClause() *query.Clause {
	c := query.Where()
	if f == nil {
		return c
	}
	query.IfSlice(c, f.IDs, func(c *query.Clause, ids []uuid.UUID) {
		c.PushSQL("a.id = ANY(")
		c.PushParam(pq.Array(ids))
		c.PushSQL(")")
	})
	query.If(c, f.StudentID, func(c *query.Clause, id uuid.UUID) {
		c.PushSQL("a.student_id = ")
		c.PushParam(id)
	})
	query.If(c, f.ClassroomID, func(c *query.Clause, id uuid.UUID) {
		c.PushSQL("EXISTS (SELECT 1 FROM classroom_students cs WHERE cs.student_id = a.student_id AND cs.classroom_id = ")
		c.PushParam(id)
		c.PushSQL(")")
	})
	query.If(c, f.Event, func(c *query.Clause, e string) {
		c.PushSQL("a.event = ")
		c.PushParam(e)
	})
	query.If(c, f.OnDate, func(c *query.Clause, d time.Time) {
		c.PushSQL("a.date = ")
		c.PushParam(d)
	})
	query.If(c, f.After, func(c *query.Clause, d time.Time) {
		c.PushSQL("a.date >= ")
		c.PushParam(d)
	})
	query.If(c, f.Before, func(c *query.Clause, d time.Time) {
		c.PushSQL("a.date <= ")
		c.PushParam(d)
	})
	return c
}

// AttendanceSortColumns whitelists the attendance Sortable keys.
var AttendanceSortColumns = map[string]string{
	"date":       "a.date",
	"event":      "a.event",
	"created_at": "a.created_at",
}
