package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/warin-dev/sis-api/internal/query"
)

// CertificateRow is the flat database representation of a certificate
// awarded to a student in a given academic year.
type CertificateRow struct {
	ID             uuid.UUID       `db:"id"`
	CreatedAt      time.Time       `db:"created_at"`
	StudentID      uuid.UUID       `db:"student_id"`
	Year           int             `db:"year"`
	Type           CertificateType `db:"certificate_type"`
	Detail         *string         `db:"certificate_detail"`
	ReceivingOrder *int            `db:"receiving_order_number"`
	SeatCode       *string         `db:"seat_code"`
}

// CertificateIDOnly exposes nothing beyond the identifier.
type CertificateIDOnly struct {
	ID uuid.UUID `json:"id"`
}

// CertificateCompact is the display summary.
type CertificateCompact struct {
	ID   uuid.UUID       `json:"id"`
	Year int             `json:"year"`
	Type CertificateType `json:"certificate_type"`
}

// CertificateDefault resolves the student relationship and award detail.
type CertificateDefault struct {
	CertificateCompact
	Detail  *string  `json:"certificate_detail,omitempty"`
	Student *Student `json:"student,omitempty"`
}

// CertificateDetailed adds ceremony placement fields.
type CertificateDetailed struct {
	CertificateDefault
	ReceivingOrder *int    `json:"receiving_order_number,omitempty"`
	SeatCode       *string `json:"seat_code,omitempty"`
}

// Certificate is the top-level model over the four fetch variants.
type Certificate struct {
	Level    FetchLevel
	IDOnly   *CertificateIDOnly
	Compact  *CertificateCompact
	Default  *CertificateDefault
	Detailed *CertificateDetailed
}

func (m Certificate) MarshalJSON() ([]byte, error) {
	return marshalByLevel(m.Level, m.IDOnly, m.Compact, m.Default, m.Detailed)
}

// CertificateFilter is the certificate Queryable.
type CertificateFilter struct {
	IDs       []uuid.UUID
	StudentID *uuid.UUID
	Year      *int
	Type      *CertificateType
}

// WhereClause converts the filter into a parameterized WHERE fragment.
func (f *CertificateFilter) WhereClause() *query.Clause {
	c := query.Where()
	if f == nil {
		return c
	}
	query.IfSlice(c, f.IDs, func(c *query.Clause, ids []uuid.UUID) {
		c.PushSQL("cf.id = ANY(")
		c.PushParam(pq.Array(ids))
		c.PushSQL(")")
	})
	query.If(c, f.StudentID, func(c *query.Clause, id uuid.UUID) {
		c.PushSQL("cf.student_id = ")
		c.PushParam(id)
	})
	query.If(c, f.Year, func(c *query.Clause, y int) {
		c.PushSQL("cf.year = ")
		c.PushParam(y)
	})
	query.If(c, f.Type, func(c *query.Clause, t CertificateType) {
		c.PushSQL("cf.certificate_type = ")
		c.PushParam(t)
	})
	return c
}

// CertificateSortColumns whitelists the certificate Sortable keys.
var CertificateSortColumns = map[string]string{
	"year":       "cf.year",
	"type":       "cf.certificate_type",
	"created_at": "cf.created_at",
}
