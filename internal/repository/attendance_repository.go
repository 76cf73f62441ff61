package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
	apperrors "github.com/warin-dev/sis-api/pkg/errors"
)

// AttendanceRepository manages persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceBaseQuery = `SELECT a.id, a.created_at, a.student_id, a.date, a.event, a.is_present,
        a.absence_type, a.absence_reason
        FROM attendances a`

const attendanceCountQuery = `SELECT COUNT(a.id) FROM attendances a`

func (r *AttendanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AttendanceRow, error) {
	return getRow[models.AttendanceRow](ctx, r.db, "attendance", attendanceBaseQuery+" WHERE a.id = $1", id)
}

// GetByIDs fetches a batch of attendance rows. Ids with no matching row are
// silently omitted.
func (r *AttendanceRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.AttendanceRow, error) {
	return selectRows[models.AttendanceRow](ctx, r.db, "attendances", attendanceBaseQuery+" WHERE a.id = ANY($1)", pq.Array(ids))
}

func (r *AttendanceRepository) List(ctx context.Context, filter *models.AttendanceFilter, sort *query.Sort, p query.Pagination) ([]models.AttendanceRow, error) {
	orderBy := query.OrderBy(models.AttendanceSortColumns, sort, "a.date DESC, a.event")
	return listRows[models.AttendanceRow](ctx, r.db, "attendances", attendanceBaseQuery, filter.WhereClause(), orderBy, p)
}

func (r *AttendanceRepository) PageInfo(ctx context.Context, filter *models.AttendanceFilter, p query.Pagination) (*query.PageInfo, error) {
	return pageInfo(ctx, r.db, "attendances", attendanceCountQuery, filter.WhereClause(), p)
}

// Upsert records a batch of attendance marks in one transaction. A student
// checked in twice for the same date and event keeps the latest mark. The
// stored rows are read back so callers see generated ids and timestamps.
func (r *AttendanceRepository) Upsert(ctx context.Context, rows []models.AttendanceRow) ([]models.AttendanceRow, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to record attendance")
	}
	defer tx.Rollback()

	out := make([]models.AttendanceRow, 0, len(rows))
	for _, row := range rows {
		stored, err := getRow[models.AttendanceRow](ctx, tx, "attendance",
			`INSERT INTO attendances (student_id, date, event, is_present, absence_type, absence_reason)
             VALUES ($1, $2, $3, $4, $5, $6)
             ON CONFLICT (student_id, date, event) DO UPDATE
             SET is_present = EXCLUDED.is_present,
                 absence_type = EXCLUDED.absence_type,
                 absence_reason = EXCLUDED.absence_reason
             RETURNING id, created_at, student_id, date, event, is_present, absence_type, absence_reason`,
			row.StudentID, row.Date, row.Event, row.IsPresent, row.AbsenceType, row.AbsenceReason)
		if err != nil {
			return nil, err
		}
		out = append(out, *stored)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.Internal(err, "failed to record attendance")
	}
	return out, nil
}
