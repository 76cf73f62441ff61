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

// ClassroomRepository manages persistence for classroom records.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs a ClassroomRepository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

const classroomBaseQuery = `SELECT c.id, c.created_at, c.number, c.year, c.main_room FROM classrooms c`

const classroomCountQuery = `SELECT COUNT(c.id) FROM classrooms c`

func (r *ClassroomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ClassroomRow, error) {
	return getRow[models.ClassroomRow](ctx, r.db, "classroom", classroomBaseQuery+" WHERE c.id = $1", id)
}

// GetByIDs fetches a batch of classroom rows. Ids with no matching row are
// silently omitted.
func (r *ClassroomRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ClassroomRow, error) {
	return selectRows[models.ClassroomRow](ctx, r.db, "classrooms", classroomBaseQuery+" WHERE c.id = ANY($1)", pq.Array(ids))
}

func (r *ClassroomRepository) List(ctx context.Context, filter *models.ClassroomFilter, sort *query.Sort, p query.Pagination) ([]models.ClassroomRow, error) {
	orderBy := query.OrderBy(models.ClassroomSortColumns, sort, "c.year DESC, c.number")
	return listRows[models.ClassroomRow](ctx, r.db, "classrooms", classroomBaseQuery, filter.WhereClause(), orderBy, p)
}

func (r *ClassroomRepository) PageInfo(ctx context.Context, filter *models.ClassroomFilter, p query.Pagination) (*query.PageInfo, error) {
	return pageInfo(ctx, r.db, "classrooms", classroomCountQuery, filter.WhereClause(), p)
}

// AdvisorIDs lists the ids of the classroom's advising teachers.
func (r *ClassroomRepository) AdvisorIDs(ctx context.Context, classroomID uuid.UUID) ([]uuid.UUID, error) {
	return selectRows[uuid.UUID](ctx, r.db, "classroom advisors",
		"SELECT ca.teacher_id FROM classroom_advisors ca WHERE ca.classroom_id = $1 ORDER BY ca.teacher_id", classroomID)
}

// StudentIDs lists the ids of the classroom's students ordered by class number.
func (r *ClassroomRepository) StudentIDs(ctx context.Context, classroomID uuid.UUID) ([]uuid.UUID, error) {
	return selectRows[uuid.UUID](ctx, r.db, "classroom students",
		"SELECT cs.student_id FROM classroom_students cs WHERE cs.classroom_id = $1 ORDER BY cs.class_no", classroomID)
}

// StudentCount returns the classroom's enrolment size.
func (r *ClassroomRepository) StudentCount(ctx context.Context, classroomID uuid.UUID) (int, error) {
	return countRows(ctx, r.db, "classroom students",
		"SELECT COUNT(cs.student_id) FROM classroom_students cs WHERE cs.classroom_id = $1", classroomID)
}

// Update applies a SET clause to the classroom row.
func (r *ClassroomRepository) Update(ctx context.Context, classroomID uuid.UUID, set *query.Clause) error {
	if set.Empty() {
		return nil
	}
	text, args := set.Build(2)
	res, err := r.db.ExecContext(ctx, "UPDATE classrooms SET "+text+" WHERE id = $1",
		append([]interface{}{classroomID}, args...)...)
	if err != nil {
		return apperrors.Internal(err, "failed to update classroom")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("classroom not found")
	}
	return nil
}
