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

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// studentBaseQuery selects every column any fetch variant needs: the
// student row joined with its person row and current classroom placement.
const studentBaseQuery = `SELECT s.id, s.created_at, s.student_code, s.person_id,
        p.prefix_th, p.prefix_en, p.first_name_th, p.first_name_en, p.middle_name_th, p.middle_name_en,
        p.last_name_th, p.last_name_en, p.nickname_th, p.nickname_en, p.birthdate, p.sex, p.citizen_id,
        p.blood_group, p.shirt_size, p.pants_size, p.profile,
        cs.classroom_id, cs.class_no, s.user_id
        FROM students s
        JOIN people p ON p.id = s.person_id
        LEFT JOIN classroom_students cs ON cs.student_id = s.id`

const studentCountQuery = `SELECT COUNT(DISTINCT s.id)
        FROM students s
        JOIN people p ON p.id = s.person_id
        LEFT JOIN classroom_students cs ON cs.student_id = s.id`

// GetByID fetches one student row.
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StudentRow, error) {
	return getRow[models.StudentRow](ctx, r.db, "student", studentBaseQuery+" WHERE s.id = $1", id)
}

// GetByIDs fetches a batch of student rows. Ids with no matching row are
// silently omitted; callers that must detect absence diff the id sets.
func (r *StudentRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.StudentRow, error) {
	return selectRows[models.StudentRow](ctx, r.db, "students", studentBaseQuery+" WHERE s.id = ANY($1)", pq.Array(ids))
}

// List returns student rows matching the filter, sort, and page selector.
func (r *StudentRepository) List(ctx context.Context, filter *models.StudentFilter, sort *query.Sort, p query.Pagination) ([]models.StudentRow, error) {
	orderBy := query.OrderBy(models.StudentSortColumns, sort, "s.student_code")
	return listRows[models.StudentRow](ctx, r.db, "students", studentBaseQuery, filter.WhereClause(), orderBy, p)
}

// PageInfo computes pagination metadata for the same filter.
func (r *StudentRepository) PageInfo(ctx context.Context, filter *models.StudentFilter, p query.Pagination) (*query.PageInfo, error) {
	return pageInfo(ctx, r.db, "students", studentCountQuery, filter.WhereClause(), p)
}

// UpdatePerson applies a SET clause to the student's person row. An empty
// clause is a no-op.
func (r *StudentRepository) UpdatePerson(ctx context.Context, studentID uuid.UUID, set *query.Clause) error {
	if set.Empty() {
		return nil
	}
	text, args := set.Build(2)
	sqlText := "UPDATE people p SET " + text + " FROM students s WHERE s.person_id = p.id AND s.id = $1"
	res, err := r.db.ExecContext(ctx, sqlText, append([]interface{}{studentID}, args...)...)
	if err != nil {
		return apperrors.Internal(err, "failed to update student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("student not found")
	}
	return nil
}
