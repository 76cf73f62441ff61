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

// TeacherRepository manages persistence for teacher records.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherBaseQuery = `SELECT t.id, t.created_at, t.teacher_code, t.person_id,
        p.prefix_th, p.prefix_en, p.first_name_th, p.first_name_en, p.middle_name_th, p.middle_name_en,
        p.last_name_th, p.last_name_en, p.nickname_th, p.nickname_en, p.birthdate, p.sex, p.citizen_id,
        p.blood_group, p.shirt_size, p.profile,
        t.subject_group_id, ca.classroom_id AS advisor_at_id, t.user_id
        FROM teachers t
        JOIN people p ON p.id = t.person_id
        LEFT JOIN classroom_advisors ca ON ca.teacher_id = t.id`

const teacherCountQuery = `SELECT COUNT(DISTINCT t.id)
        FROM teachers t
        JOIN people p ON p.id = t.person_id
        LEFT JOIN classroom_advisors ca ON ca.teacher_id = t.id`

func (r *TeacherRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TeacherRow, error) {
	return getRow[models.TeacherRow](ctx, r.db, "teacher", teacherBaseQuery+" WHERE t.id = $1", id)
}

// GetByIDs fetches a batch of teacher rows. Ids with no matching row are
// silently omitted.
func (r *TeacherRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.TeacherRow, error) {
	return selectRows[models.TeacherRow](ctx, r.db, "teachers", teacherBaseQuery+" WHERE t.id = ANY($1)", pq.Array(ids))
}

func (r *TeacherRepository) List(ctx context.Context, filter *models.TeacherFilter, sort *query.Sort, p query.Pagination) ([]models.TeacherRow, error) {
	orderBy := query.OrderBy(models.TeacherSortColumns, sort, "t.teacher_code")
	return listRows[models.TeacherRow](ctx, r.db, "teachers", teacherBaseQuery, filter.WhereClause(), orderBy, p)
}

func (r *TeacherRepository) PageInfo(ctx context.Context, filter *models.TeacherFilter, p query.Pagination) (*query.PageInfo, error) {
	return pageInfo(ctx, r.db, "teachers", teacherCountQuery, filter.WhereClause(), p)
}

// UpdatePerson applies a SET clause to the teacher's person row.
func (r *TeacherRepository) UpdatePerson(ctx context.Context, teacherID uuid.UUID, set *query.Clause) error {
	if set.Empty() {
		return nil
	}
	text, args := set.Build(2)
	sqlText := "UPDATE people p SET " + text + " FROM teachers t WHERE t.person_id = p.id AND t.id = $1"
	res, err := r.db.ExecContext(ctx, sqlText, append([]interface{}{teacherID}, args...)...)
	if err != nil {
		return apperrors.Internal(err, "failed to update teacher")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("teacher not found")
	}
	return nil
}
