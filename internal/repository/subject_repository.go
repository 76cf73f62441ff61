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

// SubjectRepository manages persistence for subject records.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

const subjectBaseQuery = `SELECT sj.id, sj.created_at, sj.code_th, sj.code_en, sj.name_th, sj.name_en,
        sj.short_name_th, sj.short_name_en, sj.type, sj.credit, sj.semester, sj.subject_group_id, sj.syllabus
        FROM subjects sj`

const subjectCountQuery = `SELECT COUNT(sj.id) FROM subjects sj`

func (r *SubjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SubjectRow, error) {
	return getRow[models.SubjectRow](ctx, r.db, "subject", subjectBaseQuery+" WHERE sj.id = $1", id)
}

// GetByIDs fetches a batch of subject rows. Ids with no matching row are
// silently omitted.
func (r *SubjectRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.SubjectRow, error) {
	return selectRows[models.SubjectRow](ctx, r.db, "subjects", subjectBaseQuery+" WHERE sj.id = ANY($1)", pq.Array(ids))
}

func (r *SubjectRepository) List(ctx context.Context, filter *models.SubjectFilter, sort *query.Sort, p query.Pagination) ([]models.SubjectRow, error) {
	orderBy := query.OrderBy(models.SubjectSortColumns, sort, "sj.code_th")
	return listRows[models.SubjectRow](ctx, r.db, "subjects", subjectBaseQuery, filter.WhereClause(), orderBy, p)
}

func (r *SubjectRepository) PageInfo(ctx context.Context, filter *models.SubjectFilter, p query.Pagination) (*query.PageInfo, error) {
	return pageInfo(ctx, r.db, "subjects", subjectCountQuery, filter.WhereClause(), p)
}

// TeacherIDs lists the subject's teachers. co selects co-teachers instead of
// the teachers in charge.
func (r *SubjectRepository) TeacherIDs(ctx context.Context, subjectID uuid.UUID, co bool) ([]uuid.UUID, error) {
	return selectRows[uuid.UUID](ctx, r.db, "subject teachers",
		`SELECT st.teacher_id FROM subject_teachers st
         WHERE st.subject_id = $1 AND st.is_co_teacher = $2 ORDER BY st.teacher_id`, subjectID, co)
}

// IDsForTeacher lists the subjects a teacher is in charge of. co selects
// co-teaching assignments instead.
func (r *SubjectRepository) IDsForTeacher(ctx context.Context, teacherID uuid.UUID, co bool) ([]uuid.UUID, error) {
	return selectRows[uuid.UUID](ctx, r.db, "teacher subjects",
		`SELECT st.subject_id FROM subject_teachers st
         WHERE st.teacher_id = $1 AND st.is_co_teacher = $2 ORDER BY st.subject_id`, teacherID, co)
}

// Update applies a SET clause to the subject row.
func (r *SubjectRepository) Update(ctx context.Context, subjectID uuid.UUID, set *query.Clause) error {
	if set.Empty() {
		return nil
	}
	text, args := set.Build(2)
	res, err := r.db.ExecContext(ctx, "UPDATE subjects SET "+text+" WHERE id = $1",
		append([]interface{}{subjectID}, args...)...)
	if err != nil {
		return apperrors.Internal(err, "failed to update subject")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("subject not found")
	}
	return nil
}
