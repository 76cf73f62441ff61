package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
)

// SubjectGroupRepository manages the subject-group lookup table.
type SubjectGroupRepository struct {
	db *sqlx.DB
}

// NewSubjectGroupRepository constructs a SubjectGroupRepository.
func NewSubjectGroupRepository(db *sqlx.DB) *SubjectGroupRepository {
	return &SubjectGroupRepository{db: db}
}

const subjectGroupBaseQuery = `SELECT g.id, g.name_th, g.name_en FROM subject_groups g`

const subjectGroupCountQuery = `SELECT COUNT(g.id) FROM subject_groups g`

func (r *SubjectGroupRepository) GetByID(ctx context.Context, id int) (*models.SubjectGroupRow, error) {
	return getRow[models.SubjectGroupRow](ctx, r.db, "subject group", subjectGroupBaseQuery+" WHERE g.id = $1", id)
}

// GetByIDs fetches a batch of subject-group rows. Ids with no matching row
// are silently omitted.
func (r *SubjectGroupRepository) GetByIDs(ctx context.Context, ids []int) ([]models.SubjectGroupRow, error) {
	return selectRows[models.SubjectGroupRow](ctx, r.db, "subject groups", subjectGroupBaseQuery+" WHERE g.id = ANY($1)", pq.Array(ids))
}

func (r *SubjectGroupRepository) List(ctx context.Context, filter *models.SubjectGroupFilter, sort *query.Sort, p query.Pagination) ([]models.SubjectGroupRow, error) {
	orderBy := query.OrderBy(models.SubjectGroupSortColumns, sort, "g.id")
	return listRows[models.SubjectGroupRow](ctx, r.db, "subject groups", subjectGroupBaseQuery, filter.WhereClause(), orderBy, p)
}

func (r *SubjectGroupRepository) PageInfo(ctx context.Context, filter *models.SubjectGroupFilter, p query.Pagination) (*query.PageInfo, error) {
	return pageInfo(ctx, r.db, "subject groups", subjectGroupCountQuery, filter.WhereClause(), p)
}
