package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
)

// ClubRepository manages persistence for club records.
type ClubRepository struct {
	db *sqlx.DB
}

// NewClubRepository constructs a ClubRepository.
func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

const clubBaseQuery = `SELECT cl.id, cl.created_at, cl.name_th, cl.name_en, cl.description_th, cl.description_en,
        cl.logo, cl.accent_color, cl.house, cl.main_room
        FROM clubs cl`

const clubCountQuery = `SELECT COUNT(cl.id) FROM clubs cl`

func (r *ClubRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ClubRow, error) {
	return getRow[models.ClubRow](ctx, r.db, "club", clubBaseQuery+" WHERE cl.id = $1", id)
}

// GetByIDs fetches a batch of club rows. Ids with no matching row are
// silently omitted.
func (r *ClubRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ClubRow, error) {
	return selectRows[models.ClubRow](ctx, r.db, "clubs", clubBaseQuery+" WHERE cl.id = ANY($1)", pq.Array(ids))
}

func (r *ClubRepository) List(ctx context.Context, filter *models.ClubFilter, sort *query.Sort, p query.Pagination) ([]models.ClubRow, error) {
	orderBy := query.OrderBy(models.ClubSortColumns, sort, "cl.name_th")
	return listRows[models.ClubRow](ctx, r.db, "clubs", clubBaseQuery, filter.WhereClause(), orderBy, p)
}

func (r *ClubRepository) PageInfo(ctx context.Context, filter *models.ClubFilter, p query.Pagination) (*query.PageInfo, error) {
	return pageInfo(ctx, r.db, "clubs", clubCountQuery, filter.WhereClause(), p)
}

// StaffIDs lists the student ids staffing the club.
func (r *ClubRepository) StaffIDs(ctx context.Context, clubID uuid.UUID) ([]uuid.UUID, error) {
	return selectRows[uuid.UUID](ctx, r.db, "club staffs",
		"SELECT cs.student_id FROM club_staffs cs WHERE cs.club_id = $1 ORDER BY cs.student_id", clubID)
}

// MemberIDs lists the student ids of approved club members. Pending and
// declined join requests stay hidden.
func (r *ClubRepository) MemberIDs(ctx context.Context, clubID uuid.UUID) ([]uuid.UUID, error) {
	return selectRows[uuid.UUID](ctx, r.db, "club members",
		"SELECT cm.student_id FROM club_members cm WHERE cm.club_id = $1 AND cm.status = $2 ORDER BY cm.student_id",
		clubID, models.SubmissionApproved)
}
