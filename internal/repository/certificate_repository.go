package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
)

// CertificateRepository manages persistence for certificate records.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository constructs a CertificateRepository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

const certificateBaseQuery = `SELECT cf.id, cf.created_at, cf.student_id, cf.year, cf.certificate_type,
        cf.certificate_detail, cf.receiving_order_number, cf.seat_code
        FROM certificates cf`

const certificateCountQuery = `SELECT COUNT(cf.id) FROM certificates cf`

func (r *CertificateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CertificateRow, error) {
	return getRow[models.CertificateRow](ctx, r.db, "certificate", certificateBaseQuery+" WHERE cf.id = $1", id)
}

// GetByIDs fetches a batch of certificate rows. Ids with no matching row are
// silently omitted.
func (r *CertificateRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CertificateRow, error) {
	return selectRows[models.CertificateRow](ctx, r.db, "certificates", certificateBaseQuery+" WHERE cf.id = ANY($1)", pq.Array(ids))
}

func (r *CertificateRepository) List(ctx context.Context, filter *models.CertificateFilter, sort *query.Sort, p query.Pagination) ([]models.CertificateRow, error) {
	orderBy := query.OrderBy(models.CertificateSortColumns, sort, "cf.year DESC, cf.created_at")
	return listRows[models.CertificateRow](ctx, r.db, "certificates", certificateBaseQuery, filter.WhereClause(), orderBy, p)
}

func (r *CertificateRepository) PageInfo(ctx context.Context, filter *models.CertificateFilter, p query.Pagination) (*query.PageInfo, error) {
	return pageInfo(ctx, r.db, "certificates", certificateCountQuery, filter.WhereClause(), p)
}

// ListForStudent returns every certificate awarded to the student, newest
// academic year first.
func (r *CertificateRepository) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]models.CertificateRow, error) {
	return selectRows[models.CertificateRow](ctx, r.db, "certificates",
		certificateBaseQuery+" WHERE cf.student_id = $1 ORDER BY cf.year DESC, cf.created_at", studentID)
}
