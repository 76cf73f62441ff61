package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/fetch"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
	"github.com/warin-dev/sis-api/pkg/export"
)

type certificateRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.CertificateRow, error)
	List(ctx context.Context, filter *models.CertificateFilter, sort *query.Sort, p query.Pagination) ([]models.CertificateRow, error)
	PageInfo(ctx context.Context, filter *models.CertificateFilter, p query.Pagination) (*query.PageInfo, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]models.CertificateRow, error)
}

type certificateStudentLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.StudentRow, error)
}

type certificatePDFRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// CertificateService handles certificate use-cases including the on-demand
// award sheet PDF for a single student.
type CertificateService struct {
	repo     certificateRepository
	students certificateStudentLookup
	fetcher  *fetch.Fetcher
	pdf      certificatePDFRenderer
	logger   *zap.Logger
}

// NewCertificateService constructs the certificate service.
func NewCertificateService(repo certificateRepository, students certificateStudentLookup, fetcher *fetch.Fetcher, pdf certificatePDFRenderer, logger *zap.Logger) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &CertificateService{repo: repo, students: students, fetcher: fetcher, pdf: pdf, logger: logger}
}

// Get materializes one certificate at the requested fetch level.
func (s *CertificateService) Get(ctx context.Context, az authz.Authorizer, id uuid.UUID, level, desc models.FetchLevel) (*models.Certificate, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Certificate(ctx, row, level, desc, az)
}

// List materializes a filtered page of certificates.
func (s *CertificateService) List(ctx context.Context, az authz.Authorizer, filter *models.CertificateFilter, sort *query.Sort, p query.Pagination, level, desc models.FetchLevel) (*fetch.Page[models.Certificate], error) {
	rows, err := s.repo.List(ctx, filter, sort, p)
	if err != nil {
		return nil, err
	}
	items, err := s.fetcher.Certificates(ctx, rows, level, desc, az)
	if err != nil {
		return nil, err
	}
	info, err := s.repo.PageInfo(ctx, filter, p)
	if err != nil {
		return nil, err
	}
	return &fetch.Page[models.Certificate]{Items: items, PageInfo: info}, nil
}

// StudentAwardSheet renders a student's certificates as a PDF. The student
// is authorized at the Detailed level before anything renders, so an empty
// sheet still requires the same access as a full one, and every certificate
// row is then checked the same way since the sheet includes ceremony
// placement.
func (s *CertificateService) StudentAwardSheet(ctx context.Context, az authz.Authorizer, studentID uuid.UUID) ([]byte, string, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, "", err
	}
	if err := az.AuthorizeStudent(ctx, student, authz.ActionReadDetailed); err != nil {
		return nil, "", err
	}
	rows, err := s.repo.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, "", err
	}
	for i := range rows {
		if err := az.AuthorizeCertificate(ctx, &rows[i], authz.ActionReadDetailed); err != nil {
			return nil, "", err
		}
	}

	dataset := export.Dataset{
		Headers: []string{"Year", "Type", "Detail", "Order", "Seat"},
		Rows:    make([]map[string]string, 0, len(rows)),
	}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Year":   fmt.Sprintf("%d", row.Year),
			"Type":   string(row.Type),
			"Detail": strDeref(row.Detail),
			"Order":  intDeref(row.ReceivingOrder),
			"Seat":   strDeref(row.SeatCode),
		})
	}

	title := "Certificates - " + student.StudentCode
	payload, err := s.pdf.Render(dataset, title)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("certificates_%s_%s.pdf", student.StudentCode, time.Now().UTC().Format("20060102"))
	s.logger.Info("award sheet rendered",
		zap.String("student_id", studentID.String()),
		zap.Int("certificates", len(rows)))
	return payload, filename, nil
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intDeref(n *int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%d", *n)
}
