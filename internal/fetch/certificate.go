package fetch

import (
	"context"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
)

// Certificate materializes one certificate row at the given level.
func (f *Fetcher) Certificate(ctx context.Context, row *models.CertificateRow, level, desc models.FetchLevel, az authz.Authorizer) (*models.Certificate, error) {
	if level == models.FetchIDOnly {
		return &models.Certificate{Level: level, IDOnly: &models.CertificateIDOnly{ID: row.ID}}, nil
	}
	if err := az.AuthorizeCertificate(ctx, row, authz.ReadAction(level)); err != nil {
		return nil, err
	}
	compact := &models.CertificateCompact{ID: row.ID, Year: row.Year, Type: row.Type}
	if level == models.FetchCompact {
		return &models.Certificate{Level: level, Compact: compact}, nil
	}

	def := models.CertificateDefault{CertificateCompact: *compact, Detail: row.Detail}
	student, err := f.studentByID(ctx, row.StudentID, desc, az)
	if err != nil {
		return nil, err
	}
	def.Student = student
	if level == models.FetchDefault {
		return &models.Certificate{Level: level, Default: &def}, nil
	}

	det := models.CertificateDetailed{
		CertificateDefault: def,
		ReceivingOrder:     row.ReceivingOrder,
		SeatCode:           row.SeatCode,
	}
	return &models.Certificate{Level: level, Detailed: &det}, nil
}

// Certificates materializes a batch of certificate rows concurrently.
func (f *Fetcher) Certificates(ctx context.Context, rows []models.CertificateRow, level, desc models.FetchLevel, az authz.Authorizer) ([]*models.Certificate, error) {
	return batch(ctx, rows, func(ctx context.Context, row *models.CertificateRow) (*models.Certificate, error) {
		return f.Certificate(ctx, row, level, desc, az)
	})
}
