package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
	appErrors "github.com/warin-dev/sis-api/pkg/errors"
)

type fakeCertificateRepo struct {
	rows []models.CertificateRow
}

func (r *fakeCertificateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CertificateRow, error) {
	return nil, appErrors.NotFound("certificate not found")
}

func (r *fakeCertificateRepo) List(ctx context.Context, filter *models.CertificateFilter, sort *query.Sort, p query.Pagination) ([]models.CertificateRow, error) {
	return r.rows, nil
}

func (r *fakeCertificateRepo) PageInfo(ctx context.Context, filter *models.CertificateFilter, p query.Pagination) (*query.PageInfo, error) {
	norm, err := p.Normalize()
	if err != nil {
		return nil, err
	}
	return query.NewPageInfo(norm, len(r.rows)), nil
}

func (r *fakeCertificateRepo) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]models.CertificateRow, error) {
	return r.rows, nil
}

type fakeStudentLookup struct {
	row *models.StudentRow
}

func (l *fakeStudentLookup) GetByID(ctx context.Context, id uuid.UUID) (*models.StudentRow, error) {
	if l.row == nil || l.row.ID != id {
		return nil, appErrors.NotFound("student not found")
	}
	return l.row, nil
}

func TestAwardSheetRequiresDetailedStudentAccess(t *testing.T) {
	studentID := uuid.New()
	students := &fakeStudentLookup{row: &models.StudentRow{ID: studentID, StudentCode: "67123"}}
	// No certificates at all: the student-level gate must still fire.
	svc := NewCertificateService(&fakeCertificateRepo{}, students, newStubFetcher(), nil, nil)

	denial := appErrors.PermissionDenied("denied", "/test")
	payload, filename, err := svc.StudentAwardSheet(context.Background(), denyAll(denial), studentID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidPermission.Code, appErrors.FromError(err).Code)
	assert.Nil(t, payload)
	assert.Empty(t, filename)
}

func TestAwardSheetRendersForAuthorizedActor(t *testing.T) {
	studentID := uuid.New()
	students := &fakeStudentLookup{row: &models.StudentRow{ID: studentID, StudentCode: "67123"}}
	repo := &fakeCertificateRepo{rows: []models.CertificateRow{
		{ID: uuid.New(), StudentID: studentID, Year: 2026, Type: models.CertificateAcademic},
	}}
	svc := NewCertificateService(repo, students, newStubFetcher(), nil, nil)

	payload, filename, err := svc.StudentAwardSheet(context.Background(), grantAll(), studentID)
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
	assert.Contains(t, filename, "67123")
}
