package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
	appErrors "github.com/warin-dev/sis-api/pkg/errors"
	"github.com/warin-dev/sis-api/pkg/storage"
)

type fakeExportStudents struct {
	rows []models.StudentRow
}

func (f *fakeExportStudents) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.StudentRow, error) {
	var out []models.StudentRow
	for _, id := range ids {
		for _, r := range f.rows {
			if r.ID == id {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeExportStudents) List(ctx context.Context, filter *models.StudentFilter, sort *query.Sort, p query.Pagination) ([]models.StudentRow, error) {
	return f.rows, nil
}

type fakeExportAttendances struct {
	rows []models.AttendanceRow
}

func (f *fakeExportAttendances) List(ctx context.Context, filter *models.AttendanceFilter, sort *query.Sort, p query.Pagination) ([]models.AttendanceRow, error) {
	return f.rows, nil
}

type fakeExportCertificates struct {
	rows []models.CertificateRow
}

func (f *fakeExportCertificates) List(ctx context.Context, filter *models.CertificateFilter, sort *query.Sort, p query.Pagination) ([]models.CertificateRow, error) {
	return f.rows, nil
}

type memoryStorage struct {
	files map[string][]byte
}

func (m *memoryStorage) Save(filename string, data []byte) (string, error) {
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[filename] = data
	return filename, nil
}

func (m *memoryStorage) Open(filename string) (*os.File, error) {
	return nil, os.ErrNotExist
}

func (m *memoryStorage) Delete(filename string) error { return nil }

func (m *memoryStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) { return nil, nil }

func newTestExportService(students *fakeExportStudents, attendances *fakeExportAttendances, certificates *fakeExportCertificates) *ExportService {
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(certificates, attendances, students, &memoryStorage{}, signer, ExportConfig{}, nil)
}

func TestBuildAttendanceDatasetResolvesStudentCodes(t *testing.T) {
	studentID := uuid.New()
	sick := models.AbsenceSick
	reason := "flu"
	students := &fakeExportStudents{rows: []models.StudentRow{{ID: studentID, StudentCode: "66001"}}}
	attendances := &fakeExportAttendances{rows: []models.AttendanceRow{
		{StudentID: studentID, Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), Event: models.AttendanceEventHomeroom, IsPresent: false, AbsenceType: &sick, AbsenceReason: &reason},
	}}
	svc := newTestExportService(students, attendances, &fakeExportCertificates{})

	dataset, title, err := svc.buildAttendanceDataset(context.Background(), models.ExportJobParams{})
	require.NoError(t, err)
	assert.Equal(t, "Attendance Report", title)
	require.Len(t, dataset.Rows, 1)
	assert.Equal(t, "66001", dataset.Rows[0]["Student"])
	assert.Equal(t, "2026-06-01", dataset.Rows[0]["Date"])
	assert.Equal(t, "no", dataset.Rows[0]["Present"])
	assert.Equal(t, "sick", dataset.Rows[0]["Absence"])
	assert.Equal(t, "flu", dataset.Rows[0]["Reason"])
}

func TestBuildCertificateDatasetScopesToClassroom(t *testing.T) {
	inClass := uuid.New()
	outOfClass := uuid.New()
	classroomID := uuid.New()
	students := &fakeExportStudents{rows: []models.StudentRow{{ID: inClass, StudentCode: "66001"}}}
	certificates := &fakeExportCertificates{rows: []models.CertificateRow{
		{ID: uuid.New(), StudentID: inClass, Year: 2026, Type: models.CertificateAcademic},
		{ID: uuid.New(), StudentID: outOfClass, Year: 2026, Type: models.CertificateAcademic},
	}}
	svc := newTestExportService(students, &fakeExportAttendances{}, certificates)

	dataset, _, err := svc.buildCertificateDataset(context.Background(), models.ExportJobParams{ClassroomID: &classroomID})
	require.NoError(t, err)
	require.Len(t, dataset.Rows, 1)
	assert.Equal(t, "66001", dataset.Rows[0]["Student"])
}

func TestSubmitBeforeStartFailsJob(t *testing.T) {
	svc := newTestExportService(&fakeExportStudents{}, &fakeExportAttendances{}, &fakeExportCertificates{})

	_, err := svc.Submit(context.Background(), CreateExportRequest{
		Type:   models.ReportTypeAttendance,
		Format: models.ReportFormatCSV,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestOpenRejectsInvalidToken(t *testing.T) {
	svc := newTestExportService(&fakeExportStudents{}, &fakeExportAttendances{}, &fakeExportCertificates{})

	_, err := svc.Open("not.a.valid.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestJobUnknownID(t *testing.T) {
	svc := newTestExportService(&fakeExportStudents{}, &fakeExportAttendances{}, &fakeExportCertificates{})

	_, err := svc.Job(uuid.New())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEntityNotFound.Code, appErrors.FromError(err).Code)
}
