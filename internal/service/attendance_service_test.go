package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
	appErrors "github.com/warin-dev/sis-api/pkg/errors"
)

type fakeAttendanceRepo struct {
	upserted []models.AttendanceRow
}

func (r *fakeAttendanceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AttendanceRow, error) {
	return nil, appErrors.NotFound("attendance record not found")
}

func (r *fakeAttendanceRepo) List(ctx context.Context, filter *models.AttendanceFilter, sort *query.Sort, p query.Pagination) ([]models.AttendanceRow, error) {
	return nil, nil
}

func (r *fakeAttendanceRepo) PageInfo(ctx context.Context, filter *models.AttendanceFilter, p query.Pagination) (*query.PageInfo, error) {
	norm, err := p.Normalize()
	if err != nil {
		return nil, err
	}
	return query.NewPageInfo(norm, 0), nil
}

func (r *fakeAttendanceRepo) Upsert(ctx context.Context, rows []models.AttendanceRow) ([]models.AttendanceRow, error) {
	r.upserted = rows
	stored := make([]models.AttendanceRow, len(rows))
	for i, row := range rows {
		row.ID = uuid.New()
		row.CreatedAt = time.Now().UTC()
		stored[i] = row
	}
	return stored, nil
}

func TestRecordUpsertsAndReturnsCompactMarks(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	svc := NewAttendanceService(repo, newStubFetcher(), nil, nil)

	sick := models.AbsenceSick
	req := RecordAttendanceRequest{
		Date:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Event: models.AttendanceEventHomeroom,
		Marks: []AttendanceMark{
			{StudentID: uuid.New(), IsPresent: true},
			{StudentID: uuid.New(), IsPresent: false, AbsenceType: &sick},
		},
	}
	marks, err := svc.Record(context.Background(), grantAll(), req)
	require.NoError(t, err)
	require.Len(t, repo.upserted, 2)
	require.Len(t, marks, 2)
	for _, m := range marks {
		assert.Equal(t, models.FetchCompact, m.Level)
		require.NotNil(t, m.Compact)
		assert.Equal(t, models.AttendanceEventHomeroom, m.Compact.Event)
	}
}

func TestRecordDenialRejectsWholeBatchBeforeWriting(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	svc := NewAttendanceService(repo, newStubFetcher(), nil, nil)

	denied := appErrors.PermissionDenied("attendance is recorded by advisors only", "/test")
	req := RecordAttendanceRequest{
		Date:  time.Now(),
		Event: models.AttendanceEventAssembly,
		Marks: []AttendanceMark{{StudentID: uuid.New(), IsPresent: true}},
	}
	_, err := svc.Record(context.Background(), denyAll(denied), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidPermission.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.upserted)
}

func TestRecordRequiresAbsenceTypeForAbsentMarks(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	svc := NewAttendanceService(repo, newStubFetcher(), nil, nil)

	req := RecordAttendanceRequest{
		Date:  time.Now(),
		Event: models.AttendanceEventHomeroom,
		Marks: []AttendanceMark{{StudentID: uuid.New(), IsPresent: false}},
	}
	_, err := svc.Record(context.Background(), grantAll(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRequest.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.upserted)
}

func TestRecordRejectsUnknownEvent(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	svc := NewAttendanceService(repo, newStubFetcher(), nil, nil)

	req := RecordAttendanceRequest{
		Date:  time.Now(),
		Event: "lunch",
		Marks: []AttendanceMark{{StudentID: uuid.New(), IsPresent: true}},
	}
	_, err := svc.Record(context.Background(), grantAll(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRequest.Code, appErrors.FromError(err).Code)
}
