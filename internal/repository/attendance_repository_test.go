package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warin-dev/sis-api/internal/models"
)

func TestAttendanceRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	first := models.AttendanceRow{StudentID: uuid.New(), Date: day, Event: models.AttendanceEventAssembly, IsPresent: true}
	sick := models.AbsenceSick
	reason := "flu"
	second := models.AttendanceRow{StudentID: uuid.New(), Date: day, Event: models.AttendanceEventAssembly, IsPresent: false, AbsenceType: &sick, AbsenceReason: &reason}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO attendances .*ON CONFLICT \(student_id, date, event\) DO UPDATE`).
		WithArgs(first.StudentID, day, first.Event, true, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "date", "event", "is_present"}).
			AddRow(uuid.New().String(), first.StudentID.String(), day, first.Event, true))
	mock.ExpectQuery(`INSERT INTO attendances .*ON CONFLICT \(student_id, date, event\) DO UPDATE`).
		WithArgs(second.StudentID, day, second.Event, false, &sick, &reason).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "date", "event", "is_present", "absence_type", "absence_reason"}).
			AddRow(uuid.New().String(), second.StudentID.String(), day, second.Event, false, string(sick), reason))
	mock.ExpectCommit()

	out, err := repo.Upsert(context.Background(), []models.AttendanceRow{first, second})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].IsPresent)
	require.NotNil(t, out[1].AbsenceType)
	assert.Equal(t, models.AbsenceSick, *out[1].AbsenceType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	row := models.AttendanceRow{StudentID: uuid.New(), Date: time.Now(), Event: models.AttendanceEventHomeroom, IsPresent: true}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO attendances`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.Upsert(context.Background(), []models.AttendanceRow{row})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertEmptyBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	out, err := repo.Upsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}
