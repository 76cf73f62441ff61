package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/warin-dev/sis-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestGetByIDMapsNoRowsToNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)

	mock.ExpectQuery("SELECT c.id, .* FROM classrooms c WHERE c.id =").
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "year"}))

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	appErr := apperrors.FromError(err)
	assert.Equal(t, apperrors.ErrEntityNotFound.Code, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDsOmitsMissingRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)

	present := uuid.New()
	missing := uuid.New()

	// Only one of the two requested ids exists. The batch succeeds and the
	// absent id simply does not appear in the result.
	mock.ExpectQuery(`SELECT c.id, .* FROM classrooms c WHERE c.id = ANY\(\$1\)`).
		WithArgs(pq.Array([]uuid.UUID{present, missing})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "year"}).AddRow(present.String(), 101, 2025))

	rows, err := repo.GetByIDs(context.Background(), []uuid.UUID{present, missing})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, present, rows[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDsEmptyResultIsNotAnError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)

	mock.ExpectQuery(`SELECT c.id, .* FROM classrooms c WHERE c.id = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "year"}))

	rows, err := repo.GetByIDs(context.Background(), []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
