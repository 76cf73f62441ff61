package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
	apperrors "github.com/warin-dev/sis-api/pkg/errors"
)

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	classroomID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "student_code", "person_id", "first_name_en", "classroom_id", "class_no"}).
		AddRow(uuid.New().String(), "67001", uuid.New().String(), "Anya", classroomID.String(), 1).
		AddRow(uuid.New().String(), "67002", uuid.New().String(), "Beam", classroomID.String(), 2)

	mock.ExpectQuery(`FROM students s.*WHERE cs\.classroom_id = \$1 ORDER BY cs\.class_no LIMIT 50 OFFSET 0`).
		WithArgs(classroomID).
		WillReturnRows(rows)

	filter := &models.StudentFilter{ClassroomID: &classroomID}
	got, err := repo.List(context.Background(), filter, &query.Sort{By: "class_no"}, query.Pagination{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "67001", got[0].StudentCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListRejectsPageZero(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	_, err := repo.List(context.Background(), nil, nil, query.Pagination{Page: 0, Size: 10})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidRequest.Code, apperrors.FromError(err).Code)
}

func TestStudentRepositoryPageInfo(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	q := "an"
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT s\.id\).*WHERE \(p\.first_name_th ILIKE`).
		WithArgs(q).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(125))

	info, err := repo.PageInfo(context.Background(), &models.StudentFilter{Q: &q}, query.Pagination{Page: 3, Size: 50})
	require.NoError(t, err)
	assert.Equal(t, 125, info.Total)
	assert.Equal(t, 3, info.LastPage)
	require.NotNil(t, info.PrevPage)
	assert.Equal(t, 2, *info.PrevPage)
	assert.Nil(t, info.NextPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdatePerson(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	id := uuid.New()
	set := query.Set()
	set.PushSQL("nickname_en = ")
	set.PushParam("Nia")
	set.PushSep()
	set.PushSQL("pants_size = ")
	set.PushParam("32")

	// The id binds first; SET parameters start at $2.
	mock.ExpectExec(`UPDATE people p SET nickname_en = \$2, pants_size = \$3 FROM students s WHERE s\.person_id = p\.id AND s\.id = \$1`).
		WithArgs(id, "Nia", "32").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePerson(context.Background(), id, set)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdatePersonMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	set := query.Set()
	set.PushSQL("nickname_en = ")
	set.PushParam("Nia")

	mock.ExpectExec(`UPDATE people p SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePerson(context.Background(), uuid.New(), set)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrEntityNotFound.Code, apperrors.FromError(err).Code)
}
