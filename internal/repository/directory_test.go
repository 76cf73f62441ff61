package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warin-dev/sis-api/internal/authz"
)

func TestDirectoryAdvisorClassroomIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	dir := NewDirectory(db)

	mock.ExpectQuery(`SELECT ca\.classroom_id FROM classroom_advisors`).
		WillReturnRows(sqlmock.NewRows([]string{"classroom_id"}))

	id, err := dir.AdvisorClassroomID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryContactOwnerClassroom(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	dir := NewDirectory(db)

	classroomID := uuid.New()
	mock.ExpectQuery(`SELECT 'classroom' AS kind`).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "classroom_id", "club_id", "student_id", "teacher_id"}).
			AddRow("classroom", classroomID.String(), nil, nil, nil))

	owner, err := dir.ContactOwner(context.Background(), uuid.New())
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, authz.OwnerClassroom, owner.Kind)
	require.NotNil(t, owner.ClassroomID)
	assert.Equal(t, classroomID, *owner.ClassroomID)
}

func TestDirectoryContactOwnerGhost(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	dir := NewDirectory(db)

	mock.ExpectQuery(`SELECT 'classroom' AS kind`).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "classroom_id", "club_id", "student_id", "teacher_id"}))

	owner, err := dir.ContactOwner(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, owner)
}
