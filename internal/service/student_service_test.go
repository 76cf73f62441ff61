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

type fakeStudentRepo struct {
	row           *models.StudentRow
	updateCalled  bool
	capturedSet   *query.Clause
	capturedID    uuid.UUID
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StudentRow, error) {
	if r.row == nil || r.row.ID != id {
		return nil, appErrors.NotFound("student not found")
	}
	return r.row, nil
}

func (r *fakeStudentRepo) List(ctx context.Context, filter *models.StudentFilter, sort *query.Sort, p query.Pagination) ([]models.StudentRow, error) {
	if r.row == nil {
		return nil, nil
	}
	return []models.StudentRow{*r.row}, nil
}

func (r *fakeStudentRepo) PageInfo(ctx context.Context, filter *models.StudentFilter, p query.Pagination) (*query.PageInfo, error) {
	norm, err := p.Normalize()
	if err != nil {
		return nil, err
	}
	return query.NewPageInfo(norm, 1), nil
}

func (r *fakeStudentRepo) UpdatePerson(ctx context.Context, studentID uuid.UUID, set *query.Clause) error {
	r.updateCalled = true
	r.capturedID = studentID
	r.capturedSet = set
	return nil
}

func TestStudentUpdateBuildsPartialSetClause(t *testing.T) {
	id := uuid.New()
	repo := &fakeStudentRepo{row: &models.StudentRow{ID: id, StudentCode: "66001"}}
	svc := NewStudentService(repo, newStubFetcher(), nil, nil)

	nickname := "Nia"
	pants := "32"
	student, err := svc.Update(context.Background(), grantAll(), id, UpdateStudentRequest{
		NicknameEN: &nickname,
		PantsSize:  &pants,
	})
	require.NoError(t, err)
	require.True(t, repo.updateCalled)
	assert.Equal(t, id, repo.capturedID)

	text, args := repo.capturedSet.Build(2)
	assert.Equal(t, "nickname_en = $2, pants_size = $3", text)
	assert.Equal(t, []interface{}{"Nia", "32"}, args)

	require.NotNil(t, student)
	assert.Equal(t, models.FetchDefault, student.Level)
	require.NotNil(t, student.Default)
	assert.Equal(t, "66001", student.Default.StudentCode)
}

func TestStudentUpdateDeniedBeforeAnyWrite(t *testing.T) {
	id := uuid.New()
	repo := &fakeStudentRepo{row: &models.StudentRow{ID: id}}
	svc := NewStudentService(repo, newStubFetcher(), nil, nil)

	denied := appErrors.PermissionDenied("students are read-only for this role", "/test")
	nickname := "Nia"
	_, err := svc.Update(context.Background(), denyAll(denied), id, UpdateStudentRequest{NicknameEN: &nickname})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidPermission.Code, appErrors.FromError(err).Code)
	assert.False(t, repo.updateCalled)
}

func TestStudentUpdateRejectsMalformedProfileURL(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, newStubFetcher(), nil, nil)

	bad := "not a url"
	_, err := svc.Update(context.Background(), grantAll(), uuid.New(), UpdateStudentRequest{ProfileURL: &bad})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRequest.Code, appErrors.FromError(err).Code)
	assert.False(t, repo.updateCalled)
}

func TestStudentUpdateUnknownStudent(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, newStubFetcher(), nil, nil)

	_, err := svc.Update(context.Background(), grantAll(), uuid.New(), UpdateStudentRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEntityNotFound.Code, appErrors.FromError(err).Code)
}
