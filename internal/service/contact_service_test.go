package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
	appErrors "github.com/warin-dev/sis-api/pkg/errors"
)

type fakeContactRepo struct {
	createCalled  bool
	capturedOwner *authz.ContactOwner
}

func (r *fakeContactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactRow, error) {
	return nil, appErrors.NotFound("contact not found")
}

func (r *fakeContactRepo) List(ctx context.Context, filter *models.ContactFilter, sort *query.Sort, p query.Pagination) ([]models.ContactRow, error) {
	return nil, nil
}

func (r *fakeContactRepo) PageInfo(ctx context.Context, filter *models.ContactFilter, p query.Pagination) (*query.PageInfo, error) {
	norm, err := p.Normalize()
	if err != nil {
		return nil, err
	}
	return query.NewPageInfo(norm, 0), nil
}

func (r *fakeContactRepo) Create(ctx context.Context, row *models.ContactRow, owner *authz.ContactOwner) (*models.ContactRow, error) {
	r.createCalled = true
	r.capturedOwner = owner
	created := *row
	created.ID = uuid.New()
	return &created, nil
}

func (r *fakeContactRepo) Update(ctx context.Context, contactID uuid.UUID, set *query.Clause) error {
	return nil
}

func (r *fakeContactRepo) Delete(ctx context.Context, contactID uuid.UUID) error { return nil }

type emptyDirectory struct{}

func (emptyDirectory) AdvisorClassroomID(context.Context, uuid.UUID) (*uuid.UUID, error) {
	return nil, nil
}
func (emptyDirectory) StudentClassroomID(context.Context, uuid.UUID) (*uuid.UUID, error) {
	return nil, nil
}
func (emptyDirectory) ContactOwner(context.Context, uuid.UUID) (*authz.ContactOwner, error) {
	return nil, nil
}

func studentActor(studentID uuid.UUID) authz.Authorizer {
	claims := &models.JWTClaims{UserID: uuid.New(), Role: models.RoleStudent, StudentID: &studentID}
	return authz.New(claims, emptyDirectory{}, "/test")
}

func personContactRequest(studentID uuid.UUID) CreateContactRequest {
	kind := authz.OwnerPerson
	return CreateContactRequest{
		Type:      models.ContactLine,
		Value:     "@nia",
		OwnerKind: &kind,
		StudentID: &studentID,
	}
}

func TestContactCreateDeniedForForeignOwner(t *testing.T) {
	actorID := uuid.New()
	victimID := uuid.New()
	repo := &fakeContactRepo{}
	svc := NewContactService(repo, newStubFetcher(), nil, nil)

	_, err := svc.Create(context.Background(), studentActor(actorID), personContactRequest(victimID))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidPermission.Code, appErrors.FromError(err).Code)
	assert.False(t, repo.createCalled, "denied create must not reach the repository")
}

func TestContactCreateAllowsOwnPerson(t *testing.T) {
	actorID := uuid.New()
	repo := &fakeContactRepo{}
	svc := NewContactService(repo, newStubFetcher(), nil, nil)

	contact, err := svc.Create(context.Background(), studentActor(actorID), personContactRequest(actorID))
	require.NoError(t, err)
	require.NotNil(t, contact)
	require.True(t, repo.createCalled)
	require.NotNil(t, repo.capturedOwner)
	assert.Equal(t, authz.OwnerPerson, repo.capturedOwner.Kind)
	assert.Equal(t, actorID, *repo.capturedOwner.StudentID)
}

func TestContactCreateRejectsIncompleteOwner(t *testing.T) {
	kind := authz.OwnerClassroom
	svc := NewContactService(&fakeContactRepo{}, newStubFetcher(), nil, nil)

	_, err := svc.Create(context.Background(), grantAll(), CreateContactRequest{
		Type:      models.ContactPhone,
		Value:     "021234567",
		OwnerKind: &kind,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRequest.Code, appErrors.FromError(err).Code)
}
