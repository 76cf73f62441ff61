package authz

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warin-dev/sis-api/internal/models"
	apperrors "github.com/warin-dev/sis-api/pkg/errors"
)

type fakeDirectory struct {
	advisorAt     map[uuid.UUID]*uuid.UUID
	classrooms    map[uuid.UUID]*uuid.UUID
	contactOwners map[uuid.UUID]*ContactOwner
	lookups       int
}

func (d *fakeDirectory) AdvisorClassroomID(_ context.Context, teacherID uuid.UUID) (*uuid.UUID, error) {
	d.lookups++
	return d.advisorAt[teacherID], nil
}

func (d *fakeDirectory) StudentClassroomID(_ context.Context, studentID uuid.UUID) (*uuid.UUID, error) {
	d.lookups++
	return d.classrooms[studentID], nil
}

func (d *fakeDirectory) ContactOwner(_ context.Context, contactID uuid.UUID) (*ContactOwner, error) {
	d.lookups++
	return d.contactOwners[contactID], nil
}

func claimsFor(role models.UserRole, studentID, teacherID *uuid.UUID) *models.JWTClaims {
	return &models.JWTClaims{UserID: uuid.New(), Role: role, StudentID: studentID, TeacherID: teacherID}
}

func assertDenied(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr := apperrors.FromError(err)
	assert.Equal(t, apperrors.ErrInvalidPermission.Code, appErr.Code)
	assert.Equal(t, "/test", appErr.Source)
}

func TestAdminAllowsEverything(t *testing.T) {
	az := New(claimsFor(models.RoleAdmin, nil, nil), &fakeDirectory{}, "/test")
	ctx := context.Background()

	assert.NoError(t, az.AuthorizeStudent(ctx, &models.StudentRow{ID: uuid.New()}, ActionReadDetailed))
	assert.NoError(t, az.AuthorizeStudent(ctx, &models.StudentRow{ID: uuid.New()}, ActionDelete))
	assert.NoError(t, az.AuthorizeClassroom(ctx, &models.ClassroomRow{ID: uuid.New()}, ActionUpdate))
	assert.NoError(t, az.AuthorizeContact(ctx, &models.ContactRow{ID: uuid.New()}, ActionDelete))
}

func TestManagementReadCapsAndWriteDenial(t *testing.T) {
	az := New(claimsFor(models.RoleManagement, nil, nil), &fakeDirectory{}, "/test")
	ctx := context.Background()
	student := &models.StudentRow{ID: uuid.New()}

	assert.NoError(t, az.AuthorizeStudent(ctx, student, ActionReadDefault))
	assertDenied(t, az.AuthorizeStudent(ctx, student, ActionReadDetailed))
	assertDenied(t, az.AuthorizeStudent(ctx, student, ActionUpdate))

	// Classroom and contact reads have no level cap for management.
	assert.NoError(t, az.AuthorizeClassroom(ctx, &models.ClassroomRow{ID: uuid.New()}, ActionReadDetailed))
	assert.NoError(t, az.AuthorizeContact(ctx, &models.ContactRow{ID: uuid.New()}, ActionReadDetailed))
	assertDenied(t, az.AuthorizeClassroom(ctx, &models.ClassroomRow{ID: uuid.New()}, ActionUpdate))
}

func TestTeacherSelfAndAdvisorRules(t *testing.T) {
	selfID := uuid.New()
	otherID := uuid.New()
	advised := uuid.New()
	dir := &fakeDirectory{advisorAt: map[uuid.UUID]*uuid.UUID{selfID: &advised}}
	az := New(claimsFor(models.RoleTeacher, nil, &selfID), dir, "/test")
	ctx := context.Background()

	assert.NoError(t, az.AuthorizeTeacher(ctx, &models.TeacherRow{ID: selfID}, ActionReadDetailed))
	assert.NoError(t, az.AuthorizeTeacher(ctx, &models.TeacherRow{ID: selfID}, ActionUpdate))
	assert.NoError(t, az.AuthorizeTeacher(ctx, &models.TeacherRow{ID: otherID}, ActionReadDefault))
	assertDenied(t, az.AuthorizeTeacher(ctx, &models.TeacherRow{ID: otherID}, ActionReadDetailed))

	assert.NoError(t, az.AuthorizeClassroom(ctx, &models.ClassroomRow{ID: advised}, ActionUpdate))
	assertDenied(t, az.AuthorizeClassroom(ctx, &models.ClassroomRow{ID: uuid.New()}, ActionUpdate))

	// The advisor lookup is memoized across checks within the request.
	lookups := dir.lookups
	assert.NoError(t, az.AuthorizeClassroom(ctx, &models.ClassroomRow{ID: advised}, ActionReadDetailed))
	assert.Equal(t, lookups, dir.lookups)
}

func TestTeacherContactOwnershipBranches(t *testing.T) {
	selfID := uuid.New()
	advised := uuid.New()
	classroomContact := uuid.New()
	ownContact := uuid.New()
	foreignContact := uuid.New()
	ghostContact := uuid.New()
	otherTeacher := uuid.New()

	dir := &fakeDirectory{
		advisorAt: map[uuid.UUID]*uuid.UUID{selfID: &advised},
		contactOwners: map[uuid.UUID]*ContactOwner{
			classroomContact: {Kind: OwnerClassroom, ClassroomID: &advised},
			ownContact:       {Kind: OwnerPerson, TeacherID: &selfID},
			foreignContact:   {Kind: OwnerPerson, TeacherID: &otherTeacher},
		},
	}
	az := New(claimsFor(models.RoleTeacher, nil, &selfID), dir, "/test")
	ctx := context.Background()

	assert.NoError(t, az.AuthorizeContact(ctx, &models.ContactRow{ID: classroomContact}, ActionUpdate))
	assert.NoError(t, az.AuthorizeContact(ctx, &models.ContactRow{ID: ownContact}, ActionUpdate))
	assertDenied(t, az.AuthorizeContact(ctx, &models.ContactRow{ID: foreignContact}, ActionUpdate))
	assertDenied(t, az.AuthorizeContact(ctx, &models.ContactRow{ID: ghostContact}, ActionDelete))
	// Ghost contacts stay readable.
	assert.NoError(t, az.AuthorizeContact(ctx, &models.ContactRow{ID: ghostContact}, ActionReadDefault))
}

func TestStudentClassmateRule(t *testing.T) {
	selfID := uuid.New()
	classmateID := uuid.New()
	strangerID := uuid.New()
	sharedClassroom := uuid.New()
	otherClassroom := uuid.New()

	dir := &fakeDirectory{classrooms: map[uuid.UUID]*uuid.UUID{selfID: &sharedClassroom}}
	az := New(claimsFor(models.RoleStudent, &selfID, nil), dir, "/test")
	ctx := context.Background()

	// Own record: full access including update.
	assert.NoError(t, az.AuthorizeStudent(ctx, &models.StudentRow{ID: selfID, ClassroomID: &sharedClassroom}, ActionReadDetailed))
	assert.NoError(t, az.AuthorizeStudent(ctx, &models.StudentRow{ID: selfID, ClassroomID: &sharedClassroom}, ActionUpdate))

	// Classmate: Default allowed, Detailed denied.
	classmate := &models.StudentRow{ID: classmateID, ClassroomID: &sharedClassroom}
	assert.NoError(t, az.AuthorizeStudent(ctx, classmate, ActionReadDefault))
	assertDenied(t, az.AuthorizeStudent(ctx, classmate, ActionReadDetailed))

	// Stranger: Compact allowed, Default denied.
	stranger := &models.StudentRow{ID: strangerID, ClassroomID: &otherClassroom}
	assert.NoError(t, az.AuthorizeStudent(ctx, stranger, ActionReadCompact))
	assertDenied(t, az.AuthorizeStudent(ctx, stranger, ActionReadDefault))
}

func TestStudentOwnershipOverAttendanceAndCertificates(t *testing.T) {
	selfID := uuid.New()
	otherID := uuid.New()
	az := New(claimsFor(models.RoleStudent, &selfID, nil), &fakeDirectory{}, "/test")
	ctx := context.Background()

	assert.NoError(t, az.AuthorizeAttendance(ctx, &models.AttendanceRow{ID: uuid.New(), StudentID: selfID}, ActionReadDefault))
	assertDenied(t, az.AuthorizeAttendance(ctx, &models.AttendanceRow{ID: uuid.New(), StudentID: otherID}, ActionReadDefault))
	assertDenied(t, az.AuthorizeAttendance(ctx, &models.AttendanceRow{ID: uuid.New(), StudentID: selfID}, ActionCreate))

	assert.NoError(t, az.AuthorizeCertificate(ctx, &models.CertificateRow{ID: uuid.New(), StudentID: selfID}, ActionReadDetailed))
	assertDenied(t, az.AuthorizeCertificate(ctx, &models.CertificateRow{ID: uuid.New(), StudentID: otherID}, ActionReadDetailed))
}

func TestStudentContactAttachmentOwnOnly(t *testing.T) {
	selfID := uuid.New()
	victimID := uuid.New()
	az := New(claimsFor(models.RoleStudent, &selfID, nil), &fakeDirectory{}, "/test")
	ctx := context.Background()

	assert.NoError(t, az.AuthorizeContactAttachment(ctx, &ContactOwner{Kind: OwnerPerson, StudentID: &selfID}))

	assertDenied(t, az.AuthorizeContactAttachment(ctx, &ContactOwner{Kind: OwnerPerson, StudentID: &victimID}))
	assertDenied(t, az.AuthorizeContactAttachment(ctx, &ContactOwner{Kind: OwnerClassroom, ClassroomID: ptr(uuid.New())}))
	assertDenied(t, az.AuthorizeContactAttachment(ctx, &ContactOwner{Kind: OwnerClub, ClubID: ptr(uuid.New())}))
	assertDenied(t, az.AuthorizeContactAttachment(ctx, nil))
}

func TestTeacherContactAttachmentBranches(t *testing.T) {
	selfID := uuid.New()
	advised := uuid.New()
	otherTeacher := uuid.New()
	dir := &fakeDirectory{advisorAt: map[uuid.UUID]*uuid.UUID{selfID: &advised}}
	az := New(claimsFor(models.RoleTeacher, nil, &selfID), dir, "/test")
	ctx := context.Background()

	assert.NoError(t, az.AuthorizeContactAttachment(ctx, &ContactOwner{Kind: OwnerPerson, TeacherID: &selfID}))
	assert.NoError(t, az.AuthorizeContactAttachment(ctx, &ContactOwner{Kind: OwnerClassroom, ClassroomID: &advised}))

	assertDenied(t, az.AuthorizeContactAttachment(ctx, &ContactOwner{Kind: OwnerPerson, TeacherID: &otherTeacher}))
	assertDenied(t, az.AuthorizeContactAttachment(ctx, &ContactOwner{Kind: OwnerClassroom, ClassroomID: ptr(uuid.New())}))
	assertDenied(t, az.AuthorizeContactAttachment(ctx, &ContactOwner{Kind: OwnerClub, ClubID: ptr(uuid.New())}))
	assertDenied(t, az.AuthorizeContactAttachment(ctx, nil))
}

func TestContactAttachmentByRole(t *testing.T) {
	owner := &ContactOwner{Kind: OwnerClub, ClubID: ptr(uuid.New())}
	ctx := context.Background()

	assert.NoError(t, New(claimsFor(models.RoleAdmin, nil, nil), &fakeDirectory{}, "/test").AuthorizeContactAttachment(ctx, owner))
	assertDenied(t, New(claimsFor(models.RoleManagement, nil, nil), &fakeDirectory{}, "/test").AuthorizeContactAttachment(ctx, owner))
	assertDenied(t, NewAnonymous("/test").AuthorizeContactAttachment(ctx, owner))
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func TestReadActionMapping(t *testing.T) {
	assert.Equal(t, ActionReadIDOnly, ReadAction(models.FetchIDOnly))
	assert.Equal(t, ActionReadCompact, ReadAction(models.FetchCompact))
	assert.Equal(t, ActionReadDefault, ReadAction(models.FetchDefault))
	assert.Equal(t, ActionReadDetailed, ReadAction(models.FetchDetailed))
}
