package authz

import (
	"context"

	"github.com/warin-dev/sis-api/internal/models"
)

// AnonymousAuthorizer denies every check. Unauthenticated requests are still
// served at the IdOnly fetch level, which never consults the authorizer.
type AnonymousAuthorizer struct {
	base
}

// NewAnonymous builds the authorizer for requests without claims.
func NewAnonymous(source string) Authorizer {
	return &AnonymousAuthorizer{base: base{source: source}}
}

func (a *AnonymousAuthorizer) AuthorizeStudent(context.Context, *models.StudentRow, Action) error {
	return a.deny("authentication required")
}

func (a *AnonymousAuthorizer) AuthorizeTeacher(context.Context, *models.TeacherRow, Action) error {
	return a.deny("authentication required")
}

func (a *AnonymousAuthorizer) AuthorizeClassroom(context.Context, *models.ClassroomRow, Action) error {
	return a.deny("authentication required")
}

func (a *AnonymousAuthorizer) AuthorizeContact(context.Context, *models.ContactRow, Action) error {
	return a.deny("authentication required")
}

func (a *AnonymousAuthorizer) AuthorizeSubject(context.Context, *models.SubjectRow, Action) error {
	return a.deny("authentication required")
}

func (a *AnonymousAuthorizer) AuthorizeSubjectGroup(context.Context, *models.SubjectGroupRow, Action) error {
	return a.deny("authentication required")
}

func (a *AnonymousAuthorizer) AuthorizeClub(context.Context, *models.ClubRow, Action) error {
	return a.deny("authentication required")
}

func (a *AnonymousAuthorizer) AuthorizeAttendance(context.Context, *models.AttendanceRow, Action) error {
	return a.deny("authentication required")
}

func (a *AnonymousAuthorizer) AuthorizeCertificate(context.Context, *models.CertificateRow, Action) error {
	return a.deny("authentication required")
}

func (a *AnonymousAuthorizer) AuthorizeContactAttachment(context.Context, *ContactOwner) error {
	return a.deny("authentication required")
}
