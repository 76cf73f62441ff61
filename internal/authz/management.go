package authz

import (
	"context"

	"github.com/warin-dev/sis-api/internal/models"
)

// ManagementAuthorizer serves school-management accounts: broad read access
// for oversight, no writes. Reads of person-identifying entities cap at the
// Default level; Detailed stays reserved for the person themself and admins.
type ManagementAuthorizer struct {
	base
}

func (m *ManagementAuthorizer) AuthorizeStudent(_ context.Context, _ *models.StudentRow, action Action) error {
	if readAtMost(action, ActionReadDefault) {
		return nil
	}
	if action == ActionReadDetailed {
		return m.deny("management reads of students cap at the default level")
	}
	return m.deny("management accounts cannot modify students")
}

func (m *ManagementAuthorizer) AuthorizeTeacher(_ context.Context, _ *models.TeacherRow, action Action) error {
	if readAtMost(action, ActionReadDefault) {
		return nil
	}
	if action == ActionReadDetailed {
		return m.deny("management reads of teachers cap at the default level")
	}
	return m.deny("management accounts cannot modify teachers")
}

func (m *ManagementAuthorizer) AuthorizeClassroom(_ context.Context, _ *models.ClassroomRow, action Action) error {
	if isRead(action) {
		return nil
	}
	return m.deny("management accounts cannot modify classrooms")
}

func (m *ManagementAuthorizer) AuthorizeContact(_ context.Context, _ *models.ContactRow, action Action) error {
	if isRead(action) {
		return nil
	}
	return m.deny("management accounts cannot modify contacts")
}

func (m *ManagementAuthorizer) AuthorizeSubject(_ context.Context, _ *models.SubjectRow, action Action) error {
	if isRead(action) {
		return nil
	}
	return m.deny("management accounts cannot modify subjects")
}

func (m *ManagementAuthorizer) AuthorizeSubjectGroup(_ context.Context, _ *models.SubjectGroupRow, action Action) error {
	if isRead(action) {
		return nil
	}
	return m.deny("management accounts cannot modify subject groups")
}

func (m *ManagementAuthorizer) AuthorizeClub(_ context.Context, _ *models.ClubRow, action Action) error {
	if isRead(action) {
		return nil
	}
	return m.deny("management accounts cannot modify clubs")
}

func (m *ManagementAuthorizer) AuthorizeAttendance(_ context.Context, _ *models.AttendanceRow, action Action) error {
	if isRead(action) {
		return nil
	}
	return m.deny("management accounts cannot record attendance")
}

func (m *ManagementAuthorizer) AuthorizeContactAttachment(_ context.Context, _ *ContactOwner) error {
	return m.deny("management accounts cannot modify contacts")
}

func (m *ManagementAuthorizer) AuthorizeCertificate(_ context.Context, _ *models.CertificateRow, action Action) error {
	if readAtMost(action, ActionReadDefault) {
		return nil
	}
	if action == ActionReadDetailed {
		return m.deny("management reads of certificates cap at the default level")
	}
	return m.deny("management accounts cannot modify certificates")
}
