package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/fetch"
	"github.com/warin-dev/sis-api/internal/models"
)

// stubSources satisfies every fetch source interface with empty results so
// service tests can materialize rows without a relation layer.
type stubSources struct{}

func (stubSources) GetByID(ctx context.Context, id uuid.UUID) (*models.StudentRow, error) {
	return &models.StudentRow{ID: id}, nil
}
func (stubSources) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.StudentRow, error) {
	return nil, nil
}

type stubTeachers struct{}

func (stubTeachers) GetByID(ctx context.Context, id uuid.UUID) (*models.TeacherRow, error) {
	return &models.TeacherRow{ID: id}, nil
}
func (stubTeachers) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.TeacherRow, error) {
	return nil, nil
}

type stubClassrooms struct{}

func (stubClassrooms) GetByID(ctx context.Context, id uuid.UUID) (*models.ClassroomRow, error) {
	return &models.ClassroomRow{ID: id}, nil
}
func (stubClassrooms) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ClassroomRow, error) {
	return nil, nil
}
func (stubClassrooms) AdvisorIDs(ctx context.Context, classroomID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
func (stubClassrooms) StudentIDs(ctx context.Context, classroomID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
func (stubClassrooms) StudentCount(ctx context.Context, classroomID uuid.UUID) (int, error) {
	return 0, nil
}

type stubContacts struct{}

func (stubContacts) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactRow, error) {
	return &models.ContactRow{ID: id}, nil
}
func (stubContacts) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ContactRow, error) {
	return nil, nil
}
func (stubContacts) IDsForStudent(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
func (stubContacts) IDsForTeacher(ctx context.Context, teacherID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
func (stubContacts) IDsForClassroom(ctx context.Context, classroomID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
func (stubContacts) IDsForClub(ctx context.Context, clubID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

type stubSubjects struct{}

func (stubSubjects) GetByID(ctx context.Context, id uuid.UUID) (*models.SubjectRow, error) {
	return &models.SubjectRow{ID: id}, nil
}
func (stubSubjects) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.SubjectRow, error) {
	return nil, nil
}
func (stubSubjects) TeacherIDs(ctx context.Context, subjectID uuid.UUID, co bool) ([]uuid.UUID, error) {
	return nil, nil
}
func (stubSubjects) IDsForTeacher(ctx context.Context, teacherID uuid.UUID, co bool) ([]uuid.UUID, error) {
	return nil, nil
}

type stubSubjectGroups struct{}

func (stubSubjectGroups) GetByID(ctx context.Context, id int) (*models.SubjectGroupRow, error) {
	return &models.SubjectGroupRow{ID: id}, nil
}
func (stubSubjectGroups) GetByIDs(ctx context.Context, ids []int) ([]models.SubjectGroupRow, error) {
	return nil, nil
}

type stubClubs struct{}

func (stubClubs) GetByID(ctx context.Context, id uuid.UUID) (*models.ClubRow, error) {
	return &models.ClubRow{ID: id}, nil
}
func (stubClubs) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ClubRow, error) {
	return nil, nil
}
func (stubClubs) StaffIDs(ctx context.Context, clubID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
func (stubClubs) MemberIDs(ctx context.Context, clubID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

type stubAttendances struct{}

func (stubAttendances) GetByID(ctx context.Context, id uuid.UUID) (*models.AttendanceRow, error) {
	return &models.AttendanceRow{ID: id}, nil
}
func (stubAttendances) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.AttendanceRow, error) {
	return nil, nil
}

type stubCertificates struct{}

func (stubCertificates) GetByID(ctx context.Context, id uuid.UUID) (*models.CertificateRow, error) {
	return &models.CertificateRow{ID: id}, nil
}
func (stubCertificates) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CertificateRow, error) {
	return nil, nil
}
func (stubCertificates) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]models.CertificateRow, error) {
	return nil, nil
}

func newStubFetcher() *fetch.Fetcher {
	return fetch.NewFetcher(
		stubSources{}, stubTeachers{}, stubClassrooms{}, stubContacts{},
		stubSubjects{}, stubSubjectGroups{}, stubClubs{}, stubAttendances{}, stubCertificates{},
	)
}

// staticAuthorizer answers every check with the configured error.
type staticAuthorizer struct {
	err error
}

func (a staticAuthorizer) AuthorizeStudent(ctx context.Context, row *models.StudentRow, action authz.Action) error {
	return a.err
}
func (a staticAuthorizer) AuthorizeTeacher(ctx context.Context, row *models.TeacherRow, action authz.Action) error {
	return a.err
}
func (a staticAuthorizer) AuthorizeClassroom(ctx context.Context, row *models.ClassroomRow, action authz.Action) error {
	return a.err
}
func (a staticAuthorizer) AuthorizeContact(ctx context.Context, row *models.ContactRow, action authz.Action) error {
	return a.err
}
func (a staticAuthorizer) AuthorizeSubject(ctx context.Context, row *models.SubjectRow, action authz.Action) error {
	return a.err
}
func (a staticAuthorizer) AuthorizeSubjectGroup(ctx context.Context, row *models.SubjectGroupRow, action authz.Action) error {
	return a.err
}
func (a staticAuthorizer) AuthorizeClub(ctx context.Context, row *models.ClubRow, action authz.Action) error {
	return a.err
}
func (a staticAuthorizer) AuthorizeAttendance(ctx context.Context, row *models.AttendanceRow, action authz.Action) error {
	return a.err
}
func (a staticAuthorizer) AuthorizeCertificate(ctx context.Context, row *models.CertificateRow, action authz.Action) error {
	return a.err
}
func (a staticAuthorizer) AuthorizeContactAttachment(ctx context.Context, owner *authz.ContactOwner) error {
	return a.err
}
func (a staticAuthorizer) Source() string { return "/test" }

func grantAll() authz.Authorizer { return staticAuthorizer{} }

func denyAll(err error) authz.Authorizer { return staticAuthorizer{err: err} }
