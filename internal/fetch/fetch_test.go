package fetch

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
	apperrors "github.com/warin-dev/sis-api/pkg/errors"
)

// spyAuthorizer records every check and denies per-entity actions on demand.
type spyAuthorizer struct {
	mu      sync.Mutex
	checks  []string
	denials map[string]authz.Action
}

func newSpy() *spyAuthorizer {
	return &spyAuthorizer{denials: map[string]authz.Action{}}
}

func (s *spyAuthorizer) record(entity string, action authz.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks = append(s.checks, entity+":"+string(action))
	if denied, ok := s.denials[entity]; ok && denied == action {
		return apperrors.PermissionDenied("denied by test", "/test")
	}
	return nil
}

func (s *spyAuthorizer) checkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.checks)
}

func (s *spyAuthorizer) AuthorizeStudent(_ context.Context, _ *models.StudentRow, a authz.Action) error {
	return s.record("student", a)
}
func (s *spyAuthorizer) AuthorizeTeacher(_ context.Context, _ *models.TeacherRow, a authz.Action) error {
	return s.record("teacher", a)
}
func (s *spyAuthorizer) AuthorizeClassroom(_ context.Context, _ *models.ClassroomRow, a authz.Action) error {
	return s.record("classroom", a)
}
func (s *spyAuthorizer) AuthorizeContact(_ context.Context, _ *models.ContactRow, a authz.Action) error {
	return s.record("contact", a)
}
func (s *spyAuthorizer) AuthorizeSubject(_ context.Context, _ *models.SubjectRow, a authz.Action) error {
	return s.record("subject", a)
}
func (s *spyAuthorizer) AuthorizeSubjectGroup(_ context.Context, _ *models.SubjectGroupRow, a authz.Action) error {
	return s.record("subject_group", a)
}
func (s *spyAuthorizer) AuthorizeClub(_ context.Context, _ *models.ClubRow, a authz.Action) error {
	return s.record("club", a)
}
func (s *spyAuthorizer) AuthorizeAttendance(_ context.Context, _ *models.AttendanceRow, a authz.Action) error {
	return s.record("attendance", a)
}
func (s *spyAuthorizer) AuthorizeCertificate(_ context.Context, _ *models.CertificateRow, a authz.Action) error {
	return s.record("certificate", a)
}
func (s *spyAuthorizer) AuthorizeContactAttachment(_ context.Context, _ *authz.ContactOwner) error {
	return s.record("contact_attachment", authz.ActionCreate)
}
func (s *spyAuthorizer) Source() string { return "/test" }

// fakeSources backs a Fetcher with in-memory rows and counts every load.
type fakeSources struct {
	mu    sync.Mutex
	loads int

	students      map[uuid.UUID]models.StudentRow
	teachers      map[uuid.UUID]models.TeacherRow
	classrooms    map[uuid.UUID]models.ClassroomRow
	contacts      map[uuid.UUID]models.ContactRow
	subjects      map[uuid.UUID]models.SubjectRow
	subjectGroups map[int]models.SubjectGroupRow

	classroomStudents map[uuid.UUID][]uuid.UUID
	classroomAdvisors map[uuid.UUID][]uuid.UUID
	studentContacts   map[uuid.UUID][]uuid.UUID
	studentCerts      map[uuid.UUID][]models.CertificateRow
}

func newFakeSources() *fakeSources {
	return &fakeSources{
		students:          map[uuid.UUID]models.StudentRow{},
		teachers:          map[uuid.UUID]models.TeacherRow{},
		classrooms:        map[uuid.UUID]models.ClassroomRow{},
		contacts:          map[uuid.UUID]models.ContactRow{},
		subjects:          map[uuid.UUID]models.SubjectRow{},
		subjectGroups:     map[int]models.SubjectGroupRow{},
		classroomStudents: map[uuid.UUID][]uuid.UUID{},
		classroomAdvisors: map[uuid.UUID][]uuid.UUID{},
		studentContacts:   map[uuid.UUID][]uuid.UUID{},
		studentCerts:      map[uuid.UUID][]models.CertificateRow{},
	}
}

func (f *fakeSources) load() {
	f.mu.Lock()
	f.loads++
	f.mu.Unlock()
}

func (f *fakeSources) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func (f *fakeSources) GetByID(ctx context.Context, id uuid.UUID) (*models.StudentRow, error) {
	f.load()
	row, ok := f.students[id]
	if !ok {
		return nil, apperrors.NotFound("student not found")
	}
	return &row, nil
}

func (f *fakeSources) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.StudentRow, error) {
	f.load()
	var out []models.StudentRow
	for _, id := range ids {
		if row, ok := f.students[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeTeachers struct{ f *fakeSources }

func (t fakeTeachers) GetByID(ctx context.Context, id uuid.UUID) (*models.TeacherRow, error) {
	t.f.load()
	row, ok := t.f.teachers[id]
	if !ok {
		return nil, apperrors.NotFound("teacher not found")
	}
	return &row, nil
}

func (t fakeTeachers) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.TeacherRow, error) {
	t.f.load()
	var out []models.TeacherRow
	for _, id := range ids {
		if row, ok := t.f.teachers[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeClassrooms struct{ f *fakeSources }

func (c fakeClassrooms) GetByID(ctx context.Context, id uuid.UUID) (*models.ClassroomRow, error) {
	c.f.load()
	row, ok := c.f.classrooms[id]
	if !ok {
		return nil, apperrors.NotFound("classroom not found")
	}
	return &row, nil
}

func (c fakeClassrooms) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ClassroomRow, error) {
	c.f.load()
	var out []models.ClassroomRow
	for _, id := range ids {
		if row, ok := c.f.classrooms[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (c fakeClassrooms) AdvisorIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	c.f.load()
	return c.f.classroomAdvisors[id], nil
}

func (c fakeClassrooms) StudentIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	c.f.load()
	return c.f.classroomStudents[id], nil
}

func (c fakeClassrooms) StudentCount(ctx context.Context, id uuid.UUID) (int, error) {
	c.f.load()
	return len(c.f.classroomStudents[id]), nil
}

type fakeContacts struct{ f *fakeSources }

func (c fakeContacts) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactRow, error) {
	c.f.load()
	row, ok := c.f.contacts[id]
	if !ok {
		return nil, apperrors.NotFound("contact not found")
	}
	return &row, nil
}

func (c fakeContacts) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ContactRow, error) {
	c.f.load()
	var out []models.ContactRow
	for _, id := range ids {
		if row, ok := c.f.contacts[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (c fakeContacts) IDsForStudent(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	c.f.load()
	return c.f.studentContacts[id], nil
}

func (c fakeContacts) IDsForTeacher(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	c.f.load()
	return nil, nil
}

func (c fakeContacts) IDsForClassroom(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	c.f.load()
	return nil, nil
}

func (c fakeContacts) IDsForClub(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	c.f.load()
	return nil, nil
}

type fakeSubjects struct{ f *fakeSources }

func (s fakeSubjects) GetByID(ctx context.Context, id uuid.UUID) (*models.SubjectRow, error) {
	s.f.load()
	row, ok := s.f.subjects[id]
	if !ok {
		return nil, apperrors.NotFound("subject not found")
	}
	return &row, nil
}

func (s fakeSubjects) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.SubjectRow, error) {
	s.f.load()
	var out []models.SubjectRow
	for _, id := range ids {
		if row, ok := s.f.subjects[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s fakeSubjects) TeacherIDs(ctx context.Context, id uuid.UUID, co bool) ([]uuid.UUID, error) {
	s.f.load()
	return nil, nil
}

func (s fakeSubjects) IDsForTeacher(ctx context.Context, id uuid.UUID, co bool) ([]uuid.UUID, error) {
	s.f.load()
	return nil, nil
}

type fakeSubjectGroups struct{ f *fakeSources }

func (g fakeSubjectGroups) GetByID(ctx context.Context, id int) (*models.SubjectGroupRow, error) {
	g.f.load()
	row, ok := g.f.subjectGroups[id]
	if !ok {
		return nil, apperrors.NotFound("subject group not found")
	}
	return &row, nil
}

func (g fakeSubjectGroups) GetByIDs(ctx context.Context, ids []int) ([]models.SubjectGroupRow, error) {
	g.f.load()
	var out []models.SubjectGroupRow
	for _, id := range ids {
		if row, ok := g.f.subjectGroups[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeClubs struct{ f *fakeSources }

func (c fakeClubs) GetByID(ctx context.Context, id uuid.UUID) (*models.ClubRow, error) {
	c.f.load()
	return nil, apperrors.NotFound("club not found")
}

func (c fakeClubs) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ClubRow, error) {
	c.f.load()
	return nil, nil
}

func (c fakeClubs) StaffIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	c.f.load()
	return nil, nil
}

func (c fakeClubs) MemberIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	c.f.load()
	return nil, nil
}

type fakeAttendances struct{ f *fakeSources }

func (a fakeAttendances) GetByID(ctx context.Context, id uuid.UUID) (*models.AttendanceRow, error) {
	a.f.load()
	return nil, apperrors.NotFound("attendance not found")
}

func (a fakeAttendances) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.AttendanceRow, error) {
	a.f.load()
	return nil, nil
}

type fakeCertificates struct{ f *fakeSources }

func (c fakeCertificates) GetByID(ctx context.Context, id uuid.UUID) (*models.CertificateRow, error) {
	c.f.load()
	return nil, apperrors.NotFound("certificate not found")
}

func (c fakeCertificates) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CertificateRow, error) {
	c.f.load()
	return nil, nil
}

func (c fakeCertificates) ListForStudent(ctx context.Context, id uuid.UUID) ([]models.CertificateRow, error) {
	c.f.load()
	return c.f.studentCerts[id], nil
}

func newTestFetcher(src *fakeSources) *Fetcher {
	return NewFetcher(
		src,
		fakeTeachers{src},
		fakeClassrooms{src},
		fakeContacts{src},
		fakeSubjects{src},
		fakeSubjectGroups{src},
		fakeClubs{src},
		fakeAttendances{src},
		fakeCertificates{src},
	)
}

func str(s string) *string { return &s }

func seedStudent(src *fakeSources, classroomID *uuid.UUID) models.StudentRow {
	row := models.StudentRow{
		ID:          uuid.New(),
		StudentCode: "67001",
		PersonID:    uuid.New(),
		FirstNameEN: str("Anya"),
		LastNameEN:  str("W"),
		CitizenID:   str("1100200000001"),
		ClassroomID: classroomID,
	}
	src.students[row.ID] = row
	return row
}

func TestIDOnlyNeedsNoAuthorizationAndNoData(t *testing.T) {
	src := newFakeSources()
	spy := newSpy()
	f := newTestFetcher(src)

	row := seedStudent(src, nil)
	m, err := f.Student(context.Background(), &row, models.FetchIDOnly, models.FetchDefault, spy)
	require.NoError(t, err)
	require.NotNil(t, m.IDOnly)
	assert.Equal(t, row.ID, m.IDOnly.ID)
	assert.Zero(t, spy.checkCount())
	assert.Zero(t, src.loadCount())
}

func TestDenialAbortsTheTree(t *testing.T) {
	src := newFakeSources()
	spy := newSpy()
	spy.denials["student"] = authz.ActionReadDetailed
	f := newTestFetcher(src)

	row := seedStudent(src, nil)
	_, err := f.Student(context.Background(), &row, models.FetchDetailed, models.FetchIDOnly, spy)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidPermission.Code, apperrors.FromError(err).Code)
	// The check fails before any relationship loads.
	assert.Zero(t, src.loadCount())

	// The same row still materializes at a shallower level.
	m, err := f.Student(context.Background(), &row, models.FetchCompact, models.FetchIDOnly, spy)
	require.NoError(t, err)
	require.NotNil(t, m.Compact)
	assert.Equal(t, "67001", m.Compact.StudentCode)
}

func TestOptionalForeignKeyShortCircuits(t *testing.T) {
	src := newFakeSources()
	spy := newSpy()
	f := newTestFetcher(src)

	// No classroom placement: the classroom field stays nil and no classroom
	// query runs even though desc asks for Default.
	row := seedStudent(src, nil)
	m, err := f.Student(context.Background(), &row, models.FetchDefault, models.FetchDefault, spy)
	require.NoError(t, err)
	require.NotNil(t, m.Default)
	assert.Nil(t, m.Default.Classroom)
}

func TestDescendantExpansionIsBoundedToOneLevel(t *testing.T) {
	src := newFakeSources()
	spy := newSpy()
	f := newTestFetcher(src)

	classroomID := uuid.New()
	src.classrooms[classroomID] = models.ClassroomRow{ID: classroomID, Number: 101, Year: 2026}
	self := seedStudent(src, &classroomID)
	mate := seedStudent(src, &classroomID)
	src.classroomStudents[classroomID] = []uuid.UUID{self.ID, mate.ID}

	m, err := f.Student(context.Background(), &self, models.FetchDefault, models.FetchDefault, spy)
	require.NoError(t, err)
	require.NotNil(t, m.Default)
	require.NotNil(t, m.Default.Classroom)
	require.NotNil(t, m.Default.Classroom.Default)

	// The classroom expanded at Default, but the students inside it are bare
	// identifiers: the grandchild generation never expands.
	for _, s := range m.Default.Classroom.Default.Students {
		assert.Equal(t, models.FetchIDOnly, s.Level)
		require.NotNil(t, s.IDOnly)
		assert.Nil(t, s.Default)
	}
}

func TestDetailedStudentResolvesCertificates(t *testing.T) {
	src := newFakeSources()
	spy := newSpy()
	f := newTestFetcher(src)

	row := seedStudent(src, nil)
	src.studentCerts[row.ID] = []models.CertificateRow{
		{ID: uuid.New(), StudentID: row.ID, Year: 2025, Type: models.CertificateAcademic},
	}

	m, err := f.Student(context.Background(), &row, models.FetchDetailed, models.FetchCompact, spy)
	require.NoError(t, err)
	require.NotNil(t, m.Detailed)
	assert.Equal(t, str("1100200000001"), m.Detailed.CitizenID)
	require.Len(t, m.Detailed.Certificates, 1)
	require.NotNil(t, m.Detailed.Certificates[0].Compact)
	assert.Equal(t, 2025, m.Detailed.Certificates[0].Compact.Year)
}

func TestBatchFailsWhenAnySiblingIsDenied(t *testing.T) {
	src := newFakeSources()
	spy := newSpy()
	spy.denials["student"] = authz.ActionReadDefault
	f := newTestFetcher(src)

	rows := []models.StudentRow{seedStudent(src, nil), seedStudent(src, nil), seedStudent(src, nil)}
	_, err := f.Students(context.Background(), rows, models.FetchDefault, models.FetchIDOnly, spy)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidPermission.Code, apperrors.FromError(err).Code)
}

func TestBatchPreservesInputOrder(t *testing.T) {
	src := newFakeSources()
	spy := newSpy()
	f := newTestFetcher(src)

	rows := make([]models.StudentRow, 20)
	for i := range rows {
		rows[i] = seedStudent(src, nil)
	}
	out, err := f.Students(context.Background(), rows, models.FetchCompact, models.FetchIDOnly, spy)
	require.NoError(t, err)
	require.Len(t, out, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i].ID, out[i].Compact.ID)
	}
}
