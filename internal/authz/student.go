package authz

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/warin-dev/sis-api/internal/models"
)

// StudentAuthorizer serves student accounts, the narrowest role. A student
// sees their own record at every level, classmates up to Default, and
// everyone else up to Compact. The student's current classroom is memoized
// per request; sibling goroutines in a batch share the memo via the mutex.
type StudentAuthorizer struct {
	base
	studentID *uuid.UUID

	mu              sync.Mutex
	classroomLoaded bool
	classroomID     *uuid.UUID
}

func (s *StudentAuthorizer) ownClassroom(ctx context.Context) (*uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.classroomLoaded {
		return s.classroomID, nil
	}
	if s.studentID == nil {
		s.classroomLoaded = true
		return nil, nil
	}
	id, err := s.dir.StudentClassroomID(ctx, *s.studentID)
	if err != nil {
		return nil, err
	}
	s.classroomID = id
	s.classroomLoaded = true
	return id, nil
}

func (s *StudentAuthorizer) AuthorizeStudent(ctx context.Context, row *models.StudentRow, action Action) error {
	if readAtMost(action, ActionReadCompact) {
		return nil
	}
	if sameID(s.studentID, row.ID) {
		if isRead(action) || action == ActionUpdate {
			return nil
		}
		return s.deny("students cannot create or delete student records")
	}
	if action == ActionReadDefault {
		// Classmates are visible at Default: resolve both students' current
		// classroom and compare.
		own, err := s.ownClassroom(ctx)
		if err != nil {
			return err
		}
		if own != nil && row.ClassroomID != nil && *own == *row.ClassroomID {
			return nil
		}
		return s.deny("default-level reads of other students require sharing a classroom")
	}
	return s.deny("students may only read or edit their own record beyond the compact level")
}

func (s *StudentAuthorizer) AuthorizeTeacher(_ context.Context, _ *models.TeacherRow, action Action) error {
	if readAtMost(action, ActionReadDefault) {
		return nil
	}
	return s.deny("students cannot read detailed teacher data or modify teachers")
}

func (s *StudentAuthorizer) AuthorizeClassroom(ctx context.Context, row *models.ClassroomRow, action Action) error {
	if readAtMost(action, ActionReadDefault) {
		return nil
	}
	if action == ActionReadDetailed {
		own, err := s.ownClassroom(ctx)
		if err != nil {
			return err
		}
		if own != nil && *own == row.ID {
			return nil
		}
		return s.deny("detailed classroom reads require membership")
	}
	return s.deny("students cannot modify classrooms")
}

func (s *StudentAuthorizer) AuthorizeContact(ctx context.Context, row *models.ContactRow, action Action) error {
	if isRead(action) {
		return nil
	}
	owner, err := s.dir.ContactOwner(ctx, row.ID)
	if err != nil {
		return err
	}
	if owner == nil {
		return s.deny("orphaned contacts are read-only")
	}
	if owner.Kind == OwnerPerson && owner.StudentID != nil && sameID(s.studentID, *owner.StudentID) {
		return nil
	}
	return s.deny("personal contacts are editable only by their owner")
}

func (s *StudentAuthorizer) AuthorizeContactAttachment(_ context.Context, owner *ContactOwner) error {
	if owner != nil && owner.Kind == OwnerPerson && owner.StudentID != nil && sameID(s.studentID, *owner.StudentID) {
		return nil
	}
	return s.deny("students may attach contacts only to their own person")
}

func (s *StudentAuthorizer) AuthorizeSubject(_ context.Context, _ *models.SubjectRow, action Action) error {
	if isRead(action) {
		return nil
	}
	return s.deny("students cannot modify subjects")
}

func (s *StudentAuthorizer) AuthorizeSubjectGroup(_ context.Context, _ *models.SubjectGroupRow, action Action) error {
	if isRead(action) {
		return nil
	}
	return s.deny("subject groups are managed by administrators")
}

func (s *StudentAuthorizer) AuthorizeClub(_ context.Context, _ *models.ClubRow, action Action) error {
	if isRead(action) {
		return nil
	}
	return s.deny("clubs are managed by their staff and administrators")
}

func (s *StudentAuthorizer) AuthorizeAttendance(_ context.Context, row *models.AttendanceRow, action Action) error {
	if action == ActionReadIDOnly {
		return nil
	}
	if isRead(action) && sameID(s.studentID, row.StudentID) {
		return nil
	}
	return s.deny("students may only read their own attendance")
}

func (s *StudentAuthorizer) AuthorizeCertificate(_ context.Context, row *models.CertificateRow, action Action) error {
	if readAtMost(action, ActionReadCompact) {
		return nil
	}
	if isRead(action) && sameID(s.studentID, row.StudentID) {
		return nil
	}
	return s.deny("students may only read their own certificates beyond the compact level")
}
