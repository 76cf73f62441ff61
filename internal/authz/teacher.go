package authz

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/warin-dev/sis-api/internal/models"
)

// TeacherAuthorizer serves teacher accounts. Reads up to the Default level
// are open; Detailed and writes require ownership, meaning the teacher's own
// record or, for classrooms, the advisor relationship. The advisor lookup is
// memoized for the life of the request; batch materialization may call
// checks from sibling goroutines, hence the mutex.
type TeacherAuthorizer struct {
	base
	teacherID *uuid.UUID

	mu            sync.Mutex
	advisorLoaded bool
	advisorAt     *uuid.UUID
}

func (t *TeacherAuthorizer) advisorClassroom(ctx context.Context) (*uuid.UUID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.advisorLoaded {
		return t.advisorAt, nil
	}
	if t.teacherID == nil {
		t.advisorLoaded = true
		return nil, nil
	}
	id, err := t.dir.AdvisorClassroomID(ctx, *t.teacherID)
	if err != nil {
		return nil, err
	}
	t.advisorAt = id
	t.advisorLoaded = true
	return id, nil
}

func (t *TeacherAuthorizer) AuthorizeStudent(_ context.Context, _ *models.StudentRow, action Action) error {
	if readAtMost(action, ActionReadDefault) {
		return nil
	}
	return t.deny("teachers cannot read detailed student data or modify students")
}

func (t *TeacherAuthorizer) AuthorizeTeacher(_ context.Context, row *models.TeacherRow, action Action) error {
	if readAtMost(action, ActionReadDefault) {
		return nil
	}
	if sameID(t.teacherID, row.ID) && (action == ActionReadDetailed || action == ActionUpdate) {
		return nil
	}
	return t.deny("teachers may only read or edit their own detailed record")
}

func (t *TeacherAuthorizer) AuthorizeClassroom(ctx context.Context, row *models.ClassroomRow, action Action) error {
	if readAtMost(action, ActionReadDefault) {
		return nil
	}
	if action == ActionReadDetailed || action == ActionUpdate {
		advisorAt, err := t.advisorClassroom(ctx)
		if err != nil {
			return err
		}
		if advisorAt != nil && *advisorAt == row.ID {
			return nil
		}
		return t.deny("only the classroom's advisor may read detailed data or edit it")
	}
	return t.deny("teachers cannot create or delete classrooms")
}

func (t *TeacherAuthorizer) AuthorizeContact(ctx context.Context, row *models.ContactRow, action Action) error {
	if isRead(action) {
		return nil
	}
	owner, err := t.dir.ContactOwner(ctx, row.ID)
	if err != nil {
		return err
	}
	if owner == nil {
		return t.deny("orphaned contacts are read-only")
	}
	switch owner.Kind {
	case OwnerClassroom:
		advisorAt, err := t.advisorClassroom(ctx)
		if err != nil {
			return err
		}
		if advisorAt != nil && owner.ClassroomID != nil && *advisorAt == *owner.ClassroomID {
			return nil
		}
		return t.deny("only the classroom's advisor may edit its contacts")
	case OwnerPerson:
		if owner.TeacherID != nil && sameID(t.teacherID, *owner.TeacherID) {
			return nil
		}
		return t.deny("personal contacts are editable only by their owner")
	default:
		return t.deny("club contacts are managed by club staff")
	}
}

func (t *TeacherAuthorizer) AuthorizeContactAttachment(ctx context.Context, owner *ContactOwner) error {
	if owner == nil {
		return t.deny("contacts must be attached to an owning entity")
	}
	switch owner.Kind {
	case OwnerPerson:
		if owner.TeacherID != nil && sameID(t.teacherID, *owner.TeacherID) {
			return nil
		}
		return t.deny("teachers may attach personal contacts only to their own person")
	case OwnerClassroom:
		advisorAt, err := t.advisorClassroom(ctx)
		if err != nil {
			return err
		}
		if advisorAt != nil && owner.ClassroomID != nil && *advisorAt == *owner.ClassroomID {
			return nil
		}
		return t.deny("only the classroom's advisor may attach contacts to it")
	default:
		return t.deny("club contacts are managed by club staff")
	}
}

func (t *TeacherAuthorizer) AuthorizeSubject(_ context.Context, _ *models.SubjectRow, action Action) error {
	if isRead(action) {
		return nil
	}
	// TODO: restrict subject writes to the subject's assigned teachers once
	// the registry decides the policy; writes are open in the meantime.
	return nil
}

func (t *TeacherAuthorizer) AuthorizeSubjectGroup(_ context.Context, _ *models.SubjectGroupRow, action Action) error {
	if isRead(action) {
		return nil
	}
	return t.deny("subject groups are managed by administrators")
}

func (t *TeacherAuthorizer) AuthorizeClub(_ context.Context, _ *models.ClubRow, action Action) error {
	if isRead(action) {
		return nil
	}
	return t.deny("clubs are managed by their staff and administrators")
}

func (t *TeacherAuthorizer) AuthorizeAttendance(_ context.Context, _ *models.AttendanceRow, action Action) error {
	// Teachers both read and record attendance for their classes.
	return nil
}

func (t *TeacherAuthorizer) AuthorizeCertificate(_ context.Context, _ *models.CertificateRow, action Action) error {
	if readAtMost(action, ActionReadDefault) {
		return nil
	}
	return t.deny("teachers cannot read detailed certificate data or modify certificates")
}
