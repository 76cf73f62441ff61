// Package authz implements the per-request capability object that decides
// whether the current actor may perform an action on an entity. One
// Authorizer is built per request from the actor's claims; it is never
// shared across requests, though batch materialization does call it from
// sibling goroutines within one request.
package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/warin-dev/sis-api/internal/models"
	apperrors "github.com/warin-dev/sis-api/pkg/errors"
)

// Action enumerates the checks an Authorizer can answer. Reads are split by
// fetch level because each level exposes strictly more data.
type Action string

const (
	ActionCreate       Action = "create"
	ActionReadIDOnly   Action = "read_id_only"
	ActionReadCompact  Action = "read_compact"
	ActionReadDefault  Action = "read_default"
	ActionReadDetailed Action = "read_detailed"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
)

// ReadAction maps a fetch level onto the read action that gates it.
func ReadAction(level models.FetchLevel) Action {
	switch level {
	case models.FetchCompact:
		return ActionReadCompact
	case models.FetchDefault:
		return ActionReadDefault
	case models.FetchDetailed:
		return ActionReadDetailed
	default:
		return ActionReadIDOnly
	}
}

// readRank orders read actions by how much they expose. Writes rank -1.
func readRank(a Action) int {
	switch a {
	case ActionReadIDOnly:
		return 0
	case ActionReadCompact:
		return 1
	case ActionReadDefault:
		return 2
	case ActionReadDetailed:
		return 3
	default:
		return -1
	}
}

// isRead reports whether the action is a read at any level.
func isRead(a Action) bool { return readRank(a) >= 0 }

// readAtMost reports whether a is a read no deeper than max.
func readAtMost(a, max Action) bool {
	return isRead(a) && readRank(a) <= readRank(max)
}

// Authorizer answers, per entity and action, whether the actor may proceed.
// Every check runs before the corresponding fetch variant exposes anything
// beyond the identifier; the variant constructors are the only call sites.
type Authorizer interface {
	AuthorizeStudent(ctx context.Context, row *models.StudentRow, action Action) error
	AuthorizeTeacher(ctx context.Context, row *models.TeacherRow, action Action) error
	AuthorizeClassroom(ctx context.Context, row *models.ClassroomRow, action Action) error
	AuthorizeContact(ctx context.Context, row *models.ContactRow, action Action) error
	AuthorizeSubject(ctx context.Context, row *models.SubjectRow, action Action) error
	AuthorizeSubjectGroup(ctx context.Context, row *models.SubjectGroupRow, action Action) error
	AuthorizeClub(ctx context.Context, row *models.ClubRow, action Action) error
	AuthorizeAttendance(ctx context.Context, row *models.AttendanceRow, action Action) error
	AuthorizeCertificate(ctx context.Context, row *models.CertificateRow, action Action) error

	// AuthorizeContactAttachment gates creating a contact attached to the
	// given owner. It is separate from AuthorizeContact because at create
	// time there is no row to resolve ownership from; the requested owner
	// itself is what must be checked.
	AuthorizeContactAttachment(ctx context.Context, owner *ContactOwner) error

	// Source identifies the request path for denial logging.
	Source() string
}

// OwnerKind tags what a contact row is attached to.
type OwnerKind string

const (
	OwnerClassroom OwnerKind = "classroom"
	OwnerPerson    OwnerKind = "person"
	OwnerClub      OwnerKind = "club"
)

// ContactOwner resolves who a contact belongs to. A nil owner means the
// contact is a ghost: an orphaned row with no owning entity, a known
// data-quality artifact that stays read-only for everyone.
type ContactOwner struct {
	Kind        OwnerKind
	ClassroomID *uuid.UUID
	ClubID      *uuid.UUID
	StudentID   *uuid.UUID
	TeacherID   *uuid.UUID
}

// Directory provides the database lookups ownership checks need. The
// repository layer implements it; role authorizers hold it so checks like
// "is this teacher the classroom's advisor" stay inside the capability.
type Directory interface {
	AdvisorClassroomID(ctx context.Context, teacherID uuid.UUID) (*uuid.UUID, error)
	StudentClassroomID(ctx context.Context, studentID uuid.UUID) (*uuid.UUID, error)
	ContactOwner(ctx context.Context, contactID uuid.UUID) (*ContactOwner, error)
}

// New selects the role implementation for the actor. Source is the logical
// request path attached to denials.
func New(claims *models.JWTClaims, dir Directory, source string) Authorizer {
	base := base{source: source, dir: dir}
	switch claims.Role {
	case models.RoleAdmin:
		return &AdminAuthorizer{base: base}
	case models.RoleManagement:
		return &ManagementAuthorizer{base: base}
	case models.RoleTeacher:
		return &TeacherAuthorizer{base: base, teacherID: claims.TeacherID}
	default:
		return &StudentAuthorizer{base: base, studentID: claims.StudentID}
	}
}

// base carries what every role implementation shares.
type base struct {
	source string
	dir    Directory
}

// Source implements Authorizer.
func (b base) Source() string { return b.source }

func (b base) deny(reason string) error {
	return apperrors.PermissionDenied(reason, b.source)
}

func sameID(a *uuid.UUID, b uuid.UUID) bool {
	return a != nil && *a == b
}
