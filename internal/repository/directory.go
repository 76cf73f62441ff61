package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/warin-dev/sis-api/internal/authz"
	apperrors "github.com/warin-dev/sis-api/pkg/errors"
)

// Directory answers the ownership lookups authorization checks need. It is
// the repository-side implementation of authz.Directory.
type Directory struct {
	db *sqlx.DB
}

// NewDirectory constructs a Directory.
func NewDirectory(db *sqlx.DB) *Directory {
	return &Directory{db: db}
}

// AdvisorClassroomID returns the classroom the teacher advises, or nil when
// the teacher advises none.
func (d *Directory) AdvisorClassroomID(ctx context.Context, teacherID uuid.UUID) (*uuid.UUID, error) {
	var id uuid.UUID
	err := sqlx.GetContext(ctx, d.db, &id,
		"SELECT ca.classroom_id FROM classroom_advisors ca WHERE ca.teacher_id = $1", teacherID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to resolve advisor classroom")
	}
	return &id, nil
}

// StudentClassroomID returns the student's current classroom, or nil when
// the student is unplaced.
func (d *Directory) StudentClassroomID(ctx context.Context, studentID uuid.UUID) (*uuid.UUID, error) {
	var id uuid.UUID
	err := sqlx.GetContext(ctx, d.db, &id,
		"SELECT cs.classroom_id FROM classroom_students cs WHERE cs.student_id = $1", studentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to resolve student classroom")
	}
	return &id, nil
}

type contactOwnerRow struct {
	Kind        string     `db:"kind"`
	ClassroomID *uuid.UUID `db:"classroom_id"`
	ClubID      *uuid.UUID `db:"club_id"`
	StudentID   *uuid.UUID `db:"student_id"`
	TeacherID   *uuid.UUID `db:"teacher_id"`
}

// ContactOwner resolves which entity, if any, a contact is attached to. A
// contact attached to nothing returns nil; such rows stay readable but
// nobody short of an administrator may edit them.
func (d *Directory) ContactOwner(ctx context.Context, contactID uuid.UUID) (*authz.ContactOwner, error) {
	var row contactOwnerRow
	err := sqlx.GetContext(ctx, d.db, &row,
		`SELECT 'classroom' AS kind, cc.classroom_id, NULL::uuid AS club_id, NULL::uuid AS student_id, NULL::uuid AS teacher_id
         FROM classroom_contacts cc WHERE cc.contact_id = $1
         UNION ALL
         SELECT 'club', NULL::uuid, cb.club_id, NULL::uuid, NULL::uuid
         FROM club_contacts cb WHERE cb.contact_id = $1
         UNION ALL
         SELECT 'person', NULL::uuid, NULL::uuid, s.id, t.id
         FROM person_contacts pc
         LEFT JOIN students s ON s.person_id = pc.person_id
         LEFT JOIN teachers t ON t.person_id = pc.person_id
         WHERE pc.contact_id = $1
         LIMIT 1`, contactID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to resolve contact owner")
	}
	return &authz.ContactOwner{
		Kind:        authz.OwnerKind(row.Kind),
		ClassroomID: row.ClassroomID,
		ClubID:      row.ClubID,
		StudentID:   row.StudentID,
		TeacherID:   row.TeacherID,
	}, nil
}
