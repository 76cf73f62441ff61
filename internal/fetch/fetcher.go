// Package fetch materializes flat database rows into leveled API models.
// Every materialization authorizes the row at the requested level before
// exposing any field; a denial anywhere in the tree aborts the whole
// request. IdOnly needs neither data nor authorization since the caller
// already holds the identifier.
package fetch

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
)

// batchConcurrency bounds the sibling goroutines one list fans out to.
const batchConcurrency = 8

// StudentSource loads student rows.
type StudentSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.StudentRow, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.StudentRow, error)
}

// TeacherSource loads teacher rows.
type TeacherSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.TeacherRow, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.TeacherRow, error)
}

// ClassroomSource loads classroom rows and their membership.
type ClassroomSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ClassroomRow, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ClassroomRow, error)
	AdvisorIDs(ctx context.Context, classroomID uuid.UUID) ([]uuid.UUID, error)
	StudentIDs(ctx context.Context, classroomID uuid.UUID) ([]uuid.UUID, error)
	StudentCount(ctx context.Context, classroomID uuid.UUID) (int, error)
}

// ContactSource loads contact rows and their attachments.
type ContactSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ContactRow, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ContactRow, error)
	IDsForStudent(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error)
	IDsForTeacher(ctx context.Context, teacherID uuid.UUID) ([]uuid.UUID, error)
	IDsForClassroom(ctx context.Context, classroomID uuid.UUID) ([]uuid.UUID, error)
	IDsForClub(ctx context.Context, clubID uuid.UUID) ([]uuid.UUID, error)
}

// SubjectSource loads subject rows and teaching assignments.
type SubjectSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.SubjectRow, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.SubjectRow, error)
	TeacherIDs(ctx context.Context, subjectID uuid.UUID, co bool) ([]uuid.UUID, error)
	IDsForTeacher(ctx context.Context, teacherID uuid.UUID, co bool) ([]uuid.UUID, error)
}

// SubjectGroupSource loads the subject-group lookup table.
type SubjectGroupSource interface {
	GetByID(ctx context.Context, id int) (*models.SubjectGroupRow, error)
	GetByIDs(ctx context.Context, ids []int) ([]models.SubjectGroupRow, error)
}

// ClubSource loads club rows and their rosters.
type ClubSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ClubRow, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ClubRow, error)
	StaffIDs(ctx context.Context, clubID uuid.UUID) ([]uuid.UUID, error)
	MemberIDs(ctx context.Context, clubID uuid.UUID) ([]uuid.UUID, error)
}

// AttendanceSource loads attendance rows.
type AttendanceSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.AttendanceRow, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.AttendanceRow, error)
}

// CertificateSource loads certificate rows.
type CertificateSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.CertificateRow, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CertificateRow, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]models.CertificateRow, error)
}

// Fetcher materializes rows from the relation layer. One Fetcher is shared
// across requests; all per-request state lives in the Authorizer.
type Fetcher struct {
	students      StudentSource
	teachers      TeacherSource
	classrooms    ClassroomSource
	contacts      ContactSource
	subjects      SubjectSource
	subjectGroups SubjectGroupSource
	clubs         ClubSource
	attendances   AttendanceSource
	certificates  CertificateSource
}

// NewFetcher wires a Fetcher over the relation layer.
func NewFetcher(
	students StudentSource,
	teachers TeacherSource,
	classrooms ClassroomSource,
	contacts ContactSource,
	subjects SubjectSource,
	subjectGroups SubjectGroupSource,
	clubs ClubSource,
	attendances AttendanceSource,
	certificates CertificateSource,
) *Fetcher {
	return &Fetcher{
		students:      students,
		teachers:      teachers,
		classrooms:    classrooms,
		contacts:      contacts,
		subjects:      subjects,
		subjectGroups: subjectGroups,
		clubs:         clubs,
		attendances:   attendances,
		certificates:  certificates,
	}
}

// batch materializes a slice of rows concurrently, preserving input order.
// The first failure cancels the siblings and fails the batch.
func batch[R any, M any](ctx context.Context, rows []R, fn func(ctx context.Context, row *R) (*M, error)) ([]*M, error) {
	out := make([]*M, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i := range rows {
		i := i
		g.Go(func() error {
			m, err := fn(gctx, &rows[i])
			if err != nil {
				return err
			}
			out[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Page bundles a materialized list with its pagination metadata.
type Page[M any] struct {
	Items    []*M
	PageInfo *query.PageInfo
}
