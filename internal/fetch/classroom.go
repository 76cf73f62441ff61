package fetch

import (
	"context"

	"github.com/google/uuid"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
)

// Classroom materializes one classroom row at the given level.
func (f *Fetcher) Classroom(ctx context.Context, row *models.ClassroomRow, level, desc models.FetchLevel, az authz.Authorizer) (*models.Classroom, error) {
	if level == models.FetchIDOnly {
		return &models.Classroom{Level: level, IDOnly: &models.ClassroomIDOnly{ID: row.ID}}, nil
	}
	if err := az.AuthorizeClassroom(ctx, row, authz.ReadAction(level)); err != nil {
		return nil, err
	}
	compact := &models.ClassroomCompact{ID: row.ID, Number: row.Number, Year: row.Year}
	if level == models.FetchCompact {
		return &models.Classroom{Level: level, Compact: compact}, nil
	}

	def := models.ClassroomDefault{ClassroomCompact: *compact, MainRoom: row.MainRoom}

	advisorIDs, err := f.classrooms.AdvisorIDs(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	advisors, err := f.teachersByIDs(ctx, advisorIDs, desc, az)
	if err != nil {
		return nil, err
	}
	def.Advisors = advisors

	studentIDs, err := f.classrooms.StudentIDs(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	students, err := f.studentsByIDs(ctx, studentIDs, desc, az)
	if err != nil {
		return nil, err
	}
	def.Students = students

	contacts, err := f.contactsFor(ctx, desc, az, func() ([]uuid.UUID, error) {
		return f.contacts.IDsForClassroom(ctx, row.ID)
	})
	if err != nil {
		return nil, err
	}
	def.Contacts = contacts
	if level == models.FetchDefault {
		return &models.Classroom{Level: level, Default: &def}, nil
	}

	count, err := f.classrooms.StudentCount(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	return &models.Classroom{Level: level, Detailed: &models.ClassroomDetailed{ClassroomDefault: def, StudentCount: count}}, nil
}

// Classrooms materializes a batch of classroom rows concurrently.
func (f *Fetcher) Classrooms(ctx context.Context, rows []models.ClassroomRow, level, desc models.FetchLevel, az authz.Authorizer) ([]*models.Classroom, error) {
	return batch(ctx, rows, func(ctx context.Context, row *models.ClassroomRow) (*models.Classroom, error) {
		return f.Classroom(ctx, row, level, desc, az)
	})
}

// classroomByID materializes a classroom referenced by a foreign key. At
// IdOnly the id alone suffices; nothing loads and nothing is checked.
func (f *Fetcher) classroomByID(ctx context.Context, id uuid.UUID, level models.FetchLevel, az authz.Authorizer) (*models.Classroom, error) {
	if level == models.FetchIDOnly {
		return &models.Classroom{Level: level, IDOnly: &models.ClassroomIDOnly{ID: id}}, nil
	}
	row, err := f.classrooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return f.Classroom(ctx, row, level, models.FetchIDOnly, az)
}
