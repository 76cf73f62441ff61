package fetch

import (
	"context"

	"github.com/google/uuid"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
)

// Subject materializes one subject row at the given level.
func (f *Fetcher) Subject(ctx context.Context, row *models.SubjectRow, level, desc models.FetchLevel, az authz.Authorizer) (*models.Subject, error) {
	if level == models.FetchIDOnly {
		return &models.Subject{Level: level, IDOnly: &models.SubjectIDOnly{ID: row.ID}}, nil
	}
	if err := az.AuthorizeSubject(ctx, row, authz.ReadAction(level)); err != nil {
		return nil, err
	}
	compact := &models.SubjectCompact{
		ID:        row.ID,
		Code:      models.MergeMultiLang(&row.CodeTH, row.CodeEN),
		Name:      models.MergeMultiLang(&row.NameTH, row.NameEN),
		ShortName: models.MergeMultiLang(row.ShortNameTH, row.ShortNameEN),
	}
	if level == models.FetchCompact {
		return &models.Subject{Level: level, Compact: compact}, nil
	}

	def := models.SubjectDefault{
		SubjectCompact: *compact,
		Type:           row.Type,
		Credit:         row.Credit,
		Semester:       row.Semester,
	}
	group, err := f.subjectGroupByID(ctx, row.SubjectGroupID, desc, az)
	if err != nil {
		return nil, err
	}
	def.SubjectGroup = group

	teacherIDs, err := f.subjects.TeacherIDs(ctx, row.ID, false)
	if err != nil {
		return nil, err
	}
	teachers, err := f.teachersByIDs(ctx, teacherIDs, desc, az)
	if err != nil {
		return nil, err
	}
	def.Teachers = teachers

	coIDs, err := f.subjects.TeacherIDs(ctx, row.ID, true)
	if err != nil {
		return nil, err
	}
	coTeachers, err := f.teachersByIDs(ctx, coIDs, desc, az)
	if err != nil {
		return nil, err
	}
	def.CoTeachers = coTeachers
	if level == models.FetchDefault {
		return &models.Subject{Level: level, Default: &def}, nil
	}

	return &models.Subject{Level: level, Detailed: &models.SubjectDetailed{SubjectDefault: def, SyllabusURL: row.SyllabusURL}}, nil
}

// Subjects materializes a batch of subject rows concurrently.
func (f *Fetcher) Subjects(ctx context.Context, rows []models.SubjectRow, level, desc models.FetchLevel, az authz.Authorizer) ([]*models.Subject, error) {
	return batch(ctx, rows, func(ctx context.Context, row *models.SubjectRow) (*models.Subject, error) {
		return f.Subject(ctx, row, level, desc, az)
	})
}

func (f *Fetcher) subjectsByIDs(ctx context.Context, ids []uuid.UUID, level models.FetchLevel, az authz.Authorizer) ([]*models.Subject, error) {
	if level == models.FetchIDOnly {
		out := make([]*models.Subject, len(ids))
		for i, id := range ids {
			out[i] = &models.Subject{Level: level, IDOnly: &models.SubjectIDOnly{ID: id}}
		}
		return out, nil
	}
	rows, err := f.subjects.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return f.Subjects(ctx, rows, level, models.FetchIDOnly, az)
}
