package fetch

import (
	"context"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
)

// SubjectGroup materializes one subject-group row. The lookup table has one
// substantive shape, shared by every level above IdOnly.
func (f *Fetcher) SubjectGroup(ctx context.Context, row *models.SubjectGroupRow, level, _ models.FetchLevel, az authz.Authorizer) (*models.SubjectGroup, error) {
	if level == models.FetchIDOnly {
		return &models.SubjectGroup{Level: level, IDOnly: &models.SubjectGroupIDOnly{ID: row.ID}}, nil
	}
	if err := az.AuthorizeSubjectGroup(ctx, row, authz.ReadAction(level)); err != nil {
		return nil, err
	}
	full := &models.SubjectGroupCompact{ID: row.ID, Name: models.MergeMultiLang(&row.NameTH, row.NameEN)}
	switch level {
	case models.FetchCompact:
		return &models.SubjectGroup{Level: level, Compact: full}, nil
	case models.FetchDefault:
		return &models.SubjectGroup{Level: level, Default: full}, nil
	default:
		return &models.SubjectGroup{Level: level, Detailed: full}, nil
	}
}

// SubjectGroups materializes a batch of subject-group rows concurrently.
func (f *Fetcher) SubjectGroups(ctx context.Context, rows []models.SubjectGroupRow, level, desc models.FetchLevel, az authz.Authorizer) ([]*models.SubjectGroup, error) {
	return batch(ctx, rows, func(ctx context.Context, row *models.SubjectGroupRow) (*models.SubjectGroup, error) {
		return f.SubjectGroup(ctx, row, level, desc, az)
	})
}

func (f *Fetcher) subjectGroupByID(ctx context.Context, id int, level models.FetchLevel, az authz.Authorizer) (*models.SubjectGroup, error) {
	if level == models.FetchIDOnly {
		return &models.SubjectGroup{Level: level, IDOnly: &models.SubjectGroupIDOnly{ID: id}}, nil
	}
	row, err := f.subjectGroups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return f.SubjectGroup(ctx, row, level, models.FetchIDOnly, az)
}
