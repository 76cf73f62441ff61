package fetch

import (
	"context"

	"github.com/google/uuid"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
)

// Contact materializes one contact row. Contacts are leaves, so desc is
// accepted for protocol uniformity but nothing expands from here.
func (f *Fetcher) Contact(ctx context.Context, row *models.ContactRow, level, _ models.FetchLevel, az authz.Authorizer) (*models.Contact, error) {
	if level == models.FetchIDOnly {
		return &models.Contact{Level: level, IDOnly: &models.ContactIDOnly{ID: row.ID}}, nil
	}
	if err := az.AuthorizeContact(ctx, row, authz.ReadAction(level)); err != nil {
		return nil, err
	}
	compact := &models.ContactCompact{ID: row.ID, Type: row.Type, Value: row.Value}
	if level == models.FetchCompact {
		return &models.Contact{Level: level, Compact: compact}, nil
	}
	def := &models.ContactDefault{
		ContactCompact:  *compact,
		Name:            models.MergeMultiLang(row.NameTH, row.NameEN),
		IncludeStudents: row.IncludeStudents,
		IncludeTeachers: row.IncludeTeachers,
		IncludeParents:  row.IncludeParents,
	}
	if level == models.FetchDefault {
		return &models.Contact{Level: level, Default: def}, nil
	}
	return &models.Contact{Level: level, Detailed: &models.ContactDetailed{ContactDefault: *def}}, nil
}

// Contacts materializes a batch of contact rows concurrently.
func (f *Fetcher) Contacts(ctx context.Context, rows []models.ContactRow, level, desc models.FetchLevel, az authz.Authorizer) ([]*models.Contact, error) {
	return batch(ctx, rows, func(ctx context.Context, row *models.ContactRow) (*models.Contact, error) {
		return f.Contact(ctx, row, level, desc, az)
	})
}

// contactsFor materializes the contacts an attachment lookup yields.
func (f *Fetcher) contactsFor(ctx context.Context, level models.FetchLevel, az authz.Authorizer, idsFn func() ([]uuid.UUID, error)) ([]*models.Contact, error) {
	ids, err := idsFn()
	if err != nil {
		return nil, err
	}
	if level == models.FetchIDOnly {
		out := make([]*models.Contact, len(ids))
		for i, id := range ids {
			out[i] = &models.Contact{Level: level, IDOnly: &models.ContactIDOnly{ID: id}}
		}
		return out, nil
	}
	rows, err := f.contacts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return f.Contacts(ctx, rows, level, models.FetchIDOnly, az)
}
