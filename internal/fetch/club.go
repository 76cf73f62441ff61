package fetch

import (
	"context"

	"github.com/google/uuid"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
)

// Club materializes one club row at the given level.
func (f *Fetcher) Club(ctx context.Context, row *models.ClubRow, level, desc models.FetchLevel, az authz.Authorizer) (*models.Club, error) {
	if level == models.FetchIDOnly {
		return &models.Club{Level: level, IDOnly: &models.ClubIDOnly{ID: row.ID}}, nil
	}
	if err := az.AuthorizeClub(ctx, row, authz.ReadAction(level)); err != nil {
		return nil, err
	}
	compact := &models.ClubCompact{
		ID:          row.ID,
		Name:        models.MergeMultiLang(&row.NameTH, row.NameEN),
		LogoURL:     row.LogoURL,
		AccentColor: row.AccentColor,
		House:       row.House,
	}
	if level == models.FetchCompact {
		return &models.Club{Level: level, Compact: compact}, nil
	}

	def := models.ClubDefault{
		ClubCompact: *compact,
		Description: models.MergeMultiLang(row.DescriptionTH, row.DescriptionEN),
		MainRoom:    row.MainRoom,
	}
	contacts, err := f.contactsFor(ctx, desc, az, func() ([]uuid.UUID, error) {
		return f.contacts.IDsForClub(ctx, row.ID)
	})
	if err != nil {
		return nil, err
	}
	def.Contacts = contacts
	if level == models.FetchDefault {
		return &models.Club{Level: level, Default: &def}, nil
	}

	staffIDs, err := f.clubs.StaffIDs(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	staffs, err := f.studentsByIDs(ctx, staffIDs, desc, az)
	if err != nil {
		return nil, err
	}
	memberIDs, err := f.clubs.MemberIDs(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	members, err := f.studentsByIDs(ctx, memberIDs, desc, az)
	if err != nil {
		return nil, err
	}
	return &models.Club{Level: level, Detailed: &models.ClubDetailed{ClubDefault: def, Staffs: staffs, Members: members}}, nil
}

// Clubs materializes a batch of club rows concurrently.
func (f *Fetcher) Clubs(ctx context.Context, rows []models.ClubRow, level, desc models.FetchLevel, az authz.Authorizer) ([]*models.Club, error) {
	return batch(ctx, rows, func(ctx context.Context, row *models.ClubRow) (*models.Club, error) {
		return f.Club(ctx, row, level, desc, az)
	})
}
