package fetch

import (
	"context"

	"github.com/google/uuid"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
)

func studentCompact(row *models.StudentRow) *models.StudentCompact {
	return &models.StudentCompact{
		ID:          row.ID,
		StudentCode: row.StudentCode,
		Prefix:      models.MergeMultiLang(row.PrefixTH, row.PrefixEN),
		Name:        models.MergeMultiLang(row.FirstNameTH, row.FirstNameEN),
		LastName:    models.MergeMultiLang(row.LastNameTH, row.LastNameEN),
		Nickname:    models.MergeMultiLang(row.NicknameTH, row.NicknameEN),
		ClassNo:     row.ClassNo,
		ProfileURL:  row.ProfileURL,
	}
}

// Student materializes one student row at the given level. Relationships
// materialize at desc; their own relationships collapse to IdOnly, which
// bounds the tree to a single expansion.
func (f *Fetcher) Student(ctx context.Context, row *models.StudentRow, level, desc models.FetchLevel, az authz.Authorizer) (*models.Student, error) {
	if level == models.FetchIDOnly {
		return &models.Student{Level: level, IDOnly: &models.StudentIDOnly{ID: row.ID}}, nil
	}
	if err := az.AuthorizeStudent(ctx, row, authz.ReadAction(level)); err != nil {
		return nil, err
	}
	compact := studentCompact(row)
	if level == models.FetchCompact {
		return &models.Student{Level: level, Compact: compact}, nil
	}

	def := models.StudentDefault{
		StudentCompact: *compact,
		BirthDate:      row.BirthDate,
		Sex:            row.Sex,
	}
	if row.ClassroomID != nil {
		classroom, err := f.classroomByID(ctx, *row.ClassroomID, desc, az)
		if err != nil {
			return nil, err
		}
		def.Classroom = classroom
	}
	contacts, err := f.contactsFor(ctx, desc, az, func() ([]uuid.UUID, error) {
		return f.contacts.IDsForStudent(ctx, row.ID)
	})
	if err != nil {
		return nil, err
	}
	def.Contacts = contacts
	if level == models.FetchDefault {
		return &models.Student{Level: level, Default: &def}, nil
	}

	det := models.StudentDetailed{
		StudentDefault: def,
		CitizenID:      row.CitizenID,
		BloodGroup:     row.BloodGroup,
		ShirtSize:      row.ShirtSize,
		PantsSize:      row.PantsSize,
	}
	certRows, err := f.certificates.ListForStudent(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	certs, err := batch(ctx, certRows, func(ctx context.Context, r *models.CertificateRow) (*models.Certificate, error) {
		return f.Certificate(ctx, r, desc, models.FetchIDOnly, az)
	})
	if err != nil {
		return nil, err
	}
	det.Certificates = certs
	return &models.Student{Level: level, Detailed: &det}, nil
}

// Students materializes a batch of student rows concurrently.
func (f *Fetcher) Students(ctx context.Context, rows []models.StudentRow, level, desc models.FetchLevel, az authz.Authorizer) ([]*models.Student, error) {
	return batch(ctx, rows, func(ctx context.Context, row *models.StudentRow) (*models.Student, error) {
		return f.Student(ctx, row, level, desc, az)
	})
}

// studentByID materializes a student referenced by a foreign key. At IdOnly
// the id alone suffices; nothing loads and nothing is checked.
func (f *Fetcher) studentByID(ctx context.Context, id uuid.UUID, level models.FetchLevel, az authz.Authorizer) (*models.Student, error) {
	if level == models.FetchIDOnly {
		return &models.Student{Level: level, IDOnly: &models.StudentIDOnly{ID: id}}, nil
	}
	row, err := f.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return f.Student(ctx, row, level, models.FetchIDOnly, az)
}

// studentsByIDs materializes students referenced by id. At IdOnly the ids
// are enough; no rows load and no checks run.
func (f *Fetcher) studentsByIDs(ctx context.Context, ids []uuid.UUID, level models.FetchLevel, az authz.Authorizer) ([]*models.Student, error) {
	if level == models.FetchIDOnly {
		out := make([]*models.Student, len(ids))
		for i, id := range ids {
			out[i] = &models.Student{Level: level, IDOnly: &models.StudentIDOnly{ID: id}}
		}
		return out, nil
	}
	rows, err := f.students.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return f.Students(ctx, rows, level, models.FetchIDOnly, az)
}
