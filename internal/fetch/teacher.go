package fetch

import (
	"context"

	"github.com/google/uuid"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
)

func teacherCompact(row *models.TeacherRow) *models.TeacherCompact {
	return &models.TeacherCompact{
		ID:          row.ID,
		TeacherCode: row.TeacherCode,
		Prefix:      models.MergeMultiLang(row.PrefixTH, row.PrefixEN),
		Name:        models.MergeMultiLang(row.FirstNameTH, row.FirstNameEN),
		LastName:    models.MergeMultiLang(row.LastNameTH, row.LastNameEN),
		Nickname:    models.MergeMultiLang(row.NicknameTH, row.NicknameEN),
		ProfileURL:  row.ProfileURL,
	}
}

// Teacher materializes one teacher row at the given level.
func (f *Fetcher) Teacher(ctx context.Context, row *models.TeacherRow, level, desc models.FetchLevel, az authz.Authorizer) (*models.Teacher, error) {
	if level == models.FetchIDOnly {
		return &models.Teacher{Level: level, IDOnly: &models.TeacherIDOnly{ID: row.ID}}, nil
	}
	if err := az.AuthorizeTeacher(ctx, row, authz.ReadAction(level)); err != nil {
		return nil, err
	}
	compact := teacherCompact(row)
	if level == models.FetchCompact {
		return &models.Teacher{Level: level, Compact: compact}, nil
	}

	def := models.TeacherDefault{
		TeacherCompact: *compact,
		BirthDate:      row.BirthDate,
		Sex:            row.Sex,
	}
	if row.SubjectGroupID != nil {
		group, err := f.subjectGroupByID(ctx, *row.SubjectGroupID, desc, az)
		if err != nil {
			return nil, err
		}
		def.SubjectGroup = group
	}
	if row.AdvisorAtID != nil {
		classroom, err := f.classroomByID(ctx, *row.AdvisorAtID, desc, az)
		if err != nil {
			return nil, err
		}
		def.AdvisorAt = classroom
	}
	contacts, err := f.contactsFor(ctx, desc, az, func() ([]uuid.UUID, error) {
		return f.contacts.IDsForTeacher(ctx, row.ID)
	})
	if err != nil {
		return nil, err
	}
	def.Contacts = contacts

	subjectIDs, err := f.subjects.IDsForTeacher(ctx, row.ID, false)
	if err != nil {
		return nil, err
	}
	subjects, err := f.subjectsByIDs(ctx, subjectIDs, desc, az)
	if err != nil {
		return nil, err
	}
	def.SubjectsInCharge = subjects
	if level == models.FetchDefault {
		return &models.Teacher{Level: level, Default: &def}, nil
	}

	det := models.TeacherDetailed{
		TeacherDefault: def,
		CitizenID:      row.CitizenID,
		BloodGroup:     row.BloodGroup,
		ShirtSize:      row.ShirtSize,
	}
	return &models.Teacher{Level: level, Detailed: &det}, nil
}

// Teachers materializes a batch of teacher rows concurrently.
func (f *Fetcher) Teachers(ctx context.Context, rows []models.TeacherRow, level, desc models.FetchLevel, az authz.Authorizer) ([]*models.Teacher, error) {
	return batch(ctx, rows, func(ctx context.Context, row *models.TeacherRow) (*models.Teacher, error) {
		return f.Teacher(ctx, row, level, desc, az)
	})
}

func (f *Fetcher) teachersByIDs(ctx context.Context, ids []uuid.UUID, level models.FetchLevel, az authz.Authorizer) ([]*models.Teacher, error) {
	if level == models.FetchIDOnly {
		out := make([]*models.Teacher, len(ids))
		for i, id := range ids {
			out[i] = &models.Teacher{Level: level, IDOnly: &models.TeacherIDOnly{ID: id}}
		}
		return out, nil
	}
	rows, err := f.teachers.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return f.Teachers(ctx, rows, level, models.FetchIDOnly, az)
}
