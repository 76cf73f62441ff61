package fetch

import (
	"context"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
)

// Attendance materializes one attendance row at the given level.
func (f *Fetcher) Attendance(ctx context.Context, row *models.AttendanceRow, level, desc models.FetchLevel, az authz.Authorizer) (*models.Attendance, error) {
	if level == models.FetchIDOnly {
		return &models.Attendance{Level: level, IDOnly: &models.AttendanceIDOnly{ID: row.ID}}, nil
	}
	if err := az.AuthorizeAttendance(ctx, row, authz.ReadAction(level)); err != nil {
		return nil, err
	}
	compact := &models.AttendanceCompact{ID: row.ID, Date: row.Date, Event: row.Event, IsPresent: row.IsPresent}
	if level == models.FetchCompact {
		return &models.Attendance{Level: level, Compact: compact}, nil
	}

	def := models.AttendanceDefault{
		AttendanceCompact: *compact,
		AbsenceType:       row.AbsenceType,
		AbsenceReason:     row.AbsenceReason,
	}
	student, err := f.studentByID(ctx, row.StudentID, desc, az)
	if err != nil {
		return nil, err
	}
	def.Student = student
	if level == models.FetchDefault {
		return &models.Attendance{Level: level, Default: &def}, nil
	}
	return &models.Attendance{Level: level, Detailed: &models.AttendanceDetailed{AttendanceDefault: def}}, nil
}

// Attendances materializes a batch of attendance rows concurrently.
func (f *Fetcher) Attendances(ctx context.Context, rows []models.AttendanceRow, level, desc models.FetchLevel, az authz.Authorizer) ([]*models.Attendance, error) {
	return batch(ctx, rows, func(ctx context.Context, row *models.AttendanceRow) (*models.Attendance, error) {
		return f.Attendance(ctx, row, level, desc, az)
	})
}
