package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/fetch"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
	appErrors "github.com/warin-dev/sis-api/pkg/errors"
)

type attendanceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.AttendanceRow, error)
	List(ctx context.Context, filter *models.AttendanceFilter, sort *query.Sort, p query.Pagination) ([]models.AttendanceRow, error)
	PageInfo(ctx context.Context, filter *models.AttendanceFilter, p query.Pagination) (*query.PageInfo, error)
	Upsert(ctx context.Context, rows []models.AttendanceRow) ([]models.AttendanceRow, error)
}

// AttendanceMark is one student's mark within a recording request.
type AttendanceMark struct {
	StudentID     uuid.UUID           `json:"student_id" validate:"required"`
	IsPresent     bool                `json:"is_present"`
	AbsenceType   *models.AbsenceType `json:"absence_type"`
	AbsenceReason *string             `json:"absence_reason"`
}

// RecordAttendanceRequest records a batch of marks for one date and event.
// Re-recording the same student, date, and event overwrites the stored mark.
type RecordAttendanceRequest struct {
	Date  time.Time        `json:"date" validate:"required"`
	Event string           `json:"event" validate:"required,oneof=assembly homeroom"`
	Marks []AttendanceMark `json:"marks" validate:"required,min=1,dive"`
}

// AttendanceService handles attendance use-cases.
type AttendanceService struct {
	repo      attendanceRepository
	fetcher   *fetch.Fetcher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, fetcher *fetch.Fetcher, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, fetcher: fetcher, validator: validate, logger: logger}
}

// Get materializes one attendance record at the requested fetch level.
func (s *AttendanceService) Get(ctx context.Context, az authz.Authorizer, id uuid.UUID, level, desc models.FetchLevel) (*models.Attendance, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Attendance(ctx, row, level, desc, az)
}

// List materializes a filtered page of attendance records.
func (s *AttendanceService) List(ctx context.Context, az authz.Authorizer, filter *models.AttendanceFilter, sort *query.Sort, p query.Pagination, level, desc models.FetchLevel) (*fetch.Page[models.Attendance], error) {
	rows, err := s.repo.List(ctx, filter, sort, p)
	if err != nil {
		return nil, err
	}
	items, err := s.fetcher.Attendances(ctx, rows, level, desc, az)
	if err != nil {
		return nil, err
	}
	info, err := s.repo.PageInfo(ctx, filter, p)
	if err != nil {
		return nil, err
	}
	return &fetch.Page[models.Attendance]{Items: items, PageInfo: info}, nil
}

// Record stores a batch of marks. Every mark is authorized before any row is
// written; a single denial rejects the whole batch.
func (s *AttendanceService) Record(ctx context.Context, az authz.Authorizer, req RecordAttendanceRequest) ([]*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid attendance payload")
	}
	rows := make([]models.AttendanceRow, 0, len(req.Marks))
	for _, mark := range req.Marks {
		if !mark.IsPresent && mark.AbsenceType == nil {
			return nil, appErrors.InvalidRequest("absence_type is required for an absent mark")
		}
		row := models.AttendanceRow{
			StudentID:     mark.StudentID,
			Date:          req.Date,
			Event:         req.Event,
			IsPresent:     mark.IsPresent,
			AbsenceType:   mark.AbsenceType,
			AbsenceReason: mark.AbsenceReason,
		}
		if err := az.AuthorizeAttendance(ctx, &row, authz.ActionCreate); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	stored, err := s.repo.Upsert(ctx, rows)
	if err != nil {
		return nil, err
	}
	s.logger.Info("attendance recorded",
		zap.String("event", req.Event),
		zap.Time("date", req.Date),
		zap.Int("marks", len(stored)))
	return s.fetcher.Attendances(ctx, stored, models.FetchCompact, models.FetchIDOnly, az)
}
