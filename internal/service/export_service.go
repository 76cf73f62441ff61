package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
	appErrors "github.com/warin-dev/sis-api/pkg/errors"
	"github.com/warin-dev/sis-api/pkg/export"
	"github.com/warin-dev/sis-api/pkg/jobs"
	"github.com/warin-dev/sis-api/pkg/storage"
)

type exportCertificateSource interface {
	List(ctx context.Context, filter *models.CertificateFilter, sort *query.Sort, p query.Pagination) ([]models.CertificateRow, error)
}

type exportAttendanceSource interface {
	List(ctx context.Context, filter *models.AttendanceFilter, sort *query.Sort, p query.Pagination) ([]models.AttendanceRow, error)
}

type exportStudentSource interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.StudentRow, error)
	List(ctx context.Context, filter *models.StudentFilter, sort *query.Sort, p query.Pagination) ([]models.StudentRow, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// exportPageSize bounds how many rows one export job pulls per query.
const exportPageSize = 500

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
	Workers   int
	Retries   int
}

// CreateExportRequest submits an asynchronous export job.
type CreateExportRequest struct {
	Type        models.ReportType   `json:"type" validate:"required,oneof=certificates attendance"`
	Format      models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
	ClassroomID *uuid.UUID          `json:"classroom_id"`
	Year        *int                `json:"year"`
	From        *time.Time          `json:"from"`
	To          *time.Time          `json:"to"`
}

// ExportService renders certificate and attendance reports in background
// workers and exposes the results behind signed download tokens. Job state
// is kept in memory; a restart forgets unfinished jobs, which operators
// resubmit.
type ExportService struct {
	certificates exportCertificateSource
	attendances  exportAttendanceSource
	students     exportStudentSource
	storage      fileStorage
	csv          csvRenderer
	pdf          pdfRenderer
	signer       *storage.SignedURLSigner
	logger       *zap.Logger
	cfg          ExportConfig

	queue *jobs.Queue

	mu   sync.RWMutex
	jobs map[uuid.UUID]*models.ExportJob
}

// NewExportService constructs an ExportService and its worker queue. Call
// Start before submitting jobs and Stop on shutdown.
func NewExportService(
	certificates exportCertificateSource,
	attendances exportAttendanceSource,
	students exportStudentSource,
	fileStore fileStorage,
	signer *storage.SignedURLSigner,
	cfg ExportConfig,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 1
	}
	s := &ExportService{
		certificates: certificates,
		attendances:  attendances,
		students:     students,
		storage:      fileStore,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		signer:       signer,
		logger:       logger,
		cfg:          cfg,
		jobs:         map[uuid.UUID]*models.ExportJob{},
	}
	s.queue = jobs.NewQueue("exports", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop drains the export workers.
func (s *ExportService) Stop() { s.queue.Stop() }

// Submit registers an export job and queues it for rendering.
func (s *ExportService) Submit(ctx context.Context, req CreateExportRequest) (*models.ExportJob, error) {
	job := &models.ExportJob{
		ID:     uuid.New(),
		Type:   req.Type,
		Format: req.Format,
		Params: models.ExportJobParams{
			ClassroomID: req.ClassroomID,
			Year:        req.Year,
			From:        req.From,
			To:          req.To,
		},
		Status:    models.ExportJobPending,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID.String(), Type: string(job.Type), Payload: job.ID}); err != nil {
		s.fail(job.ID, err)
		return nil, appErrors.Internal(err, "failed to queue export")
	}
	return s.snapshot(job.ID), nil
}

// Job returns the current state of an export job.
func (s *ExportService) Job(id uuid.UUID) (*models.ExportJob, error) {
	job := s.snapshot(id)
	if job == nil {
		return nil, appErrors.NotFound("export job not found")
	}
	return job, nil
}

// Open validates a download token and returns the stored file.
func (s *ExportService) Open(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.NotFound("export file no longer available")
	}
	return file, nil
}

// Cleanup removes rendered files older than the configured TTL.
func (s *ExportService) Cleanup() ([]string, error) {
	return s.storage.CleanupOlderThan(s.cfg.ResultTTL)
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	id, ok := job.Payload.(uuid.UUID)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	s.setStatus(id, models.ExportJobRunning)

	snap := s.snapshot(id)
	if snap == nil {
		return fmt.Errorf("export job %s vanished", id)
	}

	dataset, title, err := s.buildDataset(ctx, snap)
	if err != nil {
		s.fail(id, err)
		return err
	}

	var payload []byte
	switch snap.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", snap.Format)
	}
	if err != nil {
		s.fail(id, err)
		return err
	}

	filename := fmt.Sprintf("%s_%s.%s", snap.Type, time.Now().UTC().Format("20060102_150405"), snap.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.fail(id, err)
		return err
	}

	token, expiresAt, err := s.signer.Generate(id.String(), relPath)
	if err != nil {
		s.fail(id, err)
		return err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	url := fmt.Sprintf("%s/exports/download/%s", prefix, token)

	now := time.Now().UTC()
	s.mu.Lock()
	if j, ok := s.jobs[id]; ok {
		j.Status = models.ExportJobCompleted
		j.URL = &url
		j.ExpiresAt = &expiresAt
		j.CompletedAt = &now
	}
	s.mu.Unlock()
	s.logger.Info("export completed", zap.String("job_id", id.String()), zap.String("path", relPath))
	return nil
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ExportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeCertificates:
		return s.buildCertificateDataset(ctx, job.Params)
	case models.ReportTypeAttendance:
		return s.buildAttendanceDataset(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildCertificateDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	filter := &models.CertificateFilter{Year: params.Year}
	var classroomStudents map[uuid.UUID]struct{}
	if params.ClassroomID != nil {
		rows, err := s.students.List(ctx, &models.StudentFilter{ClassroomID: params.ClassroomID},
			&query.Sort{By: "class_no"}, query.Pagination{Page: 1, Size: exportPageSize})
		if err != nil {
			return export.Dataset{}, "", err
		}
		classroomStudents = make(map[uuid.UUID]struct{}, len(rows))
		for _, r := range rows {
			classroomStudents[r.ID] = struct{}{}
		}
	}

	certs, err := s.certificates.List(ctx, filter, &query.Sort{By: "year", Descending: true},
		query.Pagination{Page: 1, Size: exportPageSize})
	if err != nil {
		return export.Dataset{}, "", err
	}

	studentIDs := make([]uuid.UUID, 0, len(certs))
	for _, c := range certs {
		if classroomStudents != nil {
			if _, ok := classroomStudents[c.StudentID]; !ok {
				continue
			}
		}
		studentIDs = append(studentIDs, c.StudentID)
	}
	students, err := s.students.GetByIDs(ctx, studentIDs)
	if err != nil {
		return export.Dataset{}, "", err
	}
	codes := make(map[uuid.UUID]string, len(students))
	for _, st := range students {
		codes[st.ID] = st.StudentCode
	}

	dataset := export.Dataset{Headers: []string{"Student", "Year", "Type", "Detail", "Order", "Seat"}}
	for _, c := range certs {
		if classroomStudents != nil {
			if _, ok := classroomStudents[c.StudentID]; !ok {
				continue
			}
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student": codes[c.StudentID],
			"Year":    fmt.Sprintf("%d", c.Year),
			"Type":    string(c.Type),
			"Detail":  strDeref(c.Detail),
			"Order":   intDeref(c.ReceivingOrder),
			"Seat":    strDeref(c.SeatCode),
		})
	}
	return dataset, "Certificate Report", nil
}

func (s *ExportService) buildAttendanceDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	filter := &models.AttendanceFilter{
		ClassroomID: params.ClassroomID,
		After:       params.From,
		Before:      params.To,
	}
	rows, err := s.attendances.List(ctx, filter, &query.Sort{By: "date"},
		query.Pagination{Page: 1, Size: exportPageSize})
	if err != nil {
		return export.Dataset{}, "", err
	}

	studentIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		studentIDs = append(studentIDs, r.StudentID)
	}
	students, err := s.students.GetByIDs(ctx, studentIDs)
	if err != nil {
		return export.Dataset{}, "", err
	}
	codes := make(map[uuid.UUID]string, len(students))
	for _, st := range students {
		codes[st.ID] = st.StudentCode
	}

	dataset := export.Dataset{Headers: []string{"Student", "Date", "Event", "Present", "Absence", "Reason"}}
	for _, r := range rows {
		present := "no"
		if r.IsPresent {
			present = "yes"
		}
		var absence string
		if r.AbsenceType != nil {
			absence = string(*r.AbsenceType)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student": codes[r.StudentID],
			"Date":    r.Date.Format("2006-01-02"),
			"Event":   r.Event,
			"Present": present,
			"Absence": absence,
			"Reason":  strDeref(r.AbsenceReason),
		})
	}
	return dataset, "Attendance Report", nil
}

func (s *ExportService) snapshot(id uuid.UUID) *models.ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil
	}
	clone := *job
	return &clone
}

func (s *ExportService) setStatus(id uuid.UUID, status models.ExportJobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Status = status
	}
}

func (s *ExportService) fail(id uuid.UUID, err error) {
	msg := err.Error()
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Status = models.ExportJobFailed
		job.Error = &msg
		job.CompletedAt = &now
	}
}
