package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/swim-school-site/internal/models"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
	"github.com/noah-isme/swim-school-site/pkg/export"
	"github.com/noah-isme/swim-school-site/pkg/jobs"
)

// Export formats supported by the inquiry log.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

const maxExportRows = 500

type inquiryRepository interface {
	Create(ctx context.Context, record *models.InquiryRecord) error
	List(ctx context.Context, filter models.InquiryFilter) ([]models.InquiryRecord, int, error)
}

type inquiryEnqueuer interface {
	Enqueue(job jobs.Job[models.InquiryRecord]) error
}

type inquiryMetrics interface {
	ObserveInquiryWrite(ok bool)
}

// ExportFile is a rendered inquiry export.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type inquiryExportRow struct {
	SubmittedAt  string `csv:"Innsendt"`
	Type         string `csv:"Type"`
	GuardianName string `csv:"Foresatt"`
	Email        string `csv:"E-post"`
	Phone        string `csv:"Telefon"`
	Child        string `csv:"Barn"`
	Course       string `csv:"Kurs"`
	CourseID     string `csv:"Kurs-ID"`
	HeardAboutUs string `csv:"Hørt om oss"`
}

// InquiryService keeps a log of delivered forms for staff follow-up.
// Writes happen off the request path through a job queue.
type InquiryService struct {
	repo    inquiryRepository
	queue   inquiryEnqueuer
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	metrics inquiryMetrics
	logger  *zap.Logger
}

// NewInquiryService constructs the service. A nil repository disables the log.
func NewInquiryService(repo inquiryRepository, metrics inquiryMetrics, logger *zap.Logger) *InquiryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InquiryService{
		repo:    repo,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		metrics: metrics,
		logger:  logger,
	}
}

// AttachQueue sets the queue that Record hands records to.
func (s *InquiryService) AttachQueue(q inquiryEnqueuer) {
	s.queue = q
}

// Enabled reports whether the log has a backing store.
func (s *InquiryService) Enabled() bool {
	return s != nil && s.repo != nil
}

// Record enqueues a delivered submission. It matches the wizard success callback signature.
func (s *InquiryService) Record(_ context.Context, summary models.SubmissionSummary) {
	if !s.Enabled() || s.queue == nil {
		return
	}
	record := RecordFromSummary(summary)
	err := s.queue.Enqueue(jobs.Job[models.InquiryRecord]{ID: record.ID, Payload: record, Enqueued: time.Now().UTC()})
	if err != nil {
		s.logger.Warn("failed to enqueue inquiry", zap.String("inquiry_id", record.ID), zap.Error(err))
	}
}

// Persist writes one queued record. It is the queue handler.
func (s *InquiryService) Persist(ctx context.Context, job jobs.Job[models.InquiryRecord]) error {
	record := job.Payload
	err := s.repo.Create(ctx, &record)
	if s.metrics != nil {
		s.metrics.ObserveInquiryWrite(err == nil)
	}
	return err
}

// List returns a page of the inquiry log.
func (s *InquiryService) List(ctx context.Context, filter models.InquiryFilter) ([]models.InquiryRecord, *models.Pagination, error) {
	if !s.Enabled() {
		return nil, nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "inquiry log is not configured")
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown inquiry type %q", filter.Type))
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > maxExportRows {
		filter.PageSize = 50
	}

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inquiries")
	}
	if records == nil {
		records = []models.InquiryRecord{}
	}
	return records, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Export renders the newest inquiries matching filter as CSV or PDF.
func (s *InquiryService) Export(ctx context.Context, filter models.InquiryFilter, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	filter.Page = 1
	filter.PageSize = maxExportRows
	records, _, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]inquiryExportRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, inquiryExportRow{
			SubmittedAt:  r.CreatedAt.Format("02.01.2006 15:04"),
			Type:         r.InquiryType.Label(),
			GuardianName: r.GuardianName,
			Email:        r.Email,
			Phone:        r.Phone,
			Child:        r.ChildFirstName,
			Course:       r.CourseLabel,
			CourseID:     r.CourseID,
			HeardAboutUs: r.HeardAboutUs,
		})
	}

	stamp := time.Now().UTC().Format("20060102")
	if format == ExportFormatPDF {
		body, err := s.pdf.Render(exportDataset(rows), "Henvendelser")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Filename: "henvendelser-" + stamp + ".pdf", ContentType: "application/pdf", Body: body}, nil
	}

	body, err := s.csv.Render(&rows)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return &ExportFile{Filename: "henvendelser-" + stamp + ".csv", ContentType: "text/csv; charset=utf-8", Body: body}, nil
}

// RecordFromSummary maps a delivered submission onto a log record. The wizard id doubles as
// the record id so a retried write stays idempotent.
func RecordFromSummary(summary models.SubmissionSummary) models.InquiryRecord {
	form := summary.Form
	record := models.InquiryRecord{
		ID:             summary.WizardID,
		InquiryType:    summary.InquiryType,
		GuardianName:   strings.TrimSpace(form.GuardianFirstName + " " + form.GuardianLastName),
		Email:          strings.TrimSpace(form.Email),
		Phone:          strings.TrimSpace(form.Phone),
		ChildFirstName: summary.ChildFirstName,
		CourseLabel:    summary.SelectedCourse,
		HeardAboutUs:   form.HeardAboutUs,
		CreatedAt:      summary.SubmittedAt,
	}
	if summary.Selection != nil {
		record.CourseID = summary.Selection.CourseID
	}
	return record
}

func exportDataset(rows []inquiryExportRow) export.Dataset {
	data := export.Dataset{
		Headers: []string{"Innsendt", "Type", "Foresatt", "E-post", "Telefon", "Barn", "Kurs", "Hørt om oss"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		data.Rows = append(data.Rows, []string{r.SubmittedAt, r.Type, r.GuardianName, r.Email, r.Phone, r.Child, r.Course, r.HeardAboutUs})
	}
	return data
}
