package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/swim-school-site/internal/models"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
	"github.com/noah-isme/swim-school-site/pkg/jobs"
)

type fakeInquiryRepo struct {
	created []models.InquiryRecord
	records []models.InquiryRecord
	filter  models.InquiryFilter
	err     error
}

func (r *fakeInquiryRepo) Create(_ context.Context, record *models.InquiryRecord) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, *record)
	return nil
}

func (r *fakeInquiryRepo) List(_ context.Context, filter models.InquiryFilter) ([]models.InquiryRecord, int, error) {
	r.filter = filter
	if r.err != nil {
		return nil, 0, r.err
	}
	return r.records, len(r.records), nil
}

type fakeEnqueuer struct {
	jobs []jobs.Job[models.InquiryRecord]
	err  error
}

func (q *fakeEnqueuer) Enqueue(job jobs.Job[models.InquiryRecord]) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type recordingInquiryMetrics struct{ writes []bool }

func (m *recordingInquiryMetrics) ObserveInquiryWrite(ok bool) { m.writes = append(m.writes, ok) }

func testSummary() models.SubmissionSummary {
	form := validForm()
	return models.SubmissionSummary{
		WizardID:       "0b6f8f8e-6d55-4c1e-9d1c-3f1c7e1f2a10",
		ChildFirstName: form.ChildFirstName,
		SelectedCourse: form.SelectedCourse,
		InquiryType:    models.InquiryEnrollment,
		Selection:      &models.CourseSelection{CourseID: "baby", Day: "Onsdag", Time: "15:00 - 15:30"},
		Form:           form,
		SubmittedAt:    time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
	}
}

func TestRecordFromSummary(t *testing.T) {
	got := RecordFromSummary(testSummary())
	want := models.InquiryRecord{
		ID:             "0b6f8f8e-6d55-4c1e-9d1c-3f1c7e1f2a10",
		InquiryType:    models.InquiryEnrollment,
		GuardianName:   "Kari Nordmann",
		Email:          "kari@example.no",
		Phone:          "99887766",
		ChildFirstName: "Nora",
		CourseID:       "baby",
		CourseLabel:    "Babysvømming: Nybegynner (Onsdag 15:00 - 15:30)",
		HeardAboutUs:   "Instagram",
		CreatedAt:      time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestInquiryServiceRecordEnqueues(t *testing.T) {
	repo := &fakeInquiryRepo{}
	queue := &fakeEnqueuer{}
	svc := NewInquiryService(repo, nil, nil)
	svc.AttachQueue(queue)

	svc.Record(context.Background(), testSummary())
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "Nora", queue.jobs[0].Payload.ChildFirstName)
	assert.Equal(t, queue.jobs[0].Payload.ID, queue.jobs[0].ID)

	queue.err = errors.New("queue full")
	svc.Record(context.Background(), testSummary())
	assert.Len(t, queue.jobs, 1)
}

func TestInquiryServiceDisabledWithoutRepository(t *testing.T) {
	queue := &fakeEnqueuer{}
	svc := NewInquiryService(nil, nil, nil)
	svc.AttachQueue(queue)

	svc.Record(context.Background(), testSummary())
	assert.Empty(t, queue.jobs)
	assert.False(t, svc.Enabled())

	_, _, err := svc.List(context.Background(), models.InquiryFilter{})
	require.ErrorIs(t, err, appErrors.ErrFeatureDisabled)
}

func TestInquiryServicePersist(t *testing.T) {
	repo := &fakeInquiryRepo{}
	metrics := &recordingInquiryMetrics{}
	svc := NewInquiryService(repo, metrics, nil)

	record := RecordFromSummary(testSummary())
	require.NoError(t, svc.Persist(context.Background(), jobs.Job[models.InquiryRecord]{Payload: record}))
	require.Len(t, repo.created, 1)
	assert.Equal(t, record.ID, repo.created[0].ID)

	repo.err = errors.New("connection refused")
	require.Error(t, svc.Persist(context.Background(), jobs.Job[models.InquiryRecord]{Payload: record}))
	assert.Equal(t, []bool{true, false}, metrics.writes)
}

func TestInquiryServiceListDefaultsAndValidation(t *testing.T) {
	repo := &fakeInquiryRepo{}
	svc := NewInquiryService(repo, nil, nil)

	records, page, err := svc.List(context.Background(), models.InquiryFilter{PageSize: 10000})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 50, TotalCount: 0}, page)

	_, _, err = svc.List(context.Background(), models.InquiryFilter{Type: "complaint"})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	repo.err = errors.New("boom")
	_, _, err = svc.List(context.Background(), models.InquiryFilter{})
	require.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestInquiryServiceExport(t *testing.T) {
	repo := &fakeInquiryRepo{records: []models.InquiryRecord{RecordFromSummary(testSummary())}}
	svc := NewInquiryService(repo, nil, nil)
	ctx := context.Background()

	file, err := svc.Export(ctx, models.InquiryFilter{Type: models.InquiryEnrollment}, "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))
	assert.Equal(t, 500, repo.filter.PageSize)
	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Innsendt,Type,Foresatt,E-post,Telefon,Barn,Kurs,Kurs-ID,Hørt om oss", lines[0])
	assert.Contains(t, lines[1], "Påmelding")
	assert.Contains(t, lines[1], "20.08.2026 10:30")

	file, err = svc.Export(ctx, models.InquiryFilter{}, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))

	_, err = svc.Export(ctx, models.InquiryFilter{}, "xlsx")
	require.ErrorIs(t, err, appErrors.ErrValidation)
}
