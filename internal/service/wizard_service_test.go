package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/swim-school-site/internal/dto"
	"github.com/noah-isme/swim-school-site/internal/models"
	"github.com/noah-isme/swim-school-site/internal/repository"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
)

type recordingWizardMetrics struct {
	mu          sync.Mutex
	transitions []string
	submissions []string
}

func (m *recordingWizardMetrics) ObserveWizardTransition(action, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, action+":"+outcome)
}

func (m *recordingWizardMetrics) ObserveSubmission(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions = append(m.submissions, result)
}

type wizardFixture struct {
	svc     *WizardService
	sender  *fakeSender
	metrics *recordingWizardMetrics
	slept   []time.Duration
}

func newWizardFixture(t *testing.T, sender *fakeSender) *wizardFixture {
	t.Helper()
	catalog := newTestCatalog(t)
	resolver := NewResolverService(catalog, nil, nil)
	metrics := &recordingWizardMetrics{}
	svc := NewWizardService(
		repository.NewMemoryWizardStore(time.Hour),
		catalog,
		resolver,
		NewDispatcherService(sender, nil, nil),
		NewWizard(nil, WizardTimings{}),
		metrics,
		nil,
		WizardServiceConfig{SuccessDelay: 1500 * time.Millisecond},
	)
	f := &wizardFixture{svc: svc, sender: sender, metrics: metrics}
	svc.sleep = func(d time.Duration) { f.slept = append(f.slept, d) }
	return f
}

func fullPatch() FormPatch {
	form := validForm()
	return FormPatch{
		GuardianFirstName: &form.GuardianFirstName,
		GuardianLastName:  &form.GuardianLastName,
		ChildFirstName:    &form.ChildFirstName,
		ChildBirthDate:    strPtr("01022025"),
		Email:             &form.Email,
		Phone:             &form.Phone,
		Address:           &form.Address,
		PostalCity:        &form.PostalCity,
		HeardAboutUs:      &form.HeardAboutUs,
		TermsAccepted:     boolPtr(true),
	}
}

// openAtReview opens a wizard from the Wednesday 15:00 slot and walks it to the review step.
func (f *wizardFixture) openAtReview(t *testing.T) *models.WizardState {
	t.Helper()
	ctx := context.Background()
	state, err := f.svc.Open(ctx, dto.OpenWizardRequest{SessionRef: &dto.SessionRef{Day: "Onsdag", Index: 2}})
	require.NoError(t, err)
	_, err = f.svc.UpdateFields(ctx, state.ID, fullPatch())
	require.NoError(t, err)
	state, err = f.svc.JumpTo(ctx, state.ID, models.StepReview)
	require.NoError(t, err)
	require.Equal(t, models.StepReview, state.Step)
	return state
}

func TestWizardServiceOpenFromSession(t *testing.T) {
	f := newWizardFixture(t, &fakeSender{})

	state, err := f.svc.Open(context.Background(), dto.OpenWizardRequest{SessionRef: &dto.SessionRef{Day: "Onsdag", Index: 2}})
	require.NoError(t, err)
	assert.NotEmpty(t, state.ID)
	assert.Equal(t, models.StepCourse, state.Step)
	assert.Equal(t, "Babysvømming: Nybegynner (Onsdag 15:00 - 15:30)", state.Form.SelectedCourse)
	assert.Equal(t, &models.CourseSelection{CourseID: "baby", Level: "Babysvømming", AgeGroup: "Nybegynner", Day: "Onsdag", Time: "15:00 - 15:30"}, state.Selection)

	view := f.svc.View(state)
	require.NotNil(t, view.Course)
	assert.Equal(t, "baby", view.Course.ID)
	assert.Equal(t, "Nybegynner", view.Course.AgeText)
	assert.Equal(t, "5 plasser ledige", view.Course.SpotsText)
	assert.False(t, view.CanGoBack)
	assert.False(t, view.CanSubmit)
}

func TestWizardServiceOpenRejectsUnbookableSessions(t *testing.T) {
	f := newWizardFixture(t, &fakeSender{})
	ctx := context.Background()

	_, err := f.svc.Open(ctx, dto.OpenWizardRequest{SessionRef: &dto.SessionRef{Day: "Onsdag", Index: 0}})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.svc.Open(ctx, dto.OpenWizardRequest{SessionRef: &dto.SessionRef{Day: "Onsdag", Index: 1}})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.svc.Open(ctx, dto.OpenWizardRequest{SessionRef: &dto.SessionRef{Day: "Søndag", Index: 0}})
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestWizardServiceOpenFromLabel(t *testing.T) {
	f := newWizardFixture(t, &fakeSender{})

	state, err := f.svc.Open(context.Background(), dto.OpenWizardRequest{Label: "Babysvømming: Nybegynner (Onsdag 15:00 - 15:30)", Hint: "baby"})
	require.NoError(t, err)
	assert.Equal(t, "Babysvømming: Nybegynner (Onsdag 15:00 - 15:30)", state.Form.SelectedCourse)
	require.NotNil(t, state.Selection)
	assert.Equal(t, "baby", state.Selection.CourseID)
	assert.Equal(t, "Onsdag", state.Selection.Day)

	state, err = f.svc.Open(context.Background(), dto.OpenWizardRequest{Hint: "plask"})
	require.NoError(t, err)
	assert.Equal(t, "Plaskekurs", state.Form.SelectedCourse)
}

func TestWizardServiceOpenQuestionWithoutCourse(t *testing.T) {
	f := newWizardFixture(t, &fakeSender{})

	state, err := f.svc.Open(context.Background(), dto.OpenWizardRequest{InquiryType: models.InquiryQuestion})
	require.NoError(t, err)
	assert.Nil(t, state.Selection)
	assert.Equal(t, models.InquiryQuestion, state.Form.InquiryType)
	assert.Nil(t, f.svc.View(state).Course)

	_, err = f.svc.Open(context.Background(), dto.OpenWizardRequest{InquiryType: "complaint"})
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestWizardServiceRejectedNextIsPersisted(t *testing.T) {
	f := newWizardFixture(t, &fakeSender{})
	ctx := context.Background()

	state, err := f.svc.Open(ctx, dto.OpenWizardRequest{Hint: "baby"})
	require.NoError(t, err)
	_, err = f.svc.Next(ctx, state.ID)
	require.NoError(t, err)

	rejected, err := f.svc.Next(ctx, state.ID)
	require.ErrorIs(t, err, appErrors.ErrStepInvalid)
	require.NotNil(t, rejected)
	assert.Equal(t, models.StepGuardian, rejected.Step)
	assert.Len(t, rejected.Errors, 4)

	stored, err := f.svc.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, rejected.Errors, stored.Errors)
	view := f.svc.View(stored)
	require.NotNil(t, view.Feedback)
	assert.Equal(t, stepInvalidToast, view.Feedback.Message)
	assert.Contains(t, f.metrics.transitions, "next:step_invalid")
}

func TestWizardServiceSuccessfulSubmit(t *testing.T) {
	sender := &fakeSender{}
	f := newWizardFixture(t, sender)
	ctx := context.Background()
	state := f.openAtReview(t)

	var got []models.SubmissionSummary
	f.svc.OnSuccess(func(_ context.Context, summary models.SubmissionSummary) {
		stored, err := f.svc.Get(ctx, state.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SubmitSuccess, stored.Status)
		got = append(got, summary)
	})

	summary, err := f.svc.Submit(ctx, state.ID)
	require.NoError(t, err)

	assert.Equal(t, "Nora", summary.ChildFirstName)
	assert.Equal(t, "Babysvømming: Nybegynner (Onsdag 15:00 - 15:30)", summary.SelectedCourse)
	assert.Equal(t, models.InquiryEnrollment, summary.InquiryType)
	require.Len(t, got, 1)
	assert.Equal(t, summary.ChildFirstName, got[0].ChildFirstName)
	assert.Equal(t, summary.SelectedCourse, got[0].SelectedCourse)
	assert.Equal(t, summary.InquiryType, got[0].InquiryType)
	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, f.slept)

	require.Len(t, sender.params, 1)
	assert.Equal(t, "01.02.2025", sender.params[0][ParamChildBirthDate])
	assert.Equal(t, "Ja", sender.params[0][ParamTermsAccepted])

	_, err = f.svc.Get(ctx, state.ID)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, []string{"delivered"}, f.metrics.submissions)
}

func TestWizardServiceFailedSubmitKeepsForm(t *testing.T) {
	f := newWizardFixture(t, &fakeSender{err: errors.New("service unavailable")})
	ctx := context.Background()
	state := f.openAtReview(t)

	called := false
	f.svc.OnSuccess(func(context.Context, models.SubmissionSummary) { called = true })

	_, err := f.svc.Submit(ctx, state.ID)
	require.ErrorIs(t, err, appErrors.ErrDispatchFailed)
	assert.False(t, called)
	assert.Empty(t, f.slept)

	after, err := f.svc.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmitIdle, after.Status)
	assert.Equal(t, models.StepReview, after.Step)
	assert.Equal(t, state.Form, after.Form)
	assert.Equal(t, []string{"failed"}, f.metrics.submissions)
}

func TestWizardServiceSubmitRevalidatesEarlierSteps(t *testing.T) {
	f := newWizardFixture(t, &fakeSender{})
	ctx := context.Background()
	state := f.openAtReview(t)

	called := false
	f.svc.OnSuccess(func(context.Context, models.SubmissionSummary) { called = true })

	_, err := f.svc.UpdateFields(ctx, state.ID, FormPatch{
		GuardianFirstName: strPtr(""),
		Email:             strPtr(""),
		TermsAccepted:     boolPtr(false),
	})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, state.ID)
	require.ErrorIs(t, err, appErrors.ErrStepInvalid)
	assert.Empty(t, f.sender.params)
	assert.False(t, called)
	assert.Empty(t, f.metrics.submissions)
	assert.Contains(t, f.metrics.transitions, "submit:step_invalid")

	after, err := f.svc.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StepGuardian, after.Step)
	assert.Equal(t, models.SubmitIdle, after.Status)
	assert.Contains(t, after.Errors, models.FieldGuardianFirstName)
	assert.Contains(t, after.Errors, models.FieldEmail)
	require.NotNil(t, after.Feedback)

	_, err = f.svc.UpdateFields(ctx, state.ID, FormPatch{
		GuardianFirstName: strPtr("Kari"),
		Email:             strPtr("kari@example.no"),
	})
	require.NoError(t, err)
	_, err = f.svc.JumpTo(ctx, state.ID, models.StepReview)
	require.ErrorIs(t, err, appErrors.ErrStepInvalid)

	after, err = f.svc.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StepDetails, after.Step)
	assert.Contains(t, after.Errors, models.FieldTermsAccepted)
	assert.Empty(t, f.sender.params)
}

func TestWizardServiceSubmitOutsideReviewStep(t *testing.T) {
	f := newWizardFixture(t, &fakeSender{})
	ctx := context.Background()

	state, err := f.svc.Open(ctx, dto.OpenWizardRequest{Hint: "baby"})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, state.ID)
	require.ErrorIs(t, err, appErrors.ErrPreconditionFailed)
	assert.Empty(t, f.sender.params)
}

func TestWizardServiceRejectsDuplicateSubmit(t *testing.T) {
	sender := &fakeSender{entered: make(chan struct{}), block: make(chan struct{})}
	f := newWizardFixture(t, sender)
	ctx := context.Background()
	state := f.openAtReview(t)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(ctx, state.ID)
		done <- err
	}()
	<-sender.entered

	inFlight, err := f.svc.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmitSubmitting, inFlight.Status)
	assert.False(t, f.svc.View(inFlight).CanSubmit)

	_, err = f.svc.Submit(ctx, state.ID)
	require.ErrorIs(t, err, appErrors.ErrConflict)

	close(sender.block)
	require.NoError(t, <-done)
	assert.Len(t, sender.params, 1)
}

func TestWizardServiceDispatchIgnoresCallerCancellation(t *testing.T) {
	sender := &fakeSender{}
	f := newWizardFixture(t, sender)
	state := f.openAtReview(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Submit(ctx, state.ID)
	require.NoError(t, err)
	assert.NoError(t, sender.ctxErr)
}

func TestWizardServiceCloseDuringSubmitDoesNotCancelDelivery(t *testing.T) {
	sender := &fakeSender{entered: make(chan struct{}), block: make(chan struct{})}
	f := newWizardFixture(t, sender)
	ctx := context.Background()
	state := f.openAtReview(t)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(ctx, state.ID)
		done <- err
	}()
	<-sender.entered

	require.NoError(t, f.svc.Close(ctx, state.ID))
	close(sender.block)

	require.NoError(t, <-done)
	assert.Len(t, sender.params, 1)
	_, err := f.svc.Get(ctx, state.ID)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestWizardServiceChangeCourseResets(t *testing.T) {
	f := newWizardFixture(t, &fakeSender{})
	ctx := context.Background()
	state := f.openAtReview(t)

	changed, err := f.svc.ChangeCourse(ctx, state.ID, dto.OpenWizardRequest{SessionRef: &dto.SessionRef{Day: "Lørdag", Index: 1}})
	require.NoError(t, err)
	assert.Equal(t, models.StepCourse, changed.Step)
	assert.Equal(t, "Svømmeskole: Nivå 1 (Lørdag 10:00 - 10:45)", changed.Form.SelectedCourse)
	assert.Empty(t, changed.Form.ChildFirstName)
	assert.Equal(t, "svommeskole", changed.Selection.CourseID)
}

func TestWizardServiceUnknownWizard(t *testing.T) {
	f := newWizardFixture(t, &fakeSender{})
	ctx := context.Background()

	_, err := f.svc.Next(ctx, "missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	require.ErrorIs(t, f.svc.Close(ctx, "missing"), appErrors.ErrNotFound)
	_, err = f.svc.Submit(ctx, "missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}
