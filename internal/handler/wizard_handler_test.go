package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/swim-school-site/internal/dto"
	"github.com/noah-isme/swim-school-site/internal/models"
	"github.com/noah-isme/swim-school-site/internal/service"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
)

type wizardServiceMock struct {
	state      *models.WizardState
	err        error
	summary    *models.SubmissionSummary
	submitErr  error
	lastOpen   dto.OpenWizardRequest
	lastPatch  service.FormPatch
	lastTarget models.Step
	closed     string
}

func (m *wizardServiceMock) Open(_ context.Context, req dto.OpenWizardRequest) (*models.WizardState, error) {
	m.lastOpen = req
	return m.state, m.err
}

func (m *wizardServiceMock) Get(context.Context, string) (*models.WizardState, error) {
	return m.state, m.err
}

func (m *wizardServiceMock) UpdateFields(_ context.Context, _ string, patch service.FormPatch) (*models.WizardState, error) {
	m.lastPatch = patch
	return m.state, m.err
}

func (m *wizardServiceMock) Next(context.Context, string) (*models.WizardState, error) {
	return m.state, m.err
}

func (m *wizardServiceMock) Back(context.Context, string) (*models.WizardState, error) {
	return m.state, m.err
}

func (m *wizardServiceMock) JumpTo(_ context.Context, _ string, target models.Step) (*models.WizardState, error) {
	m.lastTarget = target
	return m.state, m.err
}

func (m *wizardServiceMock) ChangeCourse(_ context.Context, _ string, req dto.OpenWizardRequest) (*models.WizardState, error) {
	m.lastOpen = req
	return m.state, m.err
}

func (m *wizardServiceMock) Submit(context.Context, string) (*models.SubmissionSummary, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.summary, m.err
}

func (m *wizardServiceMock) Close(_ context.Context, id string) error {
	m.closed = id
	return m.err
}

func (m *wizardServiceMock) View(state *models.WizardState) dto.WizardView {
	return dto.WizardView{ID: state.ID, Step: state.Step, Errors: state.Errors}
}

type confirmationMock struct{}

func (confirmationMock) Issue(models.SubmissionSummary) (string, string, error) {
	return "tok", "https://bolgen.no/bekreftelse/tok", nil
}

func newWizardTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "w1"}}
	return c, w
}

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestWizardHandlerOpenFromSession(t *testing.T) {
	mock := &wizardServiceMock{state: &models.WizardState{ID: "w1", Step: models.StepCourse}}
	h := NewWizardHandler(mock, nil, nil)

	c, w := newWizardTestContext(http.MethodPost, "/wizards", `{"sessionRef":{"day":"Onsdag","index":2}}`)
	h.Open(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.lastOpen.SessionRef)
	assert.Equal(t, "Onsdag", mock.lastOpen.SessionRef.Day)
	assert.Equal(t, 2, mock.lastOpen.SessionRef.Index)
}

func TestWizardHandlerOpenWithoutBody(t *testing.T) {
	mock := &wizardServiceMock{state: &models.WizardState{ID: "w1", Step: models.StepCourse}}
	h := NewWizardHandler(mock, nil, nil)

	c, w := newWizardTestContext(http.MethodPost, "/wizards", "")
	h.Open(c)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestWizardHandlerNextRejectedReturnsView(t *testing.T) {
	mock := &wizardServiceMock{
		state: &models.WizardState{ID: "w1", Step: models.StepGuardian, Errors: map[string]string{models.FieldEmail: "E-post må fylles ut"}},
		err:   appErrors.Clone(appErrors.ErrStepInvalid, "Vennligst fyll ut alle obligatoriske felt"),
	}
	h := NewWizardHandler(mock, nil, nil)

	c, w := newWizardTestContext(http.MethodPost, "/wizards/w1/next", "")
	h.Next(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decodeEnvelope(t, w)
	assert.Nil(t, env.Error)
	var view dto.WizardView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, models.StepGuardian, view.Step)
	assert.Equal(t, "E-post må fylles ut", view.Errors[models.FieldEmail])
}

func TestWizardHandlerErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "unknown wizard", err: appErrors.ErrNotFound, want: http.StatusNotFound},
		{name: "back from first step", err: appErrors.Clone(appErrors.ErrPreconditionFailed, "already on the first step"), want: http.StatusPreconditionFailed},
		{name: "submitting", err: appErrors.Clone(appErrors.ErrConflict, "form is being submitted"), want: http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewWizardHandler(&wizardServiceMock{err: tc.err}, nil, nil)
			c, w := newWizardTestContext(http.MethodPost, "/wizards/w1/back", "")
			h.Back(c)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestWizardHandlerJumpValidatesBody(t *testing.T) {
	mock := &wizardServiceMock{state: &models.WizardState{ID: "w1", Step: models.StepChild}}
	h := NewWizardHandler(mock, nil, nil)

	c, w := newWizardTestContext(http.MethodPost, "/wizards/w1/jump", `{"step":9}`)
	h.Jump(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newWizardTestContext(http.MethodPost, "/wizards/w1/jump", `{"step":3}`)
	h.Jump(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StepChild, mock.lastTarget)
}

func TestWizardHandlerUpdatePassesPatch(t *testing.T) {
	mock := &wizardServiceMock{state: &models.WizardState{ID: "w1", Step: models.StepChild}}
	h := NewWizardHandler(mock, nil, nil)

	c, w := newWizardTestContext(http.MethodPatch, "/wizards/w1", `{"child_birth_date":"01022025","terms_accepted":true}`)
	h.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mock.lastPatch.ChildBirthDate)
	assert.Equal(t, "01022025", *mock.lastPatch.ChildBirthDate)
	require.NotNil(t, mock.lastPatch.TermsAccepted)
	assert.True(t, *mock.lastPatch.TermsAccepted)
	assert.Nil(t, mock.lastPatch.Email)
}

func TestWizardHandlerSubmit(t *testing.T) {
	mock := &wizardServiceMock{summary: &models.SubmissionSummary{
		WizardID:       "w1",
		ChildFirstName: "Nora",
		SelectedCourse: "Babysvømming: Nybegynner (Onsdag 15:00 - 15:30)",
		InquiryType:    models.InquiryEnrollment,
	}}
	h := NewWizardHandler(mock, confirmationMock{}, nil)

	c, w := newWizardTestContext(http.MethodPost, "/wizards/w1/submit", "")
	h.Submit(c)

	require.Equal(t, http.StatusOK, w.Code)
	var res dto.SubmitResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &res))
	assert.Equal(t, "Nora", res.ChildFirstName)
	assert.Equal(t, models.InquiryEnrollment, res.InquiryType)
	assert.Equal(t, "https://bolgen.no/bekreftelse/tok", res.ConfirmationURL)
}

func TestWizardHandlerSubmitDispatchFailure(t *testing.T) {
	h := NewWizardHandler(&wizardServiceMock{err: appErrors.Clone(appErrors.ErrDispatchFailed, "Noe gikk galt ved innsending. Prøv igjen.")}, nil, nil)

	c, w := newWizardTestContext(http.MethodPost, "/wizards/w1/submit", "")
	h.Submit(c)

	require.Equal(t, http.StatusBadGateway, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DISPATCH_FAILED", env.Error.Code)
}

func TestWizardHandlerSubmitSendsBackInvalidForm(t *testing.T) {
	mock := &wizardServiceMock{
		state: &models.WizardState{
			ID:     "w1",
			Step:   models.StepGuardian,
			Errors: map[string]string{models.FieldEmail: "E-post er påkrevd"},
		},
		submitErr: appErrors.Clone(appErrors.ErrStepInvalid, "Vennligst fyll ut alle påkrevde felt"),
	}
	h := NewWizardHandler(mock, confirmationMock{}, nil)

	c, w := newWizardTestContext(http.MethodPost, "/wizards/w1/submit", "")
	h.Submit(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decodeEnvelope(t, w)
	assert.Nil(t, env.Error)
	var view dto.WizardView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, models.StepGuardian, view.Step)
	assert.Contains(t, view.Errors, models.FieldEmail)
}

func TestWizardHandlerClose(t *testing.T) {
	mock := &wizardServiceMock{}
	h := NewWizardHandler(mock, nil, nil)

	c, w := newWizardTestContext(http.MethodDelete, "/wizards/w1", "")
	h.Close(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "w1", mock.closed)
}
