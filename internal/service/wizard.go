package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/swim-school-site/internal/models"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
)

const stepInvalidToast = "Vennligst fyll ut alle obligatoriske felt"

type guardianStep struct {
	GuardianFirstName string `validate:"required"`
	GuardianLastName  string `validate:"required"`
	Email             string `validate:"required,contains=@"`
	Phone             string `validate:"required"`
}

type childStep struct {
	ChildFirstName string `validate:"required"`
	ChildBirthDate string `validate:"required,min=10"`
}

type detailsStep struct {
	Address       string `validate:"required"`
	PostalCity    string `validate:"required"`
	HeardAboutUs  string `validate:"required"`
	TermsAccepted bool   `validate:"eq=true"`
}

var stepFieldKeys = map[string]string{
	"GuardianFirstName": models.FieldGuardianFirstName,
	"GuardianLastName":  models.FieldGuardianLastName,
	"Email":             models.FieldEmail,
	"Phone":             models.FieldPhone,
	"ChildFirstName":    models.FieldChildFirstName,
	"ChildBirthDate":    models.FieldChildBirthDate,
	"Address":           models.FieldAddress,
	"PostalCity":        models.FieldPostalCity,
	"HeardAboutUs":      models.FieldHeardAboutUs,
	"TermsAccepted":     models.FieldTermsAccepted,
}

var requiredMessages = map[string]string{
	models.FieldGuardianFirstName: "Fornavn må fylles ut",
	models.FieldGuardianLastName:  "Etternavn må fylles ut",
	models.FieldEmail:             "E-post må fylles ut",
	models.FieldPhone:             "Telefonnummer må fylles ut",
	models.FieldChildFirstName:    "Barnets fornavn må fylles ut",
	models.FieldChildBirthDate:    "Fødselsdato må fylles ut",
	models.FieldAddress:           "Adresse må fylles ut",
	models.FieldPostalCity:        "Postnummer og sted må fylles ut",
	models.FieldHeardAboutUs:      "Fortell oss hvor du hørte om oss",
	models.FieldTermsAccepted:     "Du må godta vilkårene",
}

var ruleMessages = map[string]string{
	models.FieldEmail:          "Ugyldig e-postadresse",
	models.FieldChildBirthDate: "Fødselsdato må være på formatet DD.MM.ÅÅÅÅ",
}

// FormPatch carries the fields a client changed. Nil means untouched.
type FormPatch struct {
	GuardianFirstName *string             `json:"guardian_first_name,omitempty"`
	GuardianLastName  *string             `json:"guardian_last_name,omitempty"`
	ChildFirstName    *string             `json:"child_first_name,omitempty"`
	ChildBirthDate    *string             `json:"child_birth_date,omitempty"`
	Email             *string             `json:"email,omitempty"`
	Phone             *string             `json:"phone,omitempty"`
	Address           *string             `json:"address,omitempty"`
	PostalCity        *string             `json:"postal_city,omitempty"`
	HeardAboutUs      *string             `json:"heard_about_us,omitempty"`
	InquiryType       *models.InquiryType `json:"inquiry_type,omitempty"`
	TermsAccepted     *bool               `json:"terms_accepted,omitempty"`
	Message           *string             `json:"message,omitempty"`
}

// WizardTimings controls how long rejection feedback stays visible.
type WizardTimings struct {
	ShakeDuration time.Duration
	ToastDuration time.Duration
}

// Wizard implements the five-step enrollment form transitions. It holds no state of its own.
type Wizard struct {
	validate *validator.Validate
	timings  WizardTimings
}

// NewWizard constructs the state machine.
func NewWizard(validate *validator.Validate, timings WizardTimings) *Wizard {
	if validate == nil {
		validate = validator.New()
	}
	if timings.ShakeDuration <= 0 {
		timings.ShakeDuration = 500 * time.Millisecond
	}
	if timings.ToastDuration <= 0 {
		timings.ToastDuration = 4 * time.Second
	}
	return &Wizard{validate: validate, timings: timings}
}

// Start returns a fresh wizard on the first step seeded with the course label.
func (w *Wizard) Start(id, label string, sel *models.CourseSelection, now time.Time) *models.WizardState {
	state := &models.WizardState{ID: id, CreatedAt: now}
	w.reset(state, label, sel, now)
	return state
}

// ChangeCourse applies a new course pre-fill, which discards everything entered so far.
func (w *Wizard) ChangeCourse(state *models.WizardState, label string, sel *models.CourseSelection, now time.Time) error {
	if err := ensureEditable(state); err != nil {
		return err
	}
	w.reset(state, label, sel, now)
	return nil
}

func (w *Wizard) reset(state *models.WizardState, label string, sel *models.CourseSelection, now time.Time) {
	state.Step = models.FirstStep
	state.Status = models.SubmitIdle
	state.Form = models.EnrollmentForm{SelectedCourse: label, InquiryType: models.InquiryEnrollment}
	state.Selection = nil
	if sel != nil {
		copied := *sel
		state.Selection = &copied
	}
	state.Errors = map[string]string{}
	state.Feedback = nil
	state.UpdatedAt = now
}

// SetFields applies edits. The birth date is reformatted and edited fields lose their errors.
func (w *Wizard) SetFields(state *models.WizardState, patch FormPatch, now time.Time) error {
	if err := ensureEditable(state); err != nil {
		return err
	}
	if patch.InquiryType != nil && !patch.InquiryType.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown inquiry type %q", *patch.InquiryType))
	}

	form := &state.Form
	set := func(field string, dst *string, v *string) {
		if v == nil {
			return
		}
		*dst = *v
		delete(state.Errors, field)
	}
	set(models.FieldGuardianFirstName, &form.GuardianFirstName, patch.GuardianFirstName)
	set(models.FieldGuardianLastName, &form.GuardianLastName, patch.GuardianLastName)
	set(models.FieldChildFirstName, &form.ChildFirstName, patch.ChildFirstName)
	set(models.FieldEmail, &form.Email, patch.Email)
	set(models.FieldPhone, &form.Phone, patch.Phone)
	set(models.FieldAddress, &form.Address, patch.Address)
	set(models.FieldPostalCity, &form.PostalCity, patch.PostalCity)
	set(models.FieldHeardAboutUs, &form.HeardAboutUs, patch.HeardAboutUs)
	set(models.FieldMessage, &form.Message, patch.Message)
	if patch.ChildBirthDate != nil {
		formatted := FormatBirthDate(*patch.ChildBirthDate)
		set(models.FieldChildBirthDate, &form.ChildBirthDate, &formatted)
	}
	if patch.InquiryType != nil {
		form.InquiryType = *patch.InquiryType
		delete(state.Errors, models.FieldInquiryType)
	}
	if patch.TermsAccepted != nil {
		form.TermsAccepted = *patch.TermsAccepted
		delete(state.Errors, models.FieldTermsAccepted)
	}
	state.UpdatedAt = now
	return nil
}

// Next validates the current step and advances when it passes.
// On failure the step is kept, the error map is filled and feedback is raised.
func (w *Wizard) Next(state *models.WizardState, now time.Time) error {
	if err := ensureEditable(state); err != nil {
		return err
	}
	if state.Step >= models.LastStep {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "already on the last step")
	}

	if errs := w.ValidateStep(state.Step, state.Form); len(errs) > 0 {
		return w.reject(state, errs, now)
	}

	state.Step++
	state.Errors = map[string]string{}
	state.Feedback = nil
	state.UpdatedAt = now
	return nil
}

// Back moves one step back without validating or clearing anything.
func (w *Wizard) Back(state *models.WizardState, now time.Time) error {
	if err := ensureEditable(state); err != nil {
		return err
	}
	if state.Step <= models.FirstStep {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "already on the first step")
	}
	state.Step--
	state.UpdatedAt = now
	return nil
}

// JumpTo goes straight back to an earlier step, or walks forward one validated step at a time.
func (w *Wizard) JumpTo(state *models.WizardState, target models.Step, now time.Time) error {
	if !target.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("step must be between %d and %d", models.FirstStep, models.LastStep))
	}
	if err := ensureEditable(state); err != nil {
		return err
	}
	if target < state.Step {
		state.Step = target
		state.UpdatedAt = now
		return nil
	}
	for state.Step < target {
		if err := w.Next(state, now); err != nil {
			return err
		}
	}
	return nil
}

// BeginSubmit moves a wizard on the review step into the submitting status.
// A form that no longer passes steps 2 to 4 is sent back to the first failing step.
func (w *Wizard) BeginSubmit(state *models.WizardState, now time.Time) error {
	switch state.Status {
	case models.SubmitSubmitting:
		return appErrors.Clone(appErrors.ErrConflict, "submission already in progress")
	case models.SubmitSuccess:
		return appErrors.Clone(appErrors.ErrConflict, "form already submitted")
	}
	if state.Step != models.LastStep {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "form can only be submitted from the review step")
	}
	// Fields stay editable on every step, so the review step re-checks what the earlier steps accepted.
	for step := models.FirstStep; step < models.LastStep; step++ {
		if errs := w.ValidateStep(step, state.Form); len(errs) > 0 {
			state.Step = step
			return w.reject(state, errs, now)
		}
	}
	state.Status = models.SubmitSubmitting
	state.Feedback = nil
	state.UpdatedAt = now
	return nil
}

// reject keeps the wizard on its current step with field errors and raised feedback.
func (w *Wizard) reject(state *models.WizardState, errs map[string]string, now time.Time) error {
	state.Errors = errs
	state.Feedback = &models.Feedback{
		Message:    stepInvalidToast,
		ShakeUntil: now.Add(w.timings.ShakeDuration),
		ToastUntil: now.Add(w.timings.ToastDuration),
	}
	state.UpdatedAt = now
	return appErrors.Clone(appErrors.ErrStepInvalid, stepInvalidToast)
}

// FinishSubmit records the dispatch outcome. A failure returns the wizard to idle untouched.
func (w *Wizard) FinishSubmit(state *models.WizardState, delivered bool, now time.Time) {
	if delivered {
		state.Status = models.SubmitSuccess
	} else {
		state.Status = models.SubmitIdle
	}
	state.UpdatedAt = now
}

// ValidateStep returns field errors for step. Steps without rules always pass.
func (w *Wizard) ValidateStep(step models.Step, form models.EnrollmentForm) map[string]string {
	var subject interface{}
	switch step {
	case models.StepGuardian:
		subject = guardianStep{
			GuardianFirstName: strings.TrimSpace(form.GuardianFirstName),
			GuardianLastName:  strings.TrimSpace(form.GuardianLastName),
			Email:             strings.TrimSpace(form.Email),
			Phone:             strings.TrimSpace(form.Phone),
		}
	case models.StepChild:
		subject = childStep{
			ChildFirstName: strings.TrimSpace(form.ChildFirstName),
			ChildBirthDate: FormatBirthDate(form.ChildBirthDate),
		}
	case models.StepDetails:
		subject = detailsStep{
			Address:       strings.TrimSpace(form.Address),
			PostalCity:    strings.TrimSpace(form.PostalCity),
			HeardAboutUs:  strings.TrimSpace(form.HeardAboutUs),
			TermsAccepted: form.TermsAccepted,
		}
	default:
		return nil
	}

	err := w.validate.Struct(subject)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := stepFieldKeys[fe.StructField()]
		msg := requiredMessages[key]
		if fe.Tag() != "required" && fe.Tag() != "eq" {
			if m, ok := ruleMessages[key]; ok {
				msg = m
			}
		}
		out[key] = msg
	}
	return out
}

func ensureEditable(state *models.WizardState) error {
	switch state.Status {
	case models.SubmitSubmitting:
		return appErrors.Clone(appErrors.ErrConflict, "form is being submitted")
	case models.SubmitSuccess:
		return appErrors.Clone(appErrors.ErrConflict, "form already submitted")
	}
	return nil
}
