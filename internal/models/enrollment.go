package models

import "time"

// InquiryType distinguishes a course sign-up from a general question.
type InquiryType string

const (
	InquiryEnrollment InquiryType = "enrollment"
	InquiryQuestion   InquiryType = "question"
)

// Valid reports whether t is a known inquiry type.
func (t InquiryType) Valid() bool {
	return t == InquiryEnrollment || t == InquiryQuestion
}

// Label is the Norwegian wording used in emails and on the review step.
func (t InquiryType) Label() string {
	if t == InquiryQuestion {
		return "Spørsmål"
	}
	return "Påmelding"
}

// Step is a wizard page, numbered from 1.
type Step int

const (
	StepCourse Step = iota + 1
	StepGuardian
	StepChild
	StepDetails
	StepReview
)

// FirstStep and LastStep bound the wizard.
const (
	FirstStep = StepCourse
	LastStep  = StepReview
)

func (s Step) String() string {
	switch s {
	case StepCourse:
		return "course"
	case StepGuardian:
		return "guardian"
	case StepChild:
		return "child"
	case StepDetails:
		return "details"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// Valid reports whether s lies within the wizard.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// SubmitStatus tracks the submission lifecycle.
type SubmitStatus string

const (
	SubmitIdle       SubmitStatus = "idle"
	SubmitSubmitting SubmitStatus = "submitting"
	SubmitSuccess    SubmitStatus = "success"
)

// CourseSelection is the structured reference to the chosen course and slot.
type CourseSelection struct {
	CourseID string `json:"course_id"`
	Level    string `json:"level,omitempty"`
	AgeGroup string `json:"age_group,omitempty"`
	Day      string `json:"day,omitempty"`
	Time     string `json:"time,omitempty"`
}

// EnrollmentForm is the record edited across the wizard steps.
type EnrollmentForm struct {
	GuardianFirstName string      `json:"guardian_first_name"`
	GuardianLastName  string      `json:"guardian_last_name"`
	ChildFirstName    string      `json:"child_first_name"`
	ChildBirthDate    string      `json:"child_birth_date"`
	Email             string      `json:"email"`
	Phone             string      `json:"phone"`
	Address           string      `json:"address"`
	PostalCity        string      `json:"postal_city"`
	SelectedCourse    string      `json:"selected_course"`
	HeardAboutUs      string      `json:"heard_about_us"`
	InquiryType       InquiryType `json:"inquiry_type"`
	TermsAccepted     bool        `json:"terms_accepted"`
	Message           string      `json:"message"`
}

// Form field names used as keys of the wizard error map.
const (
	FieldGuardianFirstName = "guardian_first_name"
	FieldGuardianLastName  = "guardian_last_name"
	FieldChildFirstName    = "child_first_name"
	FieldChildBirthDate    = "child_birth_date"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldAddress           = "address"
	FieldPostalCity        = "postal_city"
	FieldSelectedCourse    = "selected_course"
	FieldHeardAboutUs      = "heard_about_us"
	FieldInquiryType       = "inquiry_type"
	FieldTermsAccepted     = "terms_accepted"
	FieldMessage           = "message"
)

// Feedback is the transient shake and toast raised by a rejected step.
type Feedback struct {
	Message    string    `json:"message"`
	ShakeUntil time.Time `json:"shake_until"`
	ToastUntil time.Time `json:"toast_until"`
}

// Active reports whether any part of the feedback is still showing at now.
func (f *Feedback) Active(now time.Time) bool {
	return f != nil && (now.Before(f.ShakeUntil) || now.Before(f.ToastUntil))
}

// WizardState is the persisted state of one enrollment wizard.
type WizardState struct {
	ID        string            `json:"id"`
	Step      Step              `json:"step"`
	Status    SubmitStatus      `json:"status"`
	Form      EnrollmentForm    `json:"form"`
	Selection *CourseSelection  `json:"selection,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	Feedback  *Feedback         `json:"feedback,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SubmissionSummary is handed to success callbacks once a submission lands.
type SubmissionSummary struct {
	WizardID       string           `json:"-"`
	ChildFirstName string           `json:"child_first_name"`
	SelectedCourse string           `json:"selected_course"`
	InquiryType    InquiryType      `json:"inquiry_type"`
	Selection      *CourseSelection `json:"-"`
	Form           EnrollmentForm   `json:"-"`
	SubmittedAt    time.Time        `json:"-"`
}
