package dto

import (
	"time"

	"github.com/noah-isme/swim-school-site/internal/models"
)

// SessionRef points at one row of the weekly schedule.
type SessionRef struct {
	Day   string `json:"day" binding:"required"`
	Index int    `json:"index" binding:"min=0"`
}

// OpenWizardRequest opens a wizard from a schedule slot, from a free-text label, or empty.
type OpenWizardRequest struct {
	SessionRef  *SessionRef        `json:"sessionRef,omitempty"`
	Label       string             `json:"label,omitempty"`
	Hint        string             `json:"hint,omitempty"`
	InquiryType models.InquiryType `json:"inquiryType,omitempty"`
}

// JumpRequest moves the wizard to a specific step.
type JumpRequest struct {
	Step int `json:"step" binding:"required,min=1,max=5"`
}

// FeedbackView tells the client how much longer to show the shake and the toast.
type FeedbackView struct {
	Message string `json:"message"`
	ShakeMs int64  `json:"shakeMs"`
	ToastMs int64  `json:"toastMs"`
}

// CourseCardView is the course summary shown on the first wizard step and on the confirmation page.
type CourseCardView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	Icon      string `json:"icon"`
	Label     string `json:"label"`
	AgeText   string `json:"ageText"`
	Day       string `json:"day,omitempty"`
	Time      string `json:"time,omitempty"`
	Price     string `json:"price"`
	Location  string `json:"location"`
	SpotsText string `json:"spotsText,omitempty"`
}

// WizardView is the client-facing snapshot of a wizard.
type WizardView struct {
	ID         string                `json:"id"`
	Step       models.Step           `json:"step"`
	StepName   string                `json:"stepName"`
	TotalSteps int                   `json:"totalSteps"`
	Status     models.SubmitStatus   `json:"status"`
	Form       models.EnrollmentForm `json:"form"`
	Errors     map[string]string     `json:"errors"`
	Feedback   *FeedbackView         `json:"feedback,omitempty"`
	Course     *CourseCardView       `json:"course,omitempty"`
	CanGoBack  bool                  `json:"canGoBack"`
	CanSubmit  bool                  `json:"canSubmit"`
}

// SubmitResponse is returned once a submission has been delivered.
type SubmitResponse struct {
	ChildFirstName    string             `json:"childFirstName"`
	SelectedCourse    string             `json:"selectedCourse"`
	InquiryType       models.InquiryType `json:"inquiryType"`
	ConfirmationToken string             `json:"confirmationToken,omitempty"`
	ConfirmationURL   string             `json:"confirmationUrl,omitempty"`
}

// ConfirmationView is what the confirmation page shows after a delivered form.
type ConfirmationView struct {
	ChildFirstName string             `json:"childFirstName"`
	SelectedCourse string             `json:"selectedCourse"`
	InquiryType    models.InquiryType `json:"inquiryType"`
	InquiryLabel   string             `json:"inquiryLabel"`
	Course         *CourseCardView    `json:"course,omitempty"`
	ExpiresAt      time.Time          `json:"expiresAt"`
}
