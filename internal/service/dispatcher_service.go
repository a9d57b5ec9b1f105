package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/swim-school-site/internal/models"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
	"github.com/noah-isme/swim-school-site/pkg/mailer"
)

// Email template parameter names.
const (
	ParamParentName     = "parent_name"
	ParamEmail          = "email"
	ParamPhone          = "phone"
	ParamChildName      = "child_name"
	ParamChildBirthDate = "child_birth_date"
	ParamSelectedCourse = "selected_course"
	ParamInquiryType    = "inquiry_type"
	ParamAddress        = "address"
	ParamHeardAboutUs   = "heard_about_us"
	ParamTermsAccepted  = "terms_accepted"
	ParamMessage        = "message"
	ParamSubject        = "subject"
)

// Sender delivers one set of template parameters to the email service.
type Sender interface {
	Send(ctx context.Context, params map[string]string) (*mailer.DeliveryResult, error)
}

type dispatchMetrics interface {
	ObserveDispatch(duration time.Duration, delivered bool)
}

// DispatcherService turns a completed form into an email.
type DispatcherService struct {
	sender  Sender
	metrics dispatchMetrics
	logger  *zap.Logger
}

// NewDispatcherService constructs the dispatcher.
func NewDispatcherService(sender Sender, metrics dispatchMetrics, logger *zap.Logger) *DispatcherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DispatcherService{sender: sender, metrics: metrics, logger: logger}
}

// BuildParams flattens the form into the email template parameters.
func BuildParams(form models.EnrollmentForm) map[string]string {
	terms := "Nei"
	if form.TermsAccepted {
		terms = "Ja"
	}
	return map[string]string{
		ParamParentName:     joinNonEmpty(" ", form.GuardianFirstName, form.GuardianLastName),
		ParamEmail:          strings.TrimSpace(form.Email),
		ParamPhone:          strings.TrimSpace(form.Phone),
		ParamChildName:      strings.TrimSpace(form.ChildFirstName),
		ParamChildBirthDate: form.ChildBirthDate,
		ParamSelectedCourse: form.SelectedCourse,
		ParamInquiryType:    form.InquiryType.Label(),
		ParamAddress:        joinNonEmpty(", ", form.Address, form.PostalCity),
		ParamHeardAboutUs:   strings.TrimSpace(form.HeardAboutUs),
		ParamTermsAccepted:  terms,
		ParamMessage:        strings.TrimSpace(form.Message),
		ParamSubject:        ComposeSubject(form),
	}
}

// ComposeSubject builds the email subject, e.g. "Påmelding: Nora - Babysvømming (Onsdag 15:00 - 15:30)".
func ComposeSubject(form models.EnrollmentForm) string {
	subject := form.InquiryType.Label()
	if child := strings.TrimSpace(form.ChildFirstName); child != "" {
		subject += ": " + child
	}
	if course := strings.TrimSpace(form.SelectedCourse); course != "" {
		subject += " - " + course
	}
	return subject
}

var errNoDeliveryResult = errors.New("email service returned no result")

// Dispatch sends the form. The call is one attempt; its failure surfaces as DISPATCH_FAILED.
func (s *DispatcherService) Dispatch(ctx context.Context, form models.EnrollmentForm) (*mailer.DeliveryResult, error) {
	started := time.Now()
	result, err := s.sender.Send(ctx, BuildParams(form))
	if err == nil && result == nil {
		err = errNoDeliveryResult
	}
	if s.metrics != nil {
		s.metrics.ObserveDispatch(time.Since(started), err == nil)
	}
	if err != nil {
		s.logger.Warn("form dispatch failed", zap.Error(err), zap.String("inquiry_type", string(form.InquiryType)))
		return nil, appErrors.Wrap(err, appErrors.ErrDispatchFailed.Code, appErrors.ErrDispatchFailed.Status,
			"Noe gikk galt ved innsending. Prøv igjen.")
	}
	s.logger.Info("form dispatched", zap.Int("status", result.Status), zap.String("inquiry_type", string(form.InquiryType)))
	return result, nil
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
