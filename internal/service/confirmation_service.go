package service

import (
	"errors"

	"github.com/noah-isme/swim-school-site/internal/dto"
	"github.com/noah-isme/swim-school-site/internal/models"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
	"github.com/noah-isme/swim-school-site/pkg/signing"
)

type confirmationPayload struct {
	Child     string                  `json:"c"`
	Label     string                  `json:"l,omitempty"`
	Type      models.InquiryType      `json:"t"`
	Selection *models.CourseSelection `json:"s,omitempty"`
}

// ConfirmationService issues and reads the signed links behind the confirmation page.
// Nothing is stored server-side; the token carries everything the page shows.
type ConfirmationService struct {
	signer   *signing.Signer
	resolver courseResolver
	baseURL  string
}

// NewConfirmationService constructs the service.
func NewConfirmationService(signer *signing.Signer, resolver courseResolver, baseURL string) *ConfirmationService {
	return &ConfirmationService{signer: signer, resolver: resolver, baseURL: baseURL}
}

// Issue signs a confirmation token for a delivered submission and returns it with the page URL.
func (s *ConfirmationService) Issue(summary models.SubmissionSummary) (string, string, error) {
	token, _, err := s.signer.Sign(confirmationPayload{
		Child:     summary.ChildFirstName,
		Label:     summary.SelectedCourse,
		Type:      summary.InquiryType,
		Selection: summary.Selection,
	})
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign confirmation")
	}
	return token, s.baseURL + "/bekreftelse/" + token, nil
}

// Read verifies token and rebuilds the confirmation view. The course card comes from the
// structured selection when present and from the label otherwise.
func (s *ConfirmationService) Read(token string) (*dto.ConfirmationView, error) {
	var payload confirmationPayload
	expiresAt, err := s.signer.Verify(token, &payload)
	if err != nil {
		if errors.Is(err, signing.ErrExpired) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "confirmation link has expired")
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "confirmation not found")
	}

	view := &dto.ConfirmationView{
		ChildFirstName: payload.Child,
		SelectedCourse: payload.Label,
		InquiryType:    payload.Type,
		InquiryLabel:   payload.Type.Label(),
		ExpiresAt:      expiresAt,
	}
	if payload.Selection != nil || payload.Label != "" {
		var resolved ResolvedCourse
		if payload.Selection != nil {
			resolved = s.resolver.ResolveSelection(*payload.Selection, payload.Label)
		} else {
			resolved = s.resolver.Resolve(payload.Label, "")
		}
		card := CourseCard(resolved, payload.Label)
		view.Course = &card
	}
	return view, nil
}
