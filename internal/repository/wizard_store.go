package repository

import (
	"github.com/noah-isme/swim-school-site/internal/models"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
)

var errWizardNotFound = appErrors.Clone(appErrors.ErrNotFound, "wizard not found or already closed")

func cloneWizard(state *models.WizardState) *models.WizardState {
	if state == nil {
		return nil
	}
	out := *state
	if state.Selection != nil {
		sel := *state.Selection
		out.Selection = &sel
	}
	if state.Feedback != nil {
		fb := *state.Feedback
		out.Feedback = &fb
	}
	if state.Errors != nil {
		out.Errors = make(map[string]string, len(state.Errors))
		for k, v := range state.Errors {
			out.Errors[k] = v
		}
	}
	return &out
}
