package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/swim-school-site/internal/dto"
	"github.com/noah-isme/swim-school-site/internal/models"
	"github.com/noah-isme/swim-school-site/internal/service"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
	"github.com/noah-isme/swim-school-site/pkg/response"
)

type wizardService interface {
	Open(ctx context.Context, req dto.OpenWizardRequest) (*models.WizardState, error)
	Get(ctx context.Context, id string) (*models.WizardState, error)
	UpdateFields(ctx context.Context, id string, patch service.FormPatch) (*models.WizardState, error)
	Next(ctx context.Context, id string) (*models.WizardState, error)
	Back(ctx context.Context, id string) (*models.WizardState, error)
	JumpTo(ctx context.Context, id string, target models.Step) (*models.WizardState, error)
	ChangeCourse(ctx context.Context, id string, req dto.OpenWizardRequest) (*models.WizardState, error)
	Submit(ctx context.Context, id string) (*models.SubmissionSummary, error)
	Close(ctx context.Context, id string) error
	View(state *models.WizardState) dto.WizardView
}

type confirmationIssuer interface {
	Issue(summary models.SubmissionSummary) (string, string, error)
}

// WizardHandler exposes the enrollment wizard over JSON.
type WizardHandler struct {
	wizards       wizardService
	confirmations confirmationIssuer
	logger        *zap.Logger
}

// NewWizardHandler creates a new handler. Confirmations may be nil.
func NewWizardHandler(wizards wizardService, confirmations confirmationIssuer, logger *zap.Logger) *WizardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardHandler{wizards: wizards, confirmations: confirmations, logger: logger}
}

// Open godoc
// @Summary Open an enrollment wizard
// @Description Pre-fills the course from a schedule slot or a label. An empty body opens a general inquiry.
// @Tags Wizard
// @Accept json
// @Produce json
// @Param payload body dto.OpenWizardRequest false "Course pre-fill"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /wizards [post]
func (h *WizardHandler) Open(c *gin.Context) {
	var req dto.OpenWizardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid wizard payload"))
			return
		}
	}
	state, err := h.wizards.Open(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, h.wizards.View(state))
}

// Get godoc
// @Summary Get wizard state
// @Tags Wizard
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /wizards/{id} [get]
func (h *WizardHandler) Get(c *gin.Context) {
	state, err := h.wizards.Get(c.Request.Context(), c.Param("id"))
	h.respond(c, state, err)
}

// Update godoc
// @Summary Edit form fields
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Wizard ID"
// @Param payload body service.FormPatch true "Changed fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /wizards/{id} [patch]
func (h *WizardHandler) Update(c *gin.Context) {
	var patch service.FormPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid form payload"))
		return
	}
	state, err := h.wizards.UpdateFields(c.Request.Context(), c.Param("id"), patch)
	h.respond(c, state, err)
}

// Next godoc
// @Summary Validate the current step and advance
// @Tags Wizard
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope "Step invalid; data holds the wizard view with field errors"
// @Router /wizards/{id}/next [post]
func (h *WizardHandler) Next(c *gin.Context) {
	state, err := h.wizards.Next(c.Request.Context(), c.Param("id"))
	h.respond(c, state, err)
}

// Back godoc
// @Summary Return to the previous step
// @Tags Wizard
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /wizards/{id}/back [post]
func (h *WizardHandler) Back(c *gin.Context) {
	state, err := h.wizards.Back(c.Request.Context(), c.Param("id"))
	h.respond(c, state, err)
}

// Jump godoc
// @Summary Jump to a step
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Wizard ID"
// @Param payload body dto.JumpRequest true "Target step"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /wizards/{id}/jump [post]
func (h *WizardHandler) Jump(c *gin.Context) {
	var req dto.JumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid step"))
		return
	}
	state, err := h.wizards.JumpTo(c.Request.Context(), c.Param("id"), models.Step(req.Step))
	h.respond(c, state, err)
}

// ChangeCourse godoc
// @Summary Pick another course, resetting the form
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Wizard ID"
// @Param payload body dto.OpenWizardRequest true "Course pre-fill"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/course [post]
func (h *WizardHandler) ChangeCourse(c *gin.Context) {
	var req dto.OpenWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}
	state, err := h.wizards.ChangeCourse(c.Request.Context(), c.Param("id"), req)
	h.respond(c, state, err)
}

// Submit godoc
// @Summary Deliver the form
// @Description Only allowed on the review step. Responds once the email has been delivered and the success delay has passed.
// @Tags Wizard
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 422 {object} response.Envelope "An earlier step no longer passes; data holds the wizard view"
// @Failure 502 {object} response.Envelope
// @Router /wizards/{id}/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	summary, err := h.wizards.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, appErrors.ErrStepInvalid) {
			if state, getErr := h.wizards.Get(c.Request.Context(), c.Param("id")); getErr == nil {
				h.respond(c, state, err)
				return
			}
		}
		response.Error(c, err)
		return
	}
	res := dto.SubmitResponse{
		ChildFirstName: summary.ChildFirstName,
		SelectedCourse: summary.SelectedCourse,
		InquiryType:    summary.InquiryType,
	}
	if h.confirmations != nil {
		token, url, err := h.confirmations.Issue(*summary)
		if err != nil {
			h.logger.Warn("failed to issue confirmation", zap.String("wizard_id", summary.WizardID), zap.Error(err))
		} else {
			res.ConfirmationToken = token
			res.ConfirmationURL = url
		}
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Close godoc
// @Summary Close the wizard and discard its data
// @Tags Wizard
// @Param id path string true "Wizard ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /wizards/{id} [delete]
func (h *WizardHandler) Close(c *gin.Context) {
	if err := h.wizards.Close(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// respond writes the wizard view. A rejected step still carries the view, with 422.
func (h *WizardHandler) respond(c *gin.Context, state *models.WizardState, err error) {
	if err != nil {
		if errors.Is(err, appErrors.ErrStepInvalid) && state != nil {
			response.JSON(c, http.StatusUnprocessableEntity, h.wizards.View(state), nil)
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.wizards.View(state), nil)
}
