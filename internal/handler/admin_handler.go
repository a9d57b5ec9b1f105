package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-school-site/internal/dto"
	"github.com/noah-isme/swim-school-site/internal/models"
	"github.com/noah-isme/swim-school-site/internal/service"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
	"github.com/noah-isme/swim-school-site/pkg/response"
)

type loginService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

type inquiryService interface {
	List(ctx context.Context, filter models.InquiryFilter) ([]models.InquiryRecord, *models.Pagination, error)
	Export(ctx context.Context, filter models.InquiryFilter, format string) (*service.ExportFile, error)
}

// AdminHandler serves the staff login and the inquiry log.
type AdminHandler struct {
	auth      loginService
	inquiries inquiryService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(auth loginService, inquiries inquiryService) *AdminHandler {
	return &AdminHandler{auth: auth, inquiries: inquiries}
}

// Login godoc
// @Summary Authenticate staff
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// ListInquiries godoc
// @Summary List delivered inquiries
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param type query string false "enrollment or question"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/inquiries [get]
func (h *AdminHandler) ListInquiries(c *gin.Context) {
	filter, ok := bindInquiryQuery(c)
	if !ok {
		return
	}
	records, pagination, err := h.inquiries.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	var meta map[string]interface{}
	if claims := claimsFromContext(c); claims != nil {
		meta = map[string]interface{}{"viewer": claims.Username}
	}
	response.JSON(c, http.StatusOK, records, pagination, meta)
}

// ExportInquiries godoc
// @Summary Export inquiries as CSV or PDF
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param type query string false "enrollment or question"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admin/inquiries/export [get]
func (h *AdminHandler) ExportInquiries(c *gin.Context) {
	var query dto.InquiryListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	file, err := h.inquiries.Export(c.Request.Context(), models.InquiryFilter{Type: query.Type}, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

func bindInquiryQuery(c *gin.Context) (models.InquiryFilter, bool) {
	var query dto.InquiryListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return models.InquiryFilter{}, false
	}
	return models.InquiryFilter{Type: query.Type, Page: query.Page, PageSize: query.PageSize}, true
}
