package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-school-site/internal/dto"
	"github.com/noah-isme/swim-school-site/internal/models"
	"github.com/noah-isme/swim-school-site/pkg/response"
)

const catalogMaxAge = 300

type catalogService interface {
	Courses() []models.Course
	Course(id string) (*models.Course, error)
	Schedule() []dto.ScheduleDayView
	Resolve(label, hint string) dto.ResolveResponse
}

// CatalogHandler serves the read-only course catalog as JSON.
type CatalogHandler struct {
	catalog catalogService
}

// NewCatalogHandler creates a new handler.
func NewCatalogHandler(catalog catalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Courses godoc
// @Summary List courses
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) Courses(c *gin.Context) {
	response.Cached(c, h.catalog.Courses(), catalogMaxAge)
}

// Course godoc
// @Summary Get course by id
// @Tags Catalog
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CatalogHandler) Course(c *gin.Context) {
	course, err := h.catalog.Course(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Cached(c, course, catalogMaxAge)
}

// Schedule godoc
// @Summary Weekly schedule annotated with availability and booking labels
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *CatalogHandler) Schedule(c *gin.Context) {
	response.Cached(c, h.catalog.Schedule(), catalogMaxAge)
}

// Resolve godoc
// @Summary Resolve a course label to a course
// @Tags Catalog
// @Produce json
// @Param label query string false "Course label"
// @Param hint query string false "Course id hint"
// @Success 200 {object} response.Envelope
// @Router /resolve [get]
func (h *CatalogHandler) Resolve(c *gin.Context) {
	label := strings.TrimSpace(c.Query("label"))
	hint := strings.TrimSpace(c.Query("hint"))
	response.JSON(c, http.StatusOK, h.catalog.Resolve(label, hint), nil)
}
