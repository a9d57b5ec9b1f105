package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-school-site/internal/dto"
	"github.com/noah-isme/swim-school-site/internal/middleware"
	"github.com/noah-isme/swim-school-site/internal/models"
	"github.com/noah-isme/swim-school-site/internal/service"
	"github.com/noah-isme/swim-school-site/internal/web"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
)

type pageCatalog interface {
	Courses() []models.Course
	Course(id string) (*models.Course, error)
	Schedule() []dto.ScheduleDayView
	CourseSchedule(courseID string) []dto.ScheduleDayView
	Articles() []models.Article
	Article(slug string) (*models.Article, error)
	Region(slug string) (*models.Region, error)
	RegionCourses(region models.Region) []models.Course
	Page(slug string) (*models.Page, error)
}

type pageMeta interface {
	SiteName() string
	HomeMeta(courses []models.Course) service.PageMeta
	ScheduleMeta() service.PageMeta
	CourseMeta(course models.Course) service.PageMeta
	ArticleListMeta() service.PageMeta
	ArticleMeta(article models.Article) service.PageMeta
	RegionMeta(region models.Region, courses []models.Course) service.PageMeta
	StaticMeta(page models.Page) service.PageMeta
	ConfirmationMeta() service.PageMeta
	CourseQR(course models.Course, size int) ([]byte, error)
}

type confirmationReader interface {
	Read(token string) (*dto.ConfirmationView, error)
}

// PageHandler renders the public HTML pages.
type PageHandler struct {
	catalog       pageCatalog
	meta          pageMeta
	confirmations confirmationReader
	themes        []web.Theme
	now           func() time.Time
}

// NewPageHandler creates a new handler. themes lists the skins offered in the footer.
func NewPageHandler(catalog pageCatalog, meta pageMeta, confirmations confirmationReader, themes []string) *PageHandler {
	return &PageHandler{
		catalog:       catalog,
		meta:          meta,
		confirmations: confirmations,
		themes:        web.Themes(themes),
		now:           time.Now,
	}
}

func (h *PageHandler) Home(c *gin.Context) {
	courses := h.catalog.Courses()
	articles := h.catalog.Articles()
	if len(articles) > 3 {
		articles = articles[:3]
	}
	h.render(c, http.StatusOK, web.PageHome, h.meta.HomeMeta(courses), web.HomeBody{
		Courses:  courses,
		Schedule: h.catalog.Schedule(),
		Articles: articles,
	})
}

func (h *PageHandler) Schedule(c *gin.Context) {
	h.render(c, http.StatusOK, web.PageSchedule, h.meta.ScheduleMeta(), web.ScheduleBody{Days: h.catalog.Schedule()})
}

func (h *PageHandler) Course(c *gin.Context) {
	course, err := h.catalog.Course(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, web.PageCourse, h.meta.CourseMeta(*course), web.CourseBody{
		Course:   *course,
		Schedule: h.catalog.CourseSchedule(course.ID),
	})
}

// CourseQR serves a PNG QR code linking to the course page. ?size= sets the edge in pixels.
func (h *PageHandler) CourseQR(c *gin.Context) {
	course, err := h.catalog.Course(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	png, err := h.meta.CourseQR(*course, size)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}

func (h *PageHandler) Articles(c *gin.Context) {
	h.render(c, http.StatusOK, web.PageArticles, h.meta.ArticleListMeta(), web.ArticlesBody{Articles: h.catalog.Articles()})
}

func (h *PageHandler) Article(c *gin.Context) {
	article, err := h.catalog.Article(c.Param("slug"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, web.PageArticle, h.meta.ArticleMeta(*article), web.ArticleBody{Article: *article})
}

func (h *PageHandler) Region(c *gin.Context) {
	region, err := h.catalog.Region(c.Param("region"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	courses := h.catalog.RegionCourses(*region)
	h.render(c, http.StatusOK, web.PageRegion, h.meta.RegionMeta(*region, courses), web.RegionBody{Region: *region, Courses: courses})
}

// Static returns a handler rendering the content page with the given slug.
func (h *PageHandler) Static(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := h.catalog.Page(slug)
		if err != nil {
			h.renderError(c, err)
			return
		}
		h.render(c, http.StatusOK, web.PageStatic, h.meta.StaticMeta(*page), web.StaticBody{Page: *page})
	}
}

func (h *PageHandler) Confirmation(c *gin.Context) {
	view, err := h.confirmations.Read(c.Param("token"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	h.render(c, http.StatusOK, web.PageConfirmation, h.meta.ConfirmationMeta(), web.ConfirmationBody{Confirmation: *view})
}

// NotFound renders the 404 page for unrouted paths.
func (h *PageHandler) NotFound(c *gin.Context) {
	h.renderError(c, appErrors.ErrNotFound)
}

func (h *PageHandler) renderError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	message := "Vi fant ikke siden du lette etter."
	if !errors.Is(appErr, appErrors.ErrNotFound) {
		message = "Prøv igjen om litt."
	}
	meta := service.PageMeta{Title: h.meta.SiteName(), NoIndex: true}
	h.render(c, appErr.Status, web.PageError, meta, web.ErrorBody{Status: appErr.Status, Message: message})
}

func (h *PageHandler) render(c *gin.Context, status int, page string, meta service.PageMeta, body interface{}) {
	c.HTML(status, page, web.PageData{
		SiteName: h.meta.SiteName(),
		Meta:     meta,
		Theme:    web.ThemeByName(middleware.ThemeFrom(c)),
		Themes:   h.themes,
		Path:     c.Request.URL.Path,
		Year:     h.now().Year(),
		Body:     body,
	})
}
