package web

import (
	"github.com/noah-isme/swim-school-site/internal/dto"
	"github.com/noah-isme/swim-school-site/internal/models"
	"github.com/noah-isme/swim-school-site/internal/service"
)

// Page template names.
const (
	PageHome         = "home"
	PageCourse       = "course"
	PageSchedule     = "schedule"
	PageArticles     = "articles"
	PageArticle      = "article"
	PageStatic       = "static"
	PageRegion       = "region"
	PageConfirmation = "confirmation"
	PageError        = "error"
)

// PageData is the root value every page template receives.
type PageData struct {
	SiteName string
	Meta     service.PageMeta
	Theme    Theme
	Themes   []Theme
	Path     string
	Year     int
	Body     interface{}
}

type HomeBody struct {
	Courses  []models.Course
	Schedule []dto.ScheduleDayView
	Articles []models.Article
}

type CourseBody struct {
	Course   models.Course
	Schedule []dto.ScheduleDayView
}

type ScheduleBody struct {
	Days []dto.ScheduleDayView
}

type ArticlesBody struct {
	Articles []models.Article
}

type ArticleBody struct {
	Article models.Article
}

type StaticBody struct {
	Page models.Page
}

type RegionBody struct {
	Region  models.Region
	Courses []models.Course
}

type ConfirmationBody struct {
	Confirmation dto.ConfirmationView
}

type ErrorBody struct {
	Status  int
	Message string
}
