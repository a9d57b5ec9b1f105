package service

import (
	"github.com/noah-isme/swim-school-site/internal/dto"
	"github.com/noah-isme/swim-school-site/internal/models"
)

type catalogReader interface {
	Courses() []models.Course
	Course(id string) (*models.Course, error)
	Schedule() []models.ScheduleDay
	Articles() []models.Article
	Article(slug string) (*models.Article, error)
	Regions() []models.Region
	Region(slug string) (*models.Region, error)
	Page(slug string) (*models.Page, error)
}

type labelResolver interface {
	Resolve(label, hint string) ResolvedCourse
}

// CatalogService serves read-only course content in the shapes the site needs.
type CatalogService struct {
	catalog  catalogReader
	resolver labelResolver
}

// NewCatalogService constructs the service.
func NewCatalogService(catalog catalogReader, resolver labelResolver) *CatalogService {
	return &CatalogService{catalog: catalog, resolver: resolver}
}

func (s *CatalogService) Courses() []models.Course {
	return s.catalog.Courses()
}

func (s *CatalogService) Course(id string) (*models.Course, error) {
	return s.catalog.Course(id)
}

func (s *CatalogService) Articles() []models.Article {
	return s.catalog.Articles()
}

func (s *CatalogService) Article(slug string) (*models.Article, error) {
	return s.catalog.Article(slug)
}

func (s *CatalogService) Region(slug string) (*models.Region, error) {
	return s.catalog.Region(slug)
}

func (s *CatalogService) Regions() []models.Region {
	return s.catalog.Regions()
}

func (s *CatalogService) Page(slug string) (*models.Page, error) {
	return s.catalog.Page(slug)
}

// Schedule annotates every session with its display text, bookability and label.
func (s *CatalogService) Schedule() []dto.ScheduleDayView {
	return ScheduleViews(s.catalog.Schedule(), "")
}

// CourseSchedule keeps only the sessions of one course plus the headers of the days they fall on.
func (s *CatalogService) CourseSchedule(courseID string) []dto.ScheduleDayView {
	return ScheduleViews(s.catalog.Schedule(), courseID)
}

// RegionCourses returns the courses offered in a region, in region order. Unknown ids are skipped.
func (s *CatalogService) RegionCourses(region models.Region) []models.Course {
	out := make([]models.Course, 0, len(region.CourseIDs))
	for _, id := range region.CourseIDs {
		if course, err := s.catalog.Course(id); err == nil {
			out = append(out, *course)
		}
	}
	return out
}

// Resolve maps a label and optional hint to a course.
func (s *CatalogService) Resolve(label, hint string) dto.ResolveResponse {
	resolved := s.resolver.Resolve(label, hint)
	resp := dto.ResolveResponse{
		Course:  resolved.Course,
		Level:   resolved.Level,
		AgeText: resolved.AgeText,
		Day:     resolved.Day,
		Time:    resolved.Time,
		Session: resolved.Session,
		Tier:    string(resolved.Tier),
	}
	if resolved.Session != nil {
		resp.SpotsText = FormatSpots(resolved.Session.Spots)
	}
	return resp
}

// ScheduleViews converts schedule days into annotated views. A non-empty courseID filters
// bookable rows to that course and drops days left without any.
func ScheduleViews(days []models.ScheduleDay, courseID string) []dto.ScheduleDayView {
	out := make([]dto.ScheduleDayView, 0, len(days))
	for _, day := range days {
		view := dto.ScheduleDayView{Day: day.Day, StartDate: day.StartDate, DurationNote: day.DurationNote}
		matched := false
		for i, session := range day.Sessions {
			if courseID != "" && !session.IsHeader() && session.CourseID != courseID {
				continue
			}
			sv := dto.SessionView{
				Index:      i,
				Time:       session.Time,
				Level:      session.Level,
				AgeGroup:   session.AgeGroup,
				CourseID:   session.CourseID,
				Spots:      session.Spots,
				Header:     session.IsHeader(),
				Selectable: session.Selectable(),
			}
			if !sv.Header {
				sv.SpotsText = FormatSpots(session.Spots)
				matched = true
			}
			if sv.Selectable {
				sv.Label = ComposeLabel(day.Day, session)
			}
			view.Sessions = append(view.Sessions, sv)
		}
		if courseID != "" && !matched {
			continue
		}
		out = append(out, view)
	}
	return out
}
