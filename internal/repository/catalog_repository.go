package repository

import (
	"bytes"
	"embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/swim-school-site/internal/models"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
)

//go:embed catalogdata/content.yaml catalogdata/schedule.csv
var catalogFS embed.FS

type catalogDocument struct {
	Courses  []models.Course  `yaml:"courses"`
	Articles []models.Article `yaml:"articles"`
	Regions  []models.Region  `yaml:"regions"`
	Pages    []models.Page    `yaml:"pages"`
}

type scheduleRow struct {
	Day          string          `csv:"day"`
	StartDate    string          `csv:"start_date"`
	DurationNote string          `csv:"duration_note"`
	Time         string          `csv:"time"`
	Level        string          `csv:"level"`
	AgeGroup     string          `csv:"age_group"`
	CourseID     string          `csv:"course_id"`
	Spots        models.Capacity `csv:"spots"`
}

// CatalogRepository serves the static course, schedule and content data. It is immutable after load.
type CatalogRepository struct {
	courses    []models.Course
	courseByID map[string]int
	schedule   []models.ScheduleDay
	articles   []models.Article
	regions    []models.Region
	pages      []models.Page
}

// NewCatalogRepository loads the catalog embedded in the binary.
func NewCatalogRepository() (*CatalogRepository, error) {
	content, err := catalogFS.ReadFile("catalogdata/content.yaml")
	if err != nil {
		return nil, fmt.Errorf("read catalog content: %w", err)
	}
	schedule, err := catalogFS.ReadFile("catalogdata/schedule.csv")
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	return LoadCatalog(content, schedule)
}

// LoadCatalog parses and validates a YAML content document and a schedule CSV.
func LoadCatalog(content, scheduleCSV []byte) (*CatalogRepository, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog content: %w", err)
	}
	if len(doc.Courses) == 0 {
		return nil, fmt.Errorf("catalog has no courses")
	}

	repo := &CatalogRepository{
		courses:    doc.Courses,
		courseByID: make(map[string]int, len(doc.Courses)),
		articles:   doc.Articles,
		regions:    doc.Regions,
		pages:      doc.Pages,
	}
	for i, course := range doc.Courses {
		if strings.TrimSpace(course.ID) == "" {
			return nil, fmt.Errorf("course %d has no id", i)
		}
		if _, dup := repo.courseByID[course.ID]; dup {
			return nil, fmt.Errorf("duplicate course id %q", course.ID)
		}
		repo.courseByID[course.ID] = i
	}
	if err := uniqueSlugs("article", len(doc.Articles), func(i int) string { return doc.Articles[i].Slug }); err != nil {
		return nil, err
	}
	if err := uniqueSlugs("region", len(doc.Regions), func(i int) string { return doc.Regions[i].Slug }); err != nil {
		return nil, err
	}
	if err := uniqueSlugs("page", len(doc.Pages), func(i int) string { return doc.Pages[i].Slug }); err != nil {
		return nil, err
	}
	for _, region := range doc.Regions {
		for _, id := range region.CourseIDs {
			if _, ok := repo.courseByID[id]; !ok {
				return nil, fmt.Errorf("region %q references unknown course %q", region.Slug, id)
			}
		}
	}

	schedule, err := repo.parseSchedule(scheduleCSV)
	if err != nil {
		return nil, err
	}
	repo.schedule = schedule
	return repo, nil
}

func (r *CatalogRepository) parseSchedule(raw []byte) ([]models.ScheduleDay, error) {
	var rows []scheduleRow
	if err := gocsv.Unmarshal(bytes.NewReader(raw), &rows); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}

	var days []models.ScheduleDay
	dayIndex := make(map[string]int)
	for i, row := range rows {
		day := strings.TrimSpace(row.Day)
		if day == "" {
			return nil, fmt.Errorf("schedule row %d has no day", i+1)
		}
		courseID := strings.TrimSpace(row.CourseID)
		if courseID != "" {
			if _, ok := r.courseByID[courseID]; !ok {
				return nil, fmt.Errorf("schedule row %d references unknown course %q", i+1, courseID)
			}
		}

		idx, ok := dayIndex[day]
		if !ok {
			idx = len(days)
			dayIndex[day] = idx
			days = append(days, models.ScheduleDay{
				Day:          day,
				StartDate:    strings.TrimSpace(row.StartDate),
				DurationNote: strings.TrimSpace(row.DurationNote),
			})
		}
		days[idx].Sessions = append(days[idx].Sessions, models.ScheduleSession{
			Time:     strings.TrimSpace(row.Time),
			Level:    strings.TrimSpace(row.Level),
			AgeGroup: strings.TrimSpace(row.AgeGroup),
			CourseID: courseID,
			Spots:    row.Spots,
		})
	}
	return days, nil
}

func uniqueSlugs(kind string, n int, slug func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		s := slug(i)
		if s == "" {
			return fmt.Errorf("%s %d has no slug", kind, i)
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("duplicate %s slug %q", kind, s)
		}
		seen[s] = struct{}{}
	}
	return nil
}

// Courses returns all courses in catalog order.
func (r *CatalogRepository) Courses() []models.Course {
	return append([]models.Course(nil), r.courses...)
}

// Course looks a course up by id.
func (r *CatalogRepository) Course(id string) (*models.Course, error) {
	idx, ok := r.courseByID[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	course := r.courses[idx]
	return &course, nil
}

// Schedule returns the weekly schedule grouped by day.
func (r *CatalogRepository) Schedule() []models.ScheduleDay {
	return append([]models.ScheduleDay(nil), r.schedule...)
}

// Session returns the session at index within the named day.
func (r *CatalogRepository) Session(day string, index int) (*models.ScheduleDay, *models.ScheduleSession, error) {
	for i := range r.schedule {
		if !strings.EqualFold(r.schedule[i].Day, day) {
			continue
		}
		if index < 0 || index >= len(r.schedule[i].Sessions) {
			break
		}
		d := r.schedule[i]
		s := d.Sessions[index]
		return &d, &s, nil
	}
	return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
}

func (r *CatalogRepository) Articles() []models.Article {
	return append([]models.Article(nil), r.articles...)
}

func (r *CatalogRepository) Article(slug string) (*models.Article, error) {
	for i := range r.articles {
		if r.articles[i].Slug == slug {
			a := r.articles[i]
			return &a, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "article not found")
}

func (r *CatalogRepository) Regions() []models.Region {
	return append([]models.Region(nil), r.regions...)
}

func (r *CatalogRepository) Region(slug string) (*models.Region, error) {
	for i := range r.regions {
		if r.regions[i].Slug == slug {
			region := r.regions[i]
			return &region, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "region not found")
}

func (r *CatalogRepository) Page(slug string) (*models.Page, error) {
	for i := range r.pages {
		if r.pages[i].Slug == slug {
			p := r.pages[i]
			return &p, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "page not found")
}
