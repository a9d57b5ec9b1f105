package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/noah-isme/swim-school-site/internal/models"
)

// PageMeta carries the search and sharing metadata of one rendered page.
type PageMeta struct {
	Title       string
	Description string
	Canonical   string
	Image       string
	OGType      string
	NoIndex     bool
	JSONLD      map[string]interface{}
}

// SiteConfig describes the school for metadata purposes.
type SiteConfig struct {
	Name         string
	BaseURL      string
	DefaultImage string
	Locality     string
	Region       string
	Telephone    string
}

// PageService builds page metadata and structured data.
type PageService struct {
	site SiteConfig
}

// NewPageService constructs the service.
func NewPageService(site SiteConfig) *PageService {
	site.BaseURL = strings.TrimRight(site.BaseURL, "/")
	if site.DefaultImage == "" {
		site.DefaultImage = "/static/img/og-default.jpg"
	}
	return &PageService{site: site}
}

// SiteName returns the school name.
func (s *PageService) SiteName() string {
	return s.site.Name
}

// URL turns a site path into an absolute URL.
func (s *PageService) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.site.BaseURL + path
}

func (s *PageService) HomeMeta(courses []models.Course) PageMeta {
	description := "Babysvømming, småbarnsvømming og svømmeskole for barn. Se timeplanen og meld på direkte."
	return PageMeta{
		Title:       s.site.Name + " | Svømmekurs for barn",
		Description: description,
		Canonical:   s.URL("/"),
		Image:       s.URL(s.site.DefaultImage),
		OGType:      "website",
		JSONLD:      s.locationLD(s.site.Name, description, s.URL("/"), courses),
	}
}

func (s *PageService) ScheduleMeta() PageMeta {
	return PageMeta{
		Title:       "Timeplan | " + s.site.Name,
		Description: "Ledige plasser på babysvømming, småbarnsvømming og svømmeskole denne sesongen.",
		Canonical:   s.URL("/timeplan"),
		Image:       s.URL(s.site.DefaultImage),
		OGType:      "website",
	}
}

func (s *PageService) CourseMeta(course models.Course) PageMeta {
	url := s.URL("/kurs/" + course.ID)
	ld := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "Course",
		"name":        course.Title,
		"description": course.ShortDescription,
		"url":         url,
		"provider": map[string]interface{}{
			"@type":  "Organization",
			"name":   s.site.Name,
			"sameAs": s.URL("/"),
		},
	}
	if course.Image != "" {
		ld["image"] = s.URL(course.Image)
	}
	if course.AgeRange != "" {
		ld["audience"] = map[string]interface{}{"@type": "PeopleAudience", "suggestedAge": course.AgeRange}
	}
	if course.Details.Location != "" {
		ld["hasCourseInstance"] = map[string]interface{}{
			"@type":      "CourseInstance",
			"courseMode": "onsite",
			"location":   course.Details.Location,
		}
	}
	return PageMeta{
		Title:       fmt.Sprintf("%s | %s", course.Title, s.site.Name),
		Description: course.ShortDescription,
		Canonical:   url,
		Image:       s.imageOrDefault(course.Image),
		OGType:      "website",
		JSONLD:      ld,
	}
}

func (s *PageService) ArticleListMeta() PageMeta {
	return PageMeta{
		Title:       "Nyheter | " + s.site.Name,
		Description: "Nytt fra " + s.site.Name + ".",
		Canonical:   s.URL("/nyheter"),
		Image:       s.URL(s.site.DefaultImage),
		OGType:      "website",
	}
}

func (s *PageService) ArticleMeta(article models.Article) PageMeta {
	url := s.URL("/nyheter/" + article.Slug)
	ld := map[string]interface{}{
		"@context":         "https://schema.org",
		"@type":            "NewsArticle",
		"headline":         article.Title,
		"description":      article.Summary,
		"datePublished":    article.PublishedAt,
		"mainEntityOfPage": url,
		"image":            []string{s.imageOrDefault(article.Image)},
		"author":           map[string]interface{}{"@type": "Organization", "name": article.Author},
		"publisher":        map[string]interface{}{"@type": "Organization", "name": s.site.Name},
	}
	return PageMeta{
		Title:       fmt.Sprintf("%s | %s", article.Title, s.site.Name),
		Description: article.Summary,
		Canonical:   url,
		Image:       s.imageOrDefault(article.Image),
		OGType:      "article",
		JSONLD:      ld,
	}
}

func (s *PageService) RegionMeta(region models.Region, courses []models.Course) PageMeta {
	url := s.URL("/svommekurs/" + region.Slug)
	return PageMeta{
		Title:       fmt.Sprintf("%s | %s", region.Headline, s.site.Name),
		Description: region.Intro,
		Canonical:   url,
		Image:       s.URL(s.site.DefaultImage),
		OGType:      "website",
		JSONLD:      s.locationLD(s.site.Name+" "+region.Name, region.Intro, url, courses),
	}
}

func (s *PageService) StaticMeta(page models.Page) PageMeta {
	return PageMeta{
		Title:       fmt.Sprintf("%s | %s", page.Title, s.site.Name),
		Description: page.Description,
		Canonical:   s.URL("/" + page.Slug),
		Image:       s.URL(s.site.DefaultImage),
		OGType:      "website",
	}
}

// ConfirmationMeta keeps confirmation pages out of search results; the token is personal.
func (s *PageService) ConfirmationMeta() PageMeta {
	return PageMeta{
		Title:   "Takk for din henvendelse | " + s.site.Name,
		OGType:  "website",
		NoIndex: true,
	}
}

// CourseQR renders a PNG QR code pointing at the course page, for printed flyers.
func (s *PageService) CourseQR(course models.Course, size int) ([]byte, error) {
	if size <= 0 || size > 1024 {
		size = 256
	}
	png, err := qrcode.Encode(s.URL("/kurs/"+course.ID), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

func (s *PageService) locationLD(name, description, url string, courses []models.Course) map[string]interface{} {
	ld := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "SportsActivityLocation",
		"name":        name,
		"description": description,
		"url":         url,
		"image":       s.URL(s.site.DefaultImage),
		"sport":       "Swimming",
	}
	if s.site.Locality != "" || s.site.Region != "" {
		ld["address"] = map[string]interface{}{
			"@type":           "PostalAddress",
			"addressLocality": s.site.Locality,
			"addressRegion":   s.site.Region,
			"addressCountry":  "NO",
		}
	}
	if s.site.Telephone != "" {
		ld["telephone"] = s.site.Telephone
	}
	if len(courses) > 0 {
		offers := make([]map[string]interface{}, 0, len(courses))
		for _, course := range courses {
			offers = append(offers, map[string]interface{}{
				"@type": "Offer",
				"name":  course.Title,
				"url":   s.URL("/kurs/" + course.ID),
			})
		}
		ld["makesOffer"] = offers
	}
	return ld
}

func (s *PageService) imageOrDefault(path string) string {
	if path == "" {
		path = s.site.DefaultImage
	}
	return s.URL(path)
}
