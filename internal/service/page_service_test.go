package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPageService() *PageService {
	return NewPageService(SiteConfig{Name: "Bølgen Svømmeskole", BaseURL: "https://bolgen.no/", Locality: "Sandvika", Region: "Viken"})
}

func TestPageServiceCourseMeta(t *testing.T) {
	svc := newTestPageService()
	course, err := newTestCatalog(t).Course("baby")
	require.NoError(t, err)

	meta := svc.CourseMeta(*course)
	assert.Equal(t, "Babysvømming | Bølgen Svømmeskole", meta.Title)
	assert.Equal(t, "https://bolgen.no/kurs/baby", meta.Canonical)
	assert.Equal(t, "https://bolgen.no/static/img/kurs-baby.jpg", meta.Image)
	assert.Equal(t, "Course", meta.JSONLD["@type"])
	assert.Equal(t, "https://schema.org", meta.JSONLD["@context"])
}

func TestPageServiceHomeAndRegionUseLocation(t *testing.T) {
	svc := newTestPageService()
	catalog := newTestCatalog(t)

	home := svc.HomeMeta(catalog.Courses())
	assert.Equal(t, "https://bolgen.no/", home.Canonical)
	assert.Equal(t, "SportsActivityLocation", home.JSONLD["@type"])
	offers, ok := home.JSONLD["makesOffer"].([]map[string]interface{})
	require.True(t, ok)
	assert.Len(t, offers, 4)
	address, ok := home.JSONLD["address"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Sandvika", address["addressLocality"])

	region, err := catalog.Region("baerum")
	require.NoError(t, err)
	meta := svc.RegionMeta(*region, nil)
	assert.Equal(t, "https://bolgen.no/svommekurs/baerum", meta.Canonical)
	assert.Equal(t, "SportsActivityLocation", meta.JSONLD["@type"])
	assert.NotContains(t, meta.JSONLD, "makesOffer")
}

func TestPageServiceArticleMeta(t *testing.T) {
	svc := newTestPageService()
	article, err := newTestCatalog(t).Article("nytt-varmtvannsbasseng")
	require.NoError(t, err)

	meta := svc.ArticleMeta(*article)
	assert.Equal(t, "article", meta.OGType)
	assert.Equal(t, "NewsArticle", meta.JSONLD["@type"])
	assert.Equal(t, "2026-04-02", meta.JSONLD["datePublished"])
}

func TestPageServiceCourseQR(t *testing.T) {
	svc := newTestPageService()
	course, err := newTestCatalog(t).Course("plask")
	require.NoError(t, err)

	png, err := svc.CourseQR(*course, 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestPageServiceURL(t *testing.T) {
	svc := newTestPageService()
	assert.Equal(t, "https://bolgen.no/om-oss", svc.URL("om-oss"))
	assert.Equal(t, "https://cdn.example.no/a.jpg", svc.URL("https://cdn.example.no/a.jpg"))
}
