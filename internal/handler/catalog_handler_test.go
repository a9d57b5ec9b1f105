package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/swim-school-site/internal/dto"
	"github.com/noah-isme/swim-school-site/internal/models"
	"github.com/noah-isme/swim-school-site/internal/repository"
	"github.com/noah-isme/swim-school-site/internal/service"
)

func newTestCatalogService(t *testing.T) *service.CatalogService {
	t.Helper()
	catalog, err := repository.NewCatalogRepository()
	require.NoError(t, err)
	return service.NewCatalogService(catalog, service.NewResolverService(catalog, nil, nil))
}

func TestCatalogHandlerCourses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(newTestCatalogService(t))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses", nil)
	h.Courses(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=")
	var courses []models.Course
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &courses))
	assert.Len(t, courses, 4)
}

func TestCatalogHandlerCourseNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(newTestCatalogService(t))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/ukjent", nil)
	c.Params = gin.Params{{Key: "id", Value: "ukjent"}}
	h.Course(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogHandlerScheduleCarriesLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(newTestCatalogService(t))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/schedule", nil)
	h.Schedule(c)

	require.Equal(t, http.StatusOK, w.Code)
	var days []dto.ScheduleDayView
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &days))
	require.Len(t, days, 3)
	assert.Equal(t, "Babysvømming: Nybegynner (Onsdag 15:00 - 15:30)", days[1].Sessions[2].Label)
	assert.Equal(t, 5, *days[1].Sessions[2].Spots.Remaining)
}

func TestCatalogHandlerResolve(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(newTestCatalogService(t))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/resolve?label=Plaskekurs&hint=baby", nil)
	h.Resolve(c)

	require.Equal(t, http.StatusOK, w.Code)
	var res dto.ResolveResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &res))
	assert.Equal(t, "baby", res.Course.ID)
	assert.Equal(t, "hint", res.Tier)
}
