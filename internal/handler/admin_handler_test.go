package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/swim-school-site/internal/middleware"
	"github.com/noah-isme/swim-school-site/internal/models"
	"github.com/noah-isme/swim-school-site/internal/service"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
)

type loginServiceMock struct {
	resp *models.LoginResponse
	err  error
	req  models.LoginRequest
}

func (m *loginServiceMock) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.req = req
	return m.resp, m.err
}

type inquiryServiceMock struct {
	records    []models.InquiryRecord
	err        error
	lastFilter models.InquiryFilter
	lastFormat string
}

func (m *inquiryServiceMock) List(_ context.Context, filter models.InquiryFilter) ([]models.InquiryRecord, *models.Pagination, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.records, &models.Pagination{Page: 1, PageSize: 50, TotalCount: len(m.records)}, nil
}

func (m *inquiryServiceMock) Export(_ context.Context, filter models.InquiryFilter, format string) (*service.ExportFile, error) {
	m.lastFilter = filter
	m.lastFormat = format
	if m.err != nil {
		return nil, m.err
	}
	return &service.ExportFile{Filename: "henvendelser.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("Innsendt\n")}, nil
}

func TestAdminHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := &loginServiceMock{resp: &models.LoginResponse{AccessToken: "jwt", TokenType: "Bearer", ExpiresIn: 3600}}
	h := NewAdminHandler(auth, &inquiryServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewBufferString(`{"username":"admin","password":"x"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", auth.req.Username)
	assert.Contains(t, w.Body.String(), `"access_token":"jwt"`)
}

func TestAdminHandlerLoginInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(&loginServiceMock{}, &inquiryServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewBufferString(`{"username":`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandlerListInquiries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	inquiries := &inquiryServiceMock{records: []models.InquiryRecord{{ID: "1", ChildFirstName: "Nora"}}}
	h := NewAdminHandler(&loginServiceMock{}, inquiries)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/inquiries?type=question&page=2&pageSize=10", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Username: "admin", Role: models.RoleStaff})
	h.ListInquiries(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.InquiryFilter{Type: models.InquiryQuestion, Page: 2, PageSize: 10}, inquiries.lastFilter)
	assert.Contains(t, w.Body.String(), `"viewer":"admin"`)
	assert.Contains(t, w.Body.String(), `"total_count":1`)
}

func TestAdminHandlerListInquiriesDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(&loginServiceMock{}, &inquiryServiceMock{err: appErrors.Clone(appErrors.ErrFeatureDisabled, "inquiry log is not configured")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/inquiries", nil)
	h.ListInquiries(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	inquiries := &inquiryServiceMock{}
	h := NewAdminHandler(&loginServiceMock{}, inquiries)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/inquiries/export?format=csv&type=enrollment", nil)
	h.ExportInquiries(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", inquiries.lastFormat)
	assert.Equal(t, models.InquiryEnrollment, inquiries.lastFilter.Type)
	assert.Equal(t, `attachment; filename="henvendelser.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Innsendt\n", w.Body.String())
}
