package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"vtuportal/internal/domain"
	"vtuportal/internal/handler"
	"vtuportal/internal/router"
	"vtuportal/mocks"
)

func setup(svc *mocks.MockResultService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return router.Setup(
		zap.NewNop(),
		nil,
		handler.NewResultHandler(svc),
		handler.NewSemesterHandler(svc),
		handler.NewHealthHandler(svc),
	)
}

func TestRouter_ExportIsNotALookup(t *testing.T) {
	svc := new(mocks.MockResultService)
	svc.On("ExportRecords", mock.Anything, mock.Anything, domain.ExportCSV).Return(nil)
	r := setup(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/records/export", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything, mock.Anything)
	svc.AssertExpectations(t)
}

func TestRouter_LookupRoute(t *testing.T) {
	svc := new(mocks.MockResultService)
	svc.On("Lookup", mock.Anything, "1AB23CS001", "").Return(nil, domain.ErrNotFound)
	r := setup(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/records/1AB23CS001", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Healthz(t *testing.T) {
	r := setup(new(mocks.MockResultService))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := setup(new(mocks.MockResultService))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
