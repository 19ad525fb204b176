package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"aria/internal/handler"
	"aria/internal/router"
	"aria/mocks"
)

func TestSetup_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(mocks.MockAttestationService)
	r := router.Setup(zerolog.Nop(), []string{"*"},
		handler.NewAttestationHandler(svc, 1<<20),
		handler.NewHealthHandler(nil),
	)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}

	for _, path := range []string{"/analyze_and_mint", "/api/v1/attestations"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, path, http.NoBody)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
	svc.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}
