package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func setupRouter(p Pinger) *gin.Engine {
	r := gin.New()
	h := Health(p)
	r.GET("/healthz", h)
	r.HEAD("/healthz", h)
	r.OPTIONS("/healthz", h)
	return r
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		pinger         Pinger
		method         string
		expectedStatus int
		expectedBody   string
	}{
		{"GET without db", nil, http.MethodGet, http.StatusOK, "ok"},
		{"GET with healthy db", fakePinger{}, http.MethodGet, http.StatusOK, "ok"},
		{"GET with failing db", fakePinger{err: errors.New("conn refused")}, http.MethodGet, http.StatusServiceUnavailable, "unavailable"},
		{"HEAD with healthy db", fakePinger{}, http.MethodHead, http.StatusOK, ""},
		{"HEAD with failing db", fakePinger{err: errors.New("conn refused")}, http.MethodHead, http.StatusServiceUnavailable, ""},
		{"OPTIONS skips the ping", fakePinger{err: errors.New("conn refused")}, http.MethodOptions, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := setupRouter(tt.pinger)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/healthz", nil)

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			if tt.expectedBody == "" {
				assert.Zero(t, w.Body.Len(), "expected empty body")
				return
			}
			var response map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedBody, response["status"])
		})
	}
}
