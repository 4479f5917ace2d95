package midware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiteco/dnamutation/kite-golib/rollbar"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWrap_Headers(t *testing.T) {
	handler := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}), zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogger_KeepsRequestID(t *testing.T) {
	handler := Wrap(http.NotFoundHandler(), zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/missing", nil)
	req.Header.Set(RequestIDHeader, "abc")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	rollbar.Disable()
	handler := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
