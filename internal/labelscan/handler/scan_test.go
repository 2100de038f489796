package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/medisort/medisort-server/internal/labelscan/domain"
	"github.com/medisort/medisort-server/internal/labelscan/handler"
	"github.com/medisort/medisort-server/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecognizer struct {
	lines []string
	err   error
	calls int
}

func (s *stubRecognizer) CaptureAndRecognize(ctx context.Context) ([]string, error) {
	s.calls++
	return s.lines, s.err
}

func newRouter(rec *stubRecognizer) chi.Router {
	log := logger.New("test", "test")
	r := chi.NewRouter()

	// A typed nil must not reach the interface parameter
	var recognizer domain.Recognizer
	if rec != nil {
		recognizer = rec
	}

	handler.NewScanHandler(recognizer, log).RegisterRoutes(r)
	return r
}

func TestScanHandler_Parse(t *testing.T) {
	r := newRouter(nil)

	body := `{"lines": ["Paracetamol 500mg", "Qty: 25 tablets", "Exp: 2026-03-01"]}`
	req := httptest.NewRequest(http.MethodPost, "/scan/parse", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Paracetamol 500mg"`)
	assert.Contains(t, rec.Body.String(), `"quantity":"25"`)
	assert.Contains(t, rec.Body.String(), `"expiry_date":"2026-03-01"`)
}

func TestScanHandler_ParseText(t *testing.T) {
	r := newRouter(nil)

	body := `{"text": "Ibuprofen Gel\n40 tablets"}`
	req := httptest.NewRequest(http.MethodPost, "/scan/parse", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Ibuprofen Gel"`)
	assert.Contains(t, rec.Body.String(), `"quantity":"40"`)
}

func TestScanHandler_ParseRejectsBadJSON(t *testing.T) {
	r := newRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/scan/parse", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanHandler_CaptureWithoutRecognizer(t *testing.T) {
	r := newRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/scan/capture", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "SCANNER_UNAVAILABLE")
}

func TestScanHandler_Capture(t *testing.T) {
	stub := &stubRecognizer{lines: []string{"Vitamin D3", "Qty: 90 tablets"}}
	r := newRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/scan/capture", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.calls)
	assert.Contains(t, rec.Body.String(), `"name":"Vitamin D3"`)
	assert.Contains(t, rec.Body.String(), `"quantity":"90"`)
}

func TestScanHandler_CaptureFailure(t *testing.T) {
	stub := &stubRecognizer{err: errors.New("camera offline")}
	r := newRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/scan/capture", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "SCAN_FAILED")
}
