package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medisort/medisort-server/internal/labelscan/domain"
	"github.com/medisort/medisort-server/internal/labelscan/parser"
	"github.com/medisort/medisort-server/pkg/errors"
	"github.com/medisort/medisort-server/pkg/httputil"
	"github.com/medisort/medisort-server/pkg/logger"
)

// ScanHandler exposes label-text parsing. A Recognizer may be plugged in to
// drive capture-based scanning; without one, only text parsing is available.
type ScanHandler struct {
	recognizer domain.Recognizer
	logger     *logger.Logger
}

// NewScanHandler creates a new scan handler. recognizer may be nil.
func NewScanHandler(recognizer domain.Recognizer, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		recognizer: recognizer,
		logger:     log,
	}
}

// RegisterRoutes registers scan routes on the router
func (h *ScanHandler) RegisterRoutes(r chi.Router) {
	r.Post("/scan/parse", h.Parse)
	r.Post("/scan/capture", h.Capture)
}

// ParseRequest carries label text to parse, either as pre-split lines or as a
// single free-form block
type ParseRequest struct {
	Lines []string `json:"lines"`
	Text  string   `json:"text"`
}

// Parse extracts form-fill guesses from label text
func (h *ScanHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	var guess domain.Guess
	if len(req.Lines) > 0 {
		guess = parser.Parse(req.Lines)
	} else {
		guess = parser.ParseText(req.Text)
	}

	httputil.JSON(w, http.StatusOK, guess)
}

// Capture runs the configured recognizer and parses whatever text it
// produces. A recognition failure never reaches the parser.
func (h *ScanHandler) Capture(w http.ResponseWriter, r *http.Request) {
	if h.recognizer == nil {
		httputil.Error(w, errors.New("SCANNER_UNAVAILABLE", "no scanner is configured", http.StatusServiceUnavailable))
		return
	}

	lines, err := h.recognizer.CaptureAndRecognize(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("label capture failed")
		httputil.Error(w, errors.Wrap(err, "SCAN_FAILED", "label capture failed", http.StatusBadGateway))
		return
	}

	httputil.JSON(w, http.StatusOK, parser.Parse(lines))
}
