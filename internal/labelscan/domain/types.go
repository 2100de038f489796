package domain

import "context"

// DefaultCategory is assumed when the label text gives no better hint
const DefaultCategory = "Tablet"

// Guess holds the fields extracted from label text. Every field is a plain
// string; empty means the parser found nothing for it. Guesses pre-fill a
// form, they are never written to storage directly.
type Guess struct {
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	ExpiryDate string `json:"expiry_date"`
	Category   string `json:"category"`
}

// Recognizer turns a captured image into lines of text. Implementations wrap
// an external OCR engine; none ships with the server.
type Recognizer interface {
	CaptureAndRecognize(ctx context.Context) ([]string, error)
}
