package driven

import "context"

// OCRRequest carries one image to the OCR collaborator.
type OCRRequest struct {
	APIKey      string
	ImageBase64 string // Raw base64 payload, no data-URI prefix.
	Filename    string
	Language    string // OCR language code, e.g. "eng".
}

// OCRClient defines the driven port for the OCR collaborator.
type OCRClient interface {
	// ParseImage extracts plain text from one image. The returned text
	// is unprocessed OCR output.
	ParseImage(ctx context.Context, req OCRRequest) (string, error)
}
