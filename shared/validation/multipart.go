package validation

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidateAndParseMultipart caps the body at maxSize and parses the multipart form.
// Exceeding the cap makes the server stop reading, which browsers surface as a connection reset.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return fmt.Errorf("%w: %v", ErrNotMultipart, err)
		}
		return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
	}
	return nil
}

// CalculateMaxRequestSize adds room for text fields and multipart framing to the attachment budget.
func CalculateMaxRequestSize(maxAttachmentSize int64, bufferSize int64) int64 {
	return maxAttachmentSize + bufferSize
}

// FormatSizeMB converts bytes to megabytes for user-facing messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
