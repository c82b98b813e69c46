package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/itchan-dev/wall/shared/domain"
)

// OpenAttachments opens every uploaded file and records its metadata. It does not judge content:
// empty placeholders and bad files are dropped one by one later, so a single bad file never
// fails the whole submission. The caller must close the returned files.
func OpenAttachments(fileHeaders []*multipart.FileHeader, maxCount int) ([]*domain.PendingFile, error) {
	if len(fileHeaders) == 0 {
		return nil, nil
	}
	if maxCount > 0 && len(fileHeaders) > maxCount {
		return nil, fmt.Errorf("%w: at most %d files", ErrTooManyAttachments, maxCount)
	}

	pendingFiles := make([]*domain.PendingFile, 0, len(fileHeaders))
	for _, fileHeader := range fileHeaders {
		file, err := fileHeader.Open()
		if err != nil {
			CloseAll(pendingFiles)
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}
		pendingFiles = append(pendingFiles, &domain.PendingFile{
			FileCommonMetadata: domain.FileCommonMetadata{
				Filename:  fileHeader.Filename,
				SizeBytes: fileHeader.Size,
				MimeType:  DetectMimeType(fileHeader.Filename, fileHeader.Header.Get("Content-Type")),
			},
			Data: file,
		})
	}
	return pendingFiles, nil
}

// CloseAll closes every pending file that holds a closer.
func CloseAll(files []*domain.PendingFile) {
	for _, pf := range files {
		if closer, ok := pf.Data.(io.Closer); ok {
			closer.Close()
		}
	}
}

func BuildAllowedMimeMap(mimes []string) map[string]bool {
	allowed := make(map[string]bool, len(mimes))
	for _, m := range mimes {
		allowed[strings.ToLower(m)] = true
	}
	return allowed
}

// DetectMimeType trusts a specific Content-Type, otherwise falls back to the file extension.
func DetectMimeType(filename, contentType string) string {
	mimeType := contentType
	if mimeType == "" || mimeType == "application/octet-stream" {
		if detected := mime.TypeByExtension(filepath.Ext(filename)); detected != "" {
			mimeType = detected
		}
	}
	if base, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = base
	}
	return strings.ToLower(mimeType)
}

// InspectImage checks the file is an allowed image type whose header decodes, records its
// dimensions on pf and rewinds the data. Files that can't seek are only checked by MIME type.
func InspectImage(pf *domain.PendingFile, allowed map[string]bool) error {
	if !allowed[pf.MimeType] {
		return fmt.Errorf("%w: %q (file: %s)", ErrInvalidMimeType, pf.MimeType, pf.Filename)
	}

	rs, ok := pf.Data.(io.ReadSeeker)
	if !ok {
		return nil
	}
	cfg, _, err := image.DecodeConfig(rs)
	if _, seekErr := rs.Seek(0, io.SeekStart); seekErr != nil {
		return fmt.Errorf("rewind %s: %w", pf.Filename, seekErr)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUndecodableImage, pf.Filename, err)
	}

	width, height := cfg.Width, cfg.Height
	pf.ImageWidth = &width
	pf.ImageHeight = &height
	return nil
}
