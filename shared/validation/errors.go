package validation

import "errors"

// ErrPayloadTooLarge is returned when the request body exceeds size limits
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrInvalidMimeType is returned when an uploaded file has a disallowed MIME type
var ErrInvalidMimeType = errors.New("invalid MIME type")

// ErrUndecodableImage is returned when a file claims to be an image but its header can't be read
var ErrUndecodableImage = errors.New("undecodable image")

// ErrTooManyAttachments is returned when too many files are uploaded
var ErrTooManyAttachments = errors.New("too many attachments")

// ErrNotMultipart is returned when the request isn't a multipart form at all
var ErrNotMultipart = errors.New("request is not multipart/form-data")
