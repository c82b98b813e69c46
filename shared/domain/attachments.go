package domain

import "io"

// FileCommonMetadata holds metadata known about an uploaded file before it is stored.
type FileCommonMetadata struct {
	Filename    string
	SizeBytes   int64
	MimeType    string
	ImageWidth  *int
	ImageHeight *int
}

// PendingFile is an uploaded file that has not been written to object storage yet.
type PendingFile struct {
	FileCommonMetadata
	Data io.Reader
}

// EmptyFileName is what browsers send for an untouched file input.
const EmptyFileName = "undefined"

// IsEmpty reports whether the file is a placeholder rather than real content.
func (f *PendingFile) IsEmpty() bool {
	return f == nil || f.SizeBytes <= 0 || f.Filename == EmptyFileName
}
