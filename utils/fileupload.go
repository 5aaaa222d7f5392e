package utils

import (
	"fmt"
	"strings"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
)

// allowedMimeTypes is the attachment allow-list
var allowedMimeTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/gif":       true,
	"application/pdf": true,
	"video/mp4":       true,
	"video/quicktime": true,
	"audio/mpeg":      true,
	"application/zip": true,
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateAttachment validates attachment metadata before an upload is
// authorized or a record is registered
func ValidateAttachment(fileName, mimeType string, size int64) error {
	if fileName == "" || strings.ContainsAny(fileName, "/\\") || strings.Contains(fileName, "..") {
		return &FileUploadError{
			Code:    "INVALID_FILENAME",
			Message: "Invalid file name",
		}
	}

	if size <= 0 || size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size must be between 1 byte and %d MB", MaxFileSize/(1024*1024)),
		}
	}

	if !allowedMimeTypes[strings.ToLower(mimeType)] {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("File type %q is not allowed", mimeType),
		}
	}

	return nil
}

// ValidateUploadRequest validates the authorize step, where the size is not
// yet known
func ValidateUploadRequest(fileName, mimeType string) error {
	return ValidateAttachment(fileName, mimeType, 1)
}
