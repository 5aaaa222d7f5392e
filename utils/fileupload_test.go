package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAttachment_Success(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		size     int64
	}{
		{name: "PNG image", fileName: "storyboard.png", mimeType: "image/png", size: 2048},
		{name: "PDF document", fileName: "contract.pdf", mimeType: "application/pdf", size: 1024 * 1024},
		{name: "MP4 video", fileName: "draft-cut.mp4", mimeType: "video/mp4", size: MaxFileSize},
		{name: "Mixed-case MIME type", fileName: "photo.jpg", mimeType: "Image/JPEG", size: 100},
		{name: "Zip archive", fileName: "assets.zip", mimeType: "application/zip", size: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateAttachment(tt.fileName, tt.mimeType, tt.size))
		})
	}
}

func TestValidateAttachment_Failures(t *testing.T) {
	tests := []struct {
		name         string
		fileName     string
		mimeType     string
		size         int64
		expectedCode string
	}{
		{name: "Empty file name", fileName: "", mimeType: "image/png", size: 100, expectedCode: "INVALID_FILENAME"},
		{name: "Path separator in name", fileName: "dir/file.png", mimeType: "image/png", size: 100, expectedCode: "INVALID_FILENAME"},
		{name: "Backslash in name", fileName: "dir\\file.png", mimeType: "image/png", size: 100, expectedCode: "INVALID_FILENAME"},
		{name: "Traversal in name", fileName: "..secret.png", mimeType: "image/png", size: 100, expectedCode: "INVALID_FILENAME"},
		{name: "Zero size", fileName: "file.png", mimeType: "image/png", size: 0, expectedCode: "FILE_TOO_LARGE"},
		{name: "Negative size", fileName: "file.png", mimeType: "image/png", size: -1, expectedCode: "FILE_TOO_LARGE"},
		{name: "Over the limit", fileName: "file.png", mimeType: "image/png", size: MaxFileSize + 1, expectedCode: "FILE_TOO_LARGE"},
		{name: "Executable", fileName: "malware.exe", mimeType: "application/x-msdownload", size: 100, expectedCode: "INVALID_FILE_FORMAT"},
		{name: "Plain text", fileName: "notes.txt", mimeType: "text/plain", size: 100, expectedCode: "INVALID_FILE_FORMAT"},
		{name: "Empty MIME type", fileName: "file.png", mimeType: "", size: 100, expectedCode: "INVALID_FILE_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttachment(tt.fileName, tt.mimeType, tt.size)
			require.Error(t, err)

			uploadErr, ok := err.(*FileUploadError)
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, uploadErr.Code)
		})
	}
}

func TestValidateUploadRequest(t *testing.T) {
	// The authorize step validates name and type before the size is known
	assert.NoError(t, ValidateUploadRequest("storyboard.png", "image/png"))

	err := ValidateUploadRequest("", "image/png")
	require.Error(t, err)

	err = ValidateUploadRequest("notes.txt", "text/plain")
	require.Error(t, err)
	uploadErr, ok := err.(*FileUploadError)
	require.True(t, ok)
	assert.Equal(t, "INVALID_FILE_FORMAT", uploadErr.Code)
}
