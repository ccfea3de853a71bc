// Package upload validates and buffers an incoming image file from a
// multipart form submission.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	// ErrMissingFile is returned when no image file was submitted.
	ErrMissingFile Error = "an image file is required"
	// ErrTooLarge is returned when the image exceeds the configured maximum.
	ErrTooLarge Error = "image exceeds the maximum allowed size"
	// ErrUnsupportedMedia is returned when the file extension or the sniffed
	// content type is not an allowed image type.
	ErrUnsupportedMedia Error = "only jpeg, jpg, png, and gif images are allowed"
)

// Error is an error type returned by the upload receiver.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// allowedTypes maps permitted file extensions to the content type the file
// header must sniff as. Both checks must pass; a text file renamed to .jpg is
// rejected.
var allowedTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// Receive buffers the uploaded image and returns its raw bytes. The declared
// size, the file extension, and the sniffed content type are all validated;
// maxBytes is the authoritative server-side limit regardless of any
// client-side advisory check.
func Receive(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if fh == nil || fh.Size == 0 {
		return nil, ErrMissingFile
	}
	if fh.Size > maxBytes {
		return nil, ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	wantType, ok := allowedTypes[ext]
	if !ok {
		return nil, ErrUnsupportedMedia
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The declared size is client-controlled; cap the actual read too.
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrMissingFile
	}
	if got := http.DetectContentType(data); got != wantType {
		return nil, ErrUnsupportedMedia
	}
	return data, nil
}
