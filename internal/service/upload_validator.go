package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"studyshare/internal/errors"
)

// MaxUploadSize is the upper bound for a single uploaded payload.
const MaxUploadSize int64 = 10 << 20 // 10 MiB

var allowedUploadTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"image/jpeg",
	"image/png",
	"image/gif",
	"video/mp4",
}

// UploadValidator enforces the file ingestion rules: size first, then the
// declared MIME type, then the payload's actual magic bytes. A renamed
// payload whose content is not an allowed type is rejected the same way a
// disallowed declared type is.
type UploadValidator struct{}

// NewUploadValidator creates a new upload validator.
func NewUploadValidator() *UploadValidator {
	return &UploadValidator{}
}

// Validate checks size and type constraints. The payload is rewound before
// returning so the caller can stream it to storage.
func (v *UploadValidator) Validate(size int64, declaredType string, payload io.ReadSeeker) error {
	if size <= 0 {
		return errors.InvalidInput("uploaded file is empty")
	}
	if size > MaxUploadSize {
		return fmt.Errorf("%w: file exceeds the %d byte limit", errors.ErrPayloadTooLarge, MaxUploadSize)
	}

	declared := normalizeMediaType(declaredType)
	if !typeAllowed(declared) {
		return fmt.Errorf("%w: %s", errors.ErrUnsupportedMediaType, declared)
	}

	detected, err := mimetype.DetectReader(payload)
	if err != nil {
		return fmt.Errorf("detect media type: %w", err)
	}
	if _, err := payload.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind payload: %w", err)
	}
	if !detectedAllowed(detected) {
		return fmt.Errorf("%w: payload content is %s", errors.ErrUnsupportedMediaType, detected.String())
	}

	return nil
}

func normalizeMediaType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

func typeAllowed(t string) bool {
	for _, allowed := range allowedUploadTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

func detectedAllowed(detected *mimetype.MIME) bool {
	for _, allowed := range allowedUploadTypes {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}
