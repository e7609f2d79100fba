package transcript

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

var allowedTypes = []string{
	"audio/mpeg", "audio/mp4", "audio/x-m4a", "audio/wav", "audio/webm",
	"video/mp4", "video/mpeg", "video/webm",
}

var extensionTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".mpga": "audio/mpeg",
	".m4a":  "audio/x-m4a",
	".wav":  "audio/wav",
	".weba": "audio/webm",
	".mp4":  "video/mp4",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".webm": "video/webm",
}

// ValidateMedia checks the declared type against the allow-list.
func ValidateMedia(m UploadedMedia) error {
	if !slices.Contains(allowedTypes, m.Type) {
		return &ValidationError{Field: "media type", Reason: fmt.Sprintf("unsupported type %q", m.Type)}
	}
	if len(m.Data) == 0 {
		return &ValidationError{Field: "media", Reason: "file is empty"}
	}
	return nil
}

// TypeFromName guesses a declared MIME type from a file extension.
// It returns "" when the extension is not one the uploader accepts.
func TypeFromName(name string) string {
	return extensionTypes[strings.ToLower(filepath.Ext(name))]
}

// AllowedTypes lists the accepted MIME types.
func AllowedTypes() []string {
	return slices.Clone(allowedTypes)
}
