package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aeronjl/auricle/internal/domain/transcript"
)

// readMedia loads a local file as an upload. The declared type is mimeType
// when given, otherwise it is guessed from the extension.
func readMedia(path, name, mimeType string) (transcript.UploadedMedia, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return transcript.UploadedMedia{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if name == "" {
		name = filepath.Base(path)
	}
	if mimeType == "" {
		mimeType = transcript.TypeFromName(path)
	}
	return transcript.UploadedMedia{Name: name, Type: mimeType, Data: data}, nil
}
