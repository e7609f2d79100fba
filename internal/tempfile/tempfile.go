package tempfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Path returns a fresh, unused-looking path in dir. Nothing is created.
func Path(dir, suffix string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, uuid.NewString()+suffix)
}

// With hands fn a unique path in dir and removes whatever fn left there once
// fn returns, errors or panics. The file itself is created by fn, not here.
func With(dir, suffix string, fn func(path string) error) (err error) {
	path := Path(dir, suffix)
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()
	return fn(path)
}

// WithData writes data to a unique path, then behaves like With.
func WithData(dir, suffix string, data []byte, fn func(path string) error) error {
	return With(dir, suffix, func(path string) error {
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return err
		}
		return fn(path)
	})
}
