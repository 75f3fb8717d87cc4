package transcode

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// TempFile is a uniquely named temporary file that is removed on
// [TempFile.Release] unless it was created with keep set.
type TempFile struct {
	path     string
	keep     bool
	released bool
}

// NewTempFile creates an empty temporary file in the default temporary
// directory. pattern follows [os.CreateTemp].
func NewTempFile(pattern string, keep bool) (*TempFile, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}

	err = f.Close()
	if err != nil {
		removeErr := os.Remove(f.Name())

		return nil, fmt.Errorf("closing temp file: %w", errors.Join(err, removeErr))
	}

	return &TempFile{path: f.Name(), keep: keep}, nil
}

// Path returns the file's path.
func (t *TempFile) Path() string {
	return t.path
}

// Release removes the file unless it is kept. Idempotent; a file that is
// already gone is not an error.
func (t *TempFile) Release() error {
	if t.released {
		return nil
	}

	t.released = true

	if t.keep {
		slog.Info("keeping temporary file", slog.String("path", t.path))

		return nil
	}

	err := os.Remove(t.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing temp file: %w", err)
	}

	slog.Debug("removed temporary file", slog.String("path", t.path))

	return nil
}
