package sheet

import (
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output raster encoding.
type Format string

const (
	// FormatPNG encodes the sheet as PNG.
	FormatPNG Format = "png"
	// FormatBMP encodes the sheet as 32-bit BMP.
	FormatBMP Format = "bmp"
	// FormatTIFF encodes the sheet as deflate-compressed TIFF.
	FormatTIFF Format = "tiff"
)

// FormatFromPath picks a [Format] from the extension of path. Paths without
// an extension are encoded as PNG.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%w: unsupported output extension %q", ErrPersistFailure, ext)
	}
}

// Encode writes the sheet to w in the given format.
func (s *Sheet) Encode(w io.Writer, f Format) error {
	var err error

	switch f {
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(w, s.Image)
	case FormatBMP:
		err = bmp.Encode(w, s.Image)
	case FormatTIFF:
		err = tiff.Encode(w, s.Image, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: unsupported format %q", ErrPersistFailure, f)
	}

	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPersistFailure, f, err)
	}

	return nil
}

// Save writes the sheet to path, choosing the format from its extension.
//
// The raster is encoded to a temporary file in the destination directory and
// renamed into place, so a failed save never leaves a partial image at path.
func (s *Sheet) Save(path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".vidtoss-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailure, err)
	}

	tmpPath := tmp.Name()

	err = s.Encode(tmp, f)
	if err != nil {
		closeQuietly(tmp)
		removeQuietly(tmpPath)

		return err
	}

	err = tmp.Close()
	if err != nil {
		removeQuietly(tmpPath)

		return fmt.Errorf("%w: %w", ErrPersistFailure, err)
	}

	//nolint:gosec // Sheets are ordinary, world-readable image assets.
	err = os.Chmod(tmpPath, 0o644)
	if err != nil {
		removeQuietly(tmpPath)

		return fmt.Errorf("%w: %w", ErrPersistFailure, err)
	}

	err = os.Rename(tmpPath, path)
	if err != nil {
		removeQuietly(tmpPath)

		return fmt.Errorf("%w: %w", ErrPersistFailure, err)
	}

	slog.Debug("saved sprite-sheet",
		slog.String("path", path),
		slog.String("format", string(f)),
		slog.Int("width", s.Image.Bounds().Dx()),
		slog.Int("height", s.Image.Bounds().Dy()),
	)

	return nil
}

func removeQuietly(path string) {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("remove temporary sheet", slog.String("path", path), slog.Any("error", err))
	}
}

func closeQuietly(f *os.File) {
	err := f.Close()
	if err != nil {
		slog.Warn("close temporary sheet", slog.String("path", f.Name()), slog.Any("error", err))
	}
}
