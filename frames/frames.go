// Package frames decodes animation frame sequences into full RGBA images.
//
// Frames come from either an animated GIF, as produced by the transcode
// package, or a directory of PNG files sorted by name.
package frames

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/draw"
)

// ErrDecodeFailure indicates that an intermediate animation could not be
// read or decoded.
var ErrDecodeFailure = errors.New("decode frames")

// Load reads frames from path. Directories are read with [LoadDir]; any
// other path is treated as a GIF and read with [LoadGIF].
func Load(path string) ([]image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	if info.IsDir() {
		return LoadDir(path)
	}

	return LoadGIF(path)
}

// LoadGIF opens and decodes the GIF at path with [DecodeGIF].
func LoadGIF(path string) ([]image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	defer closeFile(f)

	frames, err := DecodeGIF(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("decoded gif",
		slog.String("path", path),
		slog.Int("frames", len(frames)),
	)

	return frames, nil
}

// DecodeGIF decodes every frame of an animated GIF.
//
// GIF frames are deltas drawn over a shared canvas, so each returned frame is
// the full logical screen after that frame is drawn. Disposal methods are
// honored between frames.
func DecodeGIF(r io.Reader) ([]image.Image, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		for _, p := range g.Image {
			bounds = bounds.Union(p.Bounds())
		}
	}

	canvas := image.NewRGBA(bounds)
	out := make([]image.Image, 0, len(g.Image))

	for i, p := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var previous *image.RGBA
		if disposal == gif.DisposalPrevious {
			previous = clone(canvas)
		}

		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)
		out = append(out, clone(canvas))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}

	return out, nil
}

// LoadDir reads and decodes all PNG images from a directory, sorted by
// filename. An empty directory yields no frames and no error.
func LoadDir(dir string) ([]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading directory: %w", ErrDecodeFailure, err)
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if strings.HasSuffix(strings.ToLower(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}

	slices.Sort(names)

	frames := make([]image.Image, 0, len(names))

	for _, name := range names {
		img, err := decodePNG(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding %s: %w", ErrDecodeFailure, name, err)
		}

		frames = append(frames, img)
	}

	slog.Debug("loaded frame directory",
		slog.String("path", dir),
		slog.Int("frames", len(frames)),
	)

	return frames, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer closeFile(f)

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}

	return img, nil
}

func clone(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)

	return dst
}

func closeFile(f *os.File) {
	err := f.Close()
	if err != nil {
		slog.Warn("close file", slog.String("path", f.Name()), slog.Any("error", err))
	}
}
