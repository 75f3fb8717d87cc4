package preview

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"go.jacobcolvin.com/vidtoss/sheet"
)

// ErrInvalidSheet indicates a sprite-sheet that cannot be sliced into tiles.
var ErrInvalidSheet = errors.New("invalid sprite-sheet")

// Layout returns the geometry of a sheet with the given pixel bounds when
// only its tile size is known. Every cell is assumed to hold a frame unless
// frames is positive.
func Layout(bounds image.Rectangle, tile sheet.TileSize, frames int) (sheet.Result, error) {
	err := tile.Validate()
	if err != nil {
		return sheet.Result{}, err
	}

	g := sheet.Grid{Columns: bounds.Dx() / tile.Width, Rows: bounds.Dy() / tile.Height}
	if g.Capacity() == 0 {
		return sheet.Result{}, fmt.Errorf("%w: %dx%d image is smaller than one %s tile",
			ErrInvalidSheet, bounds.Dx(), bounds.Dy(), tile)
	}

	n := g.Capacity()
	if frames > 0 {
		n = min(frames, n)
	}

	pos, err := sheet.LocateLastFrame(g, n, false)
	if err != nil {
		return sheet.Result{}, err
	}

	return sheet.Result{
		Rows:          g.Rows,
		Columns:       g.Columns,
		LastFrameX:    pos.X,
		LastFrameY:    pos.Y,
		FramesWritten: n,
		TileWidth:     tile.Width,
		TileHeight:    tile.Height,
	}, nil
}

// Tiles slices img into the frames described by r, in row-major order. A
// frame count beyond the grid's capacity is clamped, since the sheet only
// holds the first Capacity frames.
func Tiles(img image.Image, r sheet.Result) ([]image.Image, error) {
	tile := r.TileSize()

	err := tile.Validate()
	if err != nil {
		return nil, err
	}

	g := r.Grid()
	if g.Capacity() <= 0 || r.FramesWritten <= 0 {
		return nil, fmt.Errorf("%w: %d frames in a %dx%d grid", ErrInvalidSheet, r.FramesWritten, g.Columns, g.Rows)
	}

	if !g.Bounds(tile).Add(img.Bounds().Min).In(img.Bounds()) {
		return nil, fmt.Errorf("%w: %dx%d grid of %s tiles exceeds %dx%d image", ErrInvalidSheet,
			g.Columns, g.Rows, tile, img.Bounds().Dx(), img.Bounds().Dy())
	}

	n := min(r.FramesWritten, g.Capacity())
	out := make([]image.Image, n)

	for i := range n {
		off := g.TileOffset(i, tile).Add(img.Bounds().Min)
		rect := image.Rect(off.X, off.Y, off.X+tile.Width, off.Y+tile.Height)
		out[i] = subImage(img, rect)
	}

	return out, nil
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	if s, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return s.SubImage(r)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := range r.Dy() {
		for x := range r.Dx() {
			dst.Set(x, y, img.At(r.Min.X+x, r.Min.Y+y))
		}
	}

	return dst
}

// LoadImage decodes a sprite-sheet written by [sheet.Sheet.Save].
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSheet, err)
	}

	defer func() { _ = f.Close() }()

	var img image.Image

	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		img, err = bmp.Decode(f)
	case ".tif", ".tiff":
		img, err = tiff.Decode(f)
	default:
		img, err = png.Decode(f)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSheet, path, err)
	}

	return img, nil
}
