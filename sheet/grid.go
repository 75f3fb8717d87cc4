package sheet

import (
	"fmt"
	"image"
)

// TileSize is the fixed pixel size of every tile in a sheet.
type TileSize struct {
	Width  int `json:"width"  yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// DefaultTileSize is used when no tile size is configured.
var DefaultTileSize = TileSize{Width: 71, Height: 95}

// Validate returns [ErrInvalidLayout] unless both dimensions are positive.
func (t TileSize) Validate() error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("%w: tile size %dx%d", ErrInvalidLayout, t.Width, t.Height)
	}

	return nil
}

// String returns the tile size as "WxH".
func (t TileSize) String() string {
	return fmt.Sprintf("%dx%d", t.Width, t.Height)
}

// Grid is the row and column layout of a sheet.
type Grid struct {
	Columns int
	Rows    int
}

// NewGrid derives the grid for frameCount frames spread over the given
// number of columns. Rows are computed with integer ceiling division so that
// Rows*Columns >= frameCount always holds.
func NewGrid(frameCount, columns int) (Grid, error) {
	if columns <= 0 {
		return Grid{}, fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidLayout, columns)
	}

	if frameCount <= 0 {
		return Grid{}, ErrEmptySequence
	}

	return Grid{
		Columns: columns,
		Rows:    (frameCount + columns - 1) / columns,
	}, nil
}

// DefaultColumns returns the column count used when none is given: one third
// of the frame rate, and never less than one.
func DefaultColumns(fps int) int {
	return max(fps/3, 1)
}

// Capacity returns the number of tiles in the grid.
func (g Grid) Capacity() int {
	return g.Columns * g.Rows
}

// Cell returns the (column, row) of flat index i.
func (g Grid) Cell(i int) image.Point {
	return image.Pt(i%g.Columns, i/g.Columns)
}

// TileOffset returns the top-left pixel of the tile for flat index i.
func (g Grid) TileOffset(i int, tile TileSize) image.Point {
	c := g.Cell(i)

	return image.Pt(c.X*tile.Width, c.Y*tile.Height)
}

// Bounds returns the pixel bounds of a raster holding every tile.
func (g Grid) Bounds(tile TileSize) image.Rectangle {
	return image.Rect(0, 0, tile.Width*g.Columns, tile.Height*g.Rows)
}

func (g Grid) validate() error {
	if g.Columns <= 0 || g.Rows <= 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidLayout, g.Columns, g.Rows)
	}

	return nil
}
