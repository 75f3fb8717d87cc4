package sheet

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
)

// Sentinel errors returned by the assembler.
var (
	ErrInvalidLayout  = errors.New("invalid layout")
	ErrInvalidFrame   = errors.New("invalid frame")
	ErrEmptySequence  = errors.New("empty frame sequence")
	ErrPersistFailure = errors.New("persist sprite-sheet")
	ErrInvalidOption  = errors.New("invalid option")
)

// DefaultFPS is the frame rate columns are derived from when neither a column
// count nor a frame rate is given.
const DefaultFPS = 10

// Result summarizes an assembled sheet.
type Result struct {
	Rows          int  `json:"rows"          yaml:"rows"`
	Columns       int  `json:"columns"       yaml:"columns"`
	LastFrameX    int  `json:"lastFrameX"    yaml:"lastFrameX"`
	LastFrameY    int  `json:"lastFrameY"    yaml:"lastFrameY"`
	FramesWritten int  `json:"framesWritten" yaml:"framesWritten"`
	TileWidth     int  `json:"tileWidth"     yaml:"tileWidth"`
	TileHeight    int  `json:"tileHeight"    yaml:"tileHeight"`
	ZeroBased     bool `json:"zeroBased"     yaml:"zeroBased"`
}

// Grid returns the grid described by r.
func (r Result) Grid() Grid {
	return Grid{Columns: r.Columns, Rows: r.Rows}
}

// TileSize returns the tile size described by r.
func (r Result) TileSize() TileSize {
	return TileSize{Width: r.TileWidth, Height: r.TileHeight}
}

// Sheet is an assembled sprite-sheet raster and its geometry.
type Sheet struct {
	Image  *image.RGBA
	Result Result
}

// Assembler composites frame sequences into sprite-sheets.
//
// Create instances with [NewAssembler].
type Assembler struct {
	resampler Resampler
	tile      TileSize
	columns   int
	maxFrames int
	zeroBased bool
}

// Option configures an [Assembler].
type Option func(*Assembler)

// NewAssembler creates an [Assembler] with the given options. Without
// options it uses [DefaultTileSize], [DefaultColumns] of [DefaultFPS], no
// frame cap, one-based coordinates, and Lanczos resampling.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		resampler: ResamplerLanczos,
		tile:      DefaultTileSize,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// WithTileSize sets the size of every tile.
func WithTileSize(t TileSize) Option {
	return func(a *Assembler) {
		a.tile = t
	}
}

// WithColumns sets the column count. Zero selects [DefaultColumns] of
// [DefaultFPS]; negative values fail with [ErrInvalidLayout] on assembly.
func WithColumns(n int) Option {
	return func(a *Assembler) {
		a.columns = n
	}
}

// WithMaxFrames caps the number of frames composited. Zero or less disables
// the cap.
func WithMaxFrames(n int) Option {
	return func(a *Assembler) {
		a.maxFrames = n
	}
}

// WithZeroBased reports the last-frame position zero-based.
func WithZeroBased(zeroBased bool) Option {
	return func(a *Assembler) {
		a.zeroBased = zeroBased
	}
}

// WithResampler sets the scaling filter.
func WithResampler(r Resampler) Option {
	return func(a *Assembler) {
		a.resampler = r
	}
}

// Assemble composites frames, in order, into a new sheet.
//
// The raster is sized for every frame in the sequence even when a frame cap
// stops compositing early. Any error aborts the whole assembly.
func (a *Assembler) Assemble(frames []image.Image) (*Sheet, error) {
	if len(frames) == 0 {
		return nil, ErrEmptySequence
	}

	err := a.tile.Validate()
	if err != nil {
		return nil, err
	}

	columns := a.columns
	if columns == 0 {
		columns = DefaultColumns(DefaultFPS)
	}

	grid, err := NewGrid(len(frames), columns)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(grid.Bounds(a.tile))
	comp := NewCompositor(a.resampler)

	slog.Debug("allocated sprite-sheet",
		slog.Int("frames", len(frames)),
		slog.Int("columns", grid.Columns),
		slog.Int("rows", grid.Rows),
		slog.String("tile", a.tile.String()),
		slog.String("resampler", string(a.resampler)),
	)

	written := 0

	for i, frame := range frames {
		err := comp.DrawTile(img, frame, grid.TileOffset(i, a.tile), a.tile)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}

		written = saturatingInc(written)

		if a.maxFrames > 0 && written >= a.maxFrames {
			slog.Debug("frame cap reached",
				slog.Int("max_frames", a.maxFrames),
				slog.Int("remaining", len(frames)-written),
			)

			break
		}
	}

	pos, err := LocateLastFrame(grid, written, a.zeroBased)
	if err != nil {
		return nil, err
	}

	return &Sheet{
		Image: img,
		Result: Result{
			Rows:          grid.Rows,
			Columns:       grid.Columns,
			LastFrameX:    pos.X,
			LastFrameY:    pos.Y,
			FramesWritten: written,
			TileWidth:     a.tile.Width,
			TileHeight:    a.tile.Height,
			ZeroBased:     a.zeroBased,
		},
	}, nil
}

// Create assembles frames and saves the sheet to path. Nothing is written
// when assembly fails.
func (a *Assembler) Create(frames []image.Image, path string) (Result, error) {
	s, err := a.Assemble(frames)
	if err != nil {
		return Result{}, err
	}

	err = s.Save(path)
	if err != nil {
		return Result{}, err
	}

	return s.Result, nil
}

func saturatingInc(n int) int {
	if n == math.MaxInt {
		return n
	}

	return n + 1
}
