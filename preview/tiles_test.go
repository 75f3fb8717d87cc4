package preview_test

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/vidtoss/preview"
	"go.jacobcolvin.com/vidtoss/sheet"
)

// numbered returns a cols x rows sheet of 2x2 tiles where tile i is filled
// with gray level i.
func numbered(cols, rows int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cols*2, rows*2))
	for y := range rows * 2 {
		for x := range cols * 2 {
			i := (y/2)*cols + x/2
			img.SetRGBA(x, y, color.RGBA{R: uint8(i), G: uint8(i), B: uint8(i), A: 255})
		}
	}

	return img
}

func TestTiles(t *testing.T) {
	t.Parallel()

	img := numbered(3, 2)

	tcs := map[string]struct {
		err    error
		result sheet.Result
		want   int
	}{
		"partial last row": {
			result: sheet.Result{Columns: 3, Rows: 2, FramesWritten: 4, TileWidth: 2, TileHeight: 2},
			want:   4,
		},
		"full grid": {
			result: sheet.Result{Columns: 3, Rows: 2, FramesWritten: 6, TileWidth: 2, TileHeight: 2},
			want:   6,
		},
		"frames beyond capacity are clamped": {
			result: sheet.Result{Columns: 3, Rows: 2, FramesWritten: 40, TileWidth: 2, TileHeight: 2},
			want:   6,
		},
		"grid larger than image": {
			result: sheet.Result{Columns: 4, Rows: 2, FramesWritten: 8, TileWidth: 2, TileHeight: 2},
			err:    preview.ErrInvalidSheet,
		},
		"no frames": {
			result: sheet.Result{Columns: 3, Rows: 2, TileWidth: 2, TileHeight: 2},
			err:    preview.ErrInvalidSheet,
		},
		"zero tile": {
			result: sheet.Result{Columns: 3, Rows: 2, FramesWritten: 1},
			err:    sheet.ErrInvalidLayout,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tiles, err := preview.Tiles(img, tc.result)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			require.Len(t, tiles, tc.want)

			for i, tile := range tiles {
				b := tile.Bounds()
				assert.Equal(t, 2, b.Dx())
				assert.Equal(t, 2, b.Dy())

				r, _, _, _ := tile.At(b.Min.X+1, b.Min.Y+1).RGBA()
				assert.Equal(t, uint32(i)*0x101, r, "tile %d", i)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err    error
		bounds image.Rectangle
		tile   sheet.TileSize
		frames int
		want   sheet.Result
	}{
		"every cell": {
			bounds: image.Rect(0, 0, 213, 190),
			tile:   sheet.DefaultTileSize,
			want: sheet.Result{
				Rows: 2, Columns: 3, LastFrameX: 3, LastFrameY: 2,
				FramesWritten: 6, TileWidth: 71, TileHeight: 95,
			},
		},
		"explicit frames": {
			bounds: image.Rect(0, 0, 30, 30),
			tile:   sheet.TileSize{Width: 10, Height: 10},
			frames: 7,
			want: sheet.Result{
				Rows: 3, Columns: 3, LastFrameX: 1, LastFrameY: 3,
				FramesWritten: 7, TileWidth: 10, TileHeight: 10,
			},
		},
		"image smaller than tile": {
			bounds: image.Rect(0, 0, 5, 5),
			tile:   sheet.TileSize{Width: 10, Height: 10},
			err:    preview.ErrInvalidSheet,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := preview.Layout(tc.bounds, tc.tile, tc.frames)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConfigNewPlayer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.png")

	s := &sheet.Sheet{Image: numbered(3, 2)}
	require.NoError(t, s.Save(path))

	cfg := preview.NewConfig()
	cfg.TileSize = []int{2, 2}
	cfg.Frames = 5
	cfg.FPS = 10
	cfg.Width = 8

	p, err := cfg.NewPlayer(path, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Index())

	cfg.Width = 0

	_, err = cfg.NewPlayer(path, -1)
	require.Error(t, err, "an invalid descriptor is not a terminal")

	_, err = cfg.NewPlayer(filepath.Join(dir, "missing.png"), -1)
	require.ErrorIs(t, err, preview.ErrInvalidSheet)
}
