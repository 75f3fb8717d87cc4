package sheet_test

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"go.jacobcolvin.com/vidtoss/sheet"
)

func testSheet(t *testing.T) *sheet.Sheet {
	t.Helper()

	s, err := sheet.NewAssembler(
		sheet.WithTileSize(sheet.TileSize{Width: 12, Height: 10}),
		sheet.WithColumns(3),
	).Assemble(solidFrames(5, 24, 20))
	require.NoError(t, err)

	return s
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		path        string
		want        sheet.Format
		expectError bool
	}{
		"png":          {path: "out/sheet.png", want: sheet.FormatPNG},
		"upper png":    {path: "SHEET.PNG", want: sheet.FormatPNG},
		"no extension": {path: "sheet", want: sheet.FormatPNG},
		"bmp":          {path: "sheet.bmp", want: sheet.FormatBMP},
		"tif":          {path: "sheet.tif", want: sheet.FormatTIFF},
		"tiff":         {path: "sheet.tiff", want: sheet.FormatTIFF},
		"jpeg":         {path: "sheet.jpg", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := sheet.FormatFromPath(tc.path)
			if tc.expectError {
				require.ErrorIs(t, err, sheet.ErrPersistFailure)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSheetSave(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		decode func(*bytes.Reader) (image.Image, error)
		name   string
	}{
		"png": {
			name:   "sheet.png",
			decode: func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		},
		"bmp": {
			name:   "sheet.bmp",
			decode: func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		},
		"tiff": {
			name:   "sheet.tiff",
			decode: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := testSheet(t)
			dir := t.TempDir()
			path := filepath.Join(dir, tc.name)

			require.NoError(t, s.Save(path))

			data, err := os.ReadFile(path)
			require.NoError(t, err)

			img, err := tc.decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, s.Image.Bounds(), img.Bounds())

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temporary files should not be left behind")
		})
	}
}

func TestSheetSavePNGRoundTrip(t *testing.T) {
	t.Parallel()

	s := testSheet(t)
	path := filepath.Join(t.TempDir(), "sheet.png")

	require.NoError(t, s.Save(path))

	f, err := os.Open(path)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, f.Close()) })

	img, err := png.Decode(f)
	require.NoError(t, err)

	for _, p := range []image.Point{{6, 5}, {18, 15}, {30, 5}} {
		want := s.Image.RGBAAt(p.X, p.Y)
		r, g, b, a := img.At(p.X, p.Y).RGBA()
		assert.Equal(t, []uint32{uint32(want.R), uint32(want.G), uint32(want.B), uint32(want.A)},
			[]uint32{r >> 8, g >> 8, b >> 8, a >> 8}, "pixel %v", p)
	}
}

func TestSheetSaveFailures(t *testing.T) {
	t.Parallel()

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		err := testSheet(t).Save(filepath.Join(dir, "sheet.gif"))
		require.ErrorIs(t, err, sheet.ErrPersistFailure)

		entries, readErr := os.ReadDir(dir)
		require.NoError(t, readErr)
		assert.Empty(t, entries)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		err := testSheet(t).Save(filepath.Join(t.TempDir(), "missing", "sheet.png"))
		require.ErrorIs(t, err, sheet.ErrPersistFailure)
	})

	t.Run("encode unknown format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := testSheet(t).Encode(&buf, sheet.Format("webp"))
		require.ErrorIs(t, err, sheet.ErrPersistFailure)
		assert.Zero(t, buf.Len())
	})
}
