package sheet

import (
	"fmt"
	"image"
	"math"
	"slices"

	"golang.org/x/image/draw"
)

// Resampler names the filter used to scale frames into tiles.
type Resampler string

const (
	// ResamplerLanczos uses a three-lobe Lanczos kernel.
	ResamplerLanczos Resampler = "lanczos"
	// ResamplerCatmullRom uses the Catmull-Rom cubic kernel.
	ResamplerCatmullRom Resampler = "catmullrom"
	// ResamplerBiLinear uses the tent kernel.
	ResamplerBiLinear Resampler = "bilinear"
	// ResamplerNearest uses nearest-neighbor sampling, for pixel art.
	ResamplerNearest Resampler = "nearest"
)

// Lanczos3 is a Lanczos kernel with a support of three pixels.
var Lanczos3 = &draw.Kernel{
	Support: 3,
	At: func(t float64) float64 {
		if t == 0 {
			return 1
		}

		x := math.Pi * t

		return 3 * math.Sin(x) * math.Sin(x/3) / (x * x)
	},
}

// GetAllResamplerStrings returns all supported resampler names.
func GetAllResamplerStrings() []string {
	return []string{
		string(ResamplerLanczos),
		string(ResamplerCatmullRom),
		string(ResamplerBiLinear),
		string(ResamplerNearest),
	}
}

// ParseResampler parses a resampler name. An empty string selects
// [ResamplerLanczos].
func ParseResampler(s string) (Resampler, error) {
	if s == "" {
		return ResamplerLanczos, nil
	}

	r := Resampler(s)
	if !slices.Contains(GetAllResamplerStrings(), s) {
		return "", fmt.Errorf("%w: unknown resampler %q", ErrInvalidOption, s)
	}

	return r, nil
}

// Scaler returns the [draw.Scaler] for r.
func (r Resampler) Scaler() draw.Scaler {
	switch r {
	case ResamplerCatmullRom:
		return draw.CatmullRom
	case ResamplerBiLinear:
		return draw.BiLinear
	case ResamplerNearest:
		return draw.NearestNeighbor
	}

	return Lanczos3
}

// FitTile returns the rectangle, relative to a tile's top-left corner, that a
// frame with bounds src occupies once scaled to fit the tile and centered.
//
// The scale factor is min(tile.Width/srcWidth, tile.Height/srcHeight). The
// binding axis spans the full tile and the other axis is truncated to whole
// pixels. Leftover pixels are split evenly with the odd pixel going to the
// bottom or right, so the frame biases toward the top-left.
func FitTile(src image.Rectangle, tile TileSize) (image.Rectangle, error) {
	err := tile.Validate()
	if err != nil {
		return image.Rectangle{}, err
	}

	fw, fh := src.Dx(), src.Dy()
	if fw <= 0 || fh <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: frame size %dx%d", ErrInvalidFrame, fw, fh)
	}

	var sw, sh int

	// tile.Width/fw <= tile.Height/fh, cross-multiplied to stay exact.
	if tile.Width*fh <= tile.Height*fw {
		sw = tile.Width
		sh = fh * tile.Width / fw
	} else {
		sw = fw * tile.Height / fh
		sh = tile.Height
	}

	cx := (tile.Width - sw) / 2
	cy := (tile.Height - sh) / 2

	return image.Rect(cx, cy, cx+sw, cy+sh), nil
}

// Compositor scales frames into tiles of an output raster.
type Compositor struct {
	scaler draw.Scaler
}

// NewCompositor creates a [Compositor] using the given resampler.
func NewCompositor(r Resampler) *Compositor {
	return &Compositor{scaler: r.Scaler()}
}

// DrawTile scales src to fit the tile whose top-left pixel is origin, centers
// it, and composites it over dst. Only pixels inside that tile are written.
func (c *Compositor) DrawTile(dst *image.RGBA, src image.Image, origin image.Point, tile TileSize) error {
	if src == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrame)
	}

	fit, err := FitTile(src.Bounds(), tile)
	if err != nil {
		return err
	}

	// Extreme aspect ratios can truncate one axis to zero pixels.
	if fit.Empty() {
		return nil
	}

	tileRect := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(tile.Width, tile.Height))}
	dr := fit.Add(origin).Intersect(tileRect)

	c.scaler.Scale(dst, dr, src, src.Bounds(), draw.Over, nil)

	return nil
}
