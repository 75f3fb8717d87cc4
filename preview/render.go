package preview

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"go.jacobcolvin.com/vidtoss/sheet"
)

// fitCells scales img to fit within cols x rows terminal cells, centered on
// black. Each cell holds two vertical pixels.
func fitCells(c *sheet.Compositor, img image.Image, cols, rows int) (*image.RGBA, error) {
	area := sheet.TileSize{Width: max(cols, 1), Height: max(rows*2, 1)}
	dst := image.NewRGBA(image.Rect(0, 0, area.Width, area.Height))

	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}

	err := c.DrawTile(dst, img, image.Point{}, area)
	if err != nil {
		return nil, err
	}

	return dst, nil
}

// renderCells writes img as rows of "▀" characters to w. The upper pixel of
// each cell is the foreground color and the lower pixel the background.
func renderCells(img *image.RGBA, w *strings.Builder) {
	w.Reset()

	b := img.Bounds()

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.RGBAAt(x, y)

			var bot color.RGBA
			if y+1 < b.Max.Y {
				bot = img.RGBAAt(x, y+1)
			}

			fmt.Fprintf(w, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm▀", top.R, top.G, top.B, bot.R, bot.G, bot.B)
		}

		w.WriteString("\033[0m\n")
	}
}
