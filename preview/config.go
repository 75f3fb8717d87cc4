package preview

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"go.jacobcolvin.com/vidtoss/pipeline"
	"go.jacobcolvin.com/vidtoss/sheet"
)

// DefaultFPS is the default playback rate.
const DefaultFPS = 10

// Flags holds CLI flag names for preview configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	TileSize string
	Frames   string
	Info     string
	FPS      string
	Width    string
	Loop     string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for terminal preview.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewPlayer] to create a [Player].
type Config struct {
	Flags    Flags
	Info     string
	TileSize []int
	Frames   int
	FPS      int
	Width    int
	Loop     bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		TileSize: "tile-size",
		Frames:   "frames",
		Info:     "info",
		FPS:      "fps",
		Width:    "width",
		Loop:     "loop",
	}

	return f.NewConfig()
}

// RegisterFlags adds preview flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.IntSliceVarP(&c.TileSize, c.Flags.TileSize, "t",
		[]int{sheet.DefaultTileSize.Width, sheet.DefaultTileSize.Height},
		"tile width and height in pixels (ignored with --info)")
	flags.IntVarP(&c.Frames, c.Flags.Frames, "n", 0,
		"number of frames in the sheet (0 = every cell; ignored with --info)")
	flags.StringVarP(&c.Info, c.Flags.Info, "i", "",
		"geometry sidecar written by --info-out")
	flags.IntVarP(&c.FPS, c.Flags.FPS, "f", DefaultFPS, "playback rate")
	flags.IntVarP(&c.Width, c.Flags.Width, "w", 0,
		"render width in columns (0 = terminal width)")
	flags.BoolVarP(&c.Loop, c.Flags.Loop, "l", false, "loop playback")
}

// RegisterCompletions registers shell completions for preview flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.TileSize, c.Flags.Frames, c.Flags.FPS, c.Flags.Width} {
		err := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.Info,
		cobra.FixedCompletions([]string{"yaml", "yml", "json"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Info, err)
	}

	return nil
}

// Layout returns the geometry of img, read from the sidecar when one is
// configured and derived from the tile size otherwise.
func (c *Config) Layout(img image.Image) (sheet.Result, error) {
	if c.Info != "" {
		return pipeline.ReadInfo(c.Info)
	}

	sc := sheet.NewConfig()
	sc.Flags.TileSize = c.Flags.TileSize
	sc.TileSize = c.TileSize

	tile, err := sc.Tile()
	if err != nil {
		return sheet.Result{}, err
	}

	return Layout(img.Bounds(), tile, c.Frames)
}

// NewPlayer loads the sheet at path and creates a [Player] for it. When no
// width is configured the terminal behind fd is measured.
func (c *Config) NewPlayer(path string, fd int) (*Player, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}

	r, err := c.Layout(img)
	if err != nil {
		return nil, err
	}

	tiles, err := Tiles(img, r)
	if err != nil {
		return nil, err
	}

	cols, rows := c.Width, 0

	if cols <= 0 {
		cols, rows, err = term.GetSize(fd)
		if err != nil {
			return nil, fmt.Errorf("measuring terminal (use --%s): %w", c.Flags.Width, err)
		}
	} else {
		// Two pixels per cell vertically.
		rows = max(cols*r.TileHeight/r.TileWidth/2, 1)
	}

	return NewPlayer(tiles, Options{FPS: c.FPS, Cols: cols, Rows: rows, Loop: c.Loop})
}
