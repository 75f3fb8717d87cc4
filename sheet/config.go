package sheet

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for sheet configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	TileSize  string
	Columns   string
	MaxFrames string
	ZeroBased string
	Resampler string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for sheet layout.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewAssembler] to create an [Assembler].
type Config struct {
	Flags     Flags
	Resampler string
	TileSize  []int
	Columns   int
	MaxFrames int
	ZeroBased bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		TileSize:  "tile-size",
		Columns:   "columns",
		MaxFrames: "max-frames",
		ZeroBased: "zero",
		Resampler: "resampler",
	}

	return f.NewConfig()
}

// RegisterFlags adds sheet layout flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.IntSliceVarP(&c.TileSize, c.Flags.TileSize, "t",
		[]int{DefaultTileSize.Width, DefaultTileSize.Height},
		"tile width and height in pixels")
	flags.IntVarP(&c.Columns, c.Flags.Columns, "c", 0,
		"number of columns (0 = fps/3, at least 1)")
	flags.IntVarP(&c.MaxFrames, c.Flags.MaxFrames, "m", 0,
		"maximum number of frames to composite (0 = all)")
	flags.BoolVarP(&c.ZeroBased, c.Flags.ZeroBased, "0", false,
		"report the last frame position zero-based")
	flags.StringVar(&c.Resampler, c.Flags.Resampler, string(ResamplerLanczos),
		fmt.Sprintf("scaling filter, one of: %s", GetAllResamplerStrings()))
}

// RegisterCompletions registers shell completions for sheet flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Resampler,
		cobra.FixedCompletions(GetAllResamplerStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Resampler, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.TileSize, c.Flags.Columns, c.Flags.MaxFrames} {
		regErr := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if regErr != nil {
			return fmt.Errorf("registering %s completion: %w", flag, regErr)
		}
	}

	return nil
}

// Tile returns the configured [TileSize].
func (c *Config) Tile() (TileSize, error) {
	if len(c.TileSize) == 0 {
		return DefaultTileSize, nil
	}

	if len(c.TileSize) != 2 {
		return TileSize{}, fmt.Errorf("%w: --%s takes two values, got %d",
			ErrInvalidOption, c.Flags.TileSize, len(c.TileSize))
	}

	t := TileSize{Width: c.TileSize[0], Height: c.TileSize[1]}

	err := t.Validate()
	if err != nil {
		return TileSize{}, err
	}

	return t, nil
}

// NewAssembler creates an [Assembler] from this [Config]. When no column
// count is configured, columns are derived from fps with [DefaultColumns].
func (c *Config) NewAssembler(fps int) (*Assembler, error) {
	tile, err := c.Tile()
	if err != nil {
		return nil, err
	}

	if c.Columns < 0 {
		return nil, fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidLayout, c.Columns)
	}

	if c.MaxFrames < 0 {
		return nil, fmt.Errorf("%w: --%s must not be negative", ErrInvalidOption, c.Flags.MaxFrames)
	}

	resampler, err := ParseResampler(c.Resampler)
	if err != nil {
		return nil, err
	}

	columns := c.Columns
	if columns == 0 {
		columns = DefaultColumns(fps)
	}

	return NewAssembler(
		WithTileSize(tile),
		WithColumns(columns),
		WithMaxFrames(c.MaxFrames),
		WithZeroBased(c.ZeroBased),
		WithResampler(resampler),
	), nil
}
