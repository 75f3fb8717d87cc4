package transcode

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for transcoding configuration, allowing callers
// to customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	FPS      string
	Scale    string
	KeepTemp string
	FFmpeg   string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for transcoding.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewTranscoder] to create a
// [Transcoder].
type Config struct {
	Flags    Flags
	FFmpeg   string
	Scale    []int
	FPS      int
	KeepTemp bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		FPS:      "fps",
		Scale:    "scale",
		KeepTemp: "keep-temp",
		FFmpeg:   "ffmpeg",
	}

	return f.NewConfig()
}

// RegisterFlags adds transcoding flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.IntVarP(&c.FPS, c.Flags.FPS, "f", DefaultFPS,
		"frame rate of the intermediate animation")
	flags.IntSliceVarP(&c.Scale, c.Flags.Scale, "s",
		[]int{DefaultScale.Width, DefaultScale.Height},
		"intermediate width and height in pixels (negative = keep aspect ratio)")
	flags.BoolVarP(&c.KeepTemp, c.Flags.KeepTemp, "k", false,
		"keep the temporary GIF used during conversion")
	flags.StringVar(&c.FFmpeg, c.Flags.FFmpeg, DefaultBinary,
		"ffmpeg executable")
}

// RegisterCompletions registers shell completions for transcoding flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.FPS, c.Flags.Scale} {
		err := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// NewTranscoder creates a [Transcoder] from this [Config].
func (c *Config) NewTranscoder() (*Transcoder, error) {
	t := NewTranscoder()

	if c.FFmpeg != "" {
		t.Binary = c.FFmpeg
	}

	if c.FPS <= 0 {
		return nil, fmt.Errorf("%w: --%s must be positive, got %d", ErrInvalidOption, c.Flags.FPS, c.FPS)
	}

	t.FPS = c.FPS

	switch len(c.Scale) {
	case 0:
	case 2:
		t.Scale = Scale{Width: c.Scale[0], Height: c.Scale[1]}
	default:
		return nil, fmt.Errorf("%w: --%s takes two values, got %d", ErrInvalidOption, c.Flags.Scale, len(c.Scale))
	}

	return t, nil
}
