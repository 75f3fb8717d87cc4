// Package transcode converts videos into animated GIFs with ffmpeg.
//
// The GIF is an intermediate artifact: it fixes the frame rate and resolution
// of the animation before the frames are laid out into a sprite-sheet. A
// two-pass palette filter keeps the 256-color GIF close to the source.
package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Sentinel errors returned by the transcoder.
var (
	// ErrTranscodeFailure indicates that ffmpeg is unavailable or exited with
	// a non-zero status.
	ErrTranscodeFailure = errors.New("transcode failure")
	// ErrInvalidOption indicates an invalid transcoding option.
	ErrInvalidOption = errors.New("invalid option")
)

const (
	// DefaultFPS is the frame rate of the intermediate animation.
	DefaultFPS = 10
	// DefaultBinary is the ffmpeg executable looked up in PATH.
	DefaultBinary = "ffmpeg"

	// Maximum bytes of ffmpeg stderr attached to errors.
	stderrTail = 2048
)

// Scale is the target resolution of the intermediate animation. A negative
// component keeps the source aspect ratio for that axis.
type Scale struct {
	Width  int
	Height int
}

// DefaultScale resizes to 320 pixels wide, preserving aspect ratio.
var DefaultScale = Scale{Width: 320, Height: -1}

// Transcoder runs ffmpeg to produce intermediate GIFs.
//
// Create instances with [NewTranscoder] or [Config.NewTranscoder].
type Transcoder struct {
	Binary string
	Scale  Scale
	FPS    int
}

// NewTranscoder creates a [Transcoder] with [DefaultBinary], [DefaultFPS]
// and [DefaultScale].
func NewTranscoder() *Transcoder {
	return &Transcoder{
		Binary: DefaultBinary,
		FPS:    DefaultFPS,
		Scale:  DefaultScale,
	}
}

// Filter returns the ffmpeg filter graph used for conversion.
func (t *Transcoder) Filter() string {
	return fmt.Sprintf(
		"fps=%d,scale=%d:%d:flags=lanczos,split[s0][s1];[s0]palettegen[p];[s1][p]paletteuse",
		t.FPS, t.Scale.Width, t.Scale.Height,
	)
}

// Args returns the ffmpeg arguments converting in to the GIF out.
func (t *Transcoder) Args(in, out string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", in,
		"-vf", t.Filter(),
		out,
	}
}

// ToGIF converts the video at in into an animated GIF at out. It blocks until
// ffmpeg exits. ffmpeg's stderr is attached to the returned error.
func (t *Transcoder) ToGIF(ctx context.Context, in, out string) error {
	if t.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrTranscodeFailure, t.FPS)
	}

	bin, err := exec.LookPath(t.Binary)
	if err != nil {
		return fmt.Errorf("%w: %s not found in PATH: install ffmpeg or pass a GIF or directory of PNG frames instead",
			ErrTranscodeFailure, t.Binary)
	}

	args := t.Args(in, out)

	slog.Debug("running ffmpeg",
		slog.String("binary", bin),
		slog.Any("args", args),
	)

	var stderr bytes.Buffer

	//nolint:gosec // in, out and the filter come from CLI arguments, not untrusted input.
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err != nil {
		msg := tail(stderr.String(), stderrTail)
		if msg != "" {
			return fmt.Errorf("%w: running %s: %w: %s", ErrTranscodeFailure, t.Binary, err, msg)
		}

		return fmt.Errorf("%w: running %s: %w", ErrTranscodeFailure, t.Binary, err)
	}

	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		s = s[len(s)-n:]
	}

	return s
}
