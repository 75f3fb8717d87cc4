// Package pipeline runs a complete conversion: it obtains frames from a
// video, GIF or PNG directory, assembles them into a sprite-sheet, and writes
// the optional geometry sidecar and animation script.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/vidtoss/animscript"
	"go.jacobcolvin.com/vidtoss/frames"
	"go.jacobcolvin.com/vidtoss/manifest"
	"go.jacobcolvin.com/vidtoss/sheet"
	"go.jacobcolvin.com/vidtoss/transcode"
)

// Sentinel errors returned by [Run].
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrWriteOutput  = errors.New("write output")
)

// DefaultScriptID is the Lua identifier used when a script is requested
// without one.
const DefaultScriptID = "anim"

// Options configures a single conversion.
type Options struct {
	Assembler  *sheet.Assembler
	Transcoder *transcode.Transcoder
	// Input is a video file, an animated GIF, or a directory of PNG frames.
	Input string
	// Output is the sprite-sheet path; its extension selects the format.
	Output string
	// InfoPath, if set, receives the sheet geometry as YAML, or JSON when
	// it ends in .json.
	InfoPath string
	// ScriptPath, if set, receives a Lua animation driver for ScriptID.
	ScriptPath string
	ScriptID   string
	// KeepTemp retains the intermediate GIF of a video input.
	KeepTemp bool
}

// Run performs the conversion described by opts and returns the sheet
// geometry. The intermediate GIF, if any, is removed before Run returns
// unless opts.KeepTemp is set.
//
// The sidecar and script are encoded before the sheet is saved. If writing
// any output fails, the files already written by Run are removed again.
func Run(ctx context.Context, opts Options) (sheet.Result, error) {
	if opts.Input == "" || opts.Output == "" {
		return sheet.Result{}, fmt.Errorf("%w: input and output are required", ErrInvalidInput)
	}

	asm := opts.Assembler
	if asm == nil {
		asm = sheet.NewAssembler()
	}

	tr := opts.Transcoder
	if tr == nil {
		tr = transcode.NewTranscoder()
	}

	imgs, err := LoadFrames(ctx, opts.Input, tr, opts.KeepTemp)
	if err != nil {
		return sheet.Result{}, fmt.Errorf("loading frames: %w", err)
	}

	s, err := asm.Assemble(imgs)
	if err != nil {
		return sheet.Result{}, fmt.Errorf("creating sprite-sheet: %w", err)
	}

	res := s.Result

	var outputs []output

	if opts.InfoPath != "" {
		data, err := encodeInfo(opts.InfoPath, res)
		if err != nil {
			return sheet.Result{}, err
		}

		outputs = append(outputs, output{path: opts.InfoPath, data: data})
	}

	if opts.ScriptPath != "" {
		id := opts.ScriptID
		if id == "" {
			id = DefaultScriptID
		}

		data, err := renderScript(opts.ScriptPath, animscript.ParamsFromResult(id, res, tr.FPS))
		if err != nil {
			return sheet.Result{}, err
		}

		outputs = append(outputs, output{path: opts.ScriptPath, data: data})
	}

	err = s.Save(opts.Output)
	if err != nil {
		return sheet.Result{}, fmt.Errorf("creating sprite-sheet: %w", err)
	}

	slog.Debug("wrote sprite-sheet",
		slog.String("path", opts.Output),
		slog.Int("rows", res.Rows),
		slog.Int("columns", res.Columns),
		slog.Int("frames", res.FramesWritten),
	)

	written := []string{opts.Output}

	for _, o := range outputs {
		err = writeFile(o.path, o.data)
		if err != nil {
			removeAll(written)

			return sheet.Result{}, err
		}

		written = append(written, o.path)
	}

	return res, nil
}

// output is a side file encoded ahead of saving the sheet.
type output struct {
	path string
	data []byte
}

func removeAll(paths []string) {
	for _, path := range paths {
		err := os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			slog.Warn("remove output", slog.String("path", path), slog.Any("error", err))
		}
	}
}

// LoadFrames decodes the frames of input. Directories and .gif files are
// decoded directly; anything else is treated as a video and converted with
// tr into a temporary GIF first.
func LoadFrames(ctx context.Context, input string, tr *transcode.Transcoder, keepTemp bool) ([]image.Image, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if info.IsDir() {
		return frames.LoadDir(input)
	}

	if strings.EqualFold(filepath.Ext(input), ".gif") {
		return frames.LoadGIF(input)
	}

	tmp, err := transcode.NewTempFile("vidtoss-*.gif", keepTemp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transcode.ErrTranscodeFailure, err)
	}

	defer func() {
		relErr := tmp.Release()
		if relErr != nil {
			slog.Warn("release temporary file", slog.Any("error", relErr))
		}
	}()

	err = tr.ToGIF(ctx, input, tmp.Path())
	if err != nil {
		return nil, err
	}

	return frames.LoadGIF(tmp.Path())
}

// WriteInfo writes r to path as YAML, or as JSON when path ends in .json.
func WriteInfo(path string, r sheet.Result) error {
	data, err := encodeInfo(path, r)
	if err != nil {
		return err
	}

	return writeFile(path, data)
}

func encodeInfo(path string, r sheet.Result) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(r, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(r)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: encoding %s: %w", ErrWriteOutput, path, err)
	}

	return data, nil
}

// ReadInfo reads a geometry sidecar written by [WriteInfo].
func ReadInfo(path string) (sheet.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sheet.Result{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var r sheet.Result

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &r)
	} else {
		err = yaml.Unmarshal(data, &r)
	}

	if err != nil {
		return sheet.Result{}, fmt.Errorf("%w: %s: %w", ErrInvalidInput, path, err)
	}

	return r, nil
}

// WriteScript renders the Lua animation driver for p to path.
func WriteScript(path string, p animscript.Params) error {
	data, err := renderScript(path, p)
	if err != nil {
		return err
	}

	return writeFile(path, data)
}

func renderScript(path string, p animscript.Params) ([]byte, error) {
	s, err := animscript.String(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}

	return []byte(s), nil
}

func writeFile(path string, data []byte) error {
	//nolint:gosec // Generated files are meant to be readable.
	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	slog.Debug("wrote file", slog.String("path", path))

	return nil
}

// FromJob builds [Options] for a manifest job with defaults already applied.
func FromJob(job manifest.Job) (Options, error) {
	sc := sheet.NewConfig()
	sc.TileSize = job.TileSize
	sc.Columns = job.Columns
	sc.MaxFrames = job.MaxFrames
	sc.Resampler = job.Resampler

	if job.ZeroBased != nil {
		sc.ZeroBased = *job.ZeroBased
	}

	tc := transcode.NewConfig()
	tc.FPS = job.FPS
	tc.Scale = job.Scale

	if tc.FPS == 0 {
		tc.FPS = transcode.DefaultFPS
	}

	tr, err := tc.NewTranscoder()
	if err != nil {
		return Options{}, err
	}

	asm, err := sc.NewAssembler(tr.FPS)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Assembler:  asm,
		Transcoder: tr,
		Input:      job.Input,
		Output:     job.Output,
		InfoPath:   job.Info,
	}

	if job.Script != nil {
		opts.ScriptPath = job.Script.Output
		opts.ScriptID = job.Script.ID
	}

	return opts, nil
}

// RunBatch runs every job of m in order. A failing job does not stop the
// batch; all failures are returned joined.
func RunBatch(ctx context.Context, m *manifest.Manifest, ffmpeg string, keepTemp bool) error {
	var errs []error

	for i, job := range m.Resolved() {
		err := ctx.Err()
		if err != nil {
			errs = append(errs, err)

			break
		}

		opts, err := FromJob(job)
		if err != nil {
			errs = append(errs, fmt.Errorf("job %d: %w", i, err))

			continue
		}

		if ffmpeg != "" {
			opts.Transcoder.Binary = ffmpeg
		}

		opts.KeepTemp = keepTemp

		res, err := Run(ctx, opts)
		if err != nil {
			slog.Warn("job failed",
				slog.Int("job", i),
				slog.String("input", job.Input),
				slog.Any("error", err),
			)

			errs = append(errs, fmt.Errorf("job %d (%s): %w", i, job.Input, err))

			continue
		}

		slog.Info("job complete",
			slog.Int("job", i),
			slog.String("output", job.Output),
			slog.Int("frames", res.FramesWritten),
		)
	}

	return errors.Join(errs...)
}
