// Command vidtoss converts a video into a sprite-sheet.
//
// The video is sampled into an intermediate animated GIF with ffmpeg, and
// every frame is scaled to fit a fixed tile size and laid out row by row.
// A GIF or a directory of PNG frames can be given instead of a video, in which
// case ffmpeg is not needed.
//
// # Usage
//
//	vidtoss [flags] <video|frame_dir|file.gif> <sheet.png>
//	vidtoss preview [flags] <sheet.png>
//	vidtoss batch <manifest.yaml>
//	vidtoss schema
//	vidtoss version
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/vidtoss/log"
	"go.jacobcolvin.com/vidtoss/manifest"
	"go.jacobcolvin.com/vidtoss/pipeline"
	"go.jacobcolvin.com/vidtoss/preview"
	"go.jacobcolvin.com/vidtoss/profile"
	"go.jacobcolvin.com/vidtoss/sheet"
	"go.jacobcolvin.com/vidtoss/transcode"
	"go.jacobcolvin.com/vidtoss/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)

	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := errors.Join(cmd.ExecuteContext(ctx), a.profiler.Stop())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return 1
	}

	return 0
}

type app struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	log       *log.Config
	prof      *profile.Config
	profiler  *profile.Profiler
	sheet     *sheet.Config
	transcode *transcode.Config
	preview   *preview.Config

	infoOut   string
	scriptOut string
	scriptID  string
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	a := &app{
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		log:       log.NewConfig(),
		prof:      profile.NewConfig(),
		sheet:     sheet.NewConfig(),
		transcode: transcode.NewConfig(),
		preview:   preview.NewConfig(),
	}

	// Replaced once flags are parsed; Stop on this one is a no-op.
	a.profiler = a.prof.NewProfiler()

	return a
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vidtoss [flags] <video|frame_dir|file.gif> <sheet.png>",
		Short: "Convert a video into a sprite-sheet",
		Long: `vidtoss samples a video into frames with ffmpeg, scales each frame to fit a
tile, and lays the tiles out row by row in a single image. The sheet format
follows the output extension: .png, .bmp, or .tif.

A directory of PNG frames or an animated GIF may be given instead of a video.`,
		Args:              cobra.ExactArgs(2),
		Version:           version.Short(),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd.Context(), args[0], args[1])
		},
	}

	a.log.RegisterFlags(cmd.PersistentFlags())
	a.prof.RegisterFlags(cmd.PersistentFlags())
	a.sheet.RegisterFlags(cmd.Flags())
	a.transcode.RegisterFlags(cmd.Flags())

	cmd.Flags().StringVar(&a.infoOut, "info-out", "",
		"write the sheet geometry to this file (.yaml or .json)")
	cmd.Flags().StringVar(&a.scriptOut, "script-out", "",
		"write a Lua animation driver to this file")
	cmd.Flags().StringVar(&a.scriptID, "script-id", pipeline.DefaultScriptID,
		"Lua identifier of the animated object")

	cmd.AddCommand(a.previewCmd(), a.batchCmd(), a.schemaCmd(), a.versionCmd())

	for _, reg := range []func(*cobra.Command) error{
		a.log.RegisterCompletions,
		a.prof.RegisterCompletions,
		a.sheet.RegisterCompletions,
		a.transcode.RegisterCompletions,
	} {
		err := reg(cmd)
		if err != nil {
			fmt.Fprintf(a.stderr, "register completions: %v\n", err)
		}
	}

	return cmd
}

func (a *app) setup(_ *cobra.Command, _ []string) error {
	handler, err := a.log.NewHandler(a.stderr)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))

	a.profiler = a.prof.NewProfiler()

	return a.profiler.Start()
}

func (a *app) convert(ctx context.Context, input, output string) error {
	tr, err := a.transcode.NewTranscoder()
	if err != nil {
		return err
	}

	asm, err := a.sheet.NewAssembler(tr.FPS)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(ctx, pipeline.Options{
		Assembler:  asm,
		Transcoder: tr,
		Input:      input,
		Output:     output,
		InfoPath:   a.infoOut,
		ScriptPath: a.scriptOut,
		ScriptID:   a.scriptID,
		KeepTemp:   a.transcode.KeepTemp,
	})
	if err != nil {
		return err
	}

	if a.log.Verbose {
		writeReport(a.stdout, res)
	} else {
		fmt.Fprintln(a.stdout, "Completed sprite-sheet generation!")
	}

	return nil
}

func writeReport(w io.Writer, r sheet.Result) {
	fmt.Fprintf(w, "Dimensions:\n - Rows ====> %d\n - Columns => %d\n - Frames ==> %d\n",
		r.Rows, r.Columns, r.FramesWritten)
	fmt.Fprintf(w, "Last frame is located at:\n - X =======> %d\n - Y =======> %d\n",
		r.LastFrameX, r.LastFrameY)
}

func (a *app) previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [flags] <sheet.png>",
		Short: "Play a sprite-sheet back in the terminal",
		Long: `preview slices a sprite-sheet into tiles and plays them back with ANSI
half-block characters. Pass the geometry sidecar written by --info-out, or
the tile size and frame count. Press q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.preview.NewPlayer(args[0], terminalFD(a.stdout))
			if err != nil {
				return err
			}

			return p.Run(cmd.Context(), a.stdin, a.stdout)
		},
	}

	a.preview.RegisterFlags(cmd.Flags())

	err := a.preview.RegisterCompletions(cmd)
	if err != nil {
		fmt.Fprintf(a.stderr, "register completions: %v\n", err)
	}

	return cmd
}

// terminalFD returns the file descriptor behind w, or -1 when w is not a
// file and so cannot be a terminal.
func terminalFD(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return -1
	}

	return int(f.Fd()) //nolint:gosec // Descriptors fit in an int.
}

func (a *app) batchCmd() *cobra.Command {
	var ffmpeg string

	var keepTemp bool

	cmd := &cobra.Command{
		Use:   "batch [flags] <manifest.yaml>",
		Short: "Convert every job in a manifest",
		Long: `batch runs each conversion listed in a YAML manifest. Failed jobs are
reported and do not stop the remaining ones. Run "vidtoss schema" for the
manifest format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			err = pipeline.RunBatch(cmd.Context(), m, ffmpeg, keepTemp)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Completed %d sprite-sheets!\n", len(m.Jobs))

			return nil
		},
	}

	cmd.Flags().StringVar(&ffmpeg, "ffmpeg", transcode.DefaultBinary, "ffmpeg executable")
	cmd.Flags().BoolVarP(&keepTemp, "keep-temp", "k", false,
		"keep the temporary GIFs used during conversion")

	return cmd
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of batch manifests",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := manifest.Schema()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding schema: %w", err)
			}

			out = append(out, '\n')

			_, err = a.stdout.Write(out)
			if err != nil {
				return fmt.Errorf("writing schema: %w", err)
			}

			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprint(a.stdout, version.String())
		},
	}
}
