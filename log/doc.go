// Package log builds the [log/slog] handlers used by the vidtoss commands.
//
// Three output formats are supported: [FormatText] for people watching a
// terminal, and [FormatLogfmt] and [FormatJSON] for scripts that run
// conversions in bulk. Levels range from [LevelError] to [LevelDebug]; debug
// output includes the exact ffmpeg invocation and the computed grid.
//
// Typical usage registers flags on the root command and installs the handler
// before any work starts:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
package log
