// Package log provides a small structured logging interface over [log/slog].
//
// A [Logger] is a value. Its zero value discards everything, which lets
// packages accept a Logger through an option without requiring callers to
// configure one:
//
//	var l log.Logger
//	l.Info("dropped") // no-op
//
// # Configuration
//
// [Make] creates a Logger from functional options applied over the package
// defaults:
//
//	l := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a Logger with some options changed, and
// [Logger.With] derives one that adds attributes to every record.
//
// # Levels
//
// In addition to the four levels of [log/slog], [LevelTrace] sits below
// [LevelDebug] for high-volume diagnostics such as per-declaration compiler
// tracing.
//
// # Formats
//
// [FormatText] writes one line per record. With [WithPretty] enabled (the
// default) the line is styled with lipgloss when the output is a terminal.
// [FormatJSON] writes one JSON object per record.
//
// # Package-Level Logger
//
// Functions such as [Info] and [ErrorContext] use a package-level Logger
// that writes to standard error. [Config] and [SetDefault] replace it.
package log
