package cli

import (
	"io"
	"log/slog"
)

// setupLogging installs the default slog logger. Logs go to w (stderr) so
// they never mix with command output; --verbose lowers the level to debug.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
