package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// setupLogging installs the default slog logger. path "-" logs to stderr;
// anything else is appended to. The returned func closes the file.
func setupLogging(path, level string) (func(), error) {
	ll := &slog.LevelVar{}
	if err := ll.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	var (
		out     io.Writer
		noColor bool
		closeFn = func() {}
	)
	if path == "-" {
		out = colorable.NewColorable(os.Stderr)
		noColor = !isatty.IsTerminal(os.Stderr.Fd())
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		noColor = true
		closeFn = func() { _ = f.Close() }
	}

	slog.SetDefault(slog.New(newHandler(out, ll, noColor)))
	return closeFn, nil
}

func newHandler(w io.Writer, level slog.Leveler, noColor bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:       level,
		TimeFormat:  "15:04:05.000",
		NoColor:     noColor,
		ReplaceAttr: dropEmpty,
	})
}

// dropEmpty removes attributes holding zero values.
func dropEmpty(_ []string, a slog.Attr) slog.Attr {
	skip := false
	switch t := a.Value.Any().(type) {
	case string:
		skip = t == ""
	case time.Time:
		skip = t.IsZero()
	case time.Duration:
		skip = t == 0
	case []string:
		skip = len(t) == 0
	case nil:
		skip = true
	}
	if skip {
		return slog.Attr{}
	}
	return a
}
