package infra_logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/humanbelnik/kinoreview/internal/config"
	"github.com/mattn/go-isatty"
)

// Setup installs the process-wide logger. Format "auto" writes text to an
// interactive terminal and JSON everywhere else.
func Setup(cfg config.Log) (*slog.Logger, error) {
	logger, err := New(os.Stdout, cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

func New(w io.Writer, cfg config.Log) (*slog.Logger, error) {
	level := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format == "" || format == "auto" {
		format = "json"
		if isTerminal(w) {
			format = "text"
		}
	}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", cfg.Format)
	}
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
