// Package logging installs the process-wide slog handler.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/lmittmann/tint"
)

type Config struct {
	Level  string // debug, info, warn or error
	Format string // text or json
	Output io.Writer
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// New builds a handler for cfg: tint for text, the slog JSON handler for json.
func New(cfg Config) (slog.Handler, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return tint.NewHandler(out, &tint.Options{
			Level:   lvl,
			NoColor: runtime.GOOS == "windows" || out != os.Stderr,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.Attr{}
				}
				return a
			},
		}), nil
	case "json":
		return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl}), nil
	}
	return nil, fmt.Errorf("unknown log format %q", cfg.Format)
}

// Setup makes the handler for cfg the slog default.
func Setup(cfg Config) error {
	h, err := New(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(h))
	return nil
}
