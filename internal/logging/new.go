package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"

	FormatText = "text"
	FormatJSON = "json"
)

// Options select the logging backend.
type Options struct {
	Backend string
	Format  string
	Level   string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New builds a Logger from opts. Unknown levels fall back to info.
func New(opts Options) (Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(opts.Backend) {
	case "", BackendSlog:
		hopts := &slog.HandlerOptions{Level: slogLevel(opts.Level)}
		var h slog.Handler
		switch strings.ToLower(opts.Format) {
		case "", FormatText:
			h = slog.NewTextHandler(out, hopts)
		case FormatJSON:
			h = slog.NewJSONHandler(out, hopts)
		default:
			return nil, fmt.Errorf("unknown log format %q", opts.Format)
		}
		return NewSlogLogger(slog.New(h)), nil

	case BackendZap:
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		var enc zapcore.Encoder
		switch strings.ToLower(opts.Format) {
		case "", FormatText:
			enc = zapcore.NewConsoleEncoder(encCfg)
		case FormatJSON:
			enc = zapcore.NewJSONEncoder(encCfg)
		default:
			return nil, fmt.Errorf("unknown log format %q", opts.Format)
		}
		core := zapcore.NewCore(enc, zapcore.AddSync(out), zapLevel(opts.Level))
		return NewZapLogger(zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))), nil
	}

	return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.DiscardHandler))
}

func slogLevel(l string) slog.Level {
	switch strings.ToLower(l) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func zapLevel(l string) zapcore.Level {
	switch strings.ToLower(l) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
