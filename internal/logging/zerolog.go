package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger constructs a JSON logger for the given role label
// (e.g. "server", "client") writing to w. The role field makes it easy to
// filter logs from different components.
func NewZerologLogger(role string, w io.Writer) *ZerologLogger {
	l := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &ZerologLogger{l: l}
}

// NewServerLogger returns a logger writing JSON to stdout.
func NewServerLogger() *ZerologLogger {
	return NewZerologLogger("server", os.Stdout)
}

// NewClientLogger returns a logger writing to a log file next to the
// executable, so diagnostics do not interleave with the interactive prompt.
// Falls back to stderr if the file cannot be opened.
func NewClientLogger() *ZerologLogger {
	var w io.Writer = os.Stderr
	if execPath, err := os.Executable(); err == nil {
		logPath := filepath.Join(filepath.Dir(execPath), "timecapsule.log")
		if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
			w = f
		}
	}
	return NewZerologLogger("client", w)
}

func (z *ZerologLogger) log(e *zerolog.Event, msg string, args ...any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		e = e.Interface(key, args[i+1])
	}
	e.Msg(msg)
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.log(z.l.Debug(), msg, args...)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.log(z.l.Info(), msg, args...)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.log(z.l.Warn(), msg, args...)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.log(z.l.Error(), msg, args...)
}

func (z *ZerologLogger) With(args ...any) Logger {
	c := z.l.With()
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		c = c.Interface(key, args[i+1])
	}
	return &ZerologLogger{l: c.Logger()}
}
