// Package xlog provides the router's structured logging convention: one
// logger per subsystem, tagged by package name, writing colorized text to
// an interactive terminal and plain text (optionally rotated) to a file.
//
// This mirrors go-ethereum's own log package composition: a slog.Logger
// fronted by a handler that detects whether stderr is a terminal
// (mattn/go-isatty), colorizes level tags when it is (fatih/color,
// mattn/go-colorable for Windows-safe ANSI), and can additionally fan out
// to a size-rotated file (gopkg.in/natefinch/lumberjack.v2).
package xlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	levelColors = map[slog.Level]*color.Color{
		slog.LevelDebug: color.New(color.FgCyan),
		slog.LevelInfo:  color.New(color.FgGreen),
		slog.LevelWarn:  color.New(color.FgYellow),
		slog.LevelError: color.New(color.FgRed, color.Bold),
	}

	rootMu     sync.Mutex
	rootOutput io.Writer = consoleWriter()
	rootLevel  slog.Leveler = slog.LevelInfo
)

func consoleWriter() io.Writer {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return colorable.NewColorableStderr()
	}
	return os.Stderr
}

// SetOutputFile redirects all future loggers to also write to a
// size-rotated file at path, in addition to the console.
func SetOutputFile(path string, maxSizeMB, maxBackups int) {
	rootMu.Lock()
	defer rootMu.Unlock()
	rootOutput = io.MultiWriter(consoleWriter(), &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	})
}

// SetLevel adjusts the minimum level logged by every logger created after
// the call. Loggers created earlier keep the level they were built with.
func SetLevel(level slog.Level) {
	rootMu.Lock()
	defer rootMu.Unlock()
	rootLevel = level
}

// Logger is the router's narrow logging surface: leveled methods taking a
// message plus alternating key/value pairs, matching go-ethereum's
// `log.Logger` call convention.
type Logger struct {
	inner *slog.Logger
}

// New returns a logger tagged with subsystem (e.g. "dmp", "ump", "hrmp"),
// carrying subsystem as a "pkg" attribute on every record it emits.
func New(subsystem string) Logger {
	rootMu.Lock()
	out, lvl := rootOutput, rootLevel
	rootMu.Unlock()

	h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})
	return Logger{inner: slog.New(h).With("pkg", subsystem)}
}

// With returns a derived logger carrying additional fixed key/value pairs.
func (l Logger) With(args ...any) Logger {
	return Logger{inner: l.inner.With(args...)}
}

func (l Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }
func (l Logger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args...) }
func (l Logger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args...) }
func (l Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

func (l Logger) log(level slog.Level, msg string, args ...any) {
	if c, ok := levelColors[level]; ok && isatty.IsTerminal(os.Stderr.Fd()) {
		msg = c.Sprint(msg)
	}
	l.inner.Log(context.Background(), level, msg, args...)
}

// Fields formats a key/value pair list for inclusion in a panic/error
// message outside the logger itself (e.g. in a wrapped error).
func Fields(args ...any) string {
	s := ""
	for i := 0; i+1 < len(args); i += 2 {
		s += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	return s
}
