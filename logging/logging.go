// Package logging builds the logger of a test run.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"

	"github.com/networkteam/shopcheck/artifact"
)

type Options struct {
	// Console receives records at ConsoleLevel and above. Default: os.Stderr
	Console      io.Writer
	ConsoleLevel slog.Level
	// Store receives all records from debug level in logs/test_<YYYYMMDD>.log.
	// Nil disables the log file.
	Store *artifact.Store
	// Extra handlers, e.g. a per session collector.
	Handlers []slog.Handler
	Now      func() time.Time
}

// Logger fans records out to the console, the daily log file and extra handlers.
type Logger struct {
	*slog.Logger
	file io.Closer
}

// New creates the logger. The log file is kept open until Close.
func New(opts Options) (*Logger, error) {
	if opts.Console == nil {
		opts.Console = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(opts.Console, &slog.HandlerOptions{Level: opts.ConsoleLevel}),
	}
	var file io.Closer
	if opts.Store != nil {
		f, err := opts.Store.OpenLog(opts.Now())
		if err != nil {
			return nil, err
		}
		file = f
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	}
	handlers = append(handlers, opts.Handlers...)

	return &Logger{
		Logger: slog.New(slogmulti.Fanout(handlers...)),
		file:   file,
	}, nil
}

// Tee returns a logger writing to the handler of l and to h.
func Tee(l *slog.Logger, h slog.Handler) *slog.Logger {
	return slog.New(slogmulti.Fanout(l.Handler(), h))
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a logger dropping every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

var separator = strings.Repeat("=", 80)

func TestStart(logger *slog.Logger, name string) {
	logger.Info(separator)
	logger.Info("STARTING TEST: " + name)
	logger.Info(separator)
}

func TestEnd(logger *slog.Logger, name, status string) {
	logger.Info(separator)
	logger.Info("TEST " + status + ": " + name)
	logger.Info(separator)
}
