package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// Process-wide logger state. current is nil until Init or the first
// GetLogger call.
var (
	mu      sync.RWMutex
	current *slog.Logger
	logFile *os.File
)

// LogLevel represents logging verbosity
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// ParseLevel maps a case-insensitive level name to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch l := LogLevel(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	case "":
		return LevelWarn, nil
	default:
		return "", errors.Newf("unknown log level %q", s)
	}
}

// slogLevel maps l to its slog counterpart. Unknown levels mean WARN.
func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Config holds logger configuration
type Config struct {
	Level      LogLevel
	OutputPath string    // Empty for stderr, or file path
	Format     string    // "json" or "text"
	Writer     io.Writer // Overrides OutputPath when set
}

// Init installs the process-wide logger. It fails if a logger is already
// installed; call Close first to replace it.
//
//	logging.Init(logging.Config{
//	    Level:      logging.LevelInfo,
//	    OutputPath: "logs/toydbms.log",
//	    Format:     "json",
//	})
func Init(config Config) error {
	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		return errors.New("logger already initialized; call Close() first to reinitialize")
	}

	w, f, err := openWriter(config)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: config.Level.slogLevel()}
	if config.Format == "json" {
		current = slog.New(slog.NewJSONHandler(w, opts))
	} else {
		current = slog.New(slog.NewTextHandler(w, opts))
	}
	logFile = f
	return nil
}

// openWriter picks the destination of config. The returned file, if any, is
// owned by the logger and closed by Close.
func openWriter(config Config) (io.Writer, *os.File, error) {
	if config.Writer != nil {
		return config.Writer, nil, nil
	}
	if config.OutputPath == "" {
		return os.Stderr, nil, nil
	}

	dir := filepath.Dir(config.OutputPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, nil, errors.Wrapf(err, "creating log directory %s", dir)
	}
	f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening log file %s", config.OutputPath)
	}
	return f, f, nil
}

// Close uninstalls the logger and closes its log file. It is safe to call
// Close without a logger installed.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	current = nil
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return errors.Wrap(err, "closing log file")
}

// GetLogger returns the installed logger, installing a WARN text logger on
// stderr when none is.
func GetLogger() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
	}
	return current
}
