package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup builds the process logger and installs it as the slog default.
// logFile is "stderr", "stdout" or a path that is appended to. Output to a
// terminal stream omits timestamps.
func Setup(logLevel string, logFile string) *slog.Logger {
	var logWriter io.Writer = os.Stderr
	var handlerOptions = &slog.HandlerOptions{Level: getLogLevel(logLevel)}

	switch logFile {
	case "", "stderr":
	case "stdout":
		logWriter = os.Stdout
	default:
		file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			slog.Error("failed to open log file, logging to stderr", "file", logFile, "error", err)
			break
		}
		logWriter = file
	}

	if logWriter == os.Stderr || logWriter == os.Stdout {
		handlerOptions.ReplaceAttr = func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return attr
		}
	}

	logger := slog.New(slog.NewTextHandler(logWriter, handlerOptions))
	slog.SetDefault(logger)
	return logger
}

func getLogLevel(logLevel string) slog.Level {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return level
}
