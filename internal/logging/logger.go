package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Params struct {
	FileName   string
	ToStdout   bool
	Level      string
	FormatJSON bool
}

// Setup configures the global logrus logger. With no file name logs go to
// stderr only; the TUI owns stdout, so a file should be set whenever it runs.
// The returned closer releases the log file.
func Setup(params Params) io.Closer {
	if params.FormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logrus.SetLevel(GetLevel(params.Level))

	if params.FileName == "" {
		logrus.SetOutput(os.Stderr)
		return io.NopCloser(nil)
	}

	if !strings.HasSuffix(params.FileName, ".log") {
		params.FileName += ".log"
	}
	if err := os.MkdirAll(filepath.Dir(params.FileName), 0755); err != nil {
		logrus.SetOutput(os.Stderr)
		logrus.WithError(err).Warn("cannot create log directory, logging to stderr")
		return io.NopCloser(nil)
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   params.FileName,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		LocalTime:  false, // false -> use UTC
		Compress:   true,
	}

	if params.ToStdout {
		logrus.SetOutput(io.MultiWriter(os.Stdout, lumberJackLogger))
	} else {
		logrus.SetOutput(lumberJackLogger)
	}
	return lumberJackLogger
}

// GetLevel maps a level name to a logrus level, defaulting to info
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}
