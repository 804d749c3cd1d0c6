package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGetLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"error", logrus.ErrorLevel},
		{"fatal", logrus.FatalLevel},
		{"info", logrus.InfoLevel},
		{"trace", logrus.TraceLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"nonsense", logrus.InfoLevel},
	}

	for _, tt := range tests {
		if got := GetLevel(tt.in); got != tt.want {
			t.Errorf("GetLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupWritesToFile(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	base := filepath.Join(t.TempDir(), "logs", "app")
	closer := Setup(Params{FileName: base, Level: "debug", FormatJSON: true})

	logrus.WithField("k", "v").Debug("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(base + ".log")
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) || !strings.Contains(string(data), `"k":"v"`) {
		t.Errorf("log file = %q, want JSON entry", data)
	}
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", logrus.GetLevel())
	}

	logrus.SetFormatter(&logrus.TextFormatter{})
	logrus.SetLevel(logrus.InfoLevel)
}
