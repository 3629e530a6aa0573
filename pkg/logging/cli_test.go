package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(NewCLIHandler(&buf, level)), &buf
}

func TestCLIHandler_Colors(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*slog.Logger)
		color string
	}{
		{"info", func(l *slog.Logger) { l.Info("scored") }, colorGreen},
		{"warn", func(l *slog.Logger) { l.Warn("scored") }, colorYellow},
		{"error", func(l *slog.Logger) { l.Error("scored") }, colorRed},
		{"debug", func(l *slog.Logger) { l.Debug("scored") }, colorGray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newTestLogger(slog.LevelDebug)
			tt.log(logger)
			assert.Contains(t, buf.String(), tt.color+"scored")
			assert.Contains(t, buf.String(), colorReset)
		})
	}
}

func TestCLIHandler_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     slog.Level
		log       func(*slog.Logger)
		shouldLog bool
	}{
		{"info logs info", slog.LevelInfo, func(l *slog.Logger) { l.Info("x") }, true},
		{"info filters debug", slog.LevelInfo, func(l *slog.Logger) { l.Debug("x") }, false},
		{"debug logs debug", slog.LevelDebug, func(l *slog.Logger) { l.Debug("x") }, true},
		{"warn filters info", slog.LevelWarn, func(l *slog.Logger) { l.Info("x") }, false},
		{"error logs error", slog.LevelError, func(l *slog.Logger) { l.Error("x") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newTestLogger(tt.level)
			tt.log(logger)
			assert.Equal(t, tt.shouldLog, buf.Len() > 0)
		})
	}
}

func TestCLIHandler_Attributes(t *testing.T) {
	logger, buf := newTestLogger(slog.LevelInfo)
	logger.Info("ingested file", "pairs", 12, "source", "Jane Doe.xlsx")

	out := buf.String()
	assert.Contains(t, out, "ingested file: pairs=12")
	assert.Contains(t, out, `source="Jane Doe.xlsx"`)
}

func TestCLIHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewCLIHandler(&buf, slog.LevelInfo)

	assert.Equal(t, h, h.WithAttrs(nil))

	logger := slog.New(h).With("candidate", "jane")
	logger.Info("saved", "labels", 3)
	assert.Contains(t, buf.String(), "saved: candidate=jane labels=3")
}

func TestCLIHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := NewCLIHandler(&buf, slog.LevelInfo)

	grouped := h.WithGroup("watch")
	require.NotEqual(t, h, grouped)

	slog.New(grouped).Info("file converted")
	assert.Contains(t, buf.String(), "[watch] file converted")
}

func TestCLIHandler_WithoutColor(t *testing.T) {
	var buf bytes.Buffer
	h := NewCLIHandler(&buf, slog.LevelInfo).WithoutColor()
	slog.New(h).Error("plain")
	assert.Equal(t, "plain\n", buf.String())
}

func TestSetDefaultCLILogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	SetDefaultCLILogger("debug", true)
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}

func TestNewCLILogger_NoColor(t *testing.T) {
	l := NewCLILogger("info", false)
	h, ok := l.Handler().(*CLIHandler)
	require.True(t, ok)
	assert.False(t, h.color)
	assert.False(t, l.Enabled(t.Context(), slog.LevelDebug))

	h, ok = NewCLILogger("info", true).Handler().(*CLIHandler)
	require.True(t, ok)
	assert.True(t, h.color)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"  debug  ", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}
