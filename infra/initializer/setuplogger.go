package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/amirasaad/onramp/pkg/config"
)

var levelColors = map[log.Level]lipgloss.AdaptiveColor{
	log.DebugLevel: {Light: "#7E57C2", Dark: "#7E57C2"},
	log.InfoLevel:  {Light: "#04B575", Dark: "#04B575"},
	log.WarnLevel:  {Light: "#EE6FF8", Dark: "#EE6FF8"},
	log.ErrorLevel: {Light: "#FF6B6B", Dark: "#FF6B6B"},
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	for level, color := range levelColors {
		s.Levels[level] = lipgloss.NewStyle().
			SetString(level.String()).
			Bold(true).
			MaxWidth(5).
			Padding(0, 1).
			Foreground(color)
	}
	errColor := levelColors[log.ErrorLevel]
	dim := levelColors[log.DebugLevel]
	s.Keys["error"] = lipgloss.NewStyle().Foreground(errColor)
	s.Values["error"] = lipgloss.NewStyle().Bold(true)
	for _, key := range []string{"provider", "component", "country", "duration"} {
		s.Keys[key] = lipgloss.NewStyle().Foreground(dim)
		s.Values[key] = lipgloss.NewStyle().Bold(true)
	}
	return s
}

func setupLogger(cfg *config.Log) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *config.Log) *slog.Logger {
	formatters := map[string]log.Formatter{
		"json":   log.JSONFormatter,
		"text":   log.TextFormatter,
		"logfmt": log.LogfmtFormatter,
	}
	formatter := log.TextFormatter
	if f, ok := formatters[cfg.Format]; ok {
		formatter = f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	logger.SetStyles(styles())

	slogger := slog.New(logger)
	slog.SetDefault(slogger)
	return slogger
}
