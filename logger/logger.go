// Package logger writes tagged, leveled log lines of the form
//
//	2006-01-02 15:04:05.000 [LEVEL] tag - message
//
// on top of github.com/charmbracelet/log.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/go-logr/logr"
	"github.com/muesli/termenv"
)

const TimeFormat = "2006-01-02 15:04:05.000"

type Logger struct {
	tag   string
	level Level
	out   *log.Logger
}

// New returns a Logger writing to w. An unparseable cfg.Level falls back to
// INFO.
func New(w io.Writer, tag string, cfg Config) *Logger {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		level = InfoLevel
	}

	out := log.NewWithOptions(w, log.Options{
		Level:           level.charm(),
		ReportTimestamp: cfg.ShowDate,
		TimeFormat:      TimeFormat,
	})
	out.SetStyles(styles())
	if cfg.ShowColor {
		out.SetColorProfile(termenv.ANSI256)
	} else {
		out.SetColorProfile(termenv.Ascii)
	}

	return &Logger{tag: tag, level: level, out: out}
}

func label(l Level) lipgloss.Style {
	return lipgloss.NewStyle().SetString("[" + l.String() + "]")
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Timestamp = lipgloss.NewStyle()
	s.Prefix = lipgloss.NewStyle().Bold(true)
	s.Levels = map[log.Level]lipgloss.Style{
		charmTrace:     label(TraceLevel).Foreground(lipgloss.Color("8")).Italic(true),
		log.DebugLevel: label(DebugLevel).Foreground(lipgloss.Color("2")),
		log.InfoLevel:  label(InfoLevel).Foreground(lipgloss.Color("15")),
		log.WarnLevel:  label(WarnLevel).Foreground(lipgloss.Color("11")),
		log.ErrorLevel: label(ErrorLevel).Foreground(lipgloss.Color("9")),
		log.FatalLevel: label(FatalLevel).Foreground(lipgloss.Color("11")).Background(lipgloss.Color("9")),
	}
	// logr V(n) records arrive at slog level -n.
	for v := log.DebugLevel + 1; v < log.InfoLevel; v++ {
		s.Levels[v] = s.Levels[log.DebugLevel]
	}
	return s
}

func (l *Logger) Tag() string {
	return l.tag
}

func (l *Logger) Level() Level {
	return l.level
}

// Enabled reports whether lines at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

func (l *Logger) Trace(values ...any) { l.print(TraceLevel, values) }
func (l *Logger) Debug(values ...any) { l.print(DebugLevel, values) }
func (l *Logger) Info(values ...any)  { l.print(InfoLevel, values) }
func (l *Logger) Warn(values ...any)  { l.print(WarnLevel, values) }
func (l *Logger) Error(values ...any) { l.print(ErrorLevel, values) }

// Fatal logs at FATAL. It does not exit the process.
func (l *Logger) Fatal(values ...any) { l.print(FatalLevel, values) }

func (l *Logger) print(level Level, values []any) {
	if !l.Enabled(level) {
		return
	}
	l.out.Log(level.charm(), l.tag+" - "+Join(values...))
}

// Join concatenates values into one message. Strings are copied verbatim,
// errors and fmt.Stringers contribute their text, anything else is encoded
// as JSON.
func Join(values ...any) string {
	var sb strings.Builder
	for _, v := range values {
		switch v := v.(type) {
		case string:
			sb.WriteString(v)
		case error:
			sb.WriteString(v.Error())
		case fmt.Stringer:
			sb.WriteString(v.String())
		default:
			b, err := json.Marshal(v)
			if err != nil {
				fmt.Fprintf(&sb, "%v", v)
				continue
			}
			sb.Write(b)
		}
	}
	return sb.String()
}

// Logr exposes the logger as a logr.Logger. Records are prefixed with the
// tag and keep their key/value pairs.
func (l *Logger) Logr() logr.Logger {
	return logr.FromSlogHandler(l.out.WithPrefix(l.tag))
}
