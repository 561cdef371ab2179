package logger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Level orders log severities. Lines below a logger's level are dropped.
type Level int

const (
	TraceLevel Level = iota * 10
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var ErrInvalidLevel = errors.New("invalid log level")

var levelNames = map[Level]string{
	TraceLevel: "TRACE",
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
	FatalLevel: "FATAL",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps a case-insensitive level name to its Level.
func ParseLevel(s string) (Level, error) {
	for lvl, name := range levelNames {
		if strings.EqualFold(s, name) {
			return lvl, nil
		}
	}
	return InfoLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// charmTrace sits below log.DebugLevel the same distance Debug sits below Info.
const charmTrace = log.DebugLevel - 4

func (l Level) charm() log.Level {
	switch l {
	case TraceLevel:
		return charmTrace
	case DebugLevel:
		return log.DebugLevel
	case WarnLevel:
		return log.WarnLevel
	case ErrorLevel:
		return log.ErrorLevel
	case FatalLevel:
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}
