// Package dates renders timestamps using a small pattern language where
// runs of a repeated letter stand for a date field ("dd MMM yyyy").
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultFormat is used by callers that have no explicit pattern.
const DefaultFormat = "dd MMM yyyy HH:mm:ss"

type formatter func(t time.Time) string

func pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}

func hour12(t time.Time) int {
	if h := t.Hour() % 12; h != 0 {
		return h
	}
	return 12
}

func meridiem(t time.Time) string {
	if t.Hour() >= 12 {
		return "pm"
	}
	return "am"
}

var formatters = map[string]formatter{
	"d":     func(t time.Time) string { return strconv.Itoa(t.Day()) },
	"dd":    func(t time.Time) string { return pad2(t.Day()) },
	"M":     func(t time.Time) string { return strconv.Itoa(int(t.Month())) },
	"MM":    func(t time.Time) string { return pad2(int(t.Month())) },
	"MMM":   func(t time.Time) string { return t.Month().String()[:3] },
	"MMMMM": func(t time.Time) string { return t.Month().String() },
	"h":     func(t time.Time) string { return strconv.Itoa(hour12(t)) },
	"hh":    func(t time.Time) string { return pad2(hour12(t)) },
	"H":     func(t time.Time) string { return strconv.Itoa(t.Hour()) },
	"HH":    func(t time.Time) string { return pad2(t.Hour()) },
	"m":     func(t time.Time) string { return strconv.Itoa(t.Minute()) },
	"mm":    func(t time.Time) string { return pad2(t.Minute()) },
	"s":     func(t time.Time) string { return strconv.Itoa(t.Second()) },
	"ss":    func(t time.Time) string { return pad2(t.Second()) },
	"S":     func(t time.Time) string { return strconv.Itoa(t.Nanosecond() / int(time.Millisecond)) },
	"a":     meridiem,
	"A":     func(t time.Time) string { return strings.ToUpper(meridiem(t)) },
	"y":     func(t time.Time) string { return strconv.Itoa(t.Year()) },
	"yy": func(t time.Time) string {
		y := strconv.Itoa(t.Year())
		if len(y) < 2 {
			return ""
		}
		return y[2:]
	},
	"yyyy": func(t time.Time) string { return strconv.Itoa(t.Year()) },
}

// Format renders t in its own location according to format.
//
// The pattern is split into runs of identical characters. A run naming a
// known field (d dd M MM MMM MMMMM h hh H HH m mm s ss S a A y yy yyyy) is
// replaced by that field; any other run is copied as is. A trailing run made
// only of whitespace is dropped.
func Format(t time.Time, format string) string {
	var (
		out  strings.Builder
		part []rune
	)
	emit := func() {
		if len(part) == 0 {
			return
		}
		s := string(part)
		if fn, ok := formatters[s]; ok {
			out.WriteString(fn(t))
		} else {
			out.WriteString(s)
		}
	}

	for _, c := range format {
		if len(part) > 0 && part[0] == c {
			part = append(part, c)
			continue
		}
		emit()
		part = append(part[:0], c)
	}
	if strings.TrimSpace(string(part)) != "" {
		emit()
	}
	return out.String()
}

// FormatUTC is Format applied to t converted to UTC.
func FormatUTC(t time.Time, format string) string {
	return Format(t.UTC(), format)
}

// FormatMillis formats an epoch timestamp given in milliseconds, either in the
// local zone or in UTC.
func FormatMillis(ms int64, format string, utc bool) string {
	t := time.UnixMilli(ms)
	if utc {
		return FormatUTC(t, format)
	}
	return Format(t.Local(), format)
}

// ISOTimestamp renders t in UTC as 2006-01-02T15:04:05Z, with a three digit
// millisecond fraction when millis is set.
func ISOTimestamp(t time.Time, millis bool) string {
	if millis {
		return t.UTC().Format("2006-01-02T15:04:05.000Z")
	}
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
