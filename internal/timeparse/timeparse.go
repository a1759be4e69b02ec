// Package timeparse converts the free-form clock strings users type
// ("9:30 AM", "14:55", "2 PM", "12.05 AM") into canonical 24-hour values.
package timeparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidTimeFormat is returned when no recognized pattern matches the
// input, or when every pattern that does match yields an impossible time.
var ErrInvalidTimeFormat = errors.New("invalid time format")

// TimeValue is a parsed wall-clock time.
type TimeValue struct {
	Hour   int // 0..23
	Minute int // 0..59
}

// FloatHours returns the time as fractional hours, the form the layout
// engine interpolates on: 9:30 becomes 9.5.
func (t TimeValue) FloatHours() float64 {
	return float64(t.Hour) + float64(t.Minute)/60.0
}

// String renders the value as zero-padded 24-hour "HH:MM".
func (t TimeValue) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// candidate is a syntactic match from a single pattern: raw hour and minute
// digits plus the meridiem designator ("AM", "PM", or "" for 24-hour forms).
// Range checking happens after meridiem conversion, never inside a matcher.
type candidate struct {
	hour     int
	minute   int
	meridiem string
}

// matcher reports whether a normalized input has one recognized shape.
type matcher func(s string) (candidate, bool)

var (
	reClockMeridiem = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	reClock24       = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	reHourMeridiem  = regexp.MustCompile(`^(\d{1,2})\s*(AM|PM)$`)
	reDotMeridiem   = regexp.MustCompile(`^(\d{1,2})\.(\d{2})\s*(AM|PM)$`)
	reDot24         = regexp.MustCompile(`^(\d{1,2})\.(\d{2})$`)
)

// matchers is tried strictly in order. The shapes are near-disjoint, but the
// precedence is part of the contract: a later pattern only wins when every
// earlier syntactic match produced an out-of-range time.
var matchers = []matcher{
	matchClockMeridiem, // H[H]:MM AM|PM
	matchClock24,       // H[H]:MM
	matchHourMeridiem,  // H[H] AM|PM
	matchDotMeridiem,   // H[H].MM AM|PM
	matchDot24,         // H[H].MM
}

func matchClockMeridiem(s string) (candidate, bool) {
	m := reClockMeridiem.FindStringSubmatch(s)
	if m == nil {
		return candidate{}, false
	}
	return candidate{hour: atoi(m[1]), minute: atoi(m[2]), meridiem: m[3]}, true
}

func matchClock24(s string) (candidate, bool) {
	m := reClock24.FindStringSubmatch(s)
	if m == nil {
		return candidate{}, false
	}
	return candidate{hour: atoi(m[1]), minute: atoi(m[2])}, true
}

func matchHourMeridiem(s string) (candidate, bool) {
	m := reHourMeridiem.FindStringSubmatch(s)
	if m == nil {
		return candidate{}, false
	}
	return candidate{hour: atoi(m[1]), meridiem: m[2]}, true
}

func matchDotMeridiem(s string) (candidate, bool) {
	m := reDotMeridiem.FindStringSubmatch(s)
	if m == nil {
		return candidate{}, false
	}
	return candidate{hour: atoi(m[1]), minute: atoi(m[2]), meridiem: m[3]}, true
}

func matchDot24(s string) (candidate, bool) {
	m := reDot24.FindStringSubmatch(s)
	if m == nil {
		return candidate{}, false
	}
	return candidate{hour: atoi(m[1]), minute: atoi(m[2])}, true
}

// atoi converts a digits-only capture group; the patterns guarantee success.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Parse converts a time string into a TimeValue. Recognized shapes, tried in
// order: "H:MM AM/PM", "H:MM" (24-hour), "H AM/PM", "H.MM AM/PM", "H.MM".
// Matching is case-insensitive and ignores surrounding whitespace.
//
// A pattern that matches syntactically but yields an hour or minute outside
// the valid range does not abort the parse; the remaining patterns are still
// tried. Parse fails only once every pattern has missed or misfired.
func Parse(text string) (TimeValue, error) {
	s := strings.ToUpper(strings.TrimSpace(text))

	for _, match := range matchers {
		c, ok := match(s)
		if !ok {
			continue
		}
		hour, minute := applyMeridiem(c)
		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			// Out of range under this pattern; a later one may still fit.
			continue
		}
		return TimeValue{Hour: hour, Minute: minute}, nil
	}

	return TimeValue{}, fmt.Errorf("%w: %q (try formats like \"12:55 AM\", \"14:55\" or \"2 PM\")", ErrInvalidTimeFormat, text)
}

// applyMeridiem converts a 12-hour candidate into 24-hour values. PM adds
// twelve except at 12 PM itself; 12 AM wraps to hour zero.
func applyMeridiem(c candidate) (hour, minute int) {
	hour, minute = c.hour, c.minute
	switch c.meridiem {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, minute
}

// FloatHours parses text and returns the fractional-hour form directly.
func FloatHours(text string) (float64, error) {
	t, err := Parse(text)
	if err != nil {
		return 0, err
	}
	return t.FloatHours(), nil
}

// FormatHour12 renders a whole 24-hour hour as the 12-hour label used on the
// grid's time axis: 0 becomes "12:00 AM", 13 becomes "1:00 PM".
func FormatHour12(hour int) string {
	switch {
	case hour == 0:
		return "12:00 AM"
	case hour < 12:
		return fmt.Sprintf("%d:00 AM", hour)
	case hour == 12:
		return "12:00 PM"
	default:
		return fmt.Sprintf("%d:00 PM", hour-12)
	}
}
