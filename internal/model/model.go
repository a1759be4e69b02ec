// Package model holds the schedule types shared by the validation, layout
// and rendering packages.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"schedgen/internal/timeparse"
)

// ErrInvalidDay is returned for day names outside Monday through Friday.
var ErrInvalidDay = errors.New("invalid day")

// StartHour is the fixed top of the grid's time axis; pages always begin at
// 8 AM.
const StartHour = 8

// Weekdays lists the schedulable days in calendar order. The grid renders
// whatever ordered subset the configuration selects.
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
}

// EndHourOptions maps the selectable end-of-day labels to 24-hour values.
var EndHourOptions = map[string]int{
	"6 PM":  18,
	"7 PM":  19,
	"8 PM":  20,
	"9 PM":  21,
	"10 PM": 22,
	"11 PM": 23,
}

// Event is one weekly schedule entry. StartText and EndText keep the exact
// strings the user typed; the rendered time-range label reproduces them
// verbatim. Start and End hold their parsed values.
type Event struct {
	Title     string
	Day       time.Weekday
	StartText string
	EndText   string
	Start     timeparse.TimeValue
	End       timeparse.TimeValue
	Location  string
	ColorHex  string // "#rrggbb"
}

// TimeRange is the label drawn under the event title.
func (e Event) TimeRange() string {
	return e.StartText + " - " + e.EndText
}

// ScheduleConfig selects which days and hours a generated page covers.
type ScheduleConfig struct {
	// Days is the ordered subset of weekdays to render, left to right.
	Days []time.Weekday
	// StartHour and EndHour bound the vertical time axis in 24-hour form.
	StartHour int
	EndHour   int
	// DisplayName, when set, is appended to the page title.
	DisplayName string
}

var weekdayNames = map[string]time.Weekday{
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
}

// ParseWeekday resolves a day name, case-insensitively, into a time.Weekday.
// Weekend days are not schedulable and fail like any other unknown name.
func ParseWeekday(name string) (time.Weekday, error) {
	d, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q (expected Monday through Friday)", ErrInvalidDay, name)
	}
	return d, nil
}

// DaysFromNames parses an ordered list of day names into weekdays, keeping
// the given order. Duplicates keep their first position.
func DaysFromNames(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	seen := make(map[time.Weekday]bool, len(names))
	for _, name := range names {
		d, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	return days, nil
}

// ParseEndHour resolves an end-of-day label like "6 PM" into its 24-hour
// value. Plain 24-hour numbers within the selectable range work too.
func ParseEndHour(label string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if h, ok := EndHourOptions[s]; ok {
		return h, nil
	}
	if h, err := strconv.Atoi(s); err == nil && ValidEndHour(h) {
		return h, nil
	}
	return 0, fmt.Errorf("invalid end hour %q (expected 6 PM through 11 PM)", label)
}

// ValidEndHour reports whether h is one of the selectable end-of-day values.
func ValidEndHour(h int) bool {
	return h >= 18 && h <= 23
}
