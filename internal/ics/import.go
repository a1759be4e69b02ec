// Package ics imports events from an iCalendar export into add-event
// submissions.
//
// The importer is deliberately shallow: it reads plain single-instance
// VEVENTs and hands their fields over as raw text, so the same validation
// runs whether an event arrived from the web form, the events file or a
// calendar export. Recurring events, all-day events, weekend entries and
// anything spanning multiple days are skipped with a log line.
package ics

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "schedgen/internal/log"
	"schedgen/internal/schedule"
)

// ReadFile parses the iCalendar file at path and returns one submission per
// usable VEVENT. Unusable events are skipped, not errors; only an unreadable
// or unparseable file fails.
func ReadFile(path, defaultColor string) ([]schedule.EventInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	inputs, err := Read(f, defaultColor)
	if err != nil {
		return nil, fmt.Errorf("ics: parse %s: %w", path, err)
	}
	appLog.Info("ics import completed", "path", path, "event_count", len(inputs))
	return inputs, nil
}

// Read parses an iCalendar stream into add-event submissions. Each usable
// VEVENT keeps its summary and location verbatim; times are rendered in
// 24-hour form and the weekday comes from the event's start date.
func Read(r io.Reader, defaultColor string) ([]schedule.EventInput, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, err
	}

	inputs := make([]schedule.EventInput, 0)
	for _, ve := range cal.Events() {
		in, ok := convertVEvent(ve, defaultColor)
		if !ok {
			continue
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func convertVEvent(ve *ical.VEvent, defaultColor string) (schedule.EventInput, bool) {
	summary := propValue(ve, ical.ComponentPropertySummary)
	uid := propValue(ve, ical.ComponentPropertyUniqueId)

	if ve.GetProperty(ical.ComponentPropertyRrule) != nil {
		appLog.Info("ics import skipping recurring event", "uid", uid, "summary", summary)
		return schedule.EventInput{}, false
	}
	if isAllDay(ve) {
		appLog.Info("ics import skipping all-day event", "uid", uid, "summary", summary)
		return schedule.EventInput{}, false
	}

	start, err := ve.GetStartAt()
	if err != nil {
		appLog.Error("ics import skipping event without start", err, "uid", uid, "summary", summary)
		return schedule.EventInput{}, false
	}
	end, err := ve.GetEndAt()
	if err != nil {
		appLog.Error("ics import skipping event without end", err, "uid", uid, "summary", summary)
		return schedule.EventInput{}, false
	}

	day := start.Weekday()
	if day == time.Saturday || day == time.Sunday {
		appLog.Info("ics import skipping weekend event", "uid", uid, "summary", summary, "day", day.String())
		return schedule.EventInput{}, false
	}
	if !end.After(start) || start.Year() != end.Year() || start.YearDay() != end.YearDay() {
		appLog.Error("ics import skipping event with unusable range", errors.New("end does not follow start on the same day"),
			"uid", uid, "summary", summary)
		return schedule.EventInput{}, false
	}

	return schedule.EventInput{
		Title:    summary,
		Day:      day.String(),
		Start:    start.Format("15:04"),
		End:      end.Format("15:04"),
		Location: propValue(ve, ical.ComponentPropertyLocation),
		Color:    defaultColor,
	}, true
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// isAllDay reports whether DTSTART carries VALUE=DATE or a bare date form.
func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return p.Value != "" && !strings.Contains(p.Value, "T")
}
