package ics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crlf rewrites a fixture to the CRLF line endings iCalendar requires.
func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

// 2025-09-01 is a Monday, 2025-09-06 a Saturday.
const sampleCalendar = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//EN
BEGIN:VEVENT
UID:plain-1
SUMMARY:Office Hours
LOCATION:Room 210
DTSTART:20250901T090000Z
DTEND:20250901T103000Z
END:VEVENT
BEGIN:VEVENT
UID:recurring-1
SUMMARY:Weekly Seminar
DTSTART:20250901T130000Z
DTEND:20250901T140000Z
RRULE:FREQ=WEEKLY;BYDAY=MO
END:VEVENT
BEGIN:VEVENT
UID:allday-1
SUMMARY:Reading Day
DTSTART;VALUE=DATE:20250902
DTEND;VALUE=DATE:20250903
END:VEVENT
BEGIN:VEVENT
UID:weekend-1
SUMMARY:Football
DTSTART:20250906T120000Z
DTEND:20250906T150000Z
END:VEVENT
BEGIN:VEVENT
UID:overnight-1
SUMMARY:Observatory Session
DTSTART:20250901T220000Z
DTEND:20250902T010000Z
END:VEVENT
END:VCALENDAR
`

func TestRead(t *testing.T) {
	inputs, err := Read(strings.NewReader(crlf(sampleCalendar)), "ETSU Gold")
	require.NoError(t, err)

	require.Len(t, inputs, 1)
	in := inputs[0]
	assert.Equal(t, "Office Hours", in.Title)
	assert.Equal(t, "Monday", in.Day)
	assert.Equal(t, "09:00", in.Start)
	assert.Equal(t, "10:30", in.End)
	assert.Equal(t, "Room 210", in.Location)
	assert.Equal(t, "ETSU Gold", in.Color)
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(strings.NewReader("this is not a calendar"), "")
	assert.Error(t, err)
}

func TestReadEmptyCalendar(t *testing.T) {
	const empty = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//EN\r\nEND:VCALENDAR\r\n"
	inputs, err := Read(strings.NewReader(empty), "")
	require.NoError(t, err)
	assert.Empty(t, inputs)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile("/nonexistent/calendar.ics", "")
	assert.Error(t, err)
}
