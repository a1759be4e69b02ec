// Package layout turns a schedule plus a day and hour selection into page
// geometry.
//
// Coordinates are abstract layout units with y growing upward, so larger
// hours sit lower on the page: the y for hour h is
//
//	timeHeight - (h - startHour) * hourUnit
//
// which puts the first hour at the top of the grid and the last at zero.
// All of that inversion lives here; renderers only map finished rectangles
// into their own top-down spaces.
package layout

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"schedgen/internal/contrast"
	"schedgen/internal/model"
	"schedgen/internal/timeparse"
)

// ErrNoDaysSelected is returned when the day selection is empty; a grid with
// no columns has no geometry.
var ErrNoDaysSelected = errors.New("no days selected")

// Geometry constants, in layout units.
const (
	// DayWidth is the width of one day column.
	DayWidth = 2.0
	// HourUnit is the vertical extent of one hour.
	HourUnit = 0.8
	// HeaderHeight is the day header band above the grid.
	HeaderHeight = 0.8
	// EventInset pulls event boxes in from each column edge so the column
	// borders stay visible.
	EventInset = 0.05

	// timeLabelX is the right-aligned anchor for the hour labels.
	timeLabelX = -0.15

	// Page margins around the grid. The left margin holds the hour labels;
	// the top strip above the header holds the title and the bottom strip
	// holds the footer.
	marginLeft   = 0.8
	marginRight  = 0.2
	marginBottom = 0.5
	marginTop    = 0.5
)

// Rect is an axis-aligned rectangle in layout units, y growing upward from
// the bottom-left corner.
type Rect struct {
	X, Y, W, H float64
}

// HeaderCell is one day header across the top of the grid.
type HeaderCell struct {
	Rect  Rect
	Label string // upper-cased day name
}

// HourLine is a horizontal grid line with its left-margin label. Renderers
// extend the line across the full plan bounds.
type HourLine struct {
	Y      float64
	Hour   int
	Label  string  // 12-hour label, "8:00 AM"
	LabelX float64 // right-aligned label anchor
}

// DayLine is a vertical column boundary, spanning the full plan bounds.
type DayLine struct {
	X float64
}

// EventBox is one placed event with its fill and text colors resolved and
// its label anchors precomputed. Labels are horizontally centered on
// CenterX; TitleY, TimeY and LocationY are offsets from the box center
// scaled by the box height, so the three lines spread with the duration.
type EventBox struct {
	Rect      Rect
	Event     model.Event
	Fill      color.NRGBA
	TextColor contrast.TextColor
	CenterX   float64
	TitleY    float64
	TimeY     float64
	LocationY float64
}

// Plan is the full page geometry for one render, in layout units.
type Plan struct {
	// Bounds is the page extent. X and Y hold the minimum corner.
	Bounds Rect
	// TimeHeight is the vertical extent of the hour grid; the header band
	// sits directly above it.
	TimeHeight float64
	Headers    []HeaderCell
	HourLines  []HourLine
	DayLines   []DayLine
	Events     []EventBox
}

// Compute lays out the grid and the event boxes for the selected days and
// hour range. Events on unselected days are left out of the plan but stay
// untouched in the caller's list. Events keep their input order, which is
// also their paint order; overlapping events simply paint over each other.
func Compute(events []model.Event, cfg model.ScheduleConfig) (*Plan, error) {
	if len(cfg.Days) == 0 {
		return nil, fmt.Errorf("layout: %w", ErrNoDaysSelected)
	}
	totalHours := cfg.EndHour - cfg.StartHour
	if totalHours <= 0 {
		return nil, fmt.Errorf("layout: end hour %d not after start hour %d", cfg.EndHour, cfg.StartHour)
	}

	timeHeight := float64(totalHours) * HourUnit
	gridWidth := float64(len(cfg.Days)) * DayWidth

	plan := &Plan{
		TimeHeight: timeHeight,
		Bounds: Rect{
			X: -marginLeft,
			Y: -marginBottom,
			W: gridWidth + marginLeft + marginRight,
			H: timeHeight + HeaderHeight + marginTop + marginBottom,
		},
	}

	dayIndex := make(map[time.Weekday]int, len(cfg.Days))
	for i, day := range cfg.Days {
		dayIndex[day] = i
		plan.Headers = append(plan.Headers, HeaderCell{
			Rect:  Rect{X: float64(i) * DayWidth, Y: timeHeight, W: DayWidth, H: HeaderHeight},
			Label: strings.ToUpper(day.String()),
		})
	}

	for h := cfg.StartHour; h <= cfg.EndHour; h++ {
		plan.HourLines = append(plan.HourLines, HourLine{
			Y:      hourY(float64(h), cfg.StartHour, timeHeight),
			Hour:   h,
			Label:  timeparse.FormatHour12(h),
			LabelX: timeLabelX,
		})
	}

	for j := 0; j <= len(cfg.Days); j++ {
		plan.DayLines = append(plan.DayLines, DayLine{X: float64(j) * DayWidth})
	}

	for _, ev := range events {
		i, ok := dayIndex[ev.Day]
		if !ok {
			continue
		}
		x := float64(i) * DayWidth

		topY := hourY(ev.Start.FloatHours(), cfg.StartHour, timeHeight)
		bottomY := hourY(ev.End.FloatHours(), cfg.StartHour, timeHeight)
		// Start precedes end and the axis is inverted, so topY > bottomY.
		height := topY - bottomY

		fill, err := contrast.ParseHex(ev.ColorHex)
		if err != nil {
			return nil, fmt.Errorf("layout: event %q: %w", ev.Title, err)
		}

		centerY := bottomY + height/2
		plan.Events = append(plan.Events, EventBox{
			Rect:      Rect{X: x + EventInset, Y: bottomY, W: DayWidth - 2*EventInset, H: height},
			Event:     ev,
			Fill:      fill,
			TextColor: contrast.ForBackground(fill),
			CenterX:   x + DayWidth/2,
			TitleY:    centerY + height*0.15,
			TimeY:     centerY - height*0.10,
			LocationY: centerY - height*0.30,
		})
	}

	return plan, nil
}

// hourY maps a fractional hour onto the inverted vertical axis.
func hourY(hour float64, startHour int, timeHeight float64) float64 {
	return timeHeight - (hour-float64(startHour))*HourUnit
}
