package layout

import (
	"image/color"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedgen/internal/contrast"
	"schedgen/internal/model"
	"schedgen/internal/timeparse"
)

func weekCfg() model.ScheduleConfig {
	return model.ScheduleConfig{
		Days:      []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		StartHour: 8,
		EndHour:   18,
	}
}

func event(title string, day time.Weekday, start, end string) model.Event {
	s, err := timeparse.Parse(start)
	if err != nil {
		panic(err)
	}
	e, err := timeparse.Parse(end)
	if err != nil {
		panic(err)
	}
	return model.Event{
		Title:     title,
		Day:       day,
		StartText: start,
		EndText:   end,
		Start:     s,
		End:       e,
		ColorHex:  "#3498db",
	}
}

func TestComputeGridShape(t *testing.T) {
	plan, err := Compute(nil, weekCfg())
	require.NoError(t, err)

	assert.Len(t, plan.Headers, 5)
	// One line per hour boundary, endpoints included.
	assert.Len(t, plan.HourLines, 11)
	assert.Len(t, plan.DayLines, 6)
	assert.Empty(t, plan.Events)
	assert.InDelta(t, 8.0, plan.TimeHeight, 1e-9)
}

func TestComputeBounds(t *testing.T) {
	plan, err := Compute(nil, weekCfg())
	require.NoError(t, err)

	b := plan.Bounds
	assert.InDelta(t, -0.8, b.X, 1e-9)
	assert.InDelta(t, -0.5, b.Y, 1e-9)
	assert.InDelta(t, 10.2, b.X+b.W, 1e-9)
	assert.InDelta(t, 9.3, b.Y+b.H, 1e-9)
}

func TestComputeHourAxisInverted(t *testing.T) {
	plan, err := Compute(nil, weekCfg())
	require.NoError(t, err)

	first := plan.HourLines[0]
	last := plan.HourLines[len(plan.HourLines)-1]

	assert.Equal(t, 8, first.Hour)
	assert.InDelta(t, plan.TimeHeight, first.Y, 1e-9)
	assert.Equal(t, "8:00 AM", first.Label)

	assert.Equal(t, 18, last.Hour)
	assert.InDelta(t, 0, last.Y, 1e-9)
	assert.Equal(t, "6:00 PM", last.Label)

	// Later hours sit strictly lower.
	for i := 1; i < len(plan.HourLines); i++ {
		assert.Less(t, plan.HourLines[i].Y, plan.HourLines[i-1].Y)
		assert.InDelta(t, timeLabelX, plan.HourLines[i].LabelX, 1e-9)
	}
}

func TestComputeHeaders(t *testing.T) {
	cfg := model.ScheduleConfig{
		Days:      []time.Weekday{time.Wednesday, time.Monday},
		StartHour: 8,
		EndHour:   18,
	}
	plan, err := Compute(nil, cfg)
	require.NoError(t, err)

	require.Len(t, plan.Headers, 2)
	// Columns follow selection order, not calendar order.
	assert.Equal(t, "WEDNESDAY", plan.Headers[0].Label)
	assert.Equal(t, "MONDAY", plan.Headers[1].Label)

	want := Rect{X: 0, Y: plan.TimeHeight, W: DayWidth, H: HeaderHeight}
	assert.Empty(t, cmp.Diff(want, plan.Headers[0].Rect, cmpopts.EquateApprox(0, 1e-9)))
	assert.InDelta(t, DayWidth, plan.Headers[1].Rect.X, 1e-9)
}

func TestComputeEventBox(t *testing.T) {
	ev := event("Office Hours", time.Monday, "9:00 AM", "10:30 AM")
	plan, err := Compute([]model.Event{ev}, weekCfg())
	require.NoError(t, err)

	require.Len(t, plan.Events, 1)
	box := plan.Events[0]

	// 9:00 is one hour below the 8 AM top, 10:30 is 2.5 hours below.
	assert.InDelta(t, 6.0, box.Rect.Y, 1e-9)
	assert.InDelta(t, 1.2, box.Rect.H, 1e-9)
	assert.InDelta(t, EventInset, box.Rect.X, 1e-9)
	assert.InDelta(t, DayWidth-2*EventInset, box.Rect.W, 1e-9)

	assert.InDelta(t, 1.0, box.CenterX, 1e-9)
	center := 6.6
	assert.InDelta(t, center+1.2*0.15, box.TitleY, 1e-9)
	assert.InDelta(t, center-1.2*0.10, box.TimeY, 1e-9)
	assert.InDelta(t, center-1.2*0.30, box.LocationY, 1e-9)

	assert.Equal(t, color.NRGBA{R: 0x34, G: 0x98, B: 0xdb, A: 255}, box.Fill)
	assert.Equal(t, contrast.Black, box.TextColor)
}

func TestComputeEventColumnFollowsSelectionOrder(t *testing.T) {
	cfg := model.ScheduleConfig{
		Days:      []time.Weekday{time.Friday, time.Monday},
		StartHour: 8,
		EndHour:   18,
	}
	events := []model.Event{
		event("a", time.Monday, "9 AM", "10 AM"),
		event("b", time.Friday, "9 AM", "10 AM"),
	}
	plan, err := Compute(events, cfg)
	require.NoError(t, err)

	require.Len(t, plan.Events, 2)
	// Monday is the second column here.
	assert.InDelta(t, DayWidth+EventInset, plan.Events[0].Rect.X, 1e-9)
	assert.InDelta(t, EventInset, plan.Events[1].Rect.X, 1e-9)
}

func TestComputeSkipsUnselectedDays(t *testing.T) {
	cfg := model.ScheduleConfig{
		Days:      []time.Weekday{time.Monday},
		StartHour: 8,
		EndHour:   18,
	}
	events := []model.Event{
		event("kept", time.Monday, "9 AM", "10 AM"),
		event("skipped", time.Tuesday, "9 AM", "10 AM"),
	}
	plan, err := Compute(events, cfg)
	require.NoError(t, err)

	require.Len(t, plan.Events, 1)
	assert.Equal(t, "kept", plan.Events[0].Event.Title)
	// The input list is not touched.
	assert.Len(t, events, 2)
}

func TestComputeKeepsEventOrder(t *testing.T) {
	events := []model.Event{
		event("first", time.Monday, "9 AM", "11 AM"),
		event("second", time.Monday, "10 AM", "12 PM"),
	}
	plan, err := Compute(events, weekCfg())
	require.NoError(t, err)

	require.Len(t, plan.Events, 2)
	assert.Equal(t, "first", plan.Events[0].Event.Title)
	assert.Equal(t, "second", plan.Events[1].Event.Title)
}

func TestComputeTextColorPerEvent(t *testing.T) {
	light := event("light", time.Monday, "9 AM", "10 AM")
	light.ColorHex = "#f1c40f"
	dark := event("dark", time.Monday, "10 AM", "11 AM")
	dark.ColorHex = "#002d62"

	plan, err := Compute([]model.Event{light, dark}, weekCfg())
	require.NoError(t, err)

	assert.Equal(t, contrast.Black, plan.Events[0].TextColor)
	assert.Equal(t, contrast.White, plan.Events[1].TextColor)
}

// Events reaching outside the configured hour range keep their true extent;
// the grid does not clamp them.
func TestComputeEventOutsideHourRange(t *testing.T) {
	events := []model.Event{
		event("early", time.Monday, "7:00 AM", "9:00 AM"),
		event("late", time.Monday, "5:00 PM", "7:00 PM"),
	}
	plan, err := Compute(events, weekCfg())
	require.NoError(t, err)
	require.Len(t, plan.Events, 2)

	early := plan.Events[0].Rect
	assert.Greater(t, early.Y+early.H, plan.TimeHeight)

	late := plan.Events[1].Rect
	assert.Less(t, late.Y, 0.0)
}

func TestComputeNoDaysSelected(t *testing.T) {
	cfg := weekCfg()
	cfg.Days = nil
	_, err := Compute(nil, cfg)
	assert.ErrorIs(t, err, ErrNoDaysSelected)
}

func TestComputeBadHourRange(t *testing.T) {
	cfg := weekCfg()
	cfg.EndHour = cfg.StartHour
	_, err := Compute(nil, cfg)
	assert.Error(t, err)
}

func TestComputeBadEventColor(t *testing.T) {
	ev := event("x", time.Monday, "9 AM", "10 AM")
	ev.ColorHex = "garbage"
	_, err := Compute([]model.Event{ev}, weekCfg())
	require.Error(t, err)
	assert.ErrorIs(t, err, contrast.ErrInvalidColorFormat)
	assert.Contains(t, err.Error(), "x")
}

func TestComputeLateEndHour(t *testing.T) {
	cfg := weekCfg()
	cfg.EndHour = 23
	plan, err := Compute(nil, cfg)
	require.NoError(t, err)

	assert.InDelta(t, 12.0, plan.TimeHeight, 1e-9)
	assert.Len(t, plan.HourLines, 16)
	assert.Equal(t, "11:00 PM", plan.HourLines[len(plan.HourLines)-1].Label)
}
