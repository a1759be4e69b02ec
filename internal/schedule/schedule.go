// Package schedule owns the in-memory event list and the validation rules
// that gate entries into it. Every input path (web form, events file, ICS
// import) funnels through AddEvent so the rules apply uniformly.
package schedule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"schedgen/internal/contrast"
	"schedgen/internal/model"
	"schedgen/internal/timeparse"
)

// Validation failures surfaced to the host shell. All are recoverable input
// errors; none abort the process.
var (
	ErrMissingField      = errors.New("missing required field")
	ErrStartNotBeforeEnd = errors.New("start time must be before end time")
	ErrIndexOutOfRange   = errors.New("event index out of range")
)

// DefaultColorHex is the fallback when the palette cannot resolve a color
// name, the classic blue.
const DefaultColorHex = "#3498db"

var validate = validator.New()

// EventInput is one add-event submission, all raw text. The same struct
// decodes from the events YAML file and the JSON API body.
type EventInput struct {
	Title    string `yaml:"title" json:"title" validate:"required"`
	Day      string `yaml:"day" json:"day" validate:"required"`
	Start    string `yaml:"start" json:"start" validate:"required"`
	End      string `yaml:"end" json:"end" validate:"required"`
	Location string `yaml:"location" json:"location"`
	Color    string `yaml:"color" json:"color"`
}

// normalize trims surrounding whitespace from every field. Validation runs
// on the trimmed values, so a field of spaces counts as missing.
func (in *EventInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Day = strings.TrimSpace(in.Day)
	in.Start = strings.TrimSpace(in.Start)
	in.End = strings.TrimSpace(in.End)
	in.Location = strings.TrimSpace(in.Location)
	in.Color = strings.TrimSpace(in.Color)
}

// Preset is one named palette entry.
type Preset struct {
	Name string
	Hex  string
}

// Palette resolves event color fields into concrete hex values. It is
// passed explicitly into AddEvent; there is no ambient color state.
type Palette struct {
	names      []string
	hexByName  map[string]string
	defaultHex string
}

// NewPalette builds a palette from ordered name/hex pairs. defaultName picks
// the fallback used for empty or unknown color names; if it names no entry,
// the fallback is DefaultColorHex.
func NewPalette(presets []Preset, defaultName string) Palette {
	p := Palette{
		names:      make([]string, 0, len(presets)),
		hexByName:  make(map[string]string, len(presets)),
		defaultHex: DefaultColorHex,
	}
	for _, preset := range presets {
		key := strings.ToLower(strings.TrimSpace(preset.Name))
		if key == "" {
			continue
		}
		if _, dup := p.hexByName[key]; dup {
			continue
		}
		p.names = append(p.names, preset.Name)
		p.hexByName[key] = preset.Hex
	}
	if hex, ok := p.hexByName[strings.ToLower(strings.TrimSpace(defaultName))]; ok {
		p.defaultHex = hex
	}
	return p
}

// Names returns the preset names in menu order.
func (p Palette) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// fallback covers zero-value palettes too, so Resolve never returns an
// empty string.
func (p Palette) fallback() string {
	if p.defaultHex == "" {
		return DefaultColorHex
	}
	return p.defaultHex
}

// Resolve turns a color field into a hex value. Raw hex values pass through
// normalized to "#rrggbb"; preset names resolve case-insensitively; empty or
// unknown names fall back to the default preset, so a stale name in an old
// events file degrades instead of failing.
func (p Palette) Resolve(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return p.fallback()
	}
	if c, err := contrast.ParseHex(trimmed); err == nil {
		return contrast.FormatHex(c)
	}
	if hex, ok := p.hexByName[strings.ToLower(trimmed)]; ok {
		return hex
	}
	return p.fallback()
}

// Schedule is the ordered event list. Insertion order is display order and
// paint order. The zero value is ready to use.
type Schedule struct {
	events []model.Event
}

// Len reports the number of events.
func (s *Schedule) Len() int {
	return len(s.events)
}

// Events returns a copy of the event list in insertion order.
func (s *Schedule) Events() []model.Event {
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// AddEvent validates one submission against the palette and appends the
// resulting event. Fields are trimmed before validation. On success the
// stored event is returned; on failure the list is untouched and the error
// wraps one of the package sentinels (or a timeparse, day or color error).
func (s *Schedule) AddEvent(in EventInput, palette Palette) (model.Event, error) {
	in.normalize()
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return model.Event{}, fmt.Errorf("%w: %s", ErrMissingField, strings.ToLower(verrs[0].Field()))
		}
		return model.Event{}, err
	}

	day, err := model.ParseWeekday(in.Day)
	if err != nil {
		return model.Event{}, err
	}

	start, err := timeparse.Parse(in.Start)
	if err != nil {
		return model.Event{}, fmt.Errorf("start time: %w", err)
	}
	end, err := timeparse.Parse(in.End)
	if err != nil {
		return model.Event{}, fmt.Errorf("end time: %w", err)
	}
	if start.FloatHours() >= end.FloatHours() {
		return model.Event{}, fmt.Errorf("%w: %s is not before %s", ErrStartNotBeforeEnd, start, end)
	}

	hex := palette.Resolve(in.Color)
	if _, err := contrast.ParseHex(hex); err != nil {
		// A malformed preset in the config surfaces here.
		return model.Event{}, err
	}

	ev := model.Event{
		Title:     in.Title,
		Day:       day,
		StartText: in.Start,
		EndText:   in.End,
		Start:     start,
		End:       end,
		Location:  in.Location,
		ColorHex:  hex,
	}
	s.events = append(s.events, ev)
	return ev, nil
}

// DeleteEvent removes the event at index, preserving the order of the rest.
func (s *Schedule) DeleteEvent(index int) error {
	if index < 0 || index >= len(s.events) {
		return fmt.Errorf("%w: %d (have %d events)", ErrIndexOutOfRange, index, len(s.events))
	}
	s.events = append(s.events[:index], s.events[index+1:]...)
	return nil
}
