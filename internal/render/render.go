// Package render composes layout geometry into finished documents: a
// print-ready landscape PDF and an SVG used by the live preview.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"schedgen/internal/layout"
	"schedgen/internal/model"
)

// ErrNoEventsToExport is returned when a document is requested for an empty
// schedule.
var ErrNoEventsToExport = errors.New("no events to export")

// Default page chrome, matching the classic office-hours handout.
const (
	DefaultTitle  = "Fall 2025 Schedule"
	DefaultFooter = "Please knock if door is closed during office hours"
)

// Style carries the page chrome that is not geometry. Zero fields fall back
// to the defaults above.
type Style struct {
	Title  string
	Footer string
}

// pageTitle builds the printed title line, appending the display name when
// one is configured.
func pageTitle(style Style, cfg model.ScheduleConfig) string {
	title := style.Title
	if title == "" {
		title = DefaultTitle
	}
	if cfg.DisplayName != "" {
		title += " - " + cfg.DisplayName
	}
	return title
}

func footerText(style Style) string {
	if style.Footer == "" {
		return DefaultFooter
	}
	return style.Footer
}

// Document renders the complete single-page schedule PDF. It never mutates
// its inputs and returns either the whole document or an error, never a
// partial file. An empty schedule is an error; deciding to skip the export
// is the caller's job.
func Document(events []model.Event, cfg model.ScheduleConfig, style Style) ([]byte, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("render: %w", ErrNoEventsToExport)
	}
	plan, err := layout.Compute(events, cfg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writePDF(&buf, plan, pageTitle(style, cfg), footerText(style)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DocumentSVG renders the schedule as a standalone SVG with the same
// gatekeeping as Document.
func DocumentSVG(events []model.Event, cfg model.ScheduleConfig, style Style) ([]byte, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("render: %w", ErrNoEventsToExport)
	}
	plan, err := layout.Compute(events, cfg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteSVG(&buf, plan, pageTitle(style, cfg), footerText(style)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Preview renders an SVG for the live preview without the empty-schedule
// gate, so the page shows the bare grid while events are still being added.
func Preview(w io.Writer, events []model.Event, cfg model.ScheduleConfig, style Style) error {
	plan, err := layout.Compute(events, cfg)
	if err != nil {
		return err
	}
	return WriteSVG(w, plan, pageTitle(style, cfg), footerText(style))
}
