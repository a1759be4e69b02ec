package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"schedgen/internal/contrast"
	"schedgen/internal/layout"
)

// SVG scaling: one layout unit maps to this many pixels.
const svgScale = 100.0

// Font sizes in pixels, proportioned like the PDF point sizes.
const (
	svgTitleFont    = 29
	svgHeaderFont   = 22
	svgHourFont     = 18
	svgEventFont    = 18
	svgEventSubFont = 14
	svgFooterFont   = 16
)

const svgFontFamily = "Helvetica, Arial, sans-serif"

// WriteSVG paints a plan as a standalone SVG document, mirroring the PDF
// painting order.
func WriteSVG(w io.Writer, plan *layout.Plan, title, footer string) error {
	b := plan.Bounds
	px := func(u float64) float64 { return (u - b.X) * svgScale }
	py := func(u float64) float64 { return (b.Y + b.H - u) * svgScale }

	var sb strings.Builder
	width := b.W * svgScale
	height := b.H * svgScale

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height))
	sb.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>` + "\n")

	// Grid lines across the full bounds.
	for _, hl := range plan.HourLines {
		y := py(hl.Y)
		sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#d3d3d3" stroke-width="1"/>`+"\n",
			px(b.X), y, px(b.X+b.W), y))
	}
	for _, dl := range plan.DayLines {
		x := px(dl.X)
		sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#d3d3d3" stroke-width="1"/>`+"\n",
			x, py(b.Y+b.H), x, py(b.Y)))
	}

	// Hour labels.
	for _, hl := range plan.HourLines {
		sb.WriteString(svgText(px(hl.LabelX), py(hl.Y), svgHourFont, "#000000", "end", false, hl.Label))
	}

	// Day headers.
	for _, hc := range plan.Headers {
		r := hc.Rect
		sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#2c3e50" stroke="#000000" stroke-width="3"/>`+"\n",
			px(r.X), py(r.Y+r.H), r.W*svgScale, r.H*svgScale))
	}
	for _, hc := range plan.Headers {
		cx := hc.Rect.X + hc.Rect.W/2
		cy := hc.Rect.Y + hc.Rect.H/2
		sb.WriteString(svgText(px(cx), py(cy), svgHeaderFont, "#ffffff", "middle", true, hc.Label))
	}

	// Events in list order.
	for _, box := range plan.Events {
		r := box.Rect
		fill := fmt.Sprintf("#%02x%02x%02x", box.Fill.R, box.Fill.G, box.Fill.B)
		sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="#a9a9a9" stroke-width="3" opacity="0.8"/>`+"\n",
			px(r.X), py(r.Y+r.H), r.W*svgScale, r.H*svgScale, fill))

		tc := "#ffffff"
		if box.TextColor == contrast.Black {
			tc = "#000000"
		}
		sb.WriteString(svgText(px(box.CenterX), py(box.TitleY), svgEventFont, tc, "middle", true, box.Event.Title))
		sb.WriteString(svgText(px(box.CenterX), py(box.TimeY), svgEventSubFont, tc, "middle", false, box.Event.TimeRange()))
		if box.Event.Location != "" {
			sb.WriteString(svgText(px(box.CenterX), py(box.LocationY), svgEventSubFont, tc, "middle", false, box.Event.Location))
		}
	}

	// Title and footer.
	sb.WriteString(svgText(width/2, py(titleAnchorY(plan)), svgTitleFont, "#000000", "middle", true, title))
	sb.WriteString(svgText(width/2, py(footerAnchorY(plan)), svgFooterFont, "#808080", "middle", false, footer))

	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// svgText emits one vertically centered text element. anchor is the SVG
// text-anchor value.
func svgText(x, y float64, size int, fill, anchor string, bold bool, txt string) string {
	weight := ""
	if bold {
		weight = ` font-weight="bold"`
	}
	return fmt.Sprintf(`<text x="%.2f" y="%.2f" font-family="%s" font-size="%d" fill="%s" text-anchor="%s" dominant-baseline="middle"%s>%s</text>`+"\n",
		x, y, svgFontFamily, size, fill, anchor, weight, html.EscapeString(txt))
}
