package render

import (
	"io"

	"github.com/go-pdf/fpdf"

	"schedgen/internal/layout"
)

// Page chrome colors shared by both renderers.
var (
	headerFill = rgb{44, 62, 80}    // #2c3e50
	gridGray   = rgb{211, 211, 211} // lightgray
	edgeGray   = rgb{169, 169, 169} // darkgray event borders
	footerGray = rgb{128, 128, 128}
	black      = rgb{0, 0, 0}
	white      = rgb{255, 255, 255}
)

type rgb struct{ r, g, b int }

// Font sizes in points.
const (
	titleFontPt    = 18
	headerFontPt   = 14
	hourFontPt     = 11
	eventFontPt    = 11
	eventSubFontPt = 9
	footerFontPt   = 10
)

const (
	// pageMargin is the fixed border around the mapped layout bounds.
	pageMargin = 0.25
	// ptIn converts point line widths into page inches.
	ptIn = 1.0 / 72.0
	// eventAlpha is the fill translucency of event boxes.
	eventAlpha = 0.8
)

// pageMap scales layout units onto the page and flips the vertical axis:
// layout y grows upward, page y grows downward.
type pageMap struct {
	minX, maxY     float64
	scaleX, scaleY float64
	left, top      float64
}

func newPageMap(plan *layout.Plan, pageW, pageH float64) pageMap {
	b := plan.Bounds
	return pageMap{
		minX:   b.X,
		maxY:   b.Y + b.H,
		scaleX: (pageW - 2*pageMargin) / b.W,
		scaleY: (pageH - 2*pageMargin) / b.H,
		left:   pageMargin,
		top:    pageMargin,
	}
}

func (m pageMap) x(u float64) float64 { return m.left + (u-m.minX)*m.scaleX }
func (m pageMap) y(u float64) float64 { return m.top + (m.maxY-u)*m.scaleY }

// rect maps a layout rectangle to page coordinates; the returned y is the
// page-space top edge.
func (m pageMap) rect(r layout.Rect) (x, y, w, h float64) {
	return m.x(r.X), m.y(r.Y + r.H), r.W * m.scaleX, r.H * m.scaleY
}

// titleAnchorY is the vertical center of the strip above the header band.
func titleAnchorY(plan *layout.Plan) float64 {
	headerTop := plan.TimeHeight + layout.HeaderHeight
	return (headerTop + plan.Bounds.Y + plan.Bounds.H) / 2
}

// footerAnchorY is the vertical center of the strip below the last hour
// line.
func footerAnchorY(plan *layout.Plan) float64 {
	return plan.Bounds.Y / 2
}

// writePDF paints a plan onto a landscape letter page. Painting order is
// grid lines, hour labels, day headers, event boxes in list order, then the
// title and footer.
func writePDF(w io.Writer, plan *layout.Plan, title, footer string) error {
	pdf := fpdf.New("L", "in", "Letter", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	m := newPageMap(plan, pageW, pageH)
	b := plan.Bounds

	// Grid lines span the full bounds, under everything else.
	setDraw(pdf, gridGray)
	pdf.SetLineWidth(0.5 * ptIn)
	for _, hl := range plan.HourLines {
		y := m.y(hl.Y)
		pdf.Line(m.x(b.X), y, m.x(b.X+b.W), y)
	}
	for _, dl := range plan.DayLines {
		x := m.x(dl.X)
		pdf.Line(x, m.y(b.Y+b.H), x, m.y(b.Y))
	}

	// Hour labels, right-aligned against the first column.
	pdf.SetFont("Helvetica", "", hourFontPt)
	setText(pdf, black)
	for _, hl := range plan.HourLines {
		cellText(pdf, m.x(hl.LabelX), m.y(hl.Y), hl.Label, "R")
	}

	// Day headers.
	setFill(pdf, headerFill)
	setDraw(pdf, black)
	pdf.SetLineWidth(2 * ptIn)
	for _, hc := range plan.Headers {
		x, y, cw, ch := m.rect(hc.Rect)
		pdf.Rect(x, y, cw, ch, "FD")
	}
	pdf.SetFont("Helvetica", "B", headerFontPt)
	setText(pdf, white)
	for _, hc := range plan.Headers {
		cx := hc.Rect.X + hc.Rect.W/2
		cy := hc.Rect.Y + hc.Rect.H/2
		cellText(pdf, m.x(cx), m.y(cy), hc.Label, "C")
	}

	// Events in list order; a later event paints over an earlier overlap,
	// labels included.
	setDraw(pdf, edgeGray)
	pdf.SetLineWidth(2 * ptIn)
	for _, box := range plan.Events {
		x, y, cw, ch := m.rect(box.Rect)
		pdf.SetFillColor(int(box.Fill.R), int(box.Fill.G), int(box.Fill.B))
		pdf.SetAlpha(eventAlpha, "Normal")
		pdf.Rect(x, y, cw, ch, "FD")
		pdf.SetAlpha(1, "Normal")

		tc := box.TextColor.RGB()
		pdf.SetTextColor(int(tc.R), int(tc.G), int(tc.B))
		pdf.SetFont("Helvetica", "B", eventFontPt)
		cellText(pdf, m.x(box.CenterX), m.y(box.TitleY), box.Event.Title, "C")
		pdf.SetFont("Helvetica", "", eventSubFontPt)
		cellText(pdf, m.x(box.CenterX), m.y(box.TimeY), box.Event.TimeRange(), "C")
		if box.Event.Location != "" {
			cellText(pdf, m.x(box.CenterX), m.y(box.LocationY), box.Event.Location, "C")
		}
	}

	// Title and footer, centered on the page.
	pdf.SetFont("Helvetica", "B", titleFontPt)
	setText(pdf, black)
	cellText(pdf, pageW/2, m.y(titleAnchorY(plan)), title, "C")

	pdf.SetFont("Helvetica", "", footerFontPt)
	setText(pdf, footerGray)
	cellText(pdf, pageW/2, m.y(footerAnchorY(plan)), footer, "C")

	return pdf.Output(w)
}

// cellText draws txt vertically centered on y. align "C" centers on x, "R"
// ends at x.
func cellText(pdf *fpdf.Fpdf, x, y float64, txt, align string) {
	w := pdf.GetStringWidth(txt) + 0.08
	_, unitSize := pdf.GetFontSize()
	h := unitSize * 1.4
	switch align {
	case "R":
		pdf.SetXY(x-w, y-h/2)
	default:
		pdf.SetXY(x-w/2, y-h/2)
	}
	pdf.CellFormat(w, h, txt, "", 0, align+"M", false, 0, "")
}

func setFill(pdf *fpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func setDraw(pdf *fpdf.Fpdf, c rgb) { pdf.SetDrawColor(c.r, c.g, c.b) }
func setText(pdf *fpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
