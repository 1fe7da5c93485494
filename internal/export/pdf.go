package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	rowHeight    = 6.0
	swatchSize   = 4.0
)

var placementColWidths = []float64{14, 18, 38, 19, 19, 19, 19, 34}

var placementColHeaders = []string{"Index", "Seq", "Label", "Top", "Left", "Width", "Height", "Group"}

// ExportPDF writes a tabular PDF report: overall statistics, a per-group
// breakdown, every placement, and the blocks that did not fit.
func ExportPDF(path string, result model.PackResult, settings model.PackSettings) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-marginBottom + 3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 4, fmt.Sprintf("PackingBlocks report - page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.AddPage()

	r := &pdfReport{pdf: pdf, y: marginTop}
	r.title("Packing Summary")
	r.summary(result, settings)
	r.groups(result)
	r.placements(result)
	r.unplaced(result)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return pdf.OutputFileAndClose(path)
}

type pdfReport struct {
	pdf *fpdf.Fpdf
	y   float64
}

// ensure starts a new page when fewer than h millimetres remain.
func (r *pdfReport) ensure(h float64) bool {
	if r.y+h <= pageHeight-marginBottom-5 {
		return false
	}
	r.pdf.AddPage()
	r.y = marginTop
	return true
}

func (r *pdfReport) title(text string) {
	r.pdf.SetFont("Helvetica", "B", 16)
	r.pdf.SetXY(marginLeft, r.y)
	r.pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, text, "", 0, "L", false, 0, "")

	r.pdf.SetDrawColor(0, 0, 0)
	r.pdf.SetLineWidth(0.5)
	r.pdf.Line(marginLeft, r.y+12, pageWidth-marginRight, r.y+12)
	r.y += 18
}

func (r *pdfReport) heading(text string) {
	r.ensure(20)
	r.pdf.SetFont("Helvetica", "B", 12)
	r.pdf.SetXY(marginLeft, r.y)
	r.pdf.CellFormat(100, 7, text, "", 0, "L", false, 0, "")
	r.y += 9
}

func (r *pdfReport) summary(result model.PackResult, settings model.PackSettings) {
	r.heading("Overall Statistics")

	items := []struct {
		label string
		value string
	}{
		{"Container", fmt.Sprintf("%g x %g", result.Container.Width, result.Container.Height)},
		{"Blocks Placed", fmt.Sprintf("%d", len(result.Placed))},
		{"Blocks Unplaced", fmt.Sprintf("%d", result.UnplacedCount())},
		{"Fullness", percent(result.Fullness)},
		{"Coverage", percent(result.Coverage)},
		{"Placed Area", fmt.Sprintf("%g of %g", result.PlacedArea(), result.Container.Area())},
		{"Free Regions", fmt.Sprintf("%d", len(result.FreeSpaces))},
		{"Tag Style", string(settings.TagStyle)},
		{"Seed", fmt.Sprintf("%d", settings.Seed)},
	}

	for _, item := range items {
		r.pdf.SetXY(marginLeft+5, r.y)
		r.pdf.SetFont("Helvetica", "", 10)
		r.pdf.CellFormat(50, 6, item.label+":", "", 0, "L", false, 0, "")
		r.pdf.SetFont("Helvetica", "B", 10)
		r.pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		r.y += 7
	}
	r.y += 5
}

func (r *pdfReport) groups(result model.PackResult) {
	stats := groupStats(result)
	if len(stats) == 0 {
		return
	}
	r.heading("Groups")

	widths := []float64{50, 50, 30}
	r.tableHeader([]string{"Group", "Size", "Placed"}, widths)
	for i, g := range stats {
		if r.ensure(rowHeight) {
			r.tableHeader([]string{"Group", "Size", "Placed"}, widths)
		}
		r.tableRow(i, widths, g.Tag, fmt.Sprintf("%g x %g", g.Width, g.Height), fmt.Sprintf("%d", g.Placed))
		r.swatch(marginLeft+widths[0]-swatchSize-1.5, g.Tag)
		r.y += rowHeight
	}
	r.y += 8
}

func (r *pdfReport) placements(result model.PackResult) {
	r.heading("Placements")
	if len(result.Placed) == 0 {
		r.note("No blocks placed.")
		return
	}

	r.tableHeader(placementColHeaders, placementColWidths)
	for i, pb := range result.Placed {
		if r.ensure(rowHeight) {
			r.tableHeader(placementColHeaders, placementColWidths)
		}
		r.tableRow(i, placementColWidths,
			fmt.Sprintf("%d", pb.OutputIndex),
			fmt.Sprintf("%d", pb.Sequence),
			truncate(r.pdf, pb.Label, placementColWidths[2]-2),
			fmt.Sprintf("%g", pb.Top),
			fmt.Sprintf("%g", pb.Left),
			fmt.Sprintf("%g", pb.Right-pb.Left),
			fmt.Sprintf("%g", pb.Bottom-pb.Top),
			pb.GroupTag,
		)
		groupX := marginLeft
		for _, w := range placementColWidths {
			groupX += w
		}
		r.swatch(groupX-swatchSize-1.5, pb.GroupTag)
		r.y += rowHeight
	}
	r.y += 8
}

func (r *pdfReport) unplaced(result model.PackResult) {
	if result.UnplacedCount() == 0 {
		return
	}
	r.ensure(20)
	r.pdf.SetFont("Helvetica", "B", 11)
	r.pdf.SetTextColor(200, 0, 0)
	r.pdf.SetXY(marginLeft, r.y)
	r.pdf.CellFormat(180, 7, "WARNING: Unplaced Blocks", "", 0, "L", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
	r.y += 8

	r.pdf.SetFont("Helvetica", "", 9)
	for _, b := range result.Unplaced {
		r.ensure(5)
		r.pdf.SetXY(marginLeft+5, r.y)
		text := fmt.Sprintf("- #%d %s: %g x %g", b.Sequence, b.Label, b.Width, b.Height)
		r.pdf.CellFormat(180, 5, text, "", 0, "L", false, 0, "")
		r.y += 5
	}
}

func (r *pdfReport) note(text string) {
	r.pdf.SetFont("Helvetica", "I", 9)
	r.pdf.SetXY(marginLeft+5, r.y)
	r.pdf.CellFormat(180, 5, text, "", 0, "L", false, 0, "")
	r.y += 8
}

func (r *pdfReport) tableHeader(headers []string, widths []float64) {
	r.pdf.SetFont("Helvetica", "B", 9)
	r.pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		r.pdf.SetXY(x, r.y)
		r.pdf.CellFormat(widths[i], rowHeight, h, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	r.y += rowHeight
}

func (r *pdfReport) tableRow(i int, widths []float64, cells ...string) {
	r.pdf.SetFont("Helvetica", "", 8)
	if i%2 == 0 {
		r.pdf.SetFillColor(245, 245, 245)
	} else {
		r.pdf.SetFillColor(255, 255, 255)
	}
	x := marginLeft
	for j, c := range cells {
		r.pdf.SetXY(x, r.y)
		r.pdf.CellFormat(widths[j], rowHeight, c, "1", 0, "C", true, 0, "")
		x += widths[j]
	}
}

// swatch draws a small filled square at x on the current row when tag is a
// colour.
func (r *pdfReport) swatch(x float64, tag string) {
	c, ok := tagColor(tag)
	if !ok {
		return
	}
	cr, cg, cb := c.RGB255()
	r.pdf.SetFillColor(int(cr), int(cg), int(cb))
	r.pdf.SetDrawColor(80, 80, 80)
	r.pdf.SetLineWidth(0.1)
	r.pdf.Rect(x, r.y+(rowHeight-swatchSize)/2, swatchSize, swatchSize, "FD")
}

// truncate shortens s with an ellipsis until it fits in width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
