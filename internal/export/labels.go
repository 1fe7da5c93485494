package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

// ErrNoPlacements is returned when there is nothing to label.
var ErrNoPlacements = errors.New("no blocks placed to generate labels for")

// LabelInfo holds the data encoded into each block label's QR code.
type LabelInfo struct {
	Label       string  `json:"label,omitempty"`
	OutputIndex int     `json:"index"`
	Sequence    int     `json:"sequence"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Top         float64 `json:"top"`
	Left        float64 `json:"left"`
	GroupTag    string  `json:"group"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
	colorBarWidth   = 2.0
)

// CollectLabelInfos returns one label per placed block, in output order.
func CollectLabelInfos(result model.PackResult) []LabelInfo {
	labels := make([]LabelInfo, 0, len(result.Placed))
	for _, pb := range result.Placed {
		labels = append(labels, LabelInfo{
			Label:       pb.Label,
			OutputIndex: pb.OutputIndex,
			Sequence:    pb.Sequence,
			Width:       pb.Right - pb.Left,
			Height:      pb.Bottom - pb.Top,
			Top:         pb.Top,
			Left:        pb.Left,
			GroupTag:    pb.GroupTag,
		})
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded labels for all placed blocks,
// laid out on Avery 5160 sheets (3 columns x 10 rows on US Letter).
func ExportLabels(path string, result model.PackResult) error {
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return ErrNoPlacements
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		pos := i % labelsPerPage
		x := labelMarginLeft + float64(pos%labelCols)*labelWidth
		y := labelMarginTop + float64(pos/labelCols)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("rendering label %d: %w", label.OutputIndex, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	if c, ok := tagColor(info.GroupTag); ok {
		cr, cg, cb := c.RGB255()
		pdf.SetFillColor(int(cr), int(cg), int(cb))
		pdf.Rect(x, y, colorBarWidth, labelHeight, "F")
	}

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generating QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", info.OutputIndex)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + colorBarWidth + labelPadding
	textW := labelWidth - qrSize - colorBarWidth - 3*labelPadding

	title := info.Label
	if title == "" {
		title = fmt.Sprintf("Block %d", info.Sequence)
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, title, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%g x %g", info.Width, info.Height), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("#%d @ (%g, %g)", info.OutputIndex, info.Left, info.Top), "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, "Group "+info.GroupTag, "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}
