package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

const (
	summarySheet    = "Summary"
	placementsSheet = "Placements"
	unplacedSheet   = "Unplaced"
)

var placementHeaders = []interface{}{
	"Index", "Sequence", "Label", "Top", "Left", "Right", "Bottom", "Width", "Height", "Group",
}

var unplacedHeaders = []interface{}{"Sequence", "Label", "Width", "Height", "Group"}

// ExportXLSX writes an Excel report with a summary sheet, one row per placed
// block, and one row per unplaced block. Group cells are filled with the tag
// colour when the tag is a hex colour.
func ExportXLSX(path string, result model.PackResult, settings model.PackSettings) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(placementsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(unplacedSheet); err != nil {
		return err
	}

	w := &xlsxWriter{f: f, tagStyles: make(map[string]int)}
	if err := w.init(); err != nil {
		return fmt.Errorf("creating styles: %w", err)
	}
	if err := w.writeSummary(result, settings); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	if err := w.writePlacements(result); err != nil {
		return fmt.Errorf("writing placements: %w", err)
	}
	if err := w.writeUnplaced(result); err != nil {
		return fmt.Errorf("writing unplaced blocks: %w", err)
	}

	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

type xlsxWriter struct {
	f            *excelize.File
	headerStyle  int
	percentStyle int
	tagStyles    map[string]int
}

func (w *xlsxWriter) init() error {
	var err error
	w.headerStyle, err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return err
	}
	// Built-in format 10 is "0.00%"
	w.percentStyle, err = w.f.NewStyle(&excelize.Style{NumFmt: 10})
	return err
}

func (w *xlsxWriter) writeSummary(result model.PackResult, settings model.PackSettings) error {
	rows := [][]interface{}{
		{"Container Width", result.Container.Width},
		{"Container Height", result.Container.Height},
		{"Blocks", len(result.Placed) + result.UnplacedCount()},
		{"Placed", len(result.Placed)},
		{"Unplaced", result.UnplacedCount()},
		{"Groups", result.GroupCount()},
		{"Free Regions", len(result.FreeSpaces)},
		{"Fullness", result.Fullness},
		{"Coverage", result.Coverage},
		{"Tag Style", string(settings.TagStyle)},
		{"Seed", settings.Seed},
		{"Placed Area", result.PlacedArea()},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := w.f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(rows)), w.headerStyle); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(summarySheet, "B8", "B9", w.percentStyle); err != nil {
		return err
	}
	return w.f.SetColWidth(summarySheet, "A", "A", 20)
}

func (w *xlsxWriter) writePlacements(result model.PackResult) error {
	if err := w.writeHeader(placementsSheet, placementHeaders); err != nil {
		return err
	}
	for i, pb := range result.Placed {
		row := []interface{}{
			pb.OutputIndex, pb.Sequence, pb.Label,
			pb.Top, pb.Left, pb.Right, pb.Bottom,
			pb.Right - pb.Left, pb.Bottom - pb.Top,
			pb.GroupTag,
		}
		if err := w.writeRow(placementsSheet, i+2, row, len(row), pb.GroupTag); err != nil {
			return err
		}
	}
	return w.f.SetColWidth(placementsSheet, "C", "C", 16)
}

func (w *xlsxWriter) writeUnplaced(result model.PackResult) error {
	if err := w.writeHeader(unplacedSheet, unplacedHeaders); err != nil {
		return err
	}
	for i, b := range result.Unplaced {
		row := []interface{}{b.Sequence, b.Label, b.Width, b.Height, b.GroupTag}
		if err := w.writeRow(unplacedSheet, i+2, row, len(row), b.GroupTag); err != nil {
			return err
		}
	}
	return nil
}

func (w *xlsxWriter) writeHeader(sheet string, headers []interface{}) error {
	if err := w.f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(sheet, "A1", last, w.headerStyle); err != nil {
		return err
	}
	return w.f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

// writeRow writes row at rowNum and colours the group cell in column groupCol.
func (w *xlsxWriter) writeRow(sheet string, rowNum int, row []interface{}, groupCol int, tag string) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(sheet, start, &row); err != nil {
		return err
	}

	style, ok, err := w.tagStyle(tag)
	if err != nil || !ok {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(groupCol, rowNum)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, cell, cell, style)
}

// tagStyle returns a fill style for a colour tag, creating it on first use.
func (w *xlsxWriter) tagStyle(tag string) (int, bool, error) {
	if id, ok := w.tagStyles[tag]; ok {
		return id, true, nil
	}
	c, ok := tagColor(tag)
	if !ok {
		return 0, false, nil
	}

	font := &excelize.Font{Color: "000000"}
	if darkColor(c) {
		font.Color = "FFFFFF"
	}
	id, err := w.f.NewStyle(&excelize.Style{
		Font: font,
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.ToUpper(strings.TrimPrefix(c.Hex(), "#"))}},
	})
	if err != nil {
		return 0, false, err
	}
	w.tagStyles[tag] = id
	return id, true, nil
}
