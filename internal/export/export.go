// Package export writes packing results as JSON, Excel and PDF reports and
// QR-coded block labels.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

// Format is a report file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// FormatForPath picks a format from the file extension. Label sheets are PDF
// too and are written by ExportLabels.
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("no report format for extension %q", ext)
	}
}

// Export writes result to path in the given format.
func Export(path string, format Format, result model.PackResult, settings model.PackSettings) error {
	switch format {
	case FormatJSON:
		return ExportJSON(path, result)
	case FormatXLSX:
		return ExportXLSX(path, result, settings)
	case FormatPDF:
		return ExportPDF(path, result, settings)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteJSON writes result as indented JSON. Empty lists are written as []
// rather than null.
func WriteJSON(w io.Writer, result model.PackResult) error {
	if result.Placed == nil {
		result.Placed = []model.PlacedBlock{}
	}
	if result.Unplaced == nil {
		result.Unplaced = []model.Block{}
	}
	if result.FreeSpaces == nil {
		result.FreeSpaces = []model.Rect{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ExportJSON writes result as JSON to path.
func ExportJSON(path string, result model.PackResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteJSON(f, result); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// tagColor parses a "#rrggbb" group tag. ok is false for tags that are not
// colours.
func tagColor(tag string) (c colorful.Color, ok bool) {
	if !strings.HasPrefix(tag, "#") || len(tag) != 7 {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(tag)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// darkColor reports whether text on c should be white.
func darkColor(c colorful.Color) bool {
	l, _, _ := c.Lab()
	return l < 0.55
}

type groupStat struct {
	Tag    string
	Width  float64
	Height float64
	Placed int
}

// groupStats summarises placed blocks per group tag, in output order.
func groupStats(result model.PackResult) []groupStat {
	index := make(map[string]int)
	var stats []groupStat
	for _, pb := range result.Placed {
		i, ok := index[pb.GroupTag]
		if !ok {
			i = len(stats)
			index[pb.GroupTag] = i
			stats = append(stats, groupStat{Tag: pb.GroupTag, Width: pb.Right - pb.Left, Height: pb.Bottom - pb.Top})
		}
		stats[i].Placed++
	}
	return stats
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
