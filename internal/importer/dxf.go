package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

// minDXFExtent is the smallest width or height accepted from a DXF shape.
const minDXFExtent = 0.01

// ImportDXF imports blocks from a DXF drawing. Each LWPOLYLINE, taken as
// closed, and each CIRCLE becomes one block sized to the shape's bounding box.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	skipped := 0
	for _, ent := range entities {
		var w, h float64
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			if hasBulge(e) {
				result.Warnings = append(result.Warnings, "LWPOLYLINE arc segments measured by their vertices only")
			}
			w, h = vertexExtent(e.Vertices)

		case *entity.Circle:
			w, h = 2*e.Radius, 2*e.Radius

		default:
			skipped++
			continue
		}

		if w < minDXFExtent || h < minDXFExtent {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", w, h))
			continue
		}

		label := fmt.Sprintf("DXF Block %d", len(result.Blocks)+1)
		result.Blocks = append(result.Blocks, model.NewBlockSpec(label, w, h, 1))
	}

	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}
	if len(result.Blocks) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
	}
	return result
}

// vertexExtent returns the bounding box width and height of a vertex list.
func vertexExtent(vertices [][]float64) (float64, float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range vertices {
		if len(v) < 2 {
			continue
		}
		minX, maxX = math.Min(minX, v[0]), math.Max(maxX, v[0])
		minY, maxY = math.Min(minY, v[1]), math.Max(maxY, v[1])
	}
	if math.IsInf(minX, 1) {
		return 0, 0
	}
	return maxX - minX, maxY - minY
}

func hasBulge(lw *entity.LwPolyline) bool {
	for _, b := range lw.Bulges {
		if math.Abs(b) > 1e-9 {
			return true
		}
	}
	return false
}
