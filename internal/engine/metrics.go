package engine

import "github.com/DenisPitsul/PackingBlocks/internal/model"

// Fullness estimates how full the container is:
//
//	1 - freeArea / (freeArea + totalBlockArea)
//
// totalBlockArea counts every block, placed or not, and freeArea is the naive
// sum over the free regions, so the value is an estimate rather than an exact
// coverage ratio. Returns 0 when both areas are zero.
func Fullness(blocks []model.Block, free *FreeSpaceSet) float64 {
	var totalBlockArea float64
	for _, b := range blocks {
		totalBlockArea += b.Area()
	}
	freeArea := free.Area()

	denom := freeArea + totalBlockArea
	if denom == 0 {
		return 0
	}
	return 1 - freeArea/denom
}

// Coverage returns the exact share of the container covered by placed blocks.
func Coverage(container model.Container, blocks []model.Block) float64 {
	area := container.Area()
	if area <= 0 {
		return 0
	}
	var used float64
	for _, b := range blocks {
		if b.Placed {
			used += b.Placement.Area()
		}
	}
	return used / area
}

// BuildOutput lists the placed blocks in the order given, numbering them from
// zero. Unplaced blocks are skipped and do not consume an index.
func BuildOutput(blocks []model.Block) []model.PlacedBlock {
	out := make([]model.PlacedBlock, 0, len(blocks))
	for _, b := range blocks {
		if !b.Placed {
			continue
		}
		out = append(out, model.PlacedBlock{
			Top:         b.Placement.Top,
			Left:        b.Placement.Left,
			Right:       b.Placement.Right,
			Bottom:      b.Placement.Bottom,
			OutputIndex: len(out),
			Sequence:    b.Sequence,
			Label:       b.Label,
			GroupTag:    b.GroupTag,
		})
	}
	return out
}
