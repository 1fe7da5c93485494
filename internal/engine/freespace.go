package engine

import (
	"slices"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

// FreeSpaceSet tracks the unoccupied regions of a container.
//
// Regions are kept in insertion order. Consuming a region removes it in
// place, keeping the relative order of the others, and appends its leftover
// fragments at the end in top, bottom, left, right order. First-fit results
// depend on this order.
//
// Fragments may overlap each other: the top and bottom remainders span the
// full width of the consumed region while the left and right remainders only
// span the placed block's height. The set never merges or trims them.
type FreeSpaceSet struct {
	regions []model.Rect
}

// NewFreeSpaceSet returns a set holding a single region covering a
// width x height container.
func NewFreeSpaceSet(width, height float64) *FreeSpaceSet {
	s := &FreeSpaceSet{}
	s.Reset(width, height)
	return s
}

// Reset discards all regions and starts again from the whole container.
func (s *FreeSpaceSet) Reset(width, height float64) {
	s.regions = s.regions[:0]
	s.regions = append(s.regions, model.Rect{Top: 0, Left: 0, Right: width, Bottom: height})
}

// Len returns the number of free regions.
func (s *FreeSpaceSet) Len() int {
	return len(s.regions)
}

// Region returns the region at index i.
func (s *FreeSpaceSet) Region(i int) model.Rect {
	return s.regions[i]
}

// Regions returns a copy of the free regions in iteration order.
func (s *FreeSpaceSet) Regions() []model.Rect {
	return slices.Clone(s.regions)
}

// Area sums the area of every region. Overlapping regions are counted twice.
func (s *FreeSpaceSet) Area() float64 {
	var total float64
	for _, r := range s.regions {
		total += r.Area()
	}
	return total
}

// FindFirstFit returns the index of the first region a w x h block fits in.
func (s *FreeSpaceSet) FindFirstFit(w, h float64) (int, bool) {
	for i, r := range s.regions {
		if r.Fits(w, h) {
			return i, true
		}
	}
	return -1, false
}

// ConsumeAndSplit removes the region at index i and appends the fragments
// left over around placed. Only fragments with positive extent are added, so
// a block that exactly fills its region adds nothing.
func (s *FreeSpaceSet) ConsumeAndSplit(i int, placed model.Rect) {
	region := s.regions[i]
	s.regions = slices.Delete(s.regions, i, i+1)
	s.regions = append(s.regions, splitRegion(region, placed)...)
}

// splitRegion returns up to four fragments of region not covered by placed.
func splitRegion(region, placed model.Rect) []model.Rect {
	var fragments []model.Rect

	// Top strip (full width of the region)
	if placed.Top > region.Top {
		fragments = append(fragments, model.Rect{
			Top: region.Top, Left: region.Left,
			Right: region.Right, Bottom: placed.Top,
		})
	}
	// Bottom strip (full width of the region)
	if placed.Bottom < region.Bottom {
		fragments = append(fragments, model.Rect{
			Top: placed.Bottom, Left: region.Left,
			Right: region.Right, Bottom: region.Bottom,
		})
	}
	// Left strip (height of the placed block)
	if placed.Left > region.Left {
		fragments = append(fragments, model.Rect{
			Top: placed.Top, Left: region.Left,
			Right: placed.Left, Bottom: placed.Bottom,
		})
	}
	// Right strip (height of the placed block)
	if placed.Right < region.Right {
		fragments = append(fragments, model.Rect{
			Top: placed.Top, Left: placed.Right,
			Right: region.Right, Bottom: placed.Bottom,
		})
	}

	return fragments
}
