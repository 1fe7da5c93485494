package model

import "sort"

// OffcutLimits sets how large a free region must be to count as reusable.
type OffcutLimits struct {
	MinDimension float64 // Smallest accepted width and height
	MinArea      float64
}

// Offcut is a free region left after packing that is large enough to reuse.
type Offcut struct {
	Rect
	Index int `json:"index"` // Position of the region in PackResult.FreeSpaces
}

// DetectOffcuts returns the free regions that meet limits, largest area
// first. Regions of equal area keep their free-list order. Free regions may
// overlap, so the offcut areas must not be summed as exact waste.
func DetectOffcuts(free []Rect, limits OffcutLimits) []Offcut {
	var offcuts []Offcut
	for i, r := range free {
		if r.Empty() {
			continue
		}
		if r.Width() < limits.MinDimension || r.Height() < limits.MinDimension || r.Area() < limits.MinArea {
			continue
		}
		offcuts = append(offcuts, Offcut{Rect: r, Index: i})
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Area() > offcuts[j].Area()
	})
	return offcuts
}
