package model

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle in container-local coordinates.
// The origin is the top-left corner of the container; Y grows downwards.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// NewRect builds a rectangle from its top-left corner and dimensions.
func NewRect(top, left, width, height float64) Rect {
	return Rect{Top: top, Left: left, Right: left + width, Bottom: top + height}
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Area returns width * height.
func (r Rect) Area() float64 {
	return r.Width() * r.Height()
}

// Empty reports whether the rectangle has no positive extent on either axis.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Fits reports whether a w x h block fits inside the rectangle.
func (r Rect) Fits(w, h float64) bool {
	return w <= r.Width() && h <= r.Height()
}

// Contains reports whether inner lies entirely within r. Shared edges count as inside.
func (r Rect) Contains(inner Rect) bool {
	return r.Left <= inner.Left && r.Top <= inner.Top &&
		inner.Right <= r.Right && inner.Bottom <= r.Bottom
}

// Overlaps returns true if two rectangles share interior area (not just an edge).
func (r Rect) Overlaps(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right &&
		r.Top < o.Bottom && o.Top < r.Bottom
}

func (r Rect) String() string {
	return fmt.Sprintf("[top=%g left=%g right=%g bottom=%g]", r.Top, r.Left, r.Right, r.Bottom)
}

// Size holds the dimensions of a block or container.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Area returns width * height.
func (s Size) Area() float64 {
	return s.Width * s.Height
}

// Valid reports whether both dimensions are positive finite numbers.
func (s Size) Valid() bool {
	return positive(s.Width) && positive(s.Height)
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// BlockSpec is one line of a block list: a size repeated Quantity times.
type BlockSpec struct {
	Label    string  `json:"label,omitempty" yaml:"label,omitempty"`
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	Quantity int     `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

func NewBlockSpec(label string, w, h float64, qty int) BlockSpec {
	return BlockSpec{Label: label, Width: w, Height: h, Quantity: qty}
}

// Block is a single block to be packed.
//
// Placed and Placement form the block's placement state: Placement is only
// meaningful once Placed is true. An empty GroupTag means no tag has been
// assigned yet.
type Block struct {
	Sequence  int     `json:"sequence"` // Position in the original, pre-sort input
	Label     string  `json:"label,omitempty"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Placed    bool    `json:"placed"`
	Placement Rect    `json:"placement"`
	GroupTag  string  `json:"group_tag,omitempty"`
}

// Size returns the block's dimensions.
func (b Block) Size() Size {
	return Size{Width: b.Width, Height: b.Height}
}

// Area returns width * height.
func (b Block) Area() float64 {
	return b.Width * b.Height
}

// SameSize reports whether two blocks have identical width and height.
func (b Block) SameSize(o Block) bool {
	return b.Width == o.Width && b.Height == o.Height
}

// Validate checks that the block has positive dimensions.
func (b Block) Validate() error {
	if !b.Size().Valid() {
		return &ValidationError{Subject: "block", Index: b.Sequence, Width: b.Width, Height: b.Height}
	}
	return nil
}

// NewBlocks builds unplaced, untagged blocks from sizes. Sequence numbers
// follow the order of sizes.
func NewBlocks(sizes []Size) ([]Block, error) {
	blocks := make([]Block, 0, len(sizes))
	for i, s := range sizes {
		b := Block{Sequence: i, Width: s.Width, Height: s.Height}
		if err := b.Validate(); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// ExpandSpecs expands block specs by quantity into individual blocks.
// A zero quantity counts as one. Sequence numbers follow the expanded order.
func ExpandSpecs(specs []BlockSpec) ([]Block, error) {
	var blocks []Block
	for _, spec := range specs {
		if spec.Quantity < 0 {
			return nil, fmt.Errorf("block %q: quantity must not be negative, got %d", spec.Label, spec.Quantity)
		}
		qty := max(spec.Quantity, 1)
		for i := 0; i < qty; i++ {
			b := Block{
				Sequence: len(blocks),
				Label:    spec.Label,
				Width:    spec.Width,
				Height:   spec.Height,
			}
			if err := b.Validate(); err != nil {
				return nil, err
			}
			blocks = append(blocks, b)
		}
	}
	return blocks, nil
}

// Container is the fixed-size rectangle blocks are packed into.
type Container struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// NewContainer returns a container, rejecting non-positive dimensions.
func NewContainer(w, h float64) (Container, error) {
	c := Container{Width: w, Height: h}
	if err := c.Validate(); err != nil {
		return Container{}, err
	}
	return c, nil
}

// Validate checks that the container has positive dimensions.
func (c Container) Validate() error {
	if !(Size{Width: c.Width, Height: c.Height}).Valid() {
		return &ValidationError{Subject: "container", Index: -1, Width: c.Width, Height: c.Height}
	}
	return nil
}

// Area returns width * height.
func (c Container) Area() float64 {
	return c.Width * c.Height
}

// TagStyle selects how group tags are generated.
type TagStyle string

const (
	TagStyleHex      TagStyle = "hex"      // Random "#rrggbb" colours
	TagStyleUUID     TagStyle = "uuid"     // Random 8-character ids
	TagStyleSequence TagStyle = "sequence" // Deterministic counter: g0, g1, ...
)

// ParseTagStyle converts a string into a TagStyle.
func ParseTagStyle(s string) (TagStyle, error) {
	switch TagStyle(s) {
	case TagStyleHex, TagStyleUUID, TagStyleSequence:
		return TagStyle(s), nil
	case "":
		return TagStyleHex, nil
	default:
		return "", fmt.Errorf("unknown tag style %q (want hex, uuid or sequence)", s)
	}
}

// PackSettings holds the packer configuration.
type PackSettings struct {
	TagStyle TagStyle `json:"tag_style"`
	Seed     int64    `json:"seed"` // Seed for the tag generator's random source
}

func DefaultSettings() PackSettings {
	return PackSettings{
		TagStyle: TagStyleHex,
		Seed:     1,
	}
}

// PlacedBlock is one entry of the packing output.
type PlacedBlock struct {
	Top         float64 `json:"top"`
	Left        float64 `json:"left"`
	Right       float64 `json:"right"`
	Bottom      float64 `json:"bottom"`
	OutputIndex int     `json:"output_index"` // Zero-based index among placed blocks, in packing order
	Sequence    int     `json:"sequence"`     // Index in the original input
	Label       string  `json:"label,omitempty"`
	GroupTag    string  `json:"group_tag"`
}

// Rect returns the placed rectangle.
func (p PlacedBlock) Rect() Rect {
	return Rect{Top: p.Top, Left: p.Left, Right: p.Right, Bottom: p.Bottom}
}

// PackResult holds the full outcome of a packing run.
type PackResult struct {
	Container  Container     `json:"container"`
	Fullness   float64       `json:"fullness"`
	Coverage   float64       `json:"coverage"`
	Placed     []PlacedBlock `json:"placed_blocks"`
	Unplaced   []Block       `json:"unplaced_blocks"`
	FreeSpaces []Rect        `json:"free_spaces"`
}

// UnplacedCount returns how many blocks could not be placed.
func (r PackResult) UnplacedCount() int {
	return len(r.Unplaced)
}

// PlacedArea returns the total area of placed blocks.
func (r PackResult) PlacedArea() float64 {
	var total float64
	for _, p := range r.Placed {
		total += p.Rect().Area()
	}
	return total
}

// GroupCount returns the number of distinct group tags among all blocks.
func (r PackResult) GroupCount() int {
	seen := make(map[string]bool)
	for _, p := range r.Placed {
		seen[p.GroupTag] = true
	}
	for _, b := range r.Unplaced {
		seen[b.GroupTag] = true
	}
	return len(seen)
}
