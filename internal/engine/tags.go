package engine

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

// TagGenerator produces candidate group tags. Tags need only be unique within
// one packing run; AssignGroupTags retries on collisions.
type TagGenerator interface {
	NextTag() (string, error)
}

// NewTagGenerator returns the generator for style, drawing randomness from rng.
// Unknown styles fall back to hex colours.
func NewTagGenerator(style model.TagStyle, rng *rand.Rand) TagGenerator {
	switch style {
	case model.TagStyleUUID:
		return NewUUIDTags(rng)
	case model.TagStyleSequence:
		return &SequenceTags{Prefix: "g"}
	default:
		return NewHexColorTags(rng)
	}
}

// HexColorTags generates "#rrggbb" colour tags.
type HexColorTags struct {
	rng *rand.Rand
}

func NewHexColorTags(rng *rand.Rand) *HexColorTags {
	return &HexColorTags{rng: rng}
}

// NextTag picks a colour in HSV space so tags stay readable as fill colours.
func (g *HexColorTags) NextTag() (string, error) {
	hue := g.rng.Float64() * 360
	sat := 0.35 + g.rng.Float64()*0.5
	val := 0.55 + g.rng.Float64()*0.4
	return colorful.Hsv(hue, sat, val).Clamped().Hex(), nil
}

// UUIDTags generates short random ids from the first 8 hex digits of a v4 UUID.
type UUIDTags struct {
	rand io.Reader
}

// NewUUIDTags reads UUID randomness from r. A seeded *rand.Rand gives
// reproducible tags.
func NewUUIDTags(r io.Reader) *UUIDTags {
	return &UUIDTags{rand: r}
}

func (g *UUIDTags) NextTag() (string, error) {
	id, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		return "", fmt.Errorf("generating uuid tag: %w", err)
	}
	return id.String()[:8], nil
}

// SequenceTags generates Prefix0, Prefix1, ...
type SequenceTags struct {
	Prefix string
	next   int
}

func (g *SequenceTags) NextTag() (string, error) {
	tag := fmt.Sprintf("%s%d", g.Prefix, g.next)
	g.next++
	return tag, nil
}
