package engine

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

func TestHexColorTags(t *testing.T) {
	gen := NewHexColorTags(rand.New(rand.NewSource(3)))
	hexPattern := regexp.MustCompile(`^#[0-9a-f]{6}$`)

	for i := 0; i < 50; i++ {
		tag, err := gen.NextTag()
		require.NoError(t, err)
		assert.Regexp(t, hexPattern, tag)

		_, err = colorful.Hex(tag)
		assert.NoError(t, err, "tag %s should parse as a colour", tag)
	}
}

func TestHexColorTags_Reproducible(t *testing.T) {
	a := NewHexColorTags(rand.New(rand.NewSource(11)))
	b := NewHexColorTags(rand.New(rand.NewSource(11)))

	for i := 0; i < 10; i++ {
		ta, _ := a.NextTag()
		tb, _ := b.NextTag()
		assert.Equal(t, ta, tb)
	}
}

func TestUUIDTags(t *testing.T) {
	a := NewUUIDTags(rand.New(rand.NewSource(5)))
	b := NewUUIDTags(rand.New(rand.NewSource(5)))

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		ta, err := a.NextTag()
		require.NoError(t, err)
		tb, err := b.NextTag()
		require.NoError(t, err)

		assert.Len(t, ta, 8)
		assert.Equal(t, ta, tb, "same seed should give same tags")
		assert.False(t, seen[ta], "duplicate tag %s", ta)
		seen[ta] = true
	}
}

func TestSequenceTags(t *testing.T) {
	gen := &SequenceTags{Prefix: "block-"}
	for _, want := range []string{"block-0", "block-1", "block-2"} {
		got, err := gen.NextTag()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNewTagGenerator(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	assert.IsType(t, &HexColorTags{}, NewTagGenerator(model.TagStyleHex, rng))
	assert.IsType(t, &UUIDTags{}, NewTagGenerator(model.TagStyleUUID, rng))
	assert.IsType(t, &SequenceTags{}, NewTagGenerator(model.TagStyleSequence, rng))
	assert.IsType(t, &HexColorTags{}, NewTagGenerator("unknown", rng))
}
