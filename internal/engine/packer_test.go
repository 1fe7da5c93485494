package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

func defaultTestSettings() model.PackSettings {
	s := model.DefaultSettings()
	// Deterministic tags make failures readable
	s.TagStyle = model.TagStyleSequence
	return s
}

func mustBlocks(t *testing.T, sizes ...model.Size) []model.Block {
	t.Helper()
	blocks, err := model.NewBlocks(sizes)
	require.NoError(t, err)
	return blocks
}

func mustContainer(t *testing.T, w, h float64) model.Container {
	t.Helper()
	c, err := model.NewContainer(w, h)
	require.NoError(t, err)
	return c
}

func sz(w, h float64) model.Size {
	return model.Size{Width: w, Height: h}
}

func TestPack_SingleBlockFillsContainer(t *testing.T) {
	p := New(defaultTestSettings())
	result, err := p.Pack(mustContainer(t, 100, 100), mustBlocks(t, sz(100, 100)))
	require.NoError(t, err)

	require.Len(t, result.Placed, 1)
	assert.Equal(t, model.Rect{Top: 0, Left: 0, Right: 100, Bottom: 100}, result.Placed[0].Rect())
	assert.Empty(t, result.FreeSpaces, "exact fill must leave no free fragments")
	assert.Equal(t, 1.0, result.Fullness)
	assert.Equal(t, 1.0, result.Coverage)
	assert.Equal(t, 0, result.UnplacedCount())
}

func TestPack_SecondIdenticalBlockDoesNotFit(t *testing.T) {
	p := New(defaultTestSettings())
	result, err := p.Pack(mustContainer(t, 100, 100), mustBlocks(t, sz(60, 100), sz(60, 100)))
	require.NoError(t, err)

	require.Len(t, result.Placed, 1)
	first := result.Placed[0]
	assert.Equal(t, 0.0, first.Left)
	assert.Equal(t, 60.0, first.Right)
	assert.Equal(t, 0, first.Sequence)

	require.Equal(t, 1, result.UnplacedCount())
	unplaced := result.Unplaced[0]
	assert.Equal(t, 1, unplaced.Sequence)
	assert.False(t, unplaced.Placed)
	assert.Equal(t, first.GroupTag, unplaced.GroupTag, "same-sized blocks share a tag even when unplaced")

	assert.Equal(t, []model.Rect{{Top: 0, Left: 60, Right: 100, Bottom: 100}}, result.FreeSpaces)
	assert.InDelta(t, 0.75, result.Fullness, 1e-12)
}

func TestPack_FourQuadrants(t *testing.T) {
	p := New(defaultTestSettings())
	result, err := p.Pack(mustContainer(t, 10, 10),
		mustBlocks(t, sz(5, 5), sz(5, 5), sz(5, 5), sz(5, 5)))
	require.NoError(t, err)

	require.Len(t, result.Placed, 4)
	want := []model.PlacedBlock{
		{Top: 0, Left: 0, Right: 5, Bottom: 5, OutputIndex: 0, Sequence: 0, GroupTag: "g0"},
		{Top: 5, Left: 0, Right: 5, Bottom: 10, OutputIndex: 1, Sequence: 1, GroupTag: "g0"},
		{Top: 0, Left: 5, Right: 10, Bottom: 5, OutputIndex: 2, Sequence: 2, GroupTag: "g0"},
		{Top: 5, Left: 5, Right: 10, Bottom: 10, OutputIndex: 3, Sequence: 3, GroupTag: "g0"},
	}
	if diff := cmp.Diff(want, result.Placed); diff != "" {
		t.Errorf("unexpected layout (-want +got):\n%s", diff)
	}
	assert.Empty(t, result.FreeSpaces)
	assert.Equal(t, 1.0, result.Fullness)
}

func TestPack_LargestAreaFirst(t *testing.T) {
	p := New(defaultTestSettings())
	result, err := p.Pack(mustContainer(t, 100, 100),
		mustBlocks(t, sz(10, 10), sz(50, 50), sz(20, 20)))
	require.NoError(t, err)

	require.Len(t, result.Placed, 3)
	assert.Equal(t, 1, result.Placed[0].Sequence)
	assert.Equal(t, 2, result.Placed[1].Sequence)
	assert.Equal(t, 0, result.Placed[2].Sequence)
	for i, pb := range result.Placed {
		assert.Equal(t, i, pb.OutputIndex)
	}
}

func TestPack_EqualAreaKeepsInputOrder(t *testing.T) {
	// 2x8, 4x4 and 8x2 all have area 16
	p := New(defaultTestSettings())
	result, err := p.Pack(mustContainer(t, 100, 100),
		mustBlocks(t, sz(1, 1), sz(2, 8), sz(4, 4), sz(8, 2)))
	require.NoError(t, err)

	var seqs []int
	for _, pb := range result.Placed {
		seqs = append(seqs, pb.Sequence)
	}
	assert.Equal(t, []int{1, 2, 3, 0}, seqs)
}

func TestPack_OutputIndexSkipsUnplaced(t *testing.T) {
	p := New(defaultTestSettings())
	result, err := p.Pack(mustContainer(t, 10, 10),
		mustBlocks(t, sz(20, 20), sz(5, 5), sz(30, 1)))
	require.NoError(t, err)

	require.Len(t, result.Placed, 1)
	assert.Equal(t, 0, result.Placed[0].OutputIndex)
	assert.Equal(t, 1, result.Placed[0].Sequence)
	assert.Equal(t, 2, result.UnplacedCount())
}

func TestPack_DoesNotMutateInput(t *testing.T) {
	blocks := mustBlocks(t, sz(5, 5), sz(50, 50))
	before := append([]model.Block(nil), blocks...)

	_, err := New(defaultTestSettings()).Pack(mustContainer(t, 100, 100), blocks)
	require.NoError(t, err)
	assert.Equal(t, before, blocks)
}

func TestPack_PartialFillFullness(t *testing.T) {
	result, err := New(defaultTestSettings()).Pack(mustContainer(t, 10, 10), mustBlocks(t, sz(4, 6)))
	require.NoError(t, err)

	assert.Equal(t, []model.Rect{
		{Top: 6, Left: 0, Right: 10, Bottom: 10},
		{Top: 0, Left: 4, Right: 10, Bottom: 6},
	}, result.FreeSpaces)
	assert.InDelta(t, 0.24, result.Fullness, 1e-12)
	assert.InDelta(t, 0.24, result.Coverage, 1e-12)
}

func TestPack_SampleDataSet(t *testing.T) {
	var sizes []model.Size
	sizes = append(sizes, sz(250, 250), sz(200, 200))
	for i := 0; i < 4; i++ {
		sizes = append(sizes, sz(250, 150))
	}
	for i := 0; i < 8; i++ {
		sizes = append(sizes, sz(250, 50))
	}
	sizes = append(sizes, sz(50, 100))

	result, err := New(defaultTestSettings()).Pack(mustContainer(t, 500, 500), mustBlocks(t, sizes...))
	require.NoError(t, err)

	var seqs []int
	for _, pb := range result.Placed {
		seqs = append(seqs, pb.Sequence)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 6, 7, 8, 9, 10, 14}, seqs)
	assert.Equal(t, 5, result.UnplacedCount())

	// Free area 5000, total block area 357500
	assert.InDelta(t, 1-5000.0/362500.0, result.Fullness, 1e-12)
	assert.Equal(t, 5, result.GroupCount())
}

func TestPack_RejectsInvalidContainer(t *testing.T) {
	_, err := New(defaultTestSettings()).Pack(model.Container{Width: 0, Height: 10}, nil)
	require.Error(t, err)

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "container", verr.Subject)
}

func TestPack_RejectsInvalidBlock(t *testing.T) {
	blocks := []model.Block{{Sequence: 0, Width: 10, Height: 10}, {Sequence: 1, Width: -3, Height: 10}}
	_, err := New(defaultTestSettings()).Pack(mustContainer(t, 100, 100), blocks)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidDimensions))
}

func TestPack_NoBlocks(t *testing.T) {
	result, err := New(defaultTestSettings()).Pack(mustContainer(t, 10, 10), nil)
	require.NoError(t, err)

	assert.Empty(t, result.Placed)
	assert.Equal(t, 0, result.UnplacedCount())
	// Only free space and no blocks: nothing is full
	assert.Equal(t, 0.0, result.Fullness)
}

func TestPack_SameSeedSameTags(t *testing.T) {
	settings := model.PackSettings{TagStyle: model.TagStyleHex, Seed: 99}
	blocks := mustBlocks(t, sz(10, 10), sz(20, 5), sz(10, 10))
	container := mustContainer(t, 50, 50)

	a, err := New(settings).Pack(container, blocks)
	require.NoError(t, err)
	b, err := New(settings).Pack(container, blocks)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestPack_RepeatedCallsAreIndependent(t *testing.T) {
	container := mustContainer(t, 10, 10)
	blocks := mustBlocks(t, sz(5, 5))

	for _, style := range []model.TagStyle{model.TagStyleSequence, model.TagStyleHex, model.TagStyleUUID} {
		t.Run(string(style), func(t *testing.T) {
			p := New(model.PackSettings{TagStyle: style, Seed: 7})
			first, err := p.Pack(container, blocks)
			require.NoError(t, err)
			second, err := p.Pack(container, blocks)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestPack_IgnoresInputPlacement(t *testing.T) {
	blocks := mustBlocks(t, sz(5, 5))
	blocks[0].Placed = true
	blocks[0].Placement = model.Rect{Top: 5, Left: 5, Right: 10, Bottom: 10}

	result, err := New(defaultTestSettings()).Pack(mustContainer(t, 10, 10), blocks)
	require.NoError(t, err)
	require.Len(t, result.Placed, 1)
	assert.Equal(t, model.Rect{Top: 0, Left: 0, Right: 5, Bottom: 5}, result.Placed[0].Rect())
	assert.Equal(t, model.Rect{Top: 5, Left: 5, Right: 10, Bottom: 10}, blocks[0].Placement, "input untouched")

	blocks = mustBlocks(t, sz(20, 20))
	blocks[0].Placed = true
	result, err = New(defaultTestSettings()).Pack(mustContainer(t, 10, 10), blocks)
	require.NoError(t, err)
	assert.Empty(t, result.Placed)
	require.Len(t, result.Unplaced, 1)
	assert.False(t, result.Unplaced[0].Placed)
}

func TestPack_WithTagGeneratorOverride(t *testing.T) {
	gen := &SequenceTags{Prefix: "color-"}
	p := New(model.PackSettings{TagStyle: model.TagStyleHex}, WithTagGenerator(gen))

	result, err := p.Pack(mustContainer(t, 10, 10), mustBlocks(t, sz(5, 5)))
	require.NoError(t, err)
	require.Len(t, result.Placed, 1)
	assert.Equal(t, "color-0", result.Placed[0].GroupTag)
}

// TestPack_RandomLayoutsAreValid checks bounds, non-overlap and tag
// partitioning over many random inputs.
func TestPack_RandomLayoutsAreValid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		t.Run(fmt.Sprintf("run_%d", run), func(t *testing.T) {
			cw := float64(rng.Intn(200) + 1)
			ch := float64(rng.Intn(200) + 1)
			n := rng.Intn(30)
			sizes := make([]model.Size, n)
			for i := range sizes {
				sizes[i] = sz(float64(rng.Intn(80)+1), float64(rng.Intn(80)+1))
			}

			p := New(model.PackSettings{TagStyle: model.TagStyleUUID, Seed: int64(run)})
			result, err := p.Pack(mustContainer(t, cw, ch), mustBlocks(t, sizes...))
			require.NoError(t, err)

			bounds := model.Rect{Top: 0, Left: 0, Right: cw, Bottom: ch}
			for i, a := range result.Placed {
				require.True(t, bounds.Contains(a.Rect()), "block %d out of bounds: %v", a.Sequence, a.Rect())
				require.Equal(t, i, a.OutputIndex)
				for _, b := range result.Placed[i+1:] {
					require.False(t, a.Rect().Overlaps(b.Rect()), "blocks %d and %d overlap", a.Sequence, b.Sequence)
				}
			}
			require.Equal(t, n, len(result.Placed)+result.UnplacedCount())

			// Tags partition blocks by size
			tagBySize := make(map[model.Size]string)
			sizeByTag := make(map[string]model.Size)
			check := func(seq int, tag string) {
				s := sizes[seq]
				require.NotEmpty(t, tag)
				if prev, ok := tagBySize[s]; ok {
					require.Equal(t, prev, tag, "size %v has two tags", s)
				}
				if prev, ok := sizeByTag[tag]; ok {
					require.Equal(t, prev, s, "tag %s shared by different sizes", tag)
				}
				tagBySize[s] = tag
				sizeByTag[tag] = s
			}
			for _, pb := range result.Placed {
				check(pb.Sequence, pb.GroupTag)
			}
			for _, b := range result.Unplaced {
				check(b.Sequence, b.GroupTag)
			}
		})
	}
}
