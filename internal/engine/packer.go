package engine

import (
	"fmt"
	"math/rand"
	"slices"

	"go.uber.org/zap"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

// Packer places blocks into a container using first-fit over a free-space
// list, largest area first.
//
// Each Pack call draws tags from a fresh generator seeded from Settings, so
// the same input always yields the same result. A generator supplied with
// WithTagGenerator is shared by every call and makes the Packer unsafe for
// concurrent use.
type Packer struct {
	Settings model.PackSettings

	tags   TagGenerator // nil unless overridden
	logger *zap.Logger
}

// Option configures a Packer.
type Option func(*Packer)

// WithLogger sets the logger used for placement diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Packer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTagGenerator overrides the tag generator derived from the settings.
func WithTagGenerator(gen TagGenerator) Option {
	return func(p *Packer) {
		if gen != nil {
			p.tags = gen
		}
	}
}

func New(settings model.PackSettings, opts ...Option) *Packer {
	p := &Packer{
		Settings: settings,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// tagGenerator returns the override, or a new generator for one pack run.
func (p *Packer) tagGenerator() TagGenerator {
	if p.tags != nil {
		return p.tags
	}
	return NewTagGenerator(p.Settings.TagStyle, rand.New(rand.NewSource(p.Settings.Seed)))
}

// Pack places blocks into container and returns the layout.
//
// The blocks slice is not modified. Placement state on the input is ignored:
// every block is placed afresh. Blocks that fit nowhere are reported in
// PackResult.Unplaced; only invalid dimensions produce an error.
func (p *Packer) Pack(container model.Container, blocks []model.Block) (model.PackResult, error) {
	if err := container.Validate(); err != nil {
		return model.PackResult{}, err
	}
	for _, b := range blocks {
		if err := b.Validate(); err != nil {
			return model.PackResult{}, err
		}
	}

	work := sortByAreaDesc(blocks)
	free := NewFreeSpaceSet(container.Width, container.Height)

	for i := range work {
		p.place(free, &work[i])
	}

	if err := AssignGroupTags(work, p.tagGenerator()); err != nil {
		return model.PackResult{}, fmt.Errorf("assigning group tags: %w", err)
	}

	result := model.PackResult{
		Container:  container,
		Fullness:   Fullness(work, free),
		Coverage:   Coverage(container, work),
		Placed:     BuildOutput(work),
		FreeSpaces: free.Regions(),
	}
	for _, b := range work {
		if !b.Placed {
			result.Unplaced = append(result.Unplaced, b)
		}
	}

	p.logger.Info("Packing finished",
		zap.Int("blocks", len(work)),
		zap.Int("placed", len(result.Placed)),
		zap.Int("unplaced", result.UnplacedCount()),
		zap.Int("free_regions", free.Len()),
		zap.Float64("fullness", result.Fullness),
	)
	return result, nil
}

// place puts b into the first free region it fits in, if any.
func (p *Packer) place(free *FreeSpaceSet, b *model.Block) {
	idx, ok := free.FindFirstFit(b.Width, b.Height)
	if !ok {
		p.logger.Debug("Block does not fit",
			zap.Int("sequence", b.Sequence),
			zap.Stringer("size", b.Size()),
		)
		return
	}

	region := free.Region(idx)
	b.Placement = model.Rect{
		Top:    region.Top,
		Left:   region.Left,
		Right:  region.Left + min(b.Width, region.Width()),
		Bottom: region.Top + min(b.Height, region.Height()),
	}
	b.Placed = true
	free.ConsumeAndSplit(idx, b.Placement)

	p.logger.Debug("Block placed",
		zap.Int("sequence", b.Sequence),
		zap.Stringer("placement", b.Placement),
		zap.Int("free_regions", free.Len()),
	)
}

// sortByAreaDesc returns an unplaced copy of blocks sorted by descending
// area. Blocks of equal area keep their input order.
func sortByAreaDesc(blocks []model.Block) []model.Block {
	work := slices.Clone(blocks)
	for i := range work {
		work[i].Placed = false
		work[i].Placement = model.Rect{}
	}
	slices.SortStableFunc(work, func(a, b model.Block) int {
		switch aa, ba := a.Area(), b.Area(); {
		case aa > ba:
			return -1
		case aa < ba:
			return 1
		default:
			return 0
		}
	})
	return work
}
