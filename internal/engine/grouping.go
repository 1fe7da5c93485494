package engine

import (
	"errors"
	"fmt"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

// maxTagAttempts bounds how many times a colliding tag is redrawn.
const maxTagAttempts = 32

// ErrTagSpaceExhausted is returned when a generator keeps producing tags
// that are already in use.
var ErrTagSpaceExhausted = errors.New("tag generator produced no unused tag")

// AssignGroupTags gives every untagged block a tag shared by all blocks with
// the same width and height. Blocks that already have a tag keep it, and an
// already-tagged block passes its tag on to later untagged blocks of its size.
// Placement state is ignored: unplaced blocks are tagged too.
func AssignGroupTags(blocks []model.Block, gen TagGenerator) error {
	used := make(map[string]bool)
	for _, b := range blocks {
		if b.GroupTag != "" {
			used[b.GroupTag] = true
		}
	}

	for i := range blocks {
		if blocks[i].GroupTag == "" {
			tag, err := freshTag(gen, used)
			if err != nil {
				return fmt.Errorf("block %d: %w", blocks[i].Sequence, err)
			}
			blocks[i].GroupTag = tag
		}
		for j := i + 1; j < len(blocks); j++ {
			if blocks[j].GroupTag == "" && blocks[i].SameSize(blocks[j]) {
				blocks[j].GroupTag = blocks[i].GroupTag
			}
		}
	}
	return nil
}

// freshTag draws tags from gen until one is not in used, then marks it used.
func freshTag(gen TagGenerator, used map[string]bool) (string, error) {
	for attempt := 0; attempt < maxTagAttempts; attempt++ {
		tag, err := gen.NextTag()
		if err != nil {
			return "", err
		}
		if tag != "" && !used[tag] {
			used[tag] = true
			return tag, nil
		}
	}
	return "", ErrTagSpaceExhausted
}
