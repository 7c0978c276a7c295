package cover

import (
	"fmt"
	"sort"
)

const (
	// DefaultTargetSize is the preferred number of blocks per superblock.
	DefaultTargetSize = 64
	// DefaultMaxSize is the hard ceiling per superblock.
	DefaultMaxSize = 64
)

// Superblock groups adjacent basic blocks into one scheduling unit so the
// runner distributes coarse chunks instead of individual tiny blocks.
type Superblock struct {
	ID     int
	Blocks []BlockID
}

// Pack groups the given blocks into superblocks of at most max blocks each,
// aiming for target. Input order does not matter; blocks are packed in
// ascending ID order so packing is deterministic.
func Pack(blocks []BlockID, target, max int) ([]Superblock, error) {
	if target <= 0 || max <= 0 || target > max {
		return nil, fmt.Errorf("cover: invalid superblock sizes target=%d max=%d", target, max)
	}

	sorted := make([]BlockID, 0, len(blocks))
	seen := make(map[BlockID]struct{}, len(blocks))
	for _, b := range blocks {
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		sorted = append(sorted, b)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var out []Superblock
	for start := 0; start < len(sorted); start += target {
		end := start + target
		if end > len(sorted) {
			end = len(sorted)
		}
		out = append(out, Superblock{ID: len(out), Blocks: sorted[start:end]})
	}
	return out, nil
}
