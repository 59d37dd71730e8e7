package funnel

import "fmt"

// Stage identifies which rung of the retrieval ladder produced an item.
type Stage int

const (
	// StageTagged requires per-part difficulty modifier tags.
	StageTagged Stage = iota + 1
	// StageExact drops the tag requirement.
	StageExact
	// StageCategory drops the subcategory filters.
	StageCategory
	// StageNeighbor moves to the adjacent difficulty tiers.
	StageNeighbor
)

var stageNames = map[Stage]string{
	StageTagged:   "tagged",
	StageExact:    "exact",
	StageCategory: "category",
	StageNeighbor: "neighbor",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Broadened reports whether the stage relaxed any of the requested
// constraints.
func (s Stage) Broadened() bool {
	return s != StageTagged
}
