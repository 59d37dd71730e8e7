// Package parts picks which sub-part of a multi-part bonus to present.
package parts

import (
	"github.com/abhisek/thetaquiz/internal/difficulty"
	"github.com/abhisek/thetaquiz/internal/qbreader"
)

// Selection is the chosen part of a bonus.
type Selection struct {
	Index int `json:"index"`

	// Label is the tier name, suffixed with " (fallback)" when the part was
	// not confirmed by a difficulty modifier tag.
	Label string `json:"label"`

	// Confirmed is true when a modifier tag on the bonus named the tier.
	Confirmed bool `json:"confirmed"`
}

// Select returns the first part whose modifier tag names tier. Without a
// matching tag it clips requested into the usable range and marks the
// selection as a fallback. A bonus with no usable parts selects index 0.
func Select(b qbreader.Bonus, requested int, tier difficulty.Part) Selection {
	n := b.Usable()
	for i, tag := range b.DifficultyModifiers {
		if i >= n {
			break
		}
		if p, err := difficulty.ParsePart(tag); err == nil && p == tier {
			return Selection{Index: i, Label: tier.String(), Confirmed: true}
		}
	}

	idx := min(max(requested, 0), max(n-1, 0))
	return Selection{Index: idx, Label: tier.String() + " (fallback)"}
}
