package difficulty

import (
	"fmt"
	"strings"
)

// Part names the sub-part tier of a three-part bonus.
type Part int

const (
	PartEasy Part = iota
	PartMedium
	PartHard
)

var partNames = [...]string{"Easy", "Medium", "Hard"}

func (p Part) String() string {
	if p < PartEasy || p > PartHard {
		return fmt.Sprintf("Part(%d)", int(p))
	}
	return partNames[p]
}

// Index is the default slot of the part within a three-part bonus.
func (p Part) Index() int {
	return int(p)
}

// MarshalText encodes the part by name.
func (p Part) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a part name.
func (p *Part) UnmarshalText(b []byte) error {
	parsed, err := ParsePart(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePart accepts a part name or the single-letter modifier tags used by
// the content source ("e", "m", "h"). Matching is case-insensitive.
func ParsePart(s string) (Part, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "e", "easy":
		return PartEasy, nil
	case "m", "medium":
		return PartMedium, nil
	case "h", "hard":
		return PartHard, nil
	}
	return 0, fmt.Errorf("unknown part %q", s)
}

// Row is one calibrated (level, part) tier. Rows are immutable after the
// table is built.
type Row struct {
	// Level is the competition level the tier belongs to.
	Level string `json:"level"`

	// Part is the bonus part tier within the level.
	Part Part `json:"part"`

	// Anchor is the ability at which a response is a coin flip.
	Anchor float64 `json:"anchor"`

	// Codes are the content-source difficulty codes that hold this tier.
	Codes []int `json:"codes"`

	// PartIndex is the slot (0, 1, 2) requested from a three-part bonus.
	PartIndex int `json:"part_index"`

	// Position is the row's index in its table.
	Position int `json:"-"`
}

func (r Row) String() string {
	return fmt.Sprintf("%s %s (θ %+.1f)", r.Level, r.Part, r.Anchor)
}
