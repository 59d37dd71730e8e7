package parts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/thetaquiz/internal/difficulty"
	"github.com/abhisek/thetaquiz/internal/qbreader"
)

func bonus(parts int, tags ...string) qbreader.Bonus {
	b := qbreader.Bonus{DifficultyModifiers: tags}
	for range parts {
		b.Parts = append(b.Parts, "p")
		b.Answers = append(b.Answers, "a")
	}
	return b
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name      string
		b         qbreader.Bonus
		requested int
		tier      difficulty.Part
		want      Selection
	}{
		{
			name:      "tag confirms a different slot",
			b:         bonus(3, "h", "e", "m"),
			requested: 1,
			tier:      difficulty.PartMedium,
			want:      Selection{Index: 2, Label: "Medium", Confirmed: true},
		},
		{
			name:      "long tag names are case-insensitive",
			b:         bonus(3, "EASY", "Hard", "medium"),
			requested: 0,
			tier:      difficulty.PartHard,
			want:      Selection{Index: 1, Label: "Hard", Confirmed: true},
		},
		{
			name:      "no tags falls back to requested slot",
			b:         bonus(3),
			requested: 1,
			tier:      difficulty.PartMedium,
			want:      Selection{Index: 1, Label: "Medium (fallback)"},
		},
		{
			name:      "no matching tag",
			b:         bonus(3, "e", "e", "m"),
			requested: 2,
			tier:      difficulty.PartHard,
			want:      Selection{Index: 2, Label: "Hard (fallback)"},
		},
		{
			name:      "clipped on a two-part bonus",
			b:         bonus(2),
			requested: 2,
			tier:      difficulty.PartHard,
			want:      Selection{Index: 1, Label: "Hard (fallback)"},
		},
		{
			name:      "matching tag beyond usable range is ignored",
			b:         bonus(2, "e", "m", "h"),
			requested: 2,
			tier:      difficulty.PartHard,
			want:      Selection{Index: 1, Label: "Hard (fallback)"},
		},
		{
			name:      "unknown tags are ignored",
			b:         bonus(3, "x", "?", ""),
			requested: 0,
			tier:      difficulty.PartEasy,
			want:      Selection{Index: 0, Label: "Easy (fallback)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.b, tt.requested, tt.tier))
		})
	}
}

func TestSelect_NeverOutOfBounds(t *testing.T) {
	for n := 0; n <= 3; n++ {
		for req := -1; req <= 4; req++ {
			s := Select(bonus(n), req, difficulty.PartEasy)
			assert.GreaterOrEqual(t, s.Index, 0)
			if n > 0 {
				assert.Less(t, s.Index, n)
			}
		}
	}
}
