package qbreader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		b    Bonus
		want string
	}{
		{"native id wins", Bonus{ID: "x1", Set: Set{Name: "S"}}, "x1"},
		{"composite", Bonus{Set: Set{Name: "ACF Fall", Year: 2021}, Packet: Packet{Number: 3}, Number: 7}, "ACF Fall|2021|3|7"},
		{"missing fields", Bonus{Number: 2}, "?|?|?|2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.b.Key())
		})
	}
}

func TestUsable(t *testing.T) {
	assert.Equal(t, 0, Bonus{}.Usable())
	assert.Equal(t, 2, Bonus{Parts: []string{"a", "b", "c"}, Answers: []string{"x", "y"}}.Usable())
	assert.Equal(t, 1, Bonus{PartsSanitized: []string{"a"}, AnswersSanitized: []string{"x", "y"}}.Usable())
}

func TestDisplayPrefersSanitized(t *testing.T) {
	b := Bonus{
		Leadin:          "<i>raw</i>",
		LeadinSanitized: "clean",
		Parts:           []string{"<b>one</b> &amp; two"},
	}
	assert.Equal(t, "clean", b.DisplayLeadin())
	assert.Equal(t, []string{"one & two"}, b.DisplayParts())
}

func TestAnswerKeysPreferFormatted(t *testing.T) {
	b := Bonus{Answers: []string{"<u>A</u>"}, AnswersSanitized: []string{"A"}}
	assert.Equal(t, []string{"<u>A</u>"}, b.AnswerKeys())
	b.Answers = nil
	assert.Equal(t, []string{"A"}, b.AnswerKeys())
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "", StripHTML(""))
	assert.Equal(t, "Mitochondria [accept powerhouse]", StripHTML("<b><u>Mitochondria</u></b> [accept <i>powerhouse</i>]"))
	assert.Equal(t, "Fish & Chips", StripHTML("Fish &amp; Chips"))
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "", NormalizeCategory("All"))
	assert.Equal(t, "", NormalizeCategory("  "))
	assert.Equal(t, "Fine Arts", NormalizeCategory("fine arts"))
	assert.Equal(t, "Social Science", NormalizeCategory(" social science "))
}

func TestCategoryNamesSorted(t *testing.T) {
	names := CategoryNames()
	assert.Len(t, names, len(Categories))
	assert.IsNonDecreasing(t, names)
}
