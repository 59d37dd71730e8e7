package qbreader

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Categories are the QBReader top-level categories with their
// subcategories.
var Categories = map[string][]string{
	"Literature":     {"American Literature", "British Literature", "Classical Literature", "European Literature", "World Literature", "Other Literature"},
	"History":        {"American History", "Ancient History", "European History", "World History", "Other History"},
	"Science":        {"Biology", "Chemistry", "Physics", "Other Science"},
	"Fine Arts":      {"Visual Fine Arts", "Auditory Fine Arts", "Other Fine Arts"},
	"Religion":       nil,
	"Mythology":      nil,
	"Philosophy":     nil,
	"Social Science": nil,
	"Current Events": nil,
	"Geography":      nil,
	"Other Academic": nil,
	"Trash":          nil,
}

// CategoryNames returns the category names in alphabetical order.
func CategoryNames() []string {
	names := lo.Keys(Categories)
	slices.Sort(names)
	return names
}

// NormalizeCategory maps "All" or blank to "" (unrestricted) and fixes the
// case of known names. Unknown names are returned trimmed.
func NormalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return ""
	}
	if name, ok := lo.Find(CategoryNames(), func(n string) bool { return strings.EqualFold(n, s) }); ok {
		return name
	}
	return s
}
