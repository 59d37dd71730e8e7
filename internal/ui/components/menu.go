package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/thetaquiz/internal/ui/theme"
)

// Menu is a vertical list with a cursor. It scrolls when there are more
// items than Visible.
type Menu struct {
	Items    []string
	Selected int
	Visible  int
	offset   int
}

// NewMenu creates a menu showing up to visible items at once; zero shows
// them all.
func NewMenu(items []string, visible int) Menu {
	return Menu{Items: items, Visible: visible}
}

// Update moves the cursor on up/down (or k/j), wrapping at the ends.
func (m Menu) Update(msg tea.Msg) Menu {
	k, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m
	}
	switch k.String() {
	case "up", "k":
		m.Selected = (m.Selected - 1 + len(m.Items)) % len(m.Items)
	case "down", "j":
		m.Selected = (m.Selected + 1) % len(m.Items)
	case "home":
		m.Selected = 0
	case "end":
		m.Selected = len(m.Items) - 1
	}
	m.scroll()
	return m
}

func (m *Menu) scroll() {
	if m.Visible <= 0 {
		return
	}
	if m.Selected < m.offset {
		m.offset = m.Selected
	}
	if m.Selected >= m.offset+m.Visible {
		m.offset = m.Selected - m.Visible + 1
	}
}

// Value returns the selected item, or "" for an empty menu.
func (m Menu) Value() string {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return ""
	}
	return m.Items[m.Selected]
}

// View renders the visible window of items.
func (m Menu) View() string {
	end := len(m.Items)
	if m.Visible > 0 {
		end = min(m.offset+m.Visible, len(m.Items))
	}
	var b strings.Builder
	for i := m.offset; i < end; i++ {
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("▸ " + m.Items[i]))
		} else {
			b.WriteString(theme.Unselected.Render("  " + m.Items[i]))
		}
		b.WriteString("\n")
	}
	return b.String()
}
