package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput is a focused single-line input. With Digits set, only 0-9 are
// accepted.
type TextInput struct {
	Model  textinput.Model
	Digits bool
}

// NewTextInput creates a focused input holding at most limit characters.
func NewTextInput(placeholder string, digits bool, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.Focus()
	return TextInput{Model: ti, Digits: digits}
}

// Init focuses the input.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards msg to the input, dropping non-digit keys in Digits mode.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.Digits {
		if k, ok := msg.(tea.KeyMsg); ok {
			if s := k.String(); len(s) == 1 && (s[0] < '0' || s[0] > '9') {
				return t, nil
			}
		}
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input.
func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the trimmed text.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Int parses the value as an integer.
func (t TextInput) Int() (int, error) {
	return strconv.Atoi(t.Value())
}

// Reset clears the text.
func (t *TextInput) Reset() {
	t.Model.Reset()
}

// SetValue replaces the text.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}
