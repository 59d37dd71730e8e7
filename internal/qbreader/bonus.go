package qbreader

import (
	"fmt"
	"strconv"
)

// Set identifies the question set a bonus came from.
type Set struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
	Year int    `json:"year"`
}

// Packet identifies the packet within a set.
type Packet struct {
	ID     string `json:"_id,omitempty"`
	Name   string `json:"name,omitempty"`
	Number int    `json:"number"`
}

// Bonus is a multi-part quizbowl bonus as returned by random-bonus.
type Bonus struct {
	ID                  string   `json:"_id,omitempty"`
	Leadin              string   `json:"leadin"`
	LeadinSanitized     string   `json:"leadin_sanitized,omitempty"`
	Parts               []string `json:"parts"`
	PartsSanitized      []string `json:"parts_sanitized,omitempty"`
	Answers             []string `json:"answers"`
	AnswersSanitized    []string `json:"answers_sanitized,omitempty"`
	DifficultyModifiers []string `json:"difficultyModifiers,omitempty"`
	Category            string   `json:"category,omitempty"`
	Subcategory         string   `json:"subcategory,omitempty"`
	Difficulty          int      `json:"difficulty,omitempty"`
	Number              int      `json:"number"`
	Set                 Set      `json:"set"`
	Packet              Packet   `json:"packet"`
}

// Key returns a stable identity for deduplication: the native id when
// present, otherwise "set|year|packet|number" with "?" for missing fields.
func (b Bonus) Key() string {
	if b.ID != "" {
		return b.ID
	}
	name := b.Set.Name
	if name == "" {
		name = "?"
	}
	return fmt.Sprintf("%s|%s|%s|%s", name, orUnknown(b.Set.Year), orUnknown(b.Packet.Number), orUnknown(b.Number))
}

// DisplayLeadin returns the plain-text lead-in.
func (b Bonus) DisplayLeadin() string {
	if b.LeadinSanitized != "" {
		return b.LeadinSanitized
	}
	return StripHTML(b.Leadin)
}

// DisplayParts returns the plain-text part prompts.
func (b Bonus) DisplayParts() []string {
	if len(b.PartsSanitized) > 0 {
		return b.PartsSanitized
	}
	out := make([]string, len(b.Parts))
	for i, p := range b.Parts {
		out[i] = StripHTML(p)
	}
	return out
}

// AnswerKeys returns the raw answer lines, preferring the formatted HTML
// the judge understands.
func (b Bonus) AnswerKeys() []string {
	if len(b.Answers) > 0 {
		return b.Answers
	}
	return b.AnswersSanitized
}

// Usable is the number of parts that have both a prompt and an answer.
func (b Bonus) Usable() int {
	return min(len(b.DisplayParts()), len(b.AnswerKeys()))
}

// HasModifiers reports whether the bonus carries per-part difficulty tags.
func (b Bonus) HasModifiers() bool {
	return len(b.DifficultyModifiers) > 0
}

func orUnknown(n int) string {
	if n == 0 {
		return "?"
	}
	return strconv.Itoa(n)
}
