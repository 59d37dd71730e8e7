package judge

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/abhisek/thetaquiz/internal/qbreader"
)

// Exact judges offline by normalized string comparison against the answer
// line: the main answer, its underlined (required) portions and the
// alternatives listed in brackets. "prompt on" alternatives yield Prompt.
type Exact struct{}

func (Exact) Judge(_ context.Context, answerKey, given string) (Decision, error) {
	g := normalize(given)
	if g == "" {
		return Decision{Verdict: Reject}, nil
	}
	accept, prompt := parseAnswerLine(answerKey)
	for _, a := range accept {
		if a == g {
			return Decision{Verdict: Accept}, nil
		}
	}
	for _, p := range prompt {
		if p == g {
			return Decision{Verdict: Prompt, DirectedPrompt: "be more specific"}, nil
		}
	}
	return Decision{Verdict: Reject}, nil
}

// parseAnswerLine returns the normalized accepted and prompted forms.
func parseAnswerLine(answerKey string) (accept, prompt []string) {
	add := func(dst *[]string, s string) {
		if n := normalize(s); n != "" {
			*dst = append(*dst, n)
		}
	}

	text := qbreader.StripHTML(answerKey)
	main, notes := text, ""
	if i := strings.IndexAny(text, "[("); i >= 0 {
		main, notes = text[:i], text[i+1:]
		notes = strings.TrimRight(strings.TrimSpace(notes), "])")
	}
	add(&accept, main)
	for _, u := range underlined(answerKey) {
		add(&accept, u)
	}

	for _, clause := range strings.FieldsFunc(notes, func(r rune) bool { return r == ';' || r == '[' || r == ']' }) {
		c := strings.ToLower(strings.TrimSpace(clause))
		dst := &accept
		switch {
		case strings.HasPrefix(c, "prompt on"):
			dst = &prompt
			c = strings.TrimPrefix(c, "prompt on")
		case strings.HasPrefix(c, "reject"), strings.HasPrefix(c, "do not accept"), strings.HasPrefix(c, "anti-prompt"):
			continue
		default:
			for _, p := range []string{"also accept", "accept", "or"} {
				if strings.HasPrefix(c, p+" ") {
					c = strings.TrimPrefix(c, p)
					break
				}
			}
		}
		for _, alt := range strings.Split(c, " or ") {
			for _, a := range strings.Split(alt, ",") {
				add(dst, a)
			}
		}
	}
	return accept, prompt
}

// underlined returns the text of every <u> element.
func underlined(s string) []string {
	z := html.NewTokenizer(strings.NewReader(s))
	var (
		out   []string
		depth int
		cur   strings.Builder
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "u" {
				depth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "u" && depth > 0 {
				depth--
				if depth == 0 {
					out = append(out, cur.String())
					cur.Reset()
				}
			}
		case html.TextToken:
			if depth > 0 {
				cur.Write(z.Text())
			}
		}
	}
}

// normalize lowercases, drops punctuation and leading articles, and
// collapses whitespace.
func normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r) || r == '-':
			return ' '
		}
		return -1
	}, s)
	words := strings.Fields(s)
	if len(words) > 1 {
		switch words[0] {
		case "the", "a", "an":
			words = words[1:]
		}
	}
	return strings.Join(words, " ")
}
