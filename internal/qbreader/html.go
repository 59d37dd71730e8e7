package qbreader

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML returns the text content of s with entities unescaped.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way keep what was read.
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
