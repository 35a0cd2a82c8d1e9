package api

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText flattens panel HTML for a terminal: <br> becomes a newline,
// other tags are dropped and entities are decoded. Em spaces widen to two
// spaces so padded names still line up in a monospace font.
func PlainText(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way keep what was read
			return strings.ReplaceAll(b.String(), "\u2003", "  ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte('\n')
			}
		}
	}
}
