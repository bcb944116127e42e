package markdown

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// PlainText strips tags from rendered HTML, collapsing whitespace.
// Used for auto summaries and feed descriptions.
func PlainText(rendered []byte) string {
	tok := html.NewTokenizer(bytes.NewReader(rendered))
	var sb strings.Builder
	skipDepth := 0

	for {
		switch tok.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.StartTagToken:
			name, _ := tok.TagName()
			if skippedTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tok.TagName()
			if skippedTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(tok.Text())
				sb.WriteByte(' ')
			}
		}
	}
}

// FirstParagraph returns the text of the first <p> element, or the
// whole plain text when no paragraph exists.
func FirstParagraph(rendered []byte) string {
	tok := html.NewTokenizer(bytes.NewReader(rendered))
	var sb strings.Builder
	inP := false

	for {
		switch tok.Next() {
		case html.ErrorToken:
			return PlainText(rendered)
		case html.StartTagToken:
			name, _ := tok.TagName()
			if string(name) == "p" {
				inP = true
			}
		case html.EndTagToken:
			name, _ := tok.TagName()
			if string(name) == "p" && inP {
				return strings.Join(strings.Fields(sb.String()), " ")
			}
		case html.TextToken:
			if inP {
				sb.Write(tok.Text())
			}
		}
	}
}

func skippedTag(name string) bool {
	switch name {
	case "script", "style":
		return true
	}
	return false
}
