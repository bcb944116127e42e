// Package frontmatter reads and writes the YAML header block at the
// top of content files.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a
// frontmatter block but never closed it.
var ErrMissingClosingDelimiter = errors.New("frontmatter opening delimiter found but closing delimiter is missing")

var delimiter = []byte("---")

// Document is a content file split into its header and Markdown body.
type Document struct {
	Meta Meta
	Body []byte

	// Newline preserves the file's line ending style so edits can be
	// written back without churning every line.
	Newline string
}

// Parse splits and decodes a raw content file.
//
// A file without a frontmatter block is valid: the whole input becomes
// the body and Meta stays zero.
func Parse(content []byte) (*Document, error) {
	raw, body, had, nl, err := split(content)
	if err != nil {
		return nil, err
	}

	doc := &Document{Body: body, Newline: nl}
	if !had || len(raw) == 0 {
		return doc, nil
	}

	if err := yaml.Unmarshal(raw, &doc.Meta); err != nil {
		return nil, fmt.Errorf("decode frontmatter: %w", err)
	}
	return doc, nil
}

// split separates the `---` delimited header from the body, detecting
// the newline style along the way.
func split(content []byte) (raw, body []byte, had bool, newline string, err error) {
	newline = detectNewline(content)

	open := append(append([]byte{}, delimiter...), newline...)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, newline, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		// Empty header block.
		return nil, rest[len(open):], true, newline, nil
	}

	closeSeq := append(append([]byte(newline), delimiter...), newline...)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		return nil, nil, false, newline, ErrMissingClosingDelimiter
	}

	return rest[:idx+len(newline)], rest[idx+len(closeSeq):], true, newline, nil
}

func detectNewline(content []byte) string {
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			if i > 0 && content[i-1] == '\r' {
				return "\r\n"
			}
			return "\n"
		}
	}
	return "\n"
}
