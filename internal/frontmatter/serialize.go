package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Serialize renders the document back to file bytes: `---` delimited
// header followed by the body, using the document's newline style.
//
// Field order is fixed by the Meta struct, so output is deterministic
// and diffs stay small.
func Serialize(doc *Document) ([]byte, error) {
	nl := doc.Newline
	if nl == "" {
		nl = "\n"
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc.Meta); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	header := buf.Bytes()
	if nl != "\n" {
		header = bytes.ReplaceAll(header, []byte("\n"), []byte(nl))
	}

	out := make([]byte, 0, len(header)+len(doc.Body)+2*len(delimiter)+2*len(nl))
	out = append(out, delimiter...)
	out = append(out, nl...)
	out = append(out, header...)
	out = append(out, delimiter...)
	out = append(out, nl...)
	out = append(out, doc.Body...)
	return out, nil
}
