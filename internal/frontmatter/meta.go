package frontmatter

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Status values recognized in the status field.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Meta is the typed frontmatter header of a post or page.
type Meta struct {
	Title    string   `yaml:"title"`
	Slug     string   `yaml:"slug,omitempty"`
	Date     Time     `yaml:"date,omitempty"`
	Modified Time     `yaml:"modified,omitempty"`
	Author   string   `yaml:"author,omitempty"`
	Category string   `yaml:"category,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
	Summary  string   `yaml:"summary,omitempty"`
	Status   string   `yaml:"status,omitempty"`
	UID      string   `yaml:"uid,omitempty"`
}

// Time wraps time.Time with the date formats content files actually
// use: `2006-01-02`, `2006-01-02 15:04`, and RFC3339.
type Time struct {
	time.Time
}

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// UnmarshalYAML accepts any of the supported date layouts. Date-only
// values land at midnight; the site timezone is applied later when
// content is loaded, since the header itself carries no zone.
func (t *Time) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if s == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q (want YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC3339)", s)
}

// MarshalYAML writes the compact minute layout used by scaffolded
// files, or date-only when the time component is midnight.
func (t Time) MarshalYAML() (any, error) {
	if t.IsZero() {
		return "", nil
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02"), nil
	}
	return t.Format("2006-01-02 15:04"), nil
}

// In rebinds the wall-clock reading to loc. Content dates are written
// as local site time, so reinterpretation keeps the digits stable.
func (t Time) In(loc *time.Location) Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return Time{time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc)}
}
