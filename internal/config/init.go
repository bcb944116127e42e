package config

import (
	"errors"
	"fmt"
	"os"
)

// ErrExists is returned by Init when the settings file is already
// present and force was not given.
var ErrExists = errors.New("settings file already exists")

const starterSettings = `# blogsmith settings
author:
  name: Your Name
  intro: A short line about yourself.
  # avatar: https://example.com/avatar.jpg
  # web: https://example.com

site:
  name: My Blog
  url: http://localhost:8000
  language: en
  timezone: America/Chicago

paths:
  content: content
  output: output
  theme: theme

# Blogroll shown by the theme sidebar.
links:
  - name: Go
    url: https://go.dev/

social:
  - name: github
    url: https://github.com/you

pagination:
  enabled: false

publish:
  remote: origin
  branch: gh-pages
  # token: ${BLOGSMITH_TOKEN}
`

const starterPublishOverrides = `# Production overrides merged on top of the base settings
# when building with --production (and by publish/github).
site:
  url: https://you.github.io

relative_urls: false

feeds:
  all_atom: true
  all_rss: true
  category_atom: true
`

// Init writes a starter settings file plus the production override
// sibling. Existing files are left alone unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrExists, path)
	}

	if err := os.WriteFile(path, []byte(starterSettings), 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	overridePath := publishOverridePath(path)
	if _, err := os.Stat(overridePath); err == nil && !force {
		return nil
	}
	if err := os.WriteFile(overridePath, []byte(starterPublishOverrides), 0o644); err != nil {
		return fmt.Errorf("write publish overrides: %w", err)
	}
	return nil
}
