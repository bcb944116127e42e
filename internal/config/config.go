package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Profile selects which settings variant a command runs under.
//
// The debug profile is the day-to-day editing setup: relative URLs,
// feeds off, drafts visible to the preview commands. The production
// profile is what publish/github use: absolute URLs, feeds on.
type Profile string

const (
	ProfileDebug      Profile = "debug"
	ProfileProduction Profile = "production"
)

// Settings is the full site configuration.
type Settings struct {
	Author     Author     `yaml:"author"`
	Site       Site       `yaml:"site"`
	Paths      Paths      `yaml:"paths"`
	Links      []Link     `yaml:"links,omitempty"`
	Social     []Link     `yaml:"social,omitempty"`
	Pagination Pagination `yaml:"pagination"`
	Feeds      Feeds      `yaml:"feeds"`
	Publish    Publishing `yaml:"publish"`

	// RelativeURLs emits document-relative links instead of absolute
	// ones; the debug profile turns this on by default.
	RelativeURLs bool `yaml:"relative_urls"`

	// DefaultStatus is applied to content without an explicit status
	// field: "published" or "draft".
	DefaultStatus string `yaml:"default_status,omitempty"`

	// Editor overrides $BLOGSMITH_EDITOR / $EDITOR for new/edit commands.
	Editor string `yaml:"editor,omitempty"`

	profile Profile
}

// Author describes the blog owner as shown by themes.
type Author struct {
	Name   string `yaml:"name"`
	Intro  string `yaml:"intro,omitempty"`
	Avatar string `yaml:"avatar,omitempty"`
	Web    string `yaml:"web,omitempty"`
}

// Site holds site-wide identity fields.
type Site struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Description string `yaml:"description,omitempty"`
	Language    string `yaml:"language,omitempty"`
	Timezone    string `yaml:"timezone,omitempty"`
}

// Paths locates the content tree, theme and output directory. All are
// relative to the settings file's directory unless absolute.
type Paths struct {
	Content string `yaml:"content"`
	Output  string `yaml:"output"`
	Theme   string `yaml:"theme"`
	Extra   string `yaml:"extra,omitempty"`
}

// Link is a name/URL pair used for the blogroll and social widgets.
type Link struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Pagination controls index page chunking.
type Pagination struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size,omitempty"`
}

// Feeds toggles feed generation. The debug profile keeps everything
// off; the production override enables what the site wants.
type Feeds struct {
	AllAtom      bool `yaml:"all_atom"`
	AllRSS       bool `yaml:"all_rss"`
	CategoryAtom bool `yaml:"category_atom"`
}

// Publishing configures the github command.
type Publishing struct {
	Remote string `yaml:"remote,omitempty"`
	Branch string `yaml:"branch,omitempty"`
	CNAME  string `yaml:"cname,omitempty"`
	// Token is a personal access token for HTTPS pushes. Usually set
	// through ${BLOGSMITH_TOKEN} expansion rather than inline.
	Token string `yaml:"token,omitempty"`
}

// Profile reports which profile the settings were loaded under.
func (s *Settings) Profile() Profile { return s.profile }

// Location resolves the configured timezone.
func (s *Settings) Location() (*time.Location, error) {
	if s.Site.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Site.Timezone)
}

// Load reads settings for the debug profile.
func Load(path string) (*Settings, error) {
	return LoadProfile(path, ProfileDebug)
}

// LoadProfile reads the settings file and, for the production profile,
// merges the sibling publish override file (<name>.publish.yaml) on
// top, mirroring the pelicanconf/publishconf split the site grew up
// with.
func LoadProfile(path string, profile Profile) (*Settings, error) {
	loadEnvFile()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &s); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}

	if profile == ProfileProduction {
		if err := mergePublishOverrides(&s, publishOverridePath(path)); err != nil {
			return nil, err
		}
	}

	s.profile = profile
	applyDefaults(&s, profile)
	resolvePaths(&s, filepath.Dir(path))

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return &s, nil
}

func mergePublishOverrides(s *Settings, overridePath string) error {
	data, err := os.ReadFile(overridePath)
	if os.IsNotExist(err) {
		// No override file: production still means absolute URLs and
		// feeds on, matching what a publishconf would have set.
		s.RelativeURLs = false
		s.Feeds = Feeds{AllAtom: true, AllRSS: true, CategoryAtom: true}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read publish overrides: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), s); err != nil {
		return fmt.Errorf("parse publish overrides %s: %w", overridePath, err)
	}
	return nil
}

// resolvePaths anchors relative paths to the settings file's
// directory so commands work regardless of the working directory.
func resolvePaths(s *Settings, base string) {
	for _, p := range []*string{&s.Paths.Content, &s.Paths.Output, &s.Paths.Theme, &s.Paths.Extra} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

func (s *Settings) validate() error {
	if s.profile == ProfileProduction && s.Site.URL == "" {
		return fmt.Errorf("site.url is required for the production profile")
	}
	if s.Pagination.Enabled && s.Pagination.Size <= 0 {
		return fmt.Errorf("pagination.size must be positive when pagination is enabled")
	}
	if s.Site.Timezone != "" {
		if _, err := time.LoadLocation(s.Site.Timezone); err != nil {
			return fmt.Errorf("invalid site.timezone %q: %w", s.Site.Timezone, err)
		}
	}
	switch s.DefaultStatus {
	case "", "published", "draft":
	default:
		return fmt.Errorf("default_status must be published or draft, got %q", s.DefaultStatus)
	}
	return nil
}

// loadEnvFile loads a .env file if present so ${VAR} expansion in the
// settings file can pick up local secrets (publish tokens and such).
func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}
