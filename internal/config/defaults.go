package config

import (
	"path/filepath"
	"strings"
)

// Default values applied after unmarshalling. These match the shape of
// the original site: pagination off, feeds off while editing, English,
// content/output/theme side by side with the settings file.
const (
	DefaultContentDir = "content"
	DefaultOutputDir  = "output"
	DefaultThemeDir   = "theme"
	DefaultLanguage   = "en"

	DefaultPublishRemote = "origin"
	DefaultPublishBranch = "gh-pages"
)

func applyDefaults(s *Settings, profile Profile) {
	if s.Paths.Content == "" {
		s.Paths.Content = DefaultContentDir
	}
	if s.Paths.Output == "" {
		s.Paths.Output = DefaultOutputDir
	}
	if s.Paths.Theme == "" {
		s.Paths.Theme = DefaultThemeDir
	}
	if s.Site.Language == "" {
		s.Site.Language = DefaultLanguage
	}
	if s.Site.URL == "" && profile == ProfileDebug {
		s.Site.URL = "http://localhost:8000"
	}
	if s.Pagination.Enabled && s.Pagination.Size == 0 {
		s.Pagination.Size = 10
	}
	if s.DefaultStatus == "" {
		s.DefaultStatus = "published"
	}
	if s.Publish.Remote == "" {
		s.Publish.Remote = DefaultPublishRemote
	}
	if s.Publish.Branch == "" {
		s.Publish.Branch = DefaultPublishBranch
	}
	if profile == ProfileDebug {
		// Editing profile never emits feeds and always uses relative
		// URLs so the output works from file:// and any port.
		s.Feeds = Feeds{}
		s.RelativeURLs = true
	}
}

// publishOverridePath derives the sibling override file name:
// settings.yaml -> settings.publish.yaml.
func publishOverridePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".publish" + ext
}
