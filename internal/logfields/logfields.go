package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath     = "path"
	KeyFile     = "file"
	KeySlug     = "slug"
	KeyTitle    = "title"
	KeyURL      = "url"
	KeyOutput   = "output"
	KeyProfile  = "profile"
	KeyCount    = "count"
	KeyDuration = "duration_ms"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Output(o string) slog.Attr       { return slog.String(KeyOutput, o) }
func Profile(p string) slog.Attr      { return slog.String(KeyProfile, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDuration, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
