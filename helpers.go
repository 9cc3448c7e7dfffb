package rolniknysa

import (
	"net/url"
	"path"
)

// buildURL joins a base URL with path segments.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	return u.String()
}

// previewText cuts s to limit runes, appending an ellipsis marker only
// when something was cut.
func previewText(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
