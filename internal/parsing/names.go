package parsing

import (
	"net/url"
	"path"
	"strings"

	"postgrab/internal/domain/consts"
	"postgrab/internal/sanitize"
)

// CanonicalName builds "{time}_{title}_{desc}.mp4" with title and desc sanitized.
func CanonicalName(time, title, desc string) string {
	var b strings.Builder
	b.Grow(len(time) + len(title) + len(desc) + len(consts.OutputExt) + 2)
	b.WriteString(time)
	b.WriteString(consts.NameSep)
	b.WriteString(sanitize.Sanitize(title))
	b.WriteString(consts.NameSep)
	b.WriteString(sanitize.Sanitize(desc))
	b.WriteString(consts.OutputExt)
	return b.String()
}

// ArtifactPrefix returns the final path segment of a source URL.
//
// The downloader names its output file starting with this segment.
func ArtifactPrefix(sourceURL string) string {
	if u, err := url.Parse(sourceURL); err == nil && u.Path != "" {
		if base := path.Base(u.Path); base != "/" && base != "." {
			return base
		}
	}
	raw := strings.TrimRight(sourceURL, "/")
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		return raw[i+1:]
	}
	return raw
}
