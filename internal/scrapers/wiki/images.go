package wiki

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// mediawiki serves scaled images from
// /images/thumb/<a>/<ab>/<file>/<width>px-<file>, the original lives at
// /images/<a>/<ab>/<file>.
var thumbnailRegex = regexp.MustCompile(`/thumb(/.*?)/\d+px-[^/]*$`)

// FullSizeImageUrl rewrites a thumbnail url to the url of the full resolution
// image, other urls are returned unchanged.
func FullSizeImageUrl(src string) string {
	if !strings.Contains(src, "/thumb/") {
		return src
	}
	return thumbnailRegex.ReplaceAllString(src, "${1}")
}

// ImageFilename returns the last path segment of an image url.
func ImageFilename(src string) string {
	parsed, err := url.Parse(src)
	if err == nil && parsed.Path != "" {
		return path.Base(parsed.Path)
	}
	segments := strings.Split(src, "/")
	return segments[len(segments)-1]
}
