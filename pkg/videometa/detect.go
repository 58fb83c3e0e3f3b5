package videometa

import (
	"net/url"
	"regexp"
	"strings"
)

var youtubeIDRe = regexp.MustCompile(`(?:youtu\.be/|v/|u/\w/|embed/|shorts/|watch\?v=)([^#&?/]+)`)

var vimeoIDRe = regexp.MustCompile(`vimeo\.com/(?:video/)?(\d+)`)

// Detect classifies a user-submitted URL and extracts the provider-native
// video id. It returns ErrUnsupportedURL for anything that is not a
// parseable YouTube or Vimeo link.
func Detect(rawURL string) (provider, src string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", "", ErrUnsupportedURL
	}

	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		m := youtubeIDRe.FindStringSubmatch(rawURL)
		if m == nil {
			return "", "", ErrUnsupportedURL
		}
		return "youtube", m[1], nil
	case strings.Contains(lower, "vimeo.com"):
		m := vimeoIDRe.FindStringSubmatch(rawURL)
		if m == nil {
			return "", "", ErrUnsupportedURL
		}
		return "vimeo", m[1], nil
	}

	return "", "", ErrUnsupportedURL
}
