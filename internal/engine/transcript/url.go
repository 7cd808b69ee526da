package transcript

import (
	"net/url"
	"regexp"
	"strings"
)

// VideoID is YouTube's fixed 11-character opaque video key.
type VideoID string

func (id VideoID) String() string { return string(id) }

// WatchURL returns the canonical watch-page URL for the video.
func (id VideoID) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + string(id)
}

// videoIDRe matches exactly one video identifier: 11 chars from the
// fixed alphabet, nothing more.
var videoIDRe = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

// watchHosts are the domains whose links we accept ("www." is stripped
// before the lookup).
var watchHosts = map[string]bool{
	"youtube.com":          true,
	"m.youtube.com":        true,
	"music.youtube.com":    true,
	"youtube-nocookie.com": true,
	"youtu.be":             true,
}

// ParseVideoURL resolves an arbitrary YouTube link into a VideoID.
// Recognized forms: watch?v=ID, youtu.be/ID, /embed/ID, /shorts/ID and
// /live/ID, each optionally followed by extra query params or fragments.
// Pure function, no network access.
func ParseVideoURL(raw string) (VideoID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", Errf(KindInvalidURL, "empty URL")
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", Errf(KindInvalidURL, "not a supported link: %q", raw)
	}

	host := strings.ToLower(u.Host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	host = strings.TrimPrefix(host, "www.")
	if !watchHosts[host] {
		return "", Errf(KindInvalidURL, "unrecognized host: %q", u.Host)
	}

	var candidate string
	switch {
	case host == "youtu.be":
		candidate = firstPathSegment(u.Path)
	case u.Query().Get("v") != "":
		candidate = trimIDRun(u.Query().Get("v"))
	default:
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/", "/v/"} {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				candidate = firstPathSegment("/" + rest)
				break
			}
		}
	}

	if !videoIDRe.MatchString(candidate) {
		return "", Errf(KindInvalidURL, "no 11-character video id in %q", raw)
	}
	return VideoID(candidate), nil
}

// firstPathSegment returns the first path segment with the id run
// terminated at &, ?, or #.
func firstPathSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return trimIDRun(path)
}

// trimIDRun cuts the candidate at the first character outside the id
// alphabet (& ? # and friends).
func trimIDRun(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		isID := c == '-' || c == '_' ||
			(c >= '0' && c <= '9') ||
			(c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z')
		if !isID {
			return s[:i]
		}
	}
	return s
}
