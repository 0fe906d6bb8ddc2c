package richtext

import (
	"net/url"
	"strings"
)

// YouTubeEmbedURL converts a watch, share, or embed URL into the canonical
// embeddable form. Unrecognized URLs return "".
func YouTubeEmbedURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}

	switch strings.TrimPrefix(u.Host, "www.") {
	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		if id := strings.TrimPrefix(u.Path, "/embed/"); id != u.Path && id != "" {
			return "https://www.youtube.com/embed/" + id
		}
		if u.Path == "/watch" {
			if id := u.Query().Get("v"); id != "" {
				return "https://www.youtube.com/embed/" + id
			}
		}
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	}
	return ""
}
