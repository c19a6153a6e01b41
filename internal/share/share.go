// Package share builds social share links for a fortune.
package share

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	PlatformTwitter  = "twitter"
	PlatformFacebook = "facebook"
)

// Platforms lists the supported share targets.
var Platforms = []string{PlatformTwitter, PlatformFacebook}

// Text is the message shared alongside the page URL.
func Text(fortune string) string {
	return "Check out my 2025 fortune: " + fortune
}

// Links returns the share URL for each platform, or nil when fortune is empty.
func Links(fortune, pageURL string) map[string]string {
	if fortune == "" {
		return nil
	}

	text := escape(Text(fortune))
	page := escape(pageURL)

	return map[string]string{
		PlatformTwitter:  fmt.Sprintf("https://twitter.com/intent/tweet?text=%s&url=%s", text, page),
		PlatformFacebook: fmt.Sprintf("https://www.facebook.com/sharer/sharer.php?u=%s&quote=%s", page, text),
	}
}

// Link returns the share URL for one platform.
func Link(platform, fortune, pageURL string) (string, error) {
	links := Links(fortune, pageURL)
	if links == nil {
		return "", fmt.Errorf("no fortune to share")
	}
	link, ok := links[strings.ToLower(platform)]
	if !ok {
		return "", fmt.Errorf("unknown share platform %q (want one of %s)", platform, strings.Join(Platforms, ", "))
	}
	return link, nil
}

// escape percent-encodes s for a query value, using %20 for spaces.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
