// Package detect classifies an account's entry URL to the adapter that can
// service it. Detection is a pure pattern match over a fixed, ordered rule
// set; it performs no network calls.
package detect

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/sol-flex/aijobcareer/internal/models"
)

// Ordered: first match wins.
var rules = []struct {
	platform models.Platform
	host     *regexp.Regexp
}{
	{models.PlatformGreenhouse, regexp.MustCompile(`(?i)(^|\.)greenhouse\.io$`)},
	{models.PlatformLever, regexp.MustCompile(`(?i)(^|\.)lever\.co$`)},
	{models.PlatformAshby, regexp.MustCompile(`(?i)(^|\.)ashbyhq\.com$`)},
}

// Detect returns the platform serving entryURL plus the account identifier
// embedded in its path (the board slug). Malformed URLs and URLs matching no
// rule yield PlatformUnknown; an unknown platform is not an error condition.
func Detect(entryURL string) (models.Platform, string) {
	u, err := url.Parse(strings.TrimSpace(entryURL))
	if err != nil || u.Host == "" {
		return models.PlatformUnknown, ""
	}

	host := u.Hostname()
	for _, rule := range rules {
		if !rule.host.MatchString(host) {
			continue
		}
		slug := firstPathSegment(u.Path)
		if slug == "" {
			// Matched host but no board slug to fetch with.
			return models.PlatformUnknown, ""
		}
		return rule.platform, slug
	}

	return models.PlatformUnknown, ""
}

// firstPathSegment tolerates trailing slashes; query strings are already
// stripped by url.Parse.
func firstPathSegment(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}
