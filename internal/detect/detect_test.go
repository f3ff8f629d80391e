package detect

import (
	"testing"

	"github.com/sol-flex/aijobcareer/internal/models"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		entryURL string
		platform models.Platform
		slug     string
	}{
		{"greenhouse board", "https://boards.greenhouse.io/acme", models.PlatformGreenhouse, "acme"},
		{"greenhouse trailing slash", "https://boards.greenhouse.io/acme/", models.PlatformGreenhouse, "acme"},
		{"greenhouse nested path", "https://boards.greenhouse.io/acme/jobs/123", models.PlatformGreenhouse, "acme"},
		{"greenhouse with query", "https://boards.greenhouse.io/acme?gh_src=foo", models.PlatformGreenhouse, "acme"},
		{"lever board", "https://jobs.lever.co/acme", models.PlatformLever, "acme"},
		{"lever uppercase host", "https://JOBS.LEVER.CO/acme", models.PlatformLever, "acme"},
		{"ashby board", "https://jobs.ashbyhq.com/acme", models.PlatformAshby, "acme"},
		{"bare apex domain", "https://greenhouse.io/acme", models.PlatformGreenhouse, "acme"},
		{"unrelated host", "https://acme.com/careers", models.PlatformUnknown, ""},
		{"lookalike host", "https://notgreenhouse.io/acme", models.PlatformUnknown, ""},
		{"embedded in path only", "https://acme.com/greenhouse.io/acme", models.PlatformUnknown, ""},
		{"matched host without slug", "https://boards.greenhouse.io/", models.PlatformUnknown, ""},
		{"matched host empty path", "https://boards.greenhouse.io", models.PlatformUnknown, ""},
		{"empty input", "", models.PlatformUnknown, ""},
		{"not a url", "not a url at all", models.PlatformUnknown, ""},
		{"whitespace padded", "  https://jobs.lever.co/acme  ", models.PlatformLever, "acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform, slug := Detect(tt.entryURL)
			if platform != tt.platform {
				t.Errorf("Detect(%q) platform = %q, want %q", tt.entryURL, platform, tt.platform)
			}
			if slug != tt.slug {
				t.Errorf("Detect(%q) slug = %q, want %q", tt.entryURL, slug, tt.slug)
			}
		})
	}
}

func TestDetectNeverErrors(t *testing.T) {
	// Garbage input classifies as unknown rather than failing the account.
	for _, in := range []string{"://", "http://", "https:///path-only", "ftp://jobs.lever.co/acme"} {
		platform, _ := Detect(in)
		if in == "ftp://jobs.lever.co/acme" {
			// Scheme is not part of the rule set; host match is enough.
			if platform != models.PlatformLever {
				t.Errorf("Detect(%q) = %q, want %q", in, platform, models.PlatformLever)
			}
			continue
		}
		if platform != models.PlatformUnknown {
			t.Errorf("Detect(%q) = %q, want unknown", in, platform)
		}
	}
}
