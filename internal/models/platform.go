package models

// Platform identifies which applicant tracking system hosts an account's
// listings. PlatformGeneric marks accounts whose career page has no supported
// API and is scraped as plain HTML.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformAshby      Platform = "ashby"
	PlatformGeneric    Platform = "generic"
	PlatformUnknown    Platform = "unknown"
)

func (p Platform) Supported() bool {
	switch p {
	case PlatformGreenhouse, PlatformLever, PlatformAshby, PlatformGeneric:
		return true
	}
	return false
}

// Structured reports whether the platform's detail payload can be mapped to
// the canonical schema by fixed rules, without generative extraction.
func (p Platform) Structured() bool {
	return p == PlatformGreenhouse || p == PlatformLever
}
