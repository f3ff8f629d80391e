package models

import "testing"

func TestListingIDDeterministic(t *testing.T) {
	a := ListingID("Acme Labs", "https://jobs.lever.co/acme/1")
	b := ListingID("Acme Labs", "https://jobs.lever.co/acme/1")
	if a != b {
		t.Errorf("same inputs produced different IDs: %q vs %q", a, b)
	}
}

func TestListingIDDistinguishesInputs(t *testing.T) {
	base := ListingID("Acme Labs", "https://jobs.lever.co/acme/1")

	if got := ListingID("Acme Labs", "https://jobs.lever.co/acme/2"); got == base {
		t.Error("different URLs produced the same ID")
	}
	if got := ListingID("Other Co", "https://jobs.lever.co/acme/1"); got == base {
		t.Error("different accounts produced the same ID")
	}
	// The separator keeps (a+b, c) and (a, b+c) apart.
	if ListingID("ab", "c") == ListingID("a", "bc") {
		t.Error("ambiguous concatenation in ID derivation")
	}
}

func TestSourceDetailBinaryRoundTrip(t *testing.T) {
	in := SourceDetail{
		Platform:     PlatformLever,
		Ref:          SourceListingRef{ID: "1", URL: "https://jobs.lever.co/acme/1", Title: "Engineer"},
		CategoryHint: "Engineering",
		Title:        "Engineer",
		CombinedText: "body text",
	}

	data, err := in.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	var out SourceDetail
	if err := out.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if out.Ref.URL != in.Ref.URL || out.CombinedText != in.CombinedText || out.Platform != in.Platform {
		t.Errorf("round trip lost data: %+v", out)
	}
}

func TestPlatformStructured(t *testing.T) {
	tests := []struct {
		platform Platform
		want     bool
	}{
		{PlatformGreenhouse, true},
		{PlatformLever, true},
		{PlatformAshby, false},
		{PlatformGeneric, false},
		{PlatformUnknown, false},
	}
	for _, tt := range tests {
		if got := tt.platform.Structured(); got != tt.want {
			t.Errorf("%q.Structured() = %v, want %v", tt.platform, got, tt.want)
		}
	}
}

func TestPlatformSupported(t *testing.T) {
	if PlatformUnknown.Supported() {
		t.Error("unknown platform reports supported")
	}
	for _, p := range []Platform{PlatformGreenhouse, PlatformLever, PlatformAshby, PlatformGeneric} {
		if !p.Supported() {
			t.Errorf("%q.Supported() = false", p)
		}
	}
}
