package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sol-flex/aijobcareer/internal/models"
)

func TestGenericFetchIndex(t *testing.T) {
	page := `<html><body>
		<nav><a href="/about">About</a><a href="#top">Top</a></nav>
		<a href="/jobs/backend-engineer">Backend   Engineer</a>
		<a href="/jobs/backend-engineer">Backend Engineer (duplicate)</a>
		<a href="https://other.example/careers/designer">Designer</a>
		<a href="mailto:jobs@acme.test">Email us</a>
		<a href="/blog/hiring-update">Hiring update</a>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/careers" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(page))
	}))
	defer srv.Close()

	adapter := newGeneric(testDeps(srv.URL))
	refs, err := adapter.FetchIndex(context.Background(), srv.URL+"/careers")
	if err != nil {
		t.Fatalf("FetchIndex: %v", err)
	}

	if len(refs) != 2 {
		t.Fatalf("refs = %d, want 2: %+v", len(refs), refs)
	}
	if refs[0].URL != srv.URL+"/jobs/backend-engineer" {
		t.Errorf("refs[0].URL = %q", refs[0].URL)
	}
	if refs[0].Title != "Backend Engineer" {
		t.Errorf("refs[0].Title = %q, want collapsed whitespace", refs[0].Title)
	}
	if refs[1].URL != "https://other.example/careers/designer" {
		t.Errorf("refs[1].URL = %q", refs[1].URL)
	}
	// The identifier is the entry URL, so the ref ID doubles as the URL.
	if refs[0].ID != refs[0].URL {
		t.Errorf("refs[0].ID = %q, want URL", refs[0].ID)
	}
}

func TestGenericFetchIndexInvalidEntryURL(t *testing.T) {
	adapter := newGeneric(testDeps("http://example.invalid"))
	if _, err := adapter.FetchIndex(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error for invalid entry url")
	}
}

func TestGenericFetchDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><body><h1>Backend Engineer</h1><script>tracking()</script></body></html>`))
	}))
	defer srv.Close()

	adapter := newGeneric(testDeps(srv.URL))
	ref := models.SourceListingRef{ID: srv.URL + "/jobs/be", URL: srv.URL + "/jobs/be", Title: "Backend Engineer"}

	detail, err := adapter.FetchDetail(context.Background(), srv.URL+"/careers", ref)
	if err != nil {
		t.Fatalf("FetchDetail: %v", err)
	}
	if detail.Platform != models.PlatformGeneric {
		t.Errorf("Platform = %q", detail.Platform)
	}
	if !strings.Contains(detail.HTML, "Backend Engineer") {
		t.Errorf("HTML = %q", detail.HTML)
	}
	if strings.Contains(detail.HTML, "tracking()") {
		t.Errorf("HTML kept script content: %q", detail.HTML)
	}
}

func TestLooksLikePosting(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://acme.test/jobs/backend", true},
		{"https://acme.test/job/1234", true},
		{"https://acme.test/careers/designer", true},
		{"https://acme.test/positions/pm", true},
		{"https://acme.test/openings/ops", true},
		{"https://acme.test/JOBS/backend", true},
		{"https://acme.test/about", false},
		{"https://acme.test/blog/jobs-report", false},
	}
	for _, tt := range tests {
		if got := looksLikePosting(tt.url); got != tt.want {
			t.Errorf("looksLikePosting(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestResolveHref(t *testing.T) {
	base, _ := url.Parse("https://acme.test/careers")

	tests := []struct {
		href string
		want string
	}{
		{"/jobs/1", "https://acme.test/jobs/1"},
		{"jobs/2", "https://acme.test/jobs/2"},
		{"https://other.test/jobs/3", "https://other.test/jobs/3"},
		{"/jobs/4#apply", "https://acme.test/jobs/4"},
		{"#apply", ""},
		{"mailto:jobs@acme.test", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := resolveHref(base, tt.href); got != tt.want {
			t.Errorf("resolveHref(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}
