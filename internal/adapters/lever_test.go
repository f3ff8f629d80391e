package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sol-flex/aijobcareer/internal/models"
	"github.com/sol-flex/aijobcareer/internal/syncerrors"
)

const leverIndexBody = `[
  {"id": "aa-1", "text": "Smart Contract Engineer ", "hostedUrl": "https://jobs.lever.co/acme/aa-1", "categories": {"location": "Remote", "team": "Protocol"}},
  {"id": "aa-2", "text": "Designer", "hostedUrl": "https://jobs.lever.co/acme/aa-2", "categories": {"location": "London, UK"}},
  {"id": "", "text": "Broken", "hostedUrl": "https://jobs.lever.co/acme/broken"}
]`

const leverDetailBody = `{
  "id": "aa-1",
  "text": "Smart Contract Engineer",
  "hostedUrl": "https://jobs.lever.co/acme/aa-1",
  "createdAt": 1767225600000,
  "categories": {"location": "Remote", "team": "Protocol", "department": "Engineering"},
  "description": "<div>Intro paragraph</div>",
  "descriptionPlain": "Intro paragraph",
  "lists": [
    {"text": "Responsibilities", "content": "<li>Write Solidity</li><li>Review audits</li>"},
    {"text": "Benefits", "content": "<li>Health insurance</li>"}
  ],
  "additionalPlain": "We are an equal opportunity employer."
}`

func TestLeverFetchIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acme" || r.URL.Query().Get("mode") != "json" {
			t.Errorf("unexpected request %q", r.URL.String())
		}
		w.Write([]byte(leverIndexBody))
	}))
	defer srv.Close()

	adapter := newLever(testDeps(srv.URL))
	refs, err := adapter.FetchIndex(context.Background(), "acme")
	if err != nil {
		t.Fatalf("FetchIndex: %v", err)
	}

	if len(refs) != 2 {
		t.Fatalf("refs = %d, want 2 (the id-less posting is skipped)", len(refs))
	}
	if refs[0].Title != "Smart Contract Engineer" {
		t.Errorf("refs[0].Title = %q, want trimmed title", refs[0].Title)
	}
	if refs[0].Location != "Remote" {
		t.Errorf("refs[0].Location = %q", refs[0].Location)
	}
}

func TestLeverFetchDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acme/aa-1" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(leverDetailBody))
	}))
	defer srv.Close()

	adapter := newLever(testDeps(srv.URL))
	ref := models.SourceListingRef{ID: "aa-1", URL: "https://jobs.lever.co/acme/aa-1"}

	detail, err := adapter.FetchDetail(context.Background(), "acme", ref)
	if err != nil {
		t.Fatalf("FetchDetail: %v", err)
	}

	if detail.CategoryHint != "Protocol" {
		t.Errorf("CategoryHint = %q, want team before department", detail.CategoryHint)
	}
	if want := time.UnixMilli(1767225600000); !detail.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", detail.PublishedAt, want)
	}

	for _, section := range []string{
		"Intro paragraph",
		"## Responsibilities",
		"- Write Solidity",
		"- Review audits",
		"## Benefits",
		"equal opportunity employer",
	} {
		if !strings.Contains(detail.CombinedText, section) {
			t.Errorf("CombinedText missing %q:\n%s", section, detail.CombinedText)
		}
	}
	if strings.Contains(detail.CombinedText, "<li>") {
		t.Errorf("CombinedText still carries markup:\n%s", detail.CombinedText)
	}
}

func TestLeverFetchDetailMissingTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id": "aa-9", "text": ""}`))
	}))
	defer srv.Close()

	adapter := newLever(testDeps(srv.URL))
	_, err := adapter.FetchDetail(context.Background(), "acme", models.SourceListingRef{ID: "aa-9"})
	if err == nil {
		t.Fatal("expected error for missing title")
	}
	if !syncerrors.Is(err, syncerrors.ErrTypeNormalization) {
		t.Errorf("error type = %v, want normalization", syncerrors.TypeOf(err))
	}
}

func TestCombineLeverContent(t *testing.T) {
	p := &leverPosting{
		DescriptionPlain: "About the role.",
		Lists: []struct {
			Text    string `json:"text"`
			Content string `json:"content"`
		}{
			{Text: "Requirements", Content: "<li>5 years Go</li>"},
		},
		AdditionalPlain: "Apply now.",
	}

	got := combineLeverContent(p)
	want := "About the role.\n\n## Requirements\n- 5 years Go\n\n\nApply now."
	if got != want {
		t.Errorf("combineLeverContent =\n%q\nwant\n%q", got, want)
	}
}

func TestCombineLeverContentEmpty(t *testing.T) {
	if got := combineLeverContent(&leverPosting{}); got != "" {
		t.Errorf("combineLeverContent(empty) = %q, want empty", got)
	}
}
