package normalize

import (
	"strings"
	"testing"
)

func validDraft() Draft {
	return Draft{
		Company:           "Acme",
		Title:             "Senior Backend Engineer",
		PrimaryRole:       "Engineering",
		PositionType:      "Full-Time",
		LocationType:      "Remote",
		Country:           "USA",
		Locations:         "Remote",
		Description:       "## About\nBuild things.",
		Currency:          "USD",
		ApplicationMethod: "Apply by website",
	}
}

func TestDraftValidate(t *testing.T) {
	d := validDraft()
	if err := d.Validate(); err != nil {
		t.Fatalf("valid draft failed validation: %v", err)
	}
}

func TestDraftValidateFailsClosed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		field  string
	}{
		{"missing title", func(d *Draft) { d.Title = "" }, "title"},
		{"whitespace title", func(d *Draft) { d.Title = "   " }, "title"},
		{"missing description", func(d *Draft) { d.Description = "" }, "description"},
		{"missing country", func(d *Draft) { d.Country = "" }, "country"},
		{"missing position type", func(d *Draft) { d.PositionType = "" }, "positionType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			err := d.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name missing field %q", err, tt.field)
			}
		})
	}
}

func TestDraftValidateOptionalFields(t *testing.T) {
	// Salary, equity, keywords, and logo are genuinely optional.
	d := validDraft()
	d.Keywords = ""
	d.CompanyLogo = ""
	d.SalaryMin = nil
	d.SalaryMax = nil
	if err := d.Validate(); err != nil {
		t.Fatalf("draft with optional fields empty failed validation: %v", err)
	}
}

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripJSONFences(tt.in); got != tt.want {
			t.Errorf("stripJSONFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerationInfoInt(t *testing.T) {
	info := map[string]any{
		"PromptTokens":     1200,
		"CompletionTokens": float64(340),
	}
	if got := generationInfoInt(info, "PromptTokens"); got != 1200 {
		t.Errorf("PromptTokens = %d, want 1200", got)
	}
	if got := generationInfoInt(info, "CompletionTokens"); got != 340 {
		t.Errorf("CompletionTokens = %d, want 340", got)
	}
	if got := generationInfoInt(info, "missing"); got != 0 {
		t.Errorf("missing key = %d, want 0", got)
	}
	if got := generationInfoInt(nil, "PromptTokens"); got != 0 {
		t.Errorf("nil info = %d, want 0", got)
	}
}

func TestExtractionCostRates(t *testing.T) {
	// 1M prompt tokens cost $0.150, 1M completion tokens cost $0.600.
	cost := float64(1_000_000)*promptTokenRate + float64(1_000_000)*completionTokenRate
	if cost < 0.749 || cost > 0.751 {
		t.Errorf("combined per-million cost = %f, want 0.75", cost)
	}
}
